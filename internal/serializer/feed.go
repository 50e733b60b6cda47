package serializer

import (
	"context"

	"github.com/wmbogo12/profiles-rest-api/internal/model"
)

// ProfileFeedItemSerializer exposes id, user_profile, status_text and
// created_on. Only status_text is writable.
type ProfileFeedItemSerializer struct {
	store FeedStore
}

var _ Serializer[model.FeedItemInput, model.ProfileFeedItem, model.FeedItemResponse] = (*ProfileFeedItemSerializer)(nil)

// NewProfileFeedItemSerializer creates a new ProfileFeedItemSerializer.
func NewProfileFeedItemSerializer(store FeedStore) *ProfileFeedItemSerializer {
	return &ProfileFeedItemSerializer{store: store}
}

func (s *ProfileFeedItemSerializer) Validate(in model.FeedItemInput, partial bool) error {
	ve := &ValidationError{}
	checkString(ve, "status_text", in.StatusText, true, partial, "max=255")
	return ve.errOrNil()
}

func (s *ProfileFeedItemSerializer) ToRepresentation(item *model.ProfileFeedItem) model.FeedItemResponse {
	return model.FeedItemResponse{
		ID:          item.ID,
		UserProfile: item.UserProfileID,
		StatusText:  item.StatusText,
		CreatedOn:   item.CreatedOn,
	}
}

// Create persists a feed item owned by in.UserProfileID.
func (s *ProfileFeedItemSerializer) Create(ctx context.Context, in model.FeedItemInput) (*model.ProfileFeedItem, error) {
	item := &model.ProfileFeedItem{
		UserProfileID: in.UserProfileID,
		StatusText:    *in.StatusText,
	}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ProfileFeedItemSerializer) Update(ctx context.Context, item *model.ProfileFeedItem, in model.FeedItemInput, _ bool) (*model.ProfileFeedItem, error) {
	updated := *item
	if in.StatusText != nil {
		updated.StatusText = *in.StatusText
	}
	if err := s.store.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
