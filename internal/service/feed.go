package service

import (
	"context"
	"errors"

	"github.com/wmbogo12/profiles-rest-api/internal/events"
	"github.com/wmbogo12/profiles-rest-api/internal/model"
	"github.com/wmbogo12/profiles-rest-api/internal/repository"
	"github.com/wmbogo12/profiles-rest-api/internal/serializer"
)

// FeedService implements the profile feed viewset actions. Every action
// requires an authenticated caller.
type FeedService struct {
	repo       *repository.FeedRepository
	profiles   *repository.ProfileRepository
	serializer *serializer.ProfileFeedItemSerializer
	events     events.Publisher
}

// NewFeedService creates a new FeedService.
func NewFeedService(repo *repository.FeedRepository, profiles *repository.ProfileRepository, pub events.Publisher) *FeedService {
	return &FeedService{
		repo:       repo,
		profiles:   profiles,
		serializer: serializer.NewProfileFeedItemSerializer(repo),
		events:     pub,
	}
}

// List returns all feed items ordered by ID.
func (s *FeedService) List(ctx context.Context, callerID int64) ([]model.FeedItemResponse, error) {
	if callerID == 0 {
		return nil, ErrNotAuthenticated
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.FeedItemResponse, 0, len(items))
	for i := range items {
		out = append(out, s.serializer.ToRepresentation(&items[i]))
	}
	return out, nil
}

// Get returns a single feed item.
func (s *FeedService) Get(ctx context.Context, callerID, id int64) (model.FeedItemResponse, error) {
	if callerID == 0 {
		return model.FeedItemResponse{}, ErrNotAuthenticated
	}

	item, err := s.load(ctx, id)
	if err != nil {
		return model.FeedItemResponse{}, err
	}
	return s.serializer.ToRepresentation(item), nil
}

// Create stores a status update owned by the caller, whatever the body says.
func (s *FeedService) Create(ctx context.Context, callerID int64, in model.FeedItemInput) (model.FeedItemResponse, error) {
	if callerID == 0 {
		return model.FeedItemResponse{}, ErrNotAuthenticated
	}
	if _, err := s.profiles.GetByID(ctx, callerID); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return model.FeedItemResponse{}, ErrNotAuthenticated
		}
		return model.FeedItemResponse{}, err
	}
	if err := s.serializer.Validate(in, false); err != nil {
		return model.FeedItemResponse{}, err
	}

	in.UserProfileID = callerID
	item, err := s.serializer.Create(ctx, in)
	if err != nil {
		return model.FeedItemResponse{}, err
	}

	rep := s.serializer.ToRepresentation(item)
	publish(ctx, s.events, events.TopicFeedItemCreated, rep.ID, rep)
	return rep, nil
}

// Update edits the status text of one of the caller's own items.
func (s *FeedService) Update(ctx context.Context, callerID, id int64, in model.FeedItemInput, partial bool) (model.FeedItemResponse, error) {
	if callerID == 0 {
		return model.FeedItemResponse{}, ErrNotAuthenticated
	}

	item, err := s.load(ctx, id)
	if err != nil {
		return model.FeedItemResponse{}, err
	}
	if err := checkOwner(callerID, item.UserProfileID); err != nil {
		return model.FeedItemResponse{}, err
	}
	if err := s.serializer.Validate(in, partial); err != nil {
		return model.FeedItemResponse{}, err
	}

	item, err = s.serializer.Update(ctx, item, in, partial)
	if err != nil {
		if errors.Is(err, repository.ErrFeedItemNotFound) {
			return model.FeedItemResponse{}, ErrNotFound
		}
		return model.FeedItemResponse{}, err
	}
	return s.serializer.ToRepresentation(item), nil
}

// Delete removes one of the caller's own items.
func (s *FeedService) Delete(ctx context.Context, callerID, id int64) error {
	if callerID == 0 {
		return ErrNotAuthenticated
	}

	item, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner(callerID, item.UserProfileID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrFeedItemNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *FeedService) load(ctx context.Context, id int64) (*model.ProfileFeedItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFeedItemNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}
