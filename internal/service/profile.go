package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/wmbogo12/profiles-rest-api/internal/cache"
	"github.com/wmbogo12/profiles-rest-api/internal/events"
	"github.com/wmbogo12/profiles-rest-api/internal/model"
	"github.com/wmbogo12/profiles-rest-api/internal/repository"
	"github.com/wmbogo12/profiles-rest-api/internal/serializer"
)

// ProfileService implements the user profile viewset actions.
type ProfileService struct {
	repo       *repository.ProfileRepository
	serializer *serializer.UserProfileSerializer
	cache      cache.ProfileCache
	events     events.Publisher
}

// NewProfileService creates a new ProfileService.
func NewProfileService(repo *repository.ProfileRepository, hasher serializer.Hasher, c cache.ProfileCache, pub events.Publisher) *ProfileService {
	return &ProfileService{
		repo:       repo,
		serializer: serializer.NewUserProfileSerializer(repo, hasher),
		cache:      c,
		events:     pub,
	}
}

// List returns every profile, optionally filtered by a name/email search term.
func (s *ProfileService) List(ctx context.Context, search string) ([]model.UserProfileResponse, error) {
	profiles, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, err
	}

	out := make([]model.UserProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, s.serializer.ToRepresentation(&profiles[i]))
	}
	return out, nil
}

// Get returns a single profile, served from cache when possible.
func (s *ProfileService) Get(ctx context.Context, id int64) (model.UserProfileResponse, error) {
	cached, err := s.cache.Get(ctx, id)
	if err == nil {
		return *cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("profile cache read failed", "id", id, "error", err)
	}

	p, err := s.load(ctx, id)
	if err != nil {
		return model.UserProfileResponse{}, err
	}

	rep := s.serializer.ToRepresentation(p)
	if err := s.cache.Set(ctx, rep); err != nil {
		slog.Warn("profile cache write failed", "id", id, "error", err)
	}
	return rep, nil
}

// Create validates and stores a new profile. Anyone may register.
func (s *ProfileService) Create(ctx context.Context, in model.UserProfileInput) (model.UserProfileResponse, error) {
	if err := s.serializer.Validate(in, false); err != nil {
		return model.UserProfileResponse{}, err
	}

	p, err := s.serializer.Create(ctx, in)
	if err != nil {
		return model.UserProfileResponse{}, mapSerializerError(err)
	}

	rep := s.serializer.ToRepresentation(p)
	s.publish(ctx, events.TopicProfileCreated, rep.ID, rep)
	return rep, nil
}

// Update modifies the caller's own profile. partial selects PATCH semantics.
func (s *ProfileService) Update(ctx context.Context, callerID, id int64, in model.UserProfileInput, partial bool) (model.UserProfileResponse, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return model.UserProfileResponse{}, err
	}
	if err := checkOwner(callerID, p.ID); err != nil {
		return model.UserProfileResponse{}, err
	}
	if err := s.serializer.Validate(in, partial); err != nil {
		return model.UserProfileResponse{}, err
	}

	p, err = s.serializer.Update(ctx, p, in, partial)
	if err != nil {
		return model.UserProfileResponse{}, mapSerializerError(err)
	}

	s.invalidate(ctx, id)
	rep := s.serializer.ToRepresentation(p)
	s.publish(ctx, events.TopicProfileUpdated, rep.ID, rep)
	return rep, nil
}

// Delete removes the caller's own profile and, with it, their feed.
func (s *ProfileService) Delete(ctx context.Context, callerID, id int64) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner(callerID, p.ID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.invalidate(ctx, id)
	s.publish(ctx, events.TopicProfileDeleted, id, s.serializer.ToRepresentation(p))
	return nil
}

func (s *ProfileService) load(ctx context.Context, id int64) (*model.UserProfile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, id); err != nil {
		slog.Warn("profile cache invalidation failed", "id", id, "error", err)
	}
}

func (s *ProfileService) publish(ctx context.Context, topic string, id int64, value any) {
	publish(ctx, s.events, topic, id, value)
}

func publish(ctx context.Context, pub events.Publisher, topic string, id int64, value any) {
	if err := pub.Publish(ctx, topic, strconv.FormatInt(id, 10), value); err != nil {
		slog.Warn("event publish failed", "topic", topic, "id", id, "error", err)
	}
}

func mapSerializerError(err error) error {
	switch {
	case errors.Is(err, serializer.ErrEmailTaken):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrProfileNotFound):
		return ErrNotFound
	default:
		return err
	}
}
