package serializer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wmbogo12/profiles-rest-api/internal/model"
	"github.com/wmbogo12/profiles-rest-api/internal/repository"
)

// UserProfileSerializer handles the id, email, name and write-only password fields.
type UserProfileSerializer struct {
	store  ProfileStore
	hasher Hasher
}

var _ Serializer[model.UserProfileInput, model.UserProfile, model.UserProfileResponse] = (*UserProfileSerializer)(nil)

// NewUserProfileSerializer creates a new UserProfileSerializer.
func NewUserProfileSerializer(store ProfileStore, hasher Hasher) *UserProfileSerializer {
	return &UserProfileSerializer{store: store, hasher: hasher}
}

func (s *UserProfileSerializer) Validate(in model.UserProfileInput, partial bool) error {
	ve := &ValidationError{}
	checkString(ve, "email", in.Email, true, partial, "max=255,email")
	checkString(ve, "name", in.Name, true, partial, "max=255")
	checkString(ve, "password", in.Password, true, partial, "")
	return ve.errOrNil()
}

func (s *UserProfileSerializer) ToRepresentation(p *model.UserProfile) model.UserProfileResponse {
	return model.UserProfileResponse{ID: p.ID, Email: p.Email, Name: p.Name}
}

// Create hashes the password and persists a new profile. The input must
// already have passed full validation.
func (s *UserProfileSerializer) Create(ctx context.Context, in model.UserProfileInput) (*model.UserProfile, error) {
	hash, err := s.hasher.Hash(*in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	p := &model.UserProfile{
		Email:        NormalizeEmail(*in.Email),
		Name:         *in.Name,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return p, nil
}

// Update applies the supplied fields to p. A supplied password is hashed
// before it is stored.
func (s *UserProfileSerializer) Update(ctx context.Context, p *model.UserProfile, in model.UserProfileInput, _ bool) (*model.UserProfile, error) {
	updated := *p
	if in.Email != nil {
		updated.Email = NormalizeEmail(*in.Email)
	}
	if in.Name != nil {
		updated.Name = *in.Name
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		updated.PasswordHash = hash
	}

	if err := s.store.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &updated, nil
}

// NormalizeEmail lower-cases the domain part of an email address.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
