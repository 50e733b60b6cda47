// Package serializer converts between request payloads, stored models and
// served representations, validating field constraints on the way in.
package serializer

import (
	"context"
	"errors"

	"github.com/wmbogo12/profiles-rest-api/internal/model"
)

// ErrEmailTaken is returned when a create or update would duplicate an email.
var ErrEmailTaken = errors.New("email already taken")

// Validator checks an input payload. Partial validation skips required checks
// for absent fields.
type Validator[In any] interface {
	Validate(in In, partial bool) error
}

// Representer renders a stored model into its served shape.
type Representer[M, Out any] interface {
	ToRepresentation(m *M) Out
}

// Serializer is a model-backed serializer that can also persist validated input.
type Serializer[In, M, Out any] interface {
	Validator[In]
	Representer[M, Out]
	Create(ctx context.Context, in In) (*M, error)
	Update(ctx context.Context, m *M, in In, partial bool) (*M, error)
}

// ProfileStore persists user profiles.
type ProfileStore interface {
	Create(ctx context.Context, p *model.UserProfile) error
	Update(ctx context.Context, p *model.UserProfile) error
}

// FeedStore persists feed items.
type FeedStore interface {
	Create(ctx context.Context, item *model.ProfileFeedItem) error
	Update(ctx context.Context, item *model.ProfileFeedItem) error
}

// Hasher turns a plaintext password into its stored form.
type Hasher interface {
	Hash(password string) (string, error)
}
