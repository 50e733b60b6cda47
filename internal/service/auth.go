package service

import (
	"context"
	"errors"

	"github.com/wmbogo12/profiles-rest-api/internal/model"
	"github.com/wmbogo12/profiles-rest-api/internal/repository"
	"github.com/wmbogo12/profiles-rest-api/internal/serializer"
)

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(password, encodedHash string) (bool, error)
}

// TokenIssuer signs an auth token for a profile.
type TokenIssuer interface {
	Issue(profileID int64) (string, error)
}

// AuthService issues auth tokens for valid credentials.
type AuthService struct {
	repo     *repository.ProfileRepository
	verifier PasswordVerifier
	tokens   TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.ProfileRepository, verifier PasswordVerifier, tokens TokenIssuer) *AuthService {
	return &AuthService{
		repo:     repo,
		verifier: verifier,
		tokens:   tokens,
	}
}

// Login authenticates a profile by email and password and returns a token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	if err := (serializer.AuthTokenSerializer{}).Validate(req, false); err != nil {
		return model.TokenResponse{}, err
	}

	email := req.Username
	if email == "" {
		email = req.Email
	}

	p, err := s.repo.GetByEmail(ctx, serializer.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, err
	}

	match, err := s.verifier.Verify(req.Password, p.PasswordHash)
	if err != nil {
		return model.TokenResponse{}, err
	}
	if !match {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(p.ID)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{Token: token}, nil
}
