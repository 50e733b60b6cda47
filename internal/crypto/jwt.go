package crypto

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "profiles-api"
	tokenAudience = "profiles-api-clients"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the profile ID in the subject as a decimal string.
type Claims struct {
	jwt.RegisteredClaims
}

// ProfileID returns the profile the token was issued to.
func (c *Claims) ProfileID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// TokenManager issues and verifies HS256 auth tokens for profiles.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

// NewTokenManager returns a manager whose tokens expire after ttl.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(tokenIssuer),
			jwt.WithAudience(tokenAudience),
			jwt.WithExpirationRequired(),
		),
	}
}

// Issue signs a token for the given profile. Every token gets its own ID.
func (m *TokenManager) Issue(profileID int64) (string, error) {
	if profileID <= 0 {
		return "", fmt.Errorf("issuing token for profile %d: invalid id", profileID)
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(profileID, 10),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks the signature and registered claims of a token and returns
// the profile ID it was issued to.
func (m *TokenManager) Verify(token string) (int64, error) {
	var claims Claims
	_, err := m.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return 0, ErrInvalidToken
	}
	return claims.ProfileID()
}
