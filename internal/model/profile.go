package model

import "time"

// UserProfile represents a user profile in the database.
type UserProfile struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfileInput is the writable side of a profile. Nil fields were absent
// from the request body.
type UserProfileInput struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// UserProfileResponse is the only shape a profile is ever served in.
type UserProfileResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginRequest accepts the email either as "username" or as "email".
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the auth token issued on login.
type TokenResponse struct {
	Token string `json:"token"`
}
