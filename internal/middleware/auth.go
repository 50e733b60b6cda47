package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	requestIDKey contextKey = "requestID"
)

// TokenVerifier resolves an auth token to the profile it was issued to.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// ProfileChecker reports whether a profile still exists.
type ProfileChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// TokenAuth returns middleware that authenticates a "Token <jwt>" or
// "Bearer <jwt>" Authorization header. Requests without the header pass
// through anonymously; a header that fails validation is rejected, as is a
// token whose profile has been deleted. profiles may be nil.
func TokenAuth(tokens TokenVerifier, profiles ProfileChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, found := cutScheme(authHeader)
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			id, err := tokens.Verify(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if profiles != nil {
				exists, err := profiles.Exists(r.Context(), id)
				if err != nil {
					slog.Error("token profile lookup failed",
						"profile_id", id,
						"request_id", RequestIDFromContext(r.Context()),
						"error", err,
					)
					writeJSONError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				if !exists {
					writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
					return
				}
			}

			ctx := context.WithValue(r.Context(), userIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func cutScheme(header string) (string, bool) {
	for _, scheme := range []string{"Token ", "Bearer "} {
		if token, ok := strings.CutPrefix(header, scheme); ok {
			return strings.TrimSpace(token), true
		}
	}
	return "", false
}

// UserIDFromContext extracts the authenticated profile ID from the request context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
