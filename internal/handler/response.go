package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wmbogo12/profiles-rest-api/internal/middleware"
	"github.com/wmbogo12/profiles-rest-api/internal/serializer"
	"github.com/wmbogo12/profiles-rest-api/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// decodeJSON reads the request body into v. An empty body decodes as an
// empty object. It writes the error response itself and reports false on failure.
// A value of the wrong JSON type is reported against its field.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
	case errors.As(err, &typeErr):
		writeError(w, r, fieldTypeError(typeErr))
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
	}
	return false
}

func fieldTypeError(e *json.UnmarshalTypeError) *serializer.ValidationError {
	if e.Field == "" {
		return &serializer.ValidationError{Fields: map[string][]string{
			"non_field_errors": {"Invalid data. Expected a dictionary, but got " + e.Value + "."},
		}}
	}

	msg := "Invalid value."
	t := e.Type
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil {
		switch t.Kind() {
		case reflect.String:
			msg = "Not a valid string."
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			msg = "A valid integer is required."
		case reflect.Bool:
			msg = "Must be a valid boolean."
		}
	}
	return &serializer.ValidationError{Fields: map[string][]string{e.Field: {msg}}}
}

// pkParam parses the {pk} route parameter. Anything that is not a positive
// integer cannot name an object, so it is reported as not found.
func pkParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	pk, err := strconv.ParseInt(chi.URLParam(r, "pk"), 10, 64)
	if err != nil || pk <= 0 {
		writeJSON(w, http.StatusNotFound, errorResponse("not found"))
		return 0, false
	}
	return pk, true
}

// callerID returns the authenticated profile ID, or 0 for anonymous requests.
func callerID(r *http.Request) int64 {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

// writeError maps service and serializer errors onto HTTP responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *serializer.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ve.Fields)
	case errors.Is(err, service.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, map[string][]string{
			"email": {"user profile with this email already exists."},
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"Unable to log in with provided credentials."},
		})
	case errors.Is(err, service.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errorResponse("You do not have permission to perform this action."))
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse("not found"))
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
