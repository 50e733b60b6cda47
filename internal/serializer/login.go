package serializer

import "github.com/wmbogo12/profiles-rest-api/internal/model"

// AuthTokenSerializer validates login credentials. The email may be sent as
// either "username" or "email".
type AuthTokenSerializer struct{}

func (AuthTokenSerializer) Validate(in model.LoginRequest, _ bool) error {
	ve := &ValidationError{}
	if in.Username == "" && in.Email == "" {
		ve.add("username", msgRequired)
	}
	if in.Password == "" {
		ve.add("password", msgRequired)
	}
	return ve.errOrNil()
}
