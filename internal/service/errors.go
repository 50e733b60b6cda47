package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrNotAuthenticated   = errors.New("authentication credentials were not provided")
	ErrPermissionDenied   = errors.New("you do not have permission to perform this action")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
)

// checkOwner enforces that only the owning profile may modify an object.
// Anonymous callers (callerID 0) are told to authenticate.
func checkOwner(callerID, ownerID int64) error {
	if callerID == 0 {
		return ErrNotAuthenticated
	}
	if callerID != ownerID {
		return ErrPermissionDenied
	}
	return nil
}
