package core

import "errors"

// Error codes for protocol violations reported to clients.
const (
	ErrCodeLoginRequired   = "login_required"
	ErrCodeUsernameTaken   = "username_taken"
	ErrCodeBadRequest      = "bad_request"
	ErrCodeUnsupportedType = "unsupported_type"
)

// ErrUsernameTaken is returned by the session registry when a username is
// already bound to an active session.
var ErrUsernameTaken = errors.New("username already in use")

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
