package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeUnknownSession = "unknown_session"
	ErrCodeNotMember      = "not_member"
	ErrCodeBadRequest     = "bad_request"
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeRateLimited    = "rate_limited"
)

// ErrUnknownSession reports an operation naming a session ID that is not
// registered (never connected, or already unregistered).
var ErrUnknownSession = errors.New("unknown session")

// CoreError wraps a code and human-readable message. It is delivered to the
// offending client only and never affects room state.
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
