package gateway

import "errors"

// ErrNoCredential is returned before any network I/O when the client has no
// bearer credential. It is a precondition failure, never a network error.
var ErrNoCredential = errors.New("authentication token not found")

// ErrorCause distinguishes connection-level failures from failures the
// server itself reported.
type ErrorCause string

const (
	CauseTransport   ErrorCause = "transport"
	CauseApplication ErrorCause = "application"
)

// APIError is the single error shape all gateway operations normalize into,
// so callers never branch on transport-specific errors.
type APIError struct {
	Reason string
	Cause  ErrorCause
}

func (e *APIError) Error() string {
	return e.Reason
}
