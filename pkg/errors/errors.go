package errors

import (
	"errors"
	"fmt"
)

var (
	ErrDeviceNotFound   = errors.New("device not found")
	ErrPositionNotFound = errors.New("position not found")
	ErrStalePosition    = errors.New("position fix time older than retained position")
	ErrUnknownReport    = errors.New("unknown report kind")
	ErrEmptySelection   = errors.New("no devices selected")
)

// ServerError is a non-2xx response from the tracking backend. Message carries
// the response body text, which is surfaced to the user as-is.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

func NewServerError(status int, body string) *ServerError {
	return &ServerError{Status: status, Message: body}
}

// NetworkFailure is a fetch that never produced a response (DNS, dial,
// timeout). The cause is kept for logs; users get a generic message.
type NetworkFailure struct {
	Err error
}

func (e *NetworkFailure) Error() string {
	return "network request failed"
}

func (e *NetworkFailure) Unwrap() error {
	return e.Err
}

func NewNetworkFailure(err error) *NetworkFailure {
	return &NetworkFailure{Err: err}
}

// AsServerError reports whether err carries a backend response status.
func AsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
