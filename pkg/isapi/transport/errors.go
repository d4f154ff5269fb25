package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the device rejected the credentials
	ErrUnauthorized = errors.New("device authentication failed")

	// ErrNotFound indicates the device does not expose the endpoint or resource
	ErrNotFound = errors.New("device resource not found")

	// ErrDeviceUnavailable indicates the device (or a proxy in front of it) is temporarily unavailable
	ErrDeviceUnavailable = errors.New("device temporarily unavailable")
)

// Error is returned for every network, TLS, timeout or HTTP status failure.
// Code is the HTTP status when the device answered, 0 otherwise.
type Error struct {
	Message   string
	Code      int
	SubStatus string
	Err       error
}

func (e *Error) Error() string {
	switch {
	case e.Code != 0 && e.Err != nil:
		return fmt.Sprintf("transport error %d: %s: %v", e.Code, e.Message, e.Err)
	case e.Code != 0:
		return fmt.Sprintf("transport error %d: %s", e.Code, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("transport error: %s: %v", e.Message, e.Err)
	default:
		return fmt.Sprintf("transport error: %s", e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
