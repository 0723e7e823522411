package services

import "errors"

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrBadRequest      = errors.New("bad request")
	ErrNotFound        = errors.New("not found")
	ErrUpstream        = errors.New("completion provider error")
	ErrUpstreamTimeout = errors.New("completion provider timed out")
	ErrParseFailure    = errors.New("unparseable completion output")
)

// ValidationError carries a reason that is safe to show to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrBadRequest }
