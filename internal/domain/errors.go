package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument indicates the caller supplied input outside the accepted domain.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict indicates the request clashes with the member's current state.
	ErrConflict = errors.New("conflict")
	// ErrUpstreamUnavailable indicates the remote member service could not be reached
	// or answered with a server error.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
