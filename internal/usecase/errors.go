package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrUpstream marks any failure talking to the start.gg API: transport,
	// HTTP status, GraphQL errors or an unparseable payload. The concrete
	// kind is available via errors.As on the startgg error types.
	ErrUpstream = errors.New("upstream provider failure")
)
