package domain

import "errors"

// Error kinds surfaced to the CLI. Callers wrap them with context using
// fmt.Errorf("%w: ...") and test for them with errors.Is.
var (
	// ErrInvalidArgument reports bad user input (repository, state filter, max).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound reports a repository that does not exist or is not accessible.
	ErrNotFound = errors.New("repository not found")
	// ErrRateLimit reports upstream throttling.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrSchemaMismatch reports a record or table with an unexpected shape.
	ErrSchemaMismatch = errors.New("schema mismatch")
)
