package media

import "errors"

// Expected outcomes surfaced as 4xx. Anything else reaching a handler
// is a store failure and maps to 500.
var (
	ErrNotFound       = errors.New("media not found")
	ErrTypeNotAllowed = errors.New("file type not allowed")
	ErrInvalidRange   = errors.New("invalid range")
)
