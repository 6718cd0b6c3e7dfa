package shared

import "errors"

var (
	// ErrInvalidID is returned for non-positive identifiers before any backend call.
	ErrInvalidID = errors.New("invalid ID")
)
