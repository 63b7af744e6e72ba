package repository

import "errors"

// ErrNotFound indicates the requested record does not exist. Callers check
// with errors.Is; repositories wrap it with the entity name for context.
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
