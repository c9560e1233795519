package belief

import "errors"

var (
	// ErrNotFound means an id or stance did not resolve to an existing record.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the caller supplied malformed input. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyResolved means a tension was resolved twice. The second
	// attempt is reported so the first resolution reasoning is never
	// silently overwritten.
	ErrAlreadyResolved = errors.New("tension already resolved")
)
