package leads

import "errors"

var (
	// ErrMissingRequired is returned when name or phone is empty. The
	// message is user-facing.
	ErrMissingRequired = errors.New("Name and phone are required")
)
