package envkey

import "errors"

var (
	// ErrInvalidSegment is returned when a path segment is empty or contains
	// characters that cannot appear in an environment variable name.
	ErrInvalidSegment = errors.New("segment must be non-empty and contain only letters, digits, and underscores")
	// ErrInvalidSeparator is returned when the separator is not made of underscores.
	ErrInvalidSeparator = errors.New("separator must be one or more underscores")
	// ErrInvalidName is returned when a flat key is not a valid environment variable name.
	ErrInvalidName = errors.New("flat key is not a valid environment variable name")
	// ErrPrefixMismatch is returned when a flat key does not start with the expected prefix.
	ErrPrefixMismatch = errors.New("flat key does not carry the expected prefix")
)
