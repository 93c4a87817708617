package codec

import "errors"

var (
	// ErrUnencodable is returned when a value has no environment variable
	// representation, such as a nested mapping inside a comma-separated list.
	ErrUnencodable = errors.New("value cannot be represented as an environment variable string")
	// ErrCoercion is returned when text cannot be coerced to the expected kind.
	// Error messages never include the text itself, only the kind involved.
	ErrCoercion = errors.New("text does not match the expected kind")
)
