package yamlenv

import "errors"

var (
	// ErrMissingRequiredKey reports a required schema key bound to no value
	// from the environment, the file, or a default.
	ErrMissingRequiredKey = errors.New("required configuration key has no value")
	// ErrTypeMismatch reports a configuration value whose type does not match
	// its schema entry.
	ErrTypeMismatch = errors.New("configuration value does not match the schema type")
	// ErrValidationFailed reports a configuration value rejected by a schema
	// entry's check function.
	ErrValidationFailed = errors.New("configuration value failed schema validation")
)
