package yamlenv

import (
	"go.uber.org/zap"

	"github.com/eugenenazirov/yamlenv/codec"
	"github.com/eugenenazirov/yamlenv/envstate"
)

// Option configures a Loader.
type Option func(*Loader)

// WithPrefix sets the leading segment of every flat environment variable
// name, e.g. "APP" for APP_DATABASE_HOST.
func WithPrefix(prefix string) Option {
	return func(l *Loader) {
		l.prefix = prefix
	}
}

// WithSeparator sets the segment separator. It must be one or more
// underscores; the default is a single underscore.
func WithSeparator(separator string) Option {
	return func(l *Loader) {
		l.separator = separator
	}
}

// WithSchema supplies the expected-key schema used for type hints, defaults,
// and validation.
func WithSchema(schema Schema) Option {
	return func(l *Loader) {
		l.schema = schema
	}
}

// WithMode selects whether Load writes the merged configuration into the
// process environment (SetEnv, the default) or only returns it (ReturnObject).
func WithMode(mode Mode) Option {
	return func(l *Loader) {
		l.mode = mode
	}
}

// WithStrict makes any validation issue fatal instead of a warning.
func WithStrict(strict bool) Option {
	return func(l *Loader) {
		l.strict = strict
	}
}

// WithRequireFile makes a missing configuration file fatal. By default a
// missing file degrades to an environment-only load with a warning.
func WithRequireFile(require bool) Option {
	return func(l *Loader) {
		l.requireFile = require
	}
}

// WithOverride lets file-provided values take precedence over explicitly set
// environment variables, and lets SetEnv mode overwrite them.
func WithOverride(override bool) Option {
	return func(l *Loader) {
		l.override = override
	}
}

// WithListEncoding selects how list values are written to environment
// strings; the default is compact JSON arrays.
func WithListEncoding(mode codec.ListMode) Option {
	return func(l *Loader) {
		l.lists = mode
	}
}

// WithEnvironment overrides the process environment collaborator (primarily
// for tests).
func WithEnvironment(env envstate.Environment) Option {
	return func(l *Loader) {
		l.env = env
	}
}

// WithFileSystem overrides how the configuration file is read (primarily for
// tests).
func WithFileSystem(fs FileSystem) Option {
	return func(l *Loader) {
		l.fs = fs
	}
}

// WithParser overrides the parser collaborator that turns file bytes into a
// nested tree. The default parses YAML.
func WithParser(parse ParseFunc) Option {
	return func(l *Loader) {
		l.parse = parse
	}
}

// WithLogger supplies the logger used for load warnings. The default is a
// no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
