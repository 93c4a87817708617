package yamlenv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/yamlenv/codec"
	"github.com/eugenenazirov/yamlenv/envkey"
	"github.com/eugenenazirov/yamlenv/envstate"
	"github.com/eugenenazirov/yamlenv/transform"
)

// Mode selects what Load does with the merged configuration.
type Mode int

const (
	// SetEnv writes every merged entry into the process environment, never
	// clobbering a variable that was set explicitly.
	SetEnv Mode = iota
	// ReturnObject returns the merged configuration without touching the
	// process environment.
	ReturnObject
)

// FileSystem is the file-system collaborator. The loader only ever reads.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

type osFileSystem struct{}

func (osFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ParseFunc is the parser collaborator turning file bytes into a nested
// configuration tree.
type ParseFunc func(data []byte) (map[string]any, error)

// ParseYAML parses YAML bytes into a configuration tree. An empty document
// yields an empty tree; a non-mapping root is an error.
func ParseYAML(data []byte) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	tree, ok := doc.(map[string]any)
	if !ok {
		return nil, errors.New("configuration root must be a mapping")
	}
	return tree, nil
}

// Result is the outcome of a successful load.
type Result struct {
	// Config is the merged, unflattened configuration tree.
	Config map[string]any
	// Values is the merged flat mapping, exactly what SetEnv mode writes.
	Values map[string]string
	// Issues are the collected validation findings (empty without a schema).
	Issues []Issue
}

// Loader resolves configuration from a YAML file, the process environment,
// and schema defaults. A zero-option loader reads YAML, uses no prefix, and
// writes the result into the process environment.
type Loader struct {
	prefix      string
	separator   string
	schema      Schema
	mode        Mode
	strict      bool
	requireFile bool
	override    bool
	lists       codec.ListMode
	env         envstate.Environment
	fs          FileSystem
	parse       ParseFunc
	logger      *zap.Logger
}

// The default environment is shared process-wide so that a variable written
// by one load call is still recognized as loader-owned by the next.
var defaultEnvironment = sync.OnceValue(func() envstate.Environment {
	return envstate.NewProcessEnvironment()
})

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		separator: envkey.DefaultSeparator,
		mode:      SetEnv,
		env:       defaultEnvironment(),
		fs:        osFileSystem{},
		parse:     ParseYAML,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves configuration with the given options. An empty path loads
// from the environment and schema defaults alone.
func Load(path string, opts ...Option) (*Result, error) {
	return New(opts...).Load(path)
}

// Load runs the pipeline: parse the file, flatten it, merge it with the
// process environment and schema defaults per key, validate, and either
// populate the environment or hand the tree back.
func (l *Loader) Load(path string) (*Result, error) {
	tree, err := l.readTree(path)
	if err != nil {
		return nil, err
	}

	tr := transform.Transformer{
		Prefix:    l.prefix,
		Separator: l.separator,
		Codec:     codec.Codec{Lists: l.lists},
	}

	fileTier, err := tr.Flatten(tree)
	if err != nil {
		return nil, fmt.Errorf("flatten configuration: %w", err)
	}

	hints, entries, err := l.schema.flatten(l.prefix, l.separator)
	if err != nil {
		return nil, err
	}

	merged, err := l.merge(fileTier, entries)
	if err != nil {
		return nil, err
	}

	resolved, err := tr.Unflatten(merged, hints)
	if err != nil {
		return nil, fmt.Errorf("resolve configuration: %w", err)
	}

	issues := l.schema.Validate(resolved)
	for _, issue := range issues {
		l.logger.Warn("configuration validation issue",
			zap.String("key", issue.Key),
			zap.String("detail", issue.Message),
		)
	}
	if l.strict && len(issues) > 0 {
		errs := make([]error, len(issues))
		for i, issue := range issues {
			errs[i] = issue
		}
		return nil, fmt.Errorf("configuration validation failed: %w", multierr.Combine(errs...))
	}

	if l.mode == SetEnv {
		if err := l.export(merged); err != nil {
			return nil, err
		}
	}

	return &Result{Config: resolved, Values: merged, Issues: issues}, nil
}

func (l *Loader) readTree(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !l.requireFile {
			l.logger.Warn("configuration file missing, continuing with environment only",
				zap.String("path", path),
			)
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read configuration file %q: %w", path, err)
	}

	tree, err := l.parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse configuration file %q: %w", path, err)
	}
	return tree, nil
}

// merge resolves every key named by the file tier, the schema, or (under a
// non-empty prefix) the live environment. Precedence per key: explicit
// environment, then file, then schema default, then a value left behind by
// an earlier load. Override mode moves the file tier to the front.
func (l *Loader) merge(fileTier map[string]string, entries map[string]Entry) (map[string]string, error) {
	universe := make(map[string]struct{}, len(fileTier)+len(entries))
	for name := range fileTier {
		universe[name] = struct{}{}
	}
	for name := range entries {
		universe[name] = struct{}{}
	}
	if l.prefix != "" {
		lead := strings.ToUpper(l.prefix) + l.separator
		for name := range l.env.All() {
			if strings.HasPrefix(name, lead) {
				universe[name] = struct{}{}
			}
		}
	}

	merged := make(map[string]string, len(universe))
	for name := range universe {
		envValue, inEnv := l.env.Lookup(name)
		fileValue, inFile := fileTier[name]

		switch {
		case l.override && inFile:
			merged[name] = fileValue
		case inEnv && l.env.IsExplicit(name):
			merged[name] = envValue
		case inFile:
			merged[name] = fileValue
		default:
			entry, inSchema := entries[name]
			if inSchema && entry.Default != nil {
				text, err := (codec.Codec{Lists: l.lists}).Encode(entry.Default, entry.Type)
				if err != nil {
					return nil, fmt.Errorf("default for %s: %w", name, err)
				}
				merged[name] = text
			} else if inEnv {
				merged[name] = envValue
			}
		}
	}
	return merged, nil
}

// export writes the merged mapping into the environment. Explicit variables
// are left alone unless override mode is on, and unchanged values are not
// rewritten, so repeating a load leaves the environment untouched.
func (l *Loader) export(merged map[string]string) error {
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !l.override && l.env.IsExplicit(name) {
			continue
		}
		if current, ok := l.env.Lookup(name); ok && current == merged[name] {
			continue
		}
		if err := l.env.Set(name, merged[name]); err != nil {
			return err
		}
	}
	return nil
}
