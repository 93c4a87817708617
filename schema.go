package yamlenv

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eugenenazirov/yamlenv/codec"
	"github.com/eugenenazirov/yamlenv/envkey"
	"github.com/eugenenazirov/yamlenv/transform"
)

// Schema declares the expected configuration keys, addressed by dotted path
// (e.g. "database.host"). Validation is purely a reporting pass; the loader
// decides whether issues are fatal.
type Schema map[string]Entry

// Entry describes one expected configuration key.
type Entry struct {
	// Type is the expected kind of the value. The zero value KindAny accepts
	// anything and leaves decoding best-effort.
	Type codec.Kind

	// Default is inserted wherever no environment or file value binds the
	// key. A nil Default means no default.
	Default any

	// Required makes the absence of any bound value a MissingRequiredKey
	// issue.
	Required bool

	// Check, when set, rejects bound values. The returned error's message is
	// carried on the resulting issue, so it should reference constraints,
	// not the value itself.
	Check func(value any) error
}

// IssueCode classifies a validation issue.
type IssueCode int

const (
	IssueMissingRequiredKey IssueCode = iota + 1
	IssueTypeMismatch
	IssueCheckFailed
)

// Issue is a single validation finding. It implements error and matches the
// package sentinel for its code under errors.Is.
type Issue struct {
	Code    IssueCode
	Key     string
	Message string
}

func (i Issue) Error() string {
	return fmt.Sprintf("key %q: %s", i.Key, i.Message)
}

// Is matches the sentinel error corresponding to the issue code.
func (i Issue) Is(target error) bool {
	switch i.Code {
	case IssueMissingRequiredKey:
		return target == ErrMissingRequiredKey
	case IssueTypeMismatch:
		return target == ErrTypeMismatch
	case IssueCheckFailed:
		return target == ErrValidationFailed
	default:
		return false
	}
}

// Validate reports every entry that is required but absent, present with a
// mismatched type, or rejected by its check function. The tree is never
// mutated and issues are ordered by key. Check functions only run for values
// of the expected type.
func (s Schema) Validate(tree map[string]any) []Issue {
	var issues []Issue
	for _, key := range s.sortedKeys() {
		entry := s[key]
		value, bound := lookupPath(tree, entryPath(key))
		if !bound {
			if entry.Required {
				issues = append(issues, Issue{
					Code:    IssueMissingRequiredKey,
					Key:     key,
					Message: "required key has no value from environment, file, or defaults",
				})
			}
			continue
		}

		if entry.Type != codec.KindAny {
			got := codec.KindOf(value)
			if !kindMatches(entry.Type, got) {
				detail := got.String()
				if value == nil {
					detail = "null"
				}
				issues = append(issues, Issue{
					Code:    IssueTypeMismatch,
					Key:     key,
					Message: fmt.Sprintf("expected %s, got %s", entry.Type, detail),
				})
				continue
			}
		}

		if entry.Check != nil {
			if err := entry.Check(value); err != nil {
				issues = append(issues, Issue{
					Code:    IssueCheckFailed,
					Key:     key,
					Message: err.Error(),
				})
			}
		}
	}
	return issues
}

// ApplyDefaults returns a copy of the tree with every entry's default
// inserted at its path wherever no value is already bound. Existing values,
// including explicit nulls, are never overwritten.
func (s Schema) ApplyDefaults(tree map[string]any) map[string]any {
	out, _ := cloneValue(tree).(map[string]any)
	if out == nil {
		out = make(map[string]any)
	}
	for _, key := range s.sortedKeys() {
		entry := s[key]
		if entry.Default == nil {
			continue
		}
		path := entryPath(key)
		if _, bound := lookupPath(out, path); !bound {
			insertPath(out, path, cloneValue(entry.Default))
		}
	}
	return out
}

// flatten precomputes the flat environment name of every entry, returning
// unflatten hints and the entries keyed by flat name.
func (s Schema) flatten(prefix, separator string) (map[string]transform.Hint, map[string]Entry, error) {
	hints := make(map[string]transform.Hint, len(s))
	entries := make(map[string]Entry, len(s))
	for key, entry := range s {
		path := entryPath(key)
		name, err := envkey.FlattenKey(path, prefix, separator)
		if err != nil {
			return nil, nil, fmt.Errorf("schema key %q: %w", key, err)
		}
		hints[name] = transform.Hint{Path: path, Kind: entry.Type}
		entries[name] = entry
	}
	return hints, entries, nil
}

func (s Schema) sortedKeys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func entryPath(key string) []string {
	return strings.Split(key, ".")
}

// kindMatches allows an int where a float is expected; YAML "x: 3" is a
// valid float value.
func kindMatches(want, got codec.Kind) bool {
	return got == want || (want == codec.KindFloat && got == codec.KindInt)
}

func lookupPath(tree map[string]any, path []string) (any, bool) {
	node := tree
	for _, segment := range path[:len(path)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			return nil, false
		}
		node = child
	}
	value, ok := node[path[len(path)-1]]
	return value, ok
}

// insertPath creates intermediate mappings as needed. A leaf blocking the
// path wins; defaults never displace existing values.
func insertPath(tree map[string]any, path []string, value any) {
	node := tree
	for _, segment := range path[:len(path)-1] {
		child, ok := node[segment]
		if !ok {
			next := make(map[string]any)
			node[segment] = next
			node = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return
		}
		node = next
	}
	node[path[len(path)-1]] = value
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			out[key] = cloneValue(child)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = cloneValue(child)
		}
		return out
	default:
		return v
	}
}
