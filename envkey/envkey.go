package envkey

import (
	"fmt"
	"strings"
)

// DefaultSeparator joins path segments in flat environment variable names.
const DefaultSeparator = "_"

// FlattenKey converts a key path into a flat environment variable name.
// Each segment is upper-cased and the segments are joined with separator;
// a non-empty prefix is prepended the same way. The resulting name always
// matches [A-Z_][A-Z0-9_]*.
//
// For a fixed prefix and separator, distinct paths map to distinct names as
// long as no segment contains the separator character. A segment may legally
// contain it, but then the mapping is no longer injective — ["a_b"] and
// ["a","b"] both flatten to A_B — and SplitKey cannot recover the original
// path.
func FlattenKey(path []string, prefix, separator string) (string, error) {
	separator, err := normalizeSeparator(separator)
	if err != nil {
		return "", err
	}

	if len(path) == 0 {
		return "", fmt.Errorf("empty key path: %w", ErrInvalidSegment)
	}

	parts := make([]string, 0, len(path)+1)
	if prefix != "" {
		normalized, err := normalizeSegment(prefix)
		if err != nil {
			return "", fmt.Errorf("prefix %q: %w", prefix, err)
		}
		parts = append(parts, normalized)
	}
	for _, segment := range path {
		normalized, err := normalizeSegment(segment)
		if err != nil {
			return "", fmt.Errorf("segment %q: %w", segment, err)
		}
		parts = append(parts, normalized)
	}

	name := strings.Join(parts, separator)
	if !ValidName(name) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return name, nil
}

// SplitKey recovers a key path from a flat environment variable name produced
// with the given prefix and separator. Segments are returned lower-cased.
//
// Splitting is inherently ambiguous when a segment name itself contains the
// separator: APP_DB_HOST may come from ["db","host"] or ["db_host"]. SplitKey
// always splits on every separator occurrence; callers that need the
// unambiguous form should match flat keys against schema-derived names
// instead.
func SplitKey(flatKey, prefix, separator string) ([]string, error) {
	separator, err := normalizeSeparator(separator)
	if err != nil {
		return nil, err
	}

	if !ValidName(flatKey) {
		return nil, fmt.Errorf("%q: %w", flatKey, ErrInvalidName)
	}

	rest := flatKey
	if prefix != "" {
		normalized, err := normalizeSegment(prefix)
		if err != nil {
			return nil, fmt.Errorf("prefix %q: %w", prefix, err)
		}
		lead := normalized + separator
		if !strings.HasPrefix(rest, lead) {
			return nil, fmt.Errorf("%q: %w", flatKey, ErrPrefixMismatch)
		}
		rest = strings.TrimPrefix(rest, lead)
	}

	if rest == "" {
		return nil, fmt.Errorf("%q: %w", flatKey, ErrInvalidSegment)
	}

	raw := strings.Split(rest, separator)
	path := make([]string, 0, len(raw))
	for _, segment := range raw {
		if segment == "" {
			return nil, fmt.Errorf("%q: empty segment: %w", flatKey, ErrInvalidSegment)
		}
		path = append(path, strings.ToLower(segment))
	}
	return path, nil
}

// ValidName reports whether name is a legal environment variable name,
// i.e. matches [A-Z_][A-Z0-9_]*.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func normalizeSeparator(separator string) (string, error) {
	if separator == "" {
		return DefaultSeparator, nil
	}
	if strings.Count(separator, "_") != len(separator) {
		return "", fmt.Errorf("%q: %w", separator, ErrInvalidSeparator)
	}
	return separator, nil
}

func normalizeSegment(segment string) (string, error) {
	if segment == "" {
		return "", ErrInvalidSegment
	}
	upper := strings.ToUpper(segment)
	for _, r := range upper {
		switch {
		case r == '_' || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
		default:
			return "", ErrInvalidSegment
		}
	}
	return upper, nil
}
