package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ListMode selects how list values are written to environment strings.
type ListMode int

const (
	// ListJSON writes lists as compact JSON arrays. This is the default and
	// the only mode that can represent lists with non-scalar elements.
	ListJSON ListMode = iota
	// ListComma writes lists of scalars as comma-separated values. Lists with
	// nested elements, or scalars that would be ambiguous after joining,
	// cannot be encoded in this mode.
	ListComma
)

// Integers beyond this magnitude lose precision in float64, so JSON numbers
// outside the range are kept as floats.
const maxExactInt = 1 << 53

// Codec converts native values to and from environment variable strings.
// The zero value uses JSON list encoding.
type Codec struct {
	Lists ListMode
}

// Encode converts a native value into its environment variable string.
// Booleans become the literals true/false, numbers use decimal text, strings
// pass through unchanged, and lists and mappings become compact JSON (or
// comma-separated scalars in ListComma mode). A nil value encodes to the
// empty string; the mapping is lossy, as an empty string decodes back to an
// empty string rather than nil.
//
// A non-zero hint restricts the accepted value kind; a mismatch is an
// ErrUnencodable error. An int value is accepted for a float hint.
func (c Codec) Encode(value any, hint Kind) (string, error) {
	if value == nil {
		return "", nil
	}
	if hint != KindAny {
		kind := KindOf(value)
		if kind != hint && !(hint == KindFloat && kind == KindInt) {
			return "", fmt.Errorf("encode %s value as %s: %w", kind, hint, ErrUnencodable)
		}
	}

	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return encodeFloat(float64(v))
	case float64:
		return encodeFloat(v)
	case string:
		return v, nil
	case []any:
		return c.encodeList(v)
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode object: %w", ErrUnencodable)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("encode %T: %w", value, ErrUnencodable)
	}
}

// Decode parses an environment variable string into a native value.
//
// With a non-zero hint the text must coerce to that kind; failure is an
// ErrCoercion error. Without a hint decoding is best effort in a fixed
// order: boolean literal, integer, float, JSON array or object (only when
// the text starts with '[' or '{' and is valid JSON), and finally plain
// string, which always succeeds.
func (c Codec) Decode(text string, hint Kind) (any, error) {
	switch hint {
	case KindAny:
		return c.decodeAny(text), nil
	case KindString:
		return text, nil
	case KindBool:
		if strings.EqualFold(text, "true") {
			return true, nil
		}
		if strings.EqualFold(text, "false") {
			return false, nil
		}
		return nil, fmt.Errorf("coerce to bool: %w", ErrCoercion)
	case KindInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("coerce to int: %w", ErrCoercion)
		}
		return int(n), nil
	case KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("coerce to float: %w", ErrCoercion)
		}
		return f, nil
	case KindList:
		return c.decodeList(text)
	case KindObject:
		trimmed := strings.TrimSpace(text)
		if !strings.HasPrefix(trimmed, "{") {
			return nil, fmt.Errorf("coerce to object: %w", ErrCoercion)
		}
		var v map[string]any
		if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
			return nil, fmt.Errorf("coerce to object: %w", ErrCoercion)
		}
		return normalizeNumbers(v), nil
	default:
		return nil, fmt.Errorf("coerce to %s: %w", hint, ErrCoercion)
	}
}

func (c Codec) decodeAny(text string) any {
	if strings.EqualFold(text, "true") {
		return true
	}
	if strings.EqualFold(text, "false") {
		return false
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return int(n)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') && json.Valid([]byte(trimmed)) {
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return normalizeNumbers(v)
		}
	}
	return text
}

func (c Codec) encodeList(list []any) (string, error) {
	if c.Lists == ListJSON {
		data, err := json.Marshal(list)
		if err != nil {
			return "", fmt.Errorf("encode list: %w", ErrUnencodable)
		}
		return string(data), nil
	}

	parts := make([]string, 0, len(list))
	for i, element := range list {
		switch KindOf(element) {
		case KindBool, KindInt, KindFloat, KindString:
		default:
			return "", fmt.Errorf("comma-separated list element %d is not a scalar: %w", i, ErrUnencodable)
		}
		text, err := c.Encode(element, KindAny)
		if err != nil {
			return "", err
		}
		if text == "" || strings.Contains(text, ",") || strings.TrimSpace(text) != text {
			return "", fmt.Errorf("comma-separated list element %d is ambiguous: %w", i, ErrUnencodable)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, ","), nil
}

func (c Codec) decodeList(text string) (any, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "[") {
		var v []any
		if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
			return nil, fmt.Errorf("coerce to list: %w", ErrCoercion)
		}
		return normalizeNumbers(v), nil
	}
	if c.Lists != ListComma {
		return nil, fmt.Errorf("coerce to list: %w", ErrCoercion)
	}
	if trimmed == "" {
		return []any{}, nil
	}
	parts := strings.Split(text, ",")
	list := make([]any, 0, len(parts))
	for _, part := range parts {
		element := c.decodeAny(strings.TrimSpace(part))
		switch element.(type) {
		case []any, map[string]any:
			element = strings.TrimSpace(part)
		}
		list = append(list, element)
	}
	return list, nil
}

func encodeFloat(f float64) (string, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", fmt.Errorf("encode non-finite float: %w", ErrUnencodable)
	}
	text := strconv.FormatFloat(f, 'g', -1, 64)
	// Keep a decimal marker so the value decodes back to a float.
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	return text, nil
}

// normalizeNumbers rewrites integral JSON numbers to int so hinted
// round-trips of integer lists and objects hold. Values beyond float64's
// exact integer range stay floats.
func normalizeNumbers(v any) any {
	switch v := v.(type) {
	case float64:
		if v == math.Trunc(v) && v > -maxExactInt && v < maxExactInt {
			return int(v)
		}
		return v
	case []any:
		for i := range v {
			v[i] = normalizeNumbers(v[i])
		}
		return v
	case map[string]any:
		for k := range v {
			v[k] = normalizeNumbers(v[k])
		}
		return v
	default:
		return v
	}
}
