// Package codec converts native configuration values (booleans, numbers,
// strings, lists, nested mappings) to and from the string representation used
// by environment variables. Decoding accepts an optional expected-kind hint;
// without one it falls back through a fixed ladder of bool, int, float, JSON,
// and finally plain string, so every input decodes to something.
package codec
