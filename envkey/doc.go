// Package envkey maps nested configuration key paths to flat environment
// variable names and back. Names are built by upper-casing each path segment,
// joining with a separator, and prepending an optional prefix, following the
// PREFIX_SECTION_FIELD convention.
package envkey
