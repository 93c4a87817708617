// Package envstate abstracts the process environment table behind a small
// interface so the precedence merge can be unit-tested without touching real
// process state. The process-backed implementation remembers which variables
// it set itself, letting callers distinguish values a user exported from
// values written by an earlier load.
package envstate
