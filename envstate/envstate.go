package envstate

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Environment is the process-environment collaborator used by the loader.
type Environment interface {
	// All returns a snapshot of every variable currently set.
	All() map[string]string
	// Lookup returns the value of name and whether it is set.
	Lookup(name string) (string, bool)
	// Set binds name to value. Setting the same value twice is a no-op.
	Set(name, value string) error
	// IsExplicit reports whether name was set from outside, as opposed to
	// written by a previous Set call through this Environment.
	IsExplicit(name string) bool
}

// ProcessEnvironment is an Environment backed by the real process
// environment. It tracks the variables it wrote, and the values it wrote
// them with, so a variable later changed from outside counts as explicit
// again.
type ProcessEnvironment struct {
	mu    sync.RWMutex
	owned map[string]string
}

// NewProcessEnvironment returns an Environment over the real process
// environment. Every variable currently set counts as explicit.
func NewProcessEnvironment() *ProcessEnvironment {
	return &ProcessEnvironment{owned: make(map[string]string)}
}

// All returns the current process environment as a map.
func (e *ProcessEnvironment) All() map[string]string {
	environ := os.Environ()
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		if name, value, ok := strings.Cut(kv, "="); ok {
			vars[name] = value
		}
	}
	return vars
}

// Lookup returns the value of name from the process environment.
func (e *ProcessEnvironment) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Set writes name into the process environment and records ownership.
func (e *ProcessEnvironment) Set(name, value string) error {
	if err := os.Setenv(name, value); err != nil {
		return fmt.Errorf("set environment variable %s: %w", name, err)
	}

	e.mu.Lock()
	e.owned[name] = value
	e.mu.Unlock()
	return nil
}

// IsExplicit reports whether name is currently set and did not come from a
// Set call through this Environment.
func (e *ProcessEnvironment) IsExplicit(name string) bool {
	current, ok := os.LookupEnv(name)
	if !ok {
		return false
	}

	e.mu.RLock()
	written, owned := e.owned[name]
	e.mu.RUnlock()

	return !owned || written != current
}

// MapEnvironment is an in-memory Environment for tests. Variables provided
// at construction, or set through Put, count as explicit.
type MapEnvironment struct {
	mu     sync.RWMutex
	values map[string]string
	owned  map[string]string
}

// NewMapEnvironment returns a MapEnvironment seeded with initial variables.
func NewMapEnvironment(initial map[string]string) *MapEnvironment {
	values := make(map[string]string, len(initial))
	for name, value := range initial {
		values[name] = value
	}
	return &MapEnvironment{values: values, owned: make(map[string]string)}
}

// All returns a copy of the current variables.
func (e *MapEnvironment) All() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	vars := make(map[string]string, len(e.values))
	for name, value := range e.values {
		vars[name] = value
	}
	return vars
}

// Lookup returns the value of name.
func (e *MapEnvironment) Lookup(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	value, ok := e.values[name]
	return value, ok
}

// Set binds name to value and records ownership.
func (e *MapEnvironment) Set(name, value string) error {
	e.mu.Lock()
	e.values[name] = value
	e.owned[name] = value
	e.mu.Unlock()
	return nil
}

// Put binds name to value as if a user exported it, making it explicit.
func (e *MapEnvironment) Put(name, value string) {
	e.mu.Lock()
	e.values[name] = value
	delete(e.owned, name)
	e.mu.Unlock()
}

// Unset removes name entirely.
func (e *MapEnvironment) Unset(name string) {
	e.mu.Lock()
	delete(e.values, name)
	delete(e.owned, name)
	e.mu.Unlock()
}

// IsExplicit reports whether name is set and was not written through Set.
func (e *MapEnvironment) IsExplicit(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	current, ok := e.values[name]
	if !ok {
		return false
	}
	written, owned := e.owned[name]
	return !owned || written != current
}
