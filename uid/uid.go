// Package uid provides the compile-time payload identifier used to tag
// every message that flows through the actor runtime.
//
// A UID associates a Go type T with a stable, human-readable name. Two
// UIDs built over the same T but different names are nominally distinct:
// wiring code pairs ports by UID identity (name + T), never by T alone,
// so "two different UIDs whose payload types happen to match are still
// incompatible at the port level" (see data.Transmute for the one
// sanctioned escape hatch).
package uid

// ID is a zero-sized (at the value level, just a string) marker that
// carries the nominal identity of a payload type T. Build one with New
// and hold it as a package-level var next to the type it tags.
type ID[T any] struct {
	name string
}

// New creates a UID for payload type T with the given diagnostic name.
// The name is used in Graphviz labels, error messages, and the Plain-actor
// schema; it has no bearing on Go type identity.
func New[T any](name string) ID[T] {
	return ID[T]{name: name}
}

// Name returns the stable textual name used for diagnostics and Graphviz.
func (u ID[T]) Name() string { return u.name }
