// Package data implements the reference-counted, immutable payload
// envelope that carries one message on one channel.
package data

import (
	"sync/atomic"

	"github.com/gmt-dos/actors/uid"
)

// cell is the shared, heap-allocated backing store for an Envelope. All
// clones of an Envelope point at the same cell; Clone only bumps refs.
type cell[T any] struct {
	payload T
	refs    atomic.Int64
}

// Envelope is a refcounted, immutable wrapper around a payload of type T,
// tagged with the UID that identifies it on the wire. Cloning an Envelope
// is cheap: it bumps a reference count and copies two pointers, never the
// payload.
type Envelope[T any] struct {
	id   uid.ID[T]
	cell *cell[T]
}

// New wraps payload into a fresh envelope with strong count 1.
func New[T any](id uid.ID[T], payload T) Envelope[T] {
	c := &cell[T]{payload: payload}
	c.refs.Store(1)
	return Envelope[T]{id: id, cell: c}
}

// ID reports the UID this envelope is currently tagged with.
func (e Envelope[T]) ID() uid.ID[T] { return e.id }

// Clone increments the strong count by exactly one and returns a new
// Envelope value sharing the same backing cell.
func (e Envelope[T]) Clone() Envelope[T] {
	e.cell.refs.Add(1)
	return e
}

// Get returns a pointer to the shared payload. Callers must treat it as
// read-only once the envelope has been cloned (StrongCount() > 1); the
// runtime never mutates a payload it forwards.
func (e Envelope[T]) Get() *T { return &e.cell.payload }

// StrongCount reports the current reference count of the backing cell.
func (e Envelope[T]) StrongCount() int64 { return e.cell.refs.Load() }

// Valid reports whether the envelope carries a backing cell. The zero
// value of Envelope[T] is invalid and must never be sent on a channel.
func (e Envelope[T]) Valid() bool { return e.cell != nil }

// Transmute reinterprets e under a different UID of the identical payload
// type T. This is the only supported reinterpretation: it is a pointer-
// preserving no-op at runtime, used when an
// explicit semantic rename is intended (e.g. a sub-system gateway
// relabeling a boundary port).
func Transmute[T any](e Envelope[T], to uid.ID[T]) Envelope[T] {
	return Envelope[T]{id: to, cell: e.cell}
}

// SameCell reports whether a and b share the same backing cell, i.e. are
// the same envelope modulo UID — used by the transmute round-trip test.
func SameCell[T any](a, b Envelope[T]) bool { return a.cell == b.cell }
