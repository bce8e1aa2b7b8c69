// Package errorset defines the error kinds the runtime surfaces and a
// small aggregator used by the model to report the first non-Disconnected
// failure alongside the full list, wired to go.uber.org/multierr for the
// actual aggregation.
package errorset

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// WiringError reports a validation failure at Ready time: a missing input
// pair, a dangling output, a fan-out mismatch, or an incompatible rate
// pair. It names the offending hashes and actors so a diagnostic can
// point straight at the bad edge.
type WiringError struct {
	Reason string
	Actor  string
	UID    string
	Hash   uint64
}

func (e *WiringError) Error() string {
	return fmt.Sprintf("wiring error: %s (actor=%q uid=%q hash=%#x)", e.Reason, e.Actor, e.UID, e.Hash)
}

// NewWiringError formats reason with args and returns a WiringError
// naming the offending actor, UID and hash.
func NewWiringError(actor, uidName string, hash uint64, reason string, args ...any) *WiringError {
	return &WiringError{
		Reason: fmt.Sprintf(reason, args...),
		Actor:  actor,
		UID:    uidName,
		Hash:   hash,
	}
}

// Disconnected reports that a peer endpoint has been dropped. It is the
// expected termination path when a finite Initiator ends; a
// non-initiator observing it terminates its own loop and propagates it.
type Disconnected struct {
	Name string
	Hash uint64
}

func (e *Disconnected) Error() string {
	return fmt.Sprintf("disconnected: %s (hash=%#x)", e.Name, e.Hash)
}

// IsDisconnected reports whether err is (or wraps) a *Disconnected.
func IsDisconnected(err error) bool {
	var d *Disconnected
	return errors.As(err, &d)
}

// ClientPanic surfaces a panic recovered from inside a client's
// Update/Read/Write call, naming the offending actor.
type ClientPanic struct {
	Actor   string
	Value   any
	Stack   []byte
	Wrapped error
}

func (e *ClientPanic) Error() string {
	return fmt.Sprintf("client panic in actor %q: %v", e.Actor, e.Value)
}

func (e *ClientPanic) Unwrap() error { return e.Wrapped }

// IOError wraps a failure from the diagnostic diagram writers (DOT/HTML
// file I/O); it is never produced by the scheduling core itself.
type IOError struct {
	Op      string
	Path    string
	Wrapped error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.Wrapped)
}

func (e *IOError) Unwrap() error { return e.Wrapped }

// Set aggregates per-actor task results. Disconnected alone never fails
// the set; the first non-Disconnected error is reported, with the full
// list attached via multierr so callers can inspect everything that
// actually went wrong.
type Set struct {
	mu      sync.Mutex
	all     []error
	first   error
	hasReal bool
}

// Add records err. Disconnected errors are kept (for diagnostics) but do
// not count toward "a real failure occurred".
func (s *Set) Add(actor string, err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = append(s.all, errors.Wrapf(err, "actor %q", actor))
	if !IsDisconnected(err) && s.first == nil {
		s.first = err
		s.hasReal = true
	}
}

// Err returns nil if the set is empty or holds only Disconnected errors;
// otherwise it returns the first real error with the rest attached.
func (s *Set) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasReal {
		return nil
	}
	var combined error
	var rest []error
	for _, e := range s.all {
		if combined == nil && !IsDisconnected(e) {
			combined = e
			continue
		}
		rest = append(rest, e)
	}
	for _, e := range rest {
		combined = multierr.Append(combined, e)
	}
	return combined
}

// All returns every error recorded, Disconnected included, in arrival
// order.
func (s *Set) All() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]error, len(s.all))
	copy(out, s.all)
	return out
}
