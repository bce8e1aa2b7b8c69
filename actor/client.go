package actor

import "sync"

// Updater is the one method every client plugged into an Actor must
// provide: one synchronous step that may not block for I/O.
// Per-UID read/write operations are not modeled as a Go interface —
// Go methods cannot carry their own type parameters — so the wiring
// builder instead captures them as closures bound to the concrete
// client type at Input/Output construction time (see wiring.Builder).
type Updater interface {
	Update() error
}

// Cell is the shared-ownership container for an Actor's client. It is
// reached both by the owning Actor's update loop and by the Actor's
// input/output port callbacks on Read/Write, so access is serialized
// by a plain mutex — held only for the duration of one Read, Write, or
// Update call, never across a channel operation.
type Cell[C Updater] struct {
	mu     sync.Mutex
	Client C
}

// NewCell wraps client for shared access by an Actor and its ports.
func NewCell[C Updater](client C) *Cell[C] {
	return &Cell[C]{Client: client}
}

// Guard runs fn with the client lock held. Wiring code wraps each
// per-UID Read/Write closure in Guard so concurrent input ports never
// race on the client.
func (c *Cell[C]) Guard(fn func(C)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.Client)
}

func (c *Cell[C]) update() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Client.Update()
}
