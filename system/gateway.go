package system

import "sync"

// Gateway is the boundary client a SubSystem wires at each edge: it
// stores the latest payload it received and reproduces it verbatim,
// forwarding transparently across the sub-system boundary. It carries
// no transformation logic of its own; its only job is to localize the
// rate transition at the boundary.
type Gateway[T any] struct {
	mu    sync.Mutex
	value T
}

// NewGateway constructs an empty forwarding gateway for payload type T.
func NewGateway[T any]() *Gateway[T] {
	return &Gateway[T]{}
}

// Update is a no-op: a Gateway has no internal computation, only
// pass-through state.
func (g *Gateway[T]) Update() error { return nil }

// Set records the latest payload delivered from outside the boundary.
func (g *Gateway[T]) Set(v T) {
	g.mu.Lock()
	g.value = v
	g.mu.Unlock()
}

// Get returns the last payload recorded by Set.
func (g *Gateway[T]) Get() T {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}
