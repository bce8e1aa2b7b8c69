// Package port implements the typed input/output endpoints of an Actor.
// Because one Actor owns ports of many different
// payload types, Input and Output here are generic over T but are always
// held by their callers behind the type-erased Input/Output interfaces so
// an Actor can keep a plain slice of them.
package port

import (
	"context"
	"sync"

	"github.com/gmt-dos/actors/data"
	"github.com/gmt-dos/actors/errorset"
	"github.com/gmt-dos/actors/uid"
	"github.com/gmt-dos/actors/xchan"
	"golang.org/x/sync/errgroup"
)

// Kind classifies an I/O descriptor for diagrams and introspection.
// Bootstrap takes priority over Unbounded when a
// port happens to be both, since "this seeds a cycle" is the more
// actionable fact for a diagram reader.
type Kind int

const (
	Regular Kind = iota
	Bootstrap
	Unbounded
)

func (k Kind) String() string {
	switch k {
	case Bootstrap:
		return "bootstrap"
	case Unbounded:
		return "unbounded"
	default:
		return "regular"
	}
}

// Input is the type-erased surface an Actor needs from one of its input
// ports: enough to drive collect() and to validate/diagram wiring.
type Input interface {
	Name() string
	Hash() uint64
	Kind() Kind
	Recv(ctx context.Context) error
	Close()
}

// Output is the type-erased surface an Actor needs from one of its output
// ports: enough to drive distribute()/bootstrap and to validate/diagram
// wiring.
type Output interface {
	Name() string
	Hash() uint64
	Kind() Kind
	FanOut() int
	IsBootstrap() bool
	Send(ctx context.Context) error
	Close()
}

// InputPort receives envelopes of UID U off one channel arm and applies
// them to the owning actor's client via the Apply callback supplied by
// the wiring builder. The callback is responsible for taking the client
// lock (see actor.Cell) — the port itself is lock-free.
type InputPort[T any] struct {
	name         string
	producerHash uint64
	ch           *xchan.Chan[T]
	apply        func(data.Envelope[T])
}

// NewInput builds an input port bound to ch, invoking apply on every
// successfully received envelope. producerHash is the hash of the output
// this input is wired to.
func NewInput[T any](name string, producerHash uint64, ch *xchan.Chan[T], apply func(data.Envelope[T])) *InputPort[T] {
	return &InputPort[T]{name: name, producerHash: producerHash, ch: ch, apply: apply}
}

func (p *InputPort[T]) Name() string { return p.name }
func (p *InputPort[T]) Hash() uint64 { return p.producerHash }
func (p *InputPort[T]) Kind() Kind {
	if p.ch.Unbounded() {
		return Unbounded
	}
	return Regular
}

// Recv awaits one envelope and delegates it to the client's read
// operation. It returns *errorset.Disconnected once the
// paired output has been dropped.
func (p *InputPort[T]) Recv(ctx context.Context) error {
	e, err := p.ch.Recv(ctx)
	if err != nil {
		return err
	}
	p.apply(e)
	return nil
}

func (p *InputPort[T]) Close() { p.ch.Close() }

// OutputPort fans one producer out to zero or more receiver arms. Send
// invokes produce once per tick, then dispatches the result — cloning
// the envelope once per extra arm, rather than re-reading the source,
// and awaits every arm concurrently.
type OutputPort[T any] struct {
	name      string
	hash      uint64
	id        uid.ID[T]
	bootstrap bool
	produce   func() (T, bool)

	mu   sync.Mutex
	arms []*xchan.Chan[T]
}

// NewOutput builds an output port identified by id, with the given
// stable hash (see wiring.Fingerprint). produce is called once per tick
// to obtain the next payload; returning ok=false signals end-of-stream.
func NewOutput[T any](name string, hash uint64, id uid.ID[T], bootstrap bool, produce func() (T, bool)) *OutputPort[T] {
	return &OutputPort[T]{name: name, hash: hash, id: id, bootstrap: bootstrap, produce: produce}
}

// AddArm extends the fan-out with one more receiver channel. Reusing an
// existing output and adding an arm (rather than creating a second
// output for the same UID) is exactly the single-output-per-UID
// invariant.
func (p *OutputPort[T]) AddArm(ch *xchan.Chan[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.arms = append(p.arms, ch)
}

func (p *OutputPort[T]) Name() string      { return p.name }
func (p *OutputPort[T]) Hash() uint64      { return p.hash }
func (p *OutputPort[T]) FanOut() int       { p.mu.Lock(); defer p.mu.Unlock(); return len(p.arms) }
func (p *OutputPort[T]) IsBootstrap() bool { return p.bootstrap }

func (p *OutputPort[T]) Kind() Kind {
	if p.bootstrap {
		return Bootstrap
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.arms {
		if a.Unbounded() {
			return Unbounded
		}
	}
	return Regular
}

// Send produces one payload and awaits delivery on every fan-out arm
// concurrently, returning only once all arms have accepted.
// If produce signals end-of-stream, every arm is closed and a
// Disconnected error is returned to the caller's loop so it can shut
// down in the same way a downstream consumer would observe the output
// disappearing.
func (p *OutputPort[T]) Send(ctx context.Context) error {
	payload, ok := p.produce()
	if !ok {
		p.Close()
		return &errorset.Disconnected{Name: p.name, Hash: p.hash}
	}

	p.mu.Lock()
	arms := make([]*xchan.Chan[T], len(p.arms))
	copy(arms, p.arms)
	p.mu.Unlock()
	if len(arms) == 0 {
		return nil
	}

	env := data.New(p.id, payload)
	g, gctx := errgroup.WithContext(ctx)
	for i, arm := range arms {
		arm := arm
		out := env
		if i > 0 {
			out = env.Clone()
		}
		g.Go(func() error { return arm.Send(gctx, out) })
	}
	return g.Wait()
}

func (p *OutputPort[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.arms {
		a.Close()
	}
}
