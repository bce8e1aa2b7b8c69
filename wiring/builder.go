package wiring

import (
	"fmt"
	"sync"

	"github.com/gmt-dos/actors/actor"
	"github.com/gmt-dos/actors/data"
	"github.com/gmt-dos/actors/port"
	"github.com/gmt-dos/actors/uid"
	"github.com/gmt-dos/actors/xchan"
)

// Option configures one Output() call's builder options.
type Option struct {
	unbounded bool
	bootstrap bool
	capacity  int
	multiplex int
}

// OptFunc mutates an Option; apply in order with Output(..., opts...).
type OptFunc func(*Option)

// WithUnbounded opts this arm out of back-pressure: a deliberate
// choice, never the default.
func WithUnbounded() OptFunc { return func(o *Option) { o.unbounded = true } }

// WithBootstrap marks the owning output as bootstrap: sent once (or
// NI/NO times) before the owning actor's first update.
func WithBootstrap() OptFunc { return func(o *Option) { o.bootstrap = true } }

// WithCapacity sets this arm's bounded channel capacity (default 1).
func WithCapacity(n int) OptFunc { return func(o *Option) { o.capacity = n } }

// WithMultiplex stages n independent fan-out arms in one call; the
// caller must consume all n via n calls to Into/pop.
func WithMultiplex(n int) OptFunc { return func(o *Option) { o.multiplex = n } }

// Builder stages the construction of outputs and their matching inputs,
// deduplicating repeated outputs on the same (actor, UID) pair.
type Builder struct {
	mu      sync.Mutex
	outputs map[uint64]any // hash -> *port.OutputPort[T]
}

// NewBuilder returns an empty wiring builder. One Builder is normally
// shared across an entire Model (or one System) so that reused outputs
// are found regardless of call order.
func NewBuilder() *Builder {
	return &Builder{outputs: make(map[uint64]any)}
}

// PendingOutput carries the staged receiver ends of one output, waiting
// to be consumed by Into. Every staged end counts toward the output's
// fan-out, so an end left unconsumed fails model validation.
type PendingOutput[T any] struct {
	hash  uint64
	id    uid.ID[T]
	mu    sync.Mutex
	chans []*xchan.Chan[T]
}

// Hash returns the stable fingerprint of the underlying output.
func (p *PendingOutput[T]) Hash() uint64 { return p.hash }

// Remaining reports how many unconsumed receiver ends this carrier still
// holds.
func (p *PendingOutput[T]) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.chans)
}

func (p *PendingOutput[T]) pop() (*xchan.Chan[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.chans) == 0 {
		return nil, fmt.Errorf("wiring: output %q has no unconsumed receiver ends", p.id.Name())
	}
	ch := p.chans[0]
	p.chans = p.chans[1:]
	return ch, nil
}

// Output stages a new (or reused) output of UID id on actor a. produce
// is called under actor a's client lock once per tick to obtain the
// next payload for this UID; returning ok=false signals end-of-stream.
func Output[C actor.Updater, T any](
	b *Builder, a *actor.Actor[C], id uid.ID[T], produce func(C) (T, bool), opts ...OptFunc,
) *PendingOutput[T] {
	opt := Option{capacity: xchan.DefaultCapacity}
	for _, f := range opts {
		f(&opt)
	}

	hash := Fingerprint(a.Name(), id.Name())
	portName := a.Name() + "." + id.Name()

	b.mu.Lock()
	existing, reused := b.outputs[hash]
	b.mu.Unlock()

	var op *port.OutputPort[T]
	if reused {
		op = existing.(*port.OutputPort[T])
	} else {
		op = port.NewOutput(portName, hash, id, opt.bootstrap, func() (T, bool) {
			var (
				val T
				ok  bool
			)
			a.Cell().Guard(func(c C) { val, ok = produce(c) })
			return val, ok
		})
		a.AddOutput(op)
		b.mu.Lock()
		b.outputs[hash] = op
		b.mu.Unlock()
	}

	n := opt.multiplex
	if n <= 0 {
		n = 1
	}
	chans := make([]*xchan.Chan[T], n)
	for i := range chans {
		var ch *xchan.Chan[T]
		if opt.unbounded {
			ch = xchan.NewUnbounded[T](portName)
		} else {
			ch = xchan.NewBounded[T](portName, opt.capacity)
		}
		op.AddArm(ch)
		chans[i] = ch
	}
	return &PendingOutput[T]{hash: hash, id: id, chans: chans}
}

// Into consumes one staged receiver end from p and appends a matching
// input port on actor a, invoking apply under a's client lock on every
// envelope received. Call it once per intended consumer; for a
// multiplexed output, call it n times.
func Into[C actor.Updater, T any](p *PendingOutput[T], a *actor.Actor[C], apply func(C, data.Envelope[T])) error {
	ch, err := p.pop()
	if err != nil {
		return err
	}
	in := port.NewInput(a.Name()+"<-"+p.id.Name(), p.hash, ch, func(e data.Envelope[T]) {
		a.Cell().Guard(func(c C) { apply(c, e) })
	})
	a.AddInput(in)
	return nil
}
