// Package xchan implements the channel fabric: FIFO arms carrying
// data.Envelope[T] values of one UID, in bounded (back-pressured) and
// unbounded flavors. Each Chan is one sender-to-receiver arm; fan-out
// is built at the port level from one Chan per consumer.
package xchan

import (
	"context"
	"sync"

	"github.com/gmt-dos/actors/data"
	"github.com/gmt-dos/actors/errorset"
)

// DefaultCapacity is the default bounded-channel capacity.
const DefaultCapacity = 1

// Chan is one arm of a channel: a single sender-to-single-receiver pipe.
// Fan-out is modeled above this type, at the port level, as a slice of
// independent Chan values — one per consumer — so each arm gets its own
// back-pressure.
type Chan[T any] struct {
	name      string
	unbounded bool
	ch        chan data.Envelope[T]
	closeOnce sync.Once
	closed    chan struct{}

	// unbounded support: an internal goroutine pumps from an
	// unboundedly-growing slice so Send never blocks on capacity.
	pumpMu   sync.Mutex
	pumpCond *sync.Cond
	pumpBuf  []data.Envelope[T]
	pumpDone bool
}

// NewBounded creates a Chan with a fixed capacity (>=1). A Send blocks
// until a free slot is available or ctx is cancelled.
func NewBounded[T any](name string, capacity int) *Chan[T] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Chan[T]{
		name:   name,
		ch:     make(chan data.Envelope[T], capacity),
		closed: make(chan struct{}),
	}
}

// NewUnbounded creates a Chan whose Send never blocks on capacity: values
// are pushed onto an internal, dynamically-growing queue and a pump
// goroutine forwards them to the receive side as it drains. This is a
// deliberate opt-in for diagnostic-only or rate-mismatched edges; it
// can grow without bound if the consumer stalls forever.
func NewUnbounded[T any](name string) *Chan[T] {
	c := &Chan[T]{
		name:      name,
		unbounded: true,
		ch:        make(chan data.Envelope[T]),
		closed:    make(chan struct{}),
	}
	c.pumpCond = sync.NewCond(&c.pumpMu)
	go c.pump()
	return c
}

func (c *Chan[T]) pump() {
	for {
		c.pumpMu.Lock()
		for len(c.pumpBuf) == 0 && !c.pumpDone {
			c.pumpCond.Wait()
		}
		if len(c.pumpBuf) == 0 && c.pumpDone {
			c.pumpMu.Unlock()
			close(c.ch)
			return
		}
		e := c.pumpBuf[0]
		c.pumpBuf = c.pumpBuf[1:]
		c.pumpMu.Unlock()

		select {
		case c.ch <- e:
		case <-c.closed:
			return
		}
	}
}

// Send enqueues e. For a bounded Chan this awaits a free slot (or ctx
// cancellation, or the channel having been Closed). For an unbounded
// Chan it appends to the internal queue and returns immediately.
func (c *Chan[T]) Send(ctx context.Context, e data.Envelope[T]) error {
	if c.unbounded {
		c.pumpMu.Lock()
		if c.pumpDone {
			c.pumpMu.Unlock()
			return &errorset.Disconnected{Name: c.name}
		}
		c.pumpBuf = append(c.pumpBuf, e)
		c.pumpCond.Signal()
		c.pumpMu.Unlock()
		return nil
	}
	select {
	case c.ch <- e:
		return nil
	case <-c.closed:
		return &errorset.Disconnected{Name: c.name}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv awaits the next envelope. It returns *errorset.Disconnected once
// the sender side has been Closed and any buffered envelopes have
// drained.
func (c *Chan[T]) Recv(ctx context.Context) (data.Envelope[T], error) {
	if c.unbounded {
		select {
		case e, ok := <-c.ch:
			if !ok {
				return data.Envelope[T]{}, &errorset.Disconnected{Name: c.name}
			}
			return e, nil
		case <-ctx.Done():
			var zero data.Envelope[T]
			return zero, ctx.Err()
		}
	}

	// Bounded Close only signals c.closed, it never closes c.ch, so a
	// plain select on c.ch/c.closed could report Disconnected while a
	// buffered envelope is still sitting in c.ch. Drain c.ch first.
	select {
	case e := <-c.ch:
		return e, nil
	default:
	}
	select {
	case e := <-c.ch:
		return e, nil
	case <-c.closed:
		select {
		case e := <-c.ch:
			return e, nil
		default:
		}
		return data.Envelope[T]{}, &errorset.Disconnected{Name: c.name}
	case <-ctx.Done():
		var zero data.Envelope[T]
		return zero, ctx.Err()
	}
}

// Close tears down the sending side. Recv observes Disconnected once any
// buffered envelopes have drained; a Send on an unbounded Chan after
// Close, or a bounded Send blocked on a full buffer, observes
// Disconnected. Safe to call more than once.
func (c *Chan[T]) Close() {
	c.closeOnce.Do(func() {
		if c.unbounded {
			c.pumpMu.Lock()
			c.pumpDone = true
			c.pumpCond.Signal()
			c.pumpMu.Unlock()
		} else {
			close(c.closed)
		}
	})
}

// Name returns the diagnostic name of this arm (the owning port's name).
func (c *Chan[T]) Name() string { return c.name }

// Unbounded reports whether this arm was constructed with NewUnbounded.
func (c *Chan[T]) Unbounded() bool { return c.unbounded }
