// Package actor implements the Actor update loop: a client plus its
// typed ports plus a compile-time-shaped rate pair (NI, NO), scheduled
// as one of four loop shapes. Naming, rate validation, and the
// bootstrap cardinality rule live here; wiring and lifecycle are one
// layer up in wiring and model.
package actor

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/gmt-dos/actors/errorset"
	"github.com/gmt-dos/actors/port"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Phase is the Actor's current position in one tick of its loop. It
// generalizes the internal phase tags several numerical clients track
// on their own: a metrics consumer or test can read it without
// touching client-private state.
type Phase int32

const (
	Idle Phase = iota
	Collecting
	Updating
	Distributing
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Collecting:
		return "collecting"
	case Updating:
		return "updating"
	case Distributing:
		return "distributing"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Actor wraps one client with its typed ports and rate pair.
type Actor[C Updater] struct {
	name  string
	image string
	ni, no int
	cell  *Cell[C]

	inputs  []port.Input
	outputs []port.Output

	phase atomic.Int32
	log   *zap.Logger
}

// New wraps client into an Actor named name, with rate pair (ni, no),
// both >= 0. An empty name is replaced by the client's type name.
func New[C Updater](name string, client C, ni, no int, log *zap.Logger) *Actor[C] {
	if name == "" {
		name = fmt.Sprintf("%T", client)
	}
	if log == nil {
		log = zap.NewNop()
	}
	a := &Actor[C]{
		name: name,
		ni:   ni,
		no:   no,
		cell: NewCell(client),
		log:  log.With(zap.String("actor", name)),
	}
	a.phase.Store(int32(Idle))
	return a
}

func (a *Actor[C]) Name() string   { return a.name }
func (a *Actor[C]) Image() string  { return a.image }
func (a *Actor[C]) SetImage(p string) { a.image = p }
func (a *Actor[C]) Rates() (ni, no int) { return a.ni, a.no }
func (a *Actor[C]) Cell() *Cell[C]      { return a.cell }
func (a *Actor[C]) Phase() Phase        { return Phase(a.phase.Load()) }

// AddInput appends an already-wired input port; wiring.Builder is the
// only intended caller.
func (a *Actor[C]) AddInput(p port.Input) { a.inputs = append(a.inputs, p) }

// AddOutput appends an already-wired output port, reusing an existing
// output of the same UID is the builder's job, not this method's.
func (a *Actor[C]) AddOutput(p port.Output) { a.outputs = append(a.outputs, p) }

func (a *Actor[C]) Inputs() []port.Input   { return a.inputs }
func (a *Actor[C]) Outputs() []port.Output { return a.outputs }

// Task is the type-erased surface the model needs to validate, run, and
// diagram an actor without knowing its client type. Every *Actor[C]
// satisfies it structurally.
type Task interface {
	Name() string
	Image() string
	Rates() (ni, no int)
	Inputs() []port.Input
	Outputs() []port.Output
	Phase() Phase
	Run(ctx context.Context) error
}

var _ Task = (*Actor[Updater])(nil)

func (a *Actor[C]) setPhase(p Phase) { a.phase.Store(int32(p)) }

// Run drives the actor's lifetime: bootstrap, then the steady loop shape
// selected by (NI, NO). It always returns a non-nil error: ctx.Err()
// once ctx is cancelled, a *errorset.ClientPanic if Update panics, and
// otherwise the expected exit, an *errorset.Disconnected bubbling up
// from a collect or distribute call.
func (a *Actor[C]) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &errorset.ClientPanic{Actor: a.name, Value: r, Stack: debug.Stack()}
			a.log.Error("client panic", zap.Any("value", r))
		}
		// Closing our own outputs on every exit path (Disconnected from an
		// input, ctx cancellation, or a panic) is what makes a downstream
		// drain happen: it propagates termination past us even though we
		// were the one that lost an upstream peer, not our own consumers.
		a.closeOutputs()
		a.setPhase(Stopped)
	}()

	if err := a.bootstrap(ctx); err != nil {
		return err
	}

	switch {
	case a.ni == 0 && a.no > 0:
		return a.runInitiator(ctx)
	case a.ni > 0 && a.no == 0:
		return a.runTerminator(ctx)
	case a.no >= a.ni:
		return a.runDecimation(ctx)
	default:
		return a.runUpsampling(ctx)
	}
}

// bootstrap sends every bootstrap-flagged output before the first
// update, repeating NI/NO times when NO < NI so that downstream inputs
// see the initial payloads their first recv expects.
func (a *Actor[C]) bootstrap(ctx context.Context) error {
	reps := 1
	if a.no > 0 && a.no < a.ni {
		reps = a.ni / a.no
	}
	for r := 0; r < reps; r++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		var g errgroup.Group
		any := false
		for _, o := range a.outputs {
			if !o.IsBootstrap() {
				continue
			}
			any = true
			o := o
			g.Go(func() error { return o.Send(ctx) })
		}
		if !any {
			return nil
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

func (a *Actor[C]) collect(ctx context.Context) error {
	if len(a.inputs) == 0 {
		return nil
	}
	var g errgroup.Group
	for _, in := range a.inputs {
		in := in
		g.Go(func() error { return in.Recv(ctx) })
	}
	return g.Wait()
}

func (a *Actor[C]) distribute(ctx context.Context) error {
	if len(a.outputs) == 0 {
		return nil
	}
	var g errgroup.Group
	for _, o := range a.outputs {
		o := o
		g.Go(func() error { return o.Send(ctx) })
	}
	return g.Wait()
}

// closeOutputs tears down every output arm this actor owns, so a
// consumer's next recv observes Disconnected rather than blocking
// forever on an actor that has already exited.
func (a *Actor[C]) closeOutputs() {
	for _, o := range a.outputs {
		o.Close()
	}
}

func (a *Actor[C]) update() error {
	a.setPhase(Updating)
	return a.cell.update()
}

// runDecimation handles NI>0, NO>0, NO>=NI: the fast side (inputs) runs
// NO/NI times per slow-side emission.
func (a *Actor[C]) runDecimation(ctx context.Context) error {
	ratio := a.no / a.ni
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		for k := 0; k < ratio; k++ {
			a.setPhase(Collecting)
			if err := a.collect(ctx); err != nil {
				return err
			}
			if err := a.update(); err != nil {
				return err
			}
		}
		a.setPhase(Distributing)
		if err := a.distribute(ctx); err != nil {
			return err
		}
	}
}

// runUpsampling handles NI>0, NO>0, NI>NO: the same computed output is
// re-emitted NI/NO times.
func (a *Actor[C]) runUpsampling(ctx context.Context) error {
	ratio := a.ni / a.no
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.setPhase(Collecting)
		if err := a.collect(ctx); err != nil {
			return err
		}
		if err := a.update(); err != nil {
			return err
		}
		a.setPhase(Distributing)
		for k := 0; k < ratio; k++ {
			if err := a.distribute(ctx); err != nil {
				return err
			}
		}
	}
}

func (a *Actor[C]) runInitiator(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.update(); err != nil {
			return err
		}
		a.setPhase(Distributing)
		if err := a.distribute(ctx); err != nil {
			return err
		}
	}
}

func (a *Actor[C]) runTerminator(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.setPhase(Collecting)
		if err := a.collect(ctx); err != nil {
			return err
		}
		if err := a.update(); err != nil {
			return err
		}
	}
}

// RatesCompatible implements the rate-compatibility rule:
// either p <= c with c % p == 0, or p > c with p % c == 0.
func RatesCompatible(producer, consumer int) bool {
	if producer <= 0 || consumer <= 0 {
		return false
	}
	if producer <= consumer {
		return consumer%producer == 0
	}
	return producer%consumer == 0
}
