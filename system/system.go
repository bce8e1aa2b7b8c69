// Package system implements Sub-system/System composition: a
// user-defined group of actors that wires itself together internally
// and exposes itself to a parent Model as an ordinary list of
// actor.Task values, plus the SubSystem wrapper that adds a matching
// pair of boundary gateway actors so the whole group plugs into a
// parent exactly like one actor.
package system

import (
	"fmt"
	"sync"

	"github.com/gmt-dos/actors/actor"
)

// State is a System's position in its New -> Built lifecycle. Unlike
// model.State this has no Running/Completed: a System is consumed by
// a Model, which drives its own lifecycle over the flattened task
// list.
type State int

const (
	New State = iota
	Built
)

func (s State) String() string {
	if s == Built {
		return "built"
	}
	return "new"
}

// System is implemented by a user-defined struct that groups several
// actors and knows how to wire them together. Build may run only once,
// in state New, and must leave the System in state Built; Tasks may be
// called only once Built.
type System interface {
	Name() string
	State() State
	Build() error
	Tasks() []actor.Task
}

// Base provides the state bookkeeping and task accumulation shared by
// every concrete System. Embed it in a user-defined struct and call
// AddTask from Build, finishing with MarkBuilt.
type Base struct {
	mu    sync.Mutex
	name  string
	state State
	tasks []actor.Task
}

// NewBase starts a System named name in state New.
func NewBase(name string) Base {
	return Base{name: name}
}

func (b *Base) Name() string { return b.name }
func (b *Base) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// AddTask registers one internal actor. Valid only while building, i.e.
// before MarkBuilt is called.
func (b *Base) AddTask(t actor.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != New {
		panic(fmt.Sprintf("system %q: AddTask called in state %s, want new", b.name, b.state))
	}
	b.tasks = append(b.tasks, t)
}

// MarkBuilt transitions New -> Built. Build implementations call this
// once internal wiring is complete; wiring a System that has not been
// Built into a parent panics, since Go cannot reject it at compile
// time the way a type-level state machine would.
func (b *Base) MarkBuilt() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != New {
		panic(fmt.Sprintf("system %q: MarkBuilt called in state %s, want new", b.name, b.state))
	}
	b.state = Built
}

// Tasks returns every internal actor registered via AddTask, in
// registration order. Valid only once Built.
func (b *Base) Tasks() []actor.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Built {
		panic(fmt.Sprintf("system %q: Tasks called in state %s, want built", b.name, b.state))
	}
	out := make([]actor.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}
