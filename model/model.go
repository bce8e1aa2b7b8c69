// Package model implements the Model lifecycle: the state machine
// {Unknown -> Ready -> Running -> Completed}, its wiring validation
// pass, spawn, and join. Transitions are one-way; calling a phase's
// method out of order returns an error rather than corrupting state,
// a run-time-checked approach in place of compile-time phantom states
// that Go can't express.
package model

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gmt-dos/actors/actor"
	"github.com/gmt-dos/actors/errorset"
	"github.com/gmt-dos/actors/flowchart"
	"github.com/gmt-dos/actors/plainmodel"
	"github.com/gmt-dos/actors/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State is one position in the Model lifecycle.
type State int32

const (
	Unknown State = iota
	Ready
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Model is a validated collection of actors with a lifecycle state
// machine. The zero value is not usable; construct with New.
type Model struct {
	mu    sync.Mutex
	name  string
	id    uuid.UUID
	tasks []actor.Task
	state State
	graph plainmodel.Graph

	started time.Time
	elapsed time.Duration

	log     *zap.Logger
	metrics *telemetry.Metrics

	cancel context.CancelFunc
	eg     errgroup.Group
	errs   *errorset.Set
}

// New creates an empty, Unknown-state Model named name.
func New(name string, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	return &Model{
		name:  name,
		id:    uuid.New(),
		state: Unknown,
		log:   log.With(zap.String("model", name)),
		errs:  &errorset.Set{},
	}
}

// UseMetrics attaches a telemetry.Metrics instance; call before Run.
func (m *Model) UseMetrics(metrics *telemetry.Metrics) *Model {
	m.metrics = metrics
	return m
}

func (m *Model) Name() string      { return m.name }
func (m *Model) ID() uuid.UUID     { return m.id }
func (m *Model) State() State      { return m.state }
func (m *Model) Elapsed() time.Duration { return m.elapsed }
func (m *Model) Graph() plainmodel.Graph { return m.graph }
func (m *Model) Errors() []error   { return m.errs.All() }

// Add appends actors to the Model. Valid only in state Unknown. "Model +
// Model" and "Actor + Model" composition both reduce to repeated Add
// calls in this Go port, since Go has no operator overloading.
func (m *Model) Add(tasks ...actor.Task) *Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Unknown {
		panic(fmt.Sprintf("model %q: Add called in state %s, want unknown", m.name, m.state))
	}
	m.tasks = append(m.tasks, tasks...)
	return m
}

// Plus concatenates other's actors into m. Both models must still be
// Unknown.
func (m *Model) Plus(other *Model) *Model {
	other.mu.Lock()
	tasks := append([]actor.Task(nil), other.tasks...)
	other.mu.Unlock()
	return m.Add(tasks...)
}

// Check runs the wiring validation pass and, on success,
// builds the Plain-actor mirror and transitions Unknown -> Ready. On
// failure the Model is left in Unknown and the *errorset.WiringError is
// returned naming the offending hashes/actors.
//
// If the TO_DOT environment variable is set, the Plain-actor mirror is
// also rendered to <DATA_REPO>/<model-name>.dot on this transition; a
// write failure surfaces as an *errorset.IOError.
func (m *Model) Check() (*Model, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Unknown {
		return nil, fmt.Errorf("model %q: Check called in state %s, want unknown", m.name, m.state)
	}
	if err := validate(m.tasks); err != nil {
		return nil, err
	}
	m.graph = plainmodel.FromTasks(m.name, m.tasks)
	m.state = Ready
	m.log.Info("model ready", zap.Int("actors", len(m.tasks)))

	if _, ok := os.LookupEnv("TO_DOT"); ok {
		dataRepo := os.Getenv("DATA_REPO")
		if err := flowchart.WriteDOT(dataRepo, m.name, m.graph, flowchart.FromEnv()); err != nil {
			return nil, err
		}
		m.log.Info("dot written", zap.String("data_repo", dataRepo))
	}
	return m, nil
}

// Run spawns every actor's update loop onto its own goroutine and
// transitions Ready -> Running, recording the start time.
// The supplied ctx governs the whole run; cancelling it (or calling
// Abort) makes every actor's pending channel operation return the
// context error, which Wait then reports; each exiting actor also
// closes its outputs.
func (m *Model) Run(ctx context.Context) (*Model, error) {
	m.mu.Lock()
	if m.state != Ready {
		m.mu.Unlock()
		return nil, fmt.Errorf("model %q: Run called in state %s, want ready", m.name, m.state)
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.started = time.Now()
	m.state = Running
	tasks := append([]actor.Task(nil), m.tasks...)
	m.mu.Unlock()

	m.log.Info("model running", zap.Int("actors", len(tasks)))
	for _, t := range tasks {
		t := t
		m.eg.Go(func() error {
			err := t.Run(runCtx)
			m.errs.Add(t.Name(), err)
			if m.metrics != nil {
				m.metrics.Ticks.WithLabelValues(m.name, t.Name()).Inc()
				if errorset.IsDisconnected(err) {
					m.metrics.Disconnect.WithLabelValues(m.name, t.Name()).Inc()
				}
			}
			// Per-actor errors never fail the group: the model aggregates
			// them itself so one actor's Disconnected doesn't force-cancel
			// siblings still draining their own branch.
			return nil
		})
	}
	return m, nil
}

// Abort cancels the run context, propagating cancellation to every
// actor without waiting for their own finite signals.
func (m *Model) Abort() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait joins every actor's goroutine and transitions Running ->
// Completed, recording elapsed time. It returns the first
// non-Disconnected error encountered, with the full list attached; a
// clean finite run returns nil.
func (m *Model) Wait() (*Model, error) {
	m.mu.Lock()
	if m.state != Running {
		m.mu.Unlock()
		return nil, fmt.Errorf("model %q: Wait called in state %s, want running", m.name, m.state)
	}
	m.mu.Unlock()

	_ = m.eg.Wait()

	m.mu.Lock()
	m.elapsed = time.Since(m.started)
	m.state = Completed
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.Elapsed.WithLabelValues(m.name).Set(m.elapsed.Seconds())
	}
	err := m.errs.Err()
	if err != nil {
		m.log.Warn("model completed with errors", zap.Error(err))
	} else {
		m.log.Info("model completed", zap.Duration("elapsed", m.elapsed))
	}
	return m, err
}
