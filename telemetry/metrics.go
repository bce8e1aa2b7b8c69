// Package telemetry registers the Prometheus metrics the runtime exposes
// about its own scheduling, independent of any client-level metrics a
// numerical client might also publish.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the per-Model collectors. Construct one with New and
// register it with a prometheus.Registerer of the caller's choosing —
// the runtime never touches the default global registry on its own.
type Metrics struct {
	Ticks      *prometheus.CounterVec
	ChanDepth  *prometheus.GaugeVec
	Elapsed    *prometheus.GaugeVec
	Disconnect *prometheus.CounterVec
}

// New builds the collector set, labeled by model name.
func New() *Metrics {
	return &Metrics{
		Ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dos_actors",
			Name:      "actor_ticks_total",
			Help:      "Incremented once when an actor's run loop returns; individual update() calls are not counted.",
		}, []string{"model", "actor"}),
		ChanDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dos_actors",
			Name:      "channel_queue_depth",
			Help:      "Approximate queue depth of an unbounded channel arm.",
		}, []string{"model", "output"}),
		Elapsed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dos_actors",
			Name:      "model_elapsed_seconds",
			Help:      "Elapsed wall-clock time since a Model entered Running.",
		}, []string{"model"}),
		Disconnect: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dos_actors",
			Name:      "disconnects_total",
			Help:      "Number of Disconnected terminations observed, by actor.",
		}, []string{"model", "actor"}),
	}
}

// MustRegister registers every collector on reg, panicking on a
// duplicate registration: metrics wiring mistakes are programmer
// errors, not runtime ones, so they fail fast at startup.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.Ticks, m.ChanDepth, m.Elapsed, m.Disconnect)
}
