// Package demo provides small Updater clients used to exercise the
// runtime end to end: an Initiator source, a Terminator sink, and a
// handful of through-actors covering every rate-matching loop shape.
// None of them do real optical-system work — they exist to drive the
// scheduler, not to model hardware.
package demo

// Source emits a fixed sequence of float64 samples in order, then
// reports end-of-stream. It is the Initiator client (NI=0).
type Source struct {
	values []float64
	i      int
}

// NewSource builds a Source that will emit values in order, once each.
func NewSource(values ...float64) *Source {
	return &Source{values: values}
}

func (s *Source) Update() error { return nil }

// Next returns the next sample and true, or the zero value and false
// once every sample has been emitted.
func (s *Source) Next() (float64, bool) {
	if s.i >= len(s.values) {
		return 0, false
	}
	v := s.values[s.i]
	s.i++
	return v, true
}

// Doubler maps its single input x to 2x (NI=1, NO=1).
type Doubler struct {
	in, out float64
}

func (d *Doubler) Update() error {
	d.out = d.in * 2
	return nil
}

func (d *Doubler) SetIn(v float64)       { d.in = v }
func (d *Doubler) Next() (float64, bool) { return d.out, true }

// Sink records every value it receives, in arrival order. It is the
// Terminator client (NO=0).
type Sink struct {
	Values []float64
}

func (s *Sink) Update() error      { return nil }
func (s *Sink) Record(v float64)   { s.Values = append(s.Values, v) }

// Summer accumulates every input observed since its last emission and
// resets to zero after each Next call — the decimation client (NO >
// NI): several updates accumulate before one distribute carries the
// running total downstream.
type Summer struct {
	in, sum float64
}

func (s *Summer) Update() error {
	s.sum += s.in
	return nil
}

func (s *Summer) SetIn(v float64) { s.in = v }

func (s *Summer) Next() (float64, bool) {
	v := s.sum
	s.sum = 0
	return v, true
}

// Repeater re-emits its last received input unchanged on every Next
// call — the upsampling client (NI > NO): the same computed value goes
// out NI/NO times per cycle.
type Repeater struct {
	in float64
}

func (r *Repeater) Update() error        { return nil }
func (r *Repeater) SetIn(v float64)      { r.in = v }
func (r *Repeater) Next() (float64, bool) { return r.in, true }

// Looper is one half of a cyclic A<->B pair: without the bootstrap flag
// on its output, the first tick deadlocks
// because neither side has anything to collect yet. With bootstrap set,
// Next is called once (or NI/NO times) before the loop proper, seeding
// the cycle with zero.
type Looper struct {
	in float64
}

func (l *Looper) Update() error         { return nil }
func (l *Looper) SetIn(v float64)       { l.in = v }
func (l *Looper) Next() (float64, bool) { return l.in, true }
