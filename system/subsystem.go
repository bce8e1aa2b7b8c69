package system

import (
	"github.com/gmt-dos/actors/actor"
	"go.uber.org/zap"
)

// SubSystem wraps an inner System with a matching pair of boundary
// actors, gateway_in and gateway_out, so the whole group plugs into a
// parent Model exactly like a single actor. TI is the payload type
// crossing the inbound boundary, TO the outbound one; both gateways
// run at the same rate so hash uniqueness stays scoped to the
// sub-system and the rate transition is localized at its edge.
type SubSystem[TI, TO any] struct {
	Base

	inner      System
	gatewayIn  *actor.Actor[*Gateway[TI]]
	gatewayOut *actor.Actor[*Gateway[TO]]
}

// NewSubSystem wraps inner, naming the two boundary gateways
// "<name>.gateway_in" / "<name>.gateway_out" and giving both the
// matching rate pair (rate, rate).
func NewSubSystem[TI, TO any](name string, inner System, rate int, log *zap.Logger) *SubSystem[TI, TO] {
	return &SubSystem[TI, TO]{
		Base:       NewBase(name),
		inner:      inner,
		gatewayIn:  actor.New(name+".gateway_in", NewGateway[TI](), rate, rate, log),
		gatewayOut: actor.New(name+".gateway_out", NewGateway[TO](), rate, rate, log),
	}
}

// GatewayIn returns the internal actor carrying the sub-system's input
// boundary port, letting external wiring code treat it like any other
// actor.Task target for wiring.Into.
func (s *SubSystem[TI, TO]) GatewayIn() *actor.Actor[*Gateway[TI]] { return s.gatewayIn }

// GatewayOut returns the internal actor carrying the sub-system's output
// boundary port.
func (s *SubSystem[TI, TO]) GatewayOut() *actor.Actor[*Gateway[TO]] { return s.gatewayOut }

// Build wires the inner System, then registers both gateways and every
// one of the inner System's actors as this SubSystem's own tasks,
// flattening the recursive structure into the single list a Model
// validates and spawns.
func (s *SubSystem[TI, TO]) Build() error {
	if err := s.inner.Build(); err != nil {
		return err
	}
	s.AddTask(s.gatewayIn)
	s.AddTask(s.gatewayOut)
	for _, t := range s.inner.Tasks() {
		s.AddTask(t)
	}
	s.MarkBuilt()
	return nil
}
