// Package plainmodel implements the serializable, generics-free mirror
// of an Actor/Model graph. It is the shape Graphviz rendering and JSON
// introspection consume, and the payload format for on-disk diagrams.
package plainmodel

import (
	"github.com/gmt-dos/actors/actor"
	"github.com/gmt-dos/actors/port"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IO mirrors one input or output descriptor: name, hash, fan-out count,
// rate, and display kind.
type IO struct {
	Name   string `json:"name"`
	Hash   uint64 `json:"hash"`
	FanOut int    `json:"fan_out"`
	Rate   int    `json:"rate"`
	Kind   string `json:"kind"`
}

// Actor mirrors one actor.Task: client name, (input-rate, output-rate),
// ordered I/O descriptors, and an optional nested sub-graph for
// sub-systems whose image is set.
type Actor struct {
	Client   string  `json:"client"`
	InRate   int     `json:"in_rate"`
	OutRate  int     `json:"out_rate"`
	Inputs   []IO    `json:"inputs"`
	Outputs  []IO    `json:"outputs"`
	Image    string  `json:"image,omitempty"`
	SubGraph *Graph  `json:"sub_graph,omitempty"`
}

// Graph mirrors an entire Model: its optional name and its actors, in
// the order of the task list it was built from.
type Graph struct {
	Name   string  `json:"name,omitempty"`
	Actors []Actor `json:"actors"`
}

// FromTask builds the Plain-actor mirror of one live actor.Task. Hashes
// are copied verbatim so the round trip (to_plain -> from_plain ->
// to_plain) is stable modulo hash recomputation, which this package
// never does — hashes are wiring-time facts, not derived here.
func FromTask(t actor.Task) Actor {
	ni, no := t.Rates()
	pa := Actor{
		Client:  t.Name(),
		InRate:  ni,
		OutRate: no,
		Image:   t.Image(),
	}
	for _, in := range t.Inputs() {
		pa.Inputs = append(pa.Inputs, IO{
			Name: in.Name(),
			Hash: in.Hash(),
			Rate: ni,
			Kind: in.Kind().String(),
		})
	}
	for _, out := range t.Outputs() {
		pa.Outputs = append(pa.Outputs, IO{
			Name:   out.Name(),
			Hash:   out.Hash(),
			FanOut: out.FanOut(),
			Rate:   no,
			Kind:   out.Kind().String(),
		})
	}
	return pa
}

// FromTasks builds a whole Graph mirror, named name, from a list of
// live actor.Task values (a Model's own actors, in spawn order).
func FromTasks(name string, tasks []actor.Task) Graph {
	g := Graph{Name: name}
	for _, t := range tasks {
		g.Actors = append(g.Actors, FromTask(t))
	}
	return g
}

// ToJSON encodes g using the stable on-disk schema above.
func ToJSON(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// FromJSON decodes a Graph previously produced by ToJSON.
func FromJSON(b []byte) (Graph, error) {
	var g Graph
	err := json.Unmarshal(b, &g)
	return g, err
}

// kindOf re-derives the port.Kind enum from an IO's textual kind, the
// inverse of port.Kind.String.
func kindOf(k string) port.Kind {
	switch k {
	case "bootstrap":
		return port.Bootstrap
	case "unbounded":
		return port.Unbounded
	default:
		return port.Regular
	}
}
