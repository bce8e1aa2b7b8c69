// Command demo wires a minimal S1-style pipeline (source -> doubler ->
// sink) and runs it to completion, optionally rendering its flowchart.
// It exists to exercise model, wiring, and flowchart end to end; it is
// not a deployment artifact.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gmt-dos/actors/actor"
	"github.com/gmt-dos/actors/data"
	"github.com/gmt-dos/actors/demo"
	"github.com/gmt-dos/actors/model"
	"github.com/gmt-dos/actors/uid"
	"github.com/gmt-dos/actors/wiring"
	"go.uber.org/zap"
)

var sampleUID = uid.New[float64]("sample")

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func run() error {
	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	source := actor.New("source", demo.NewSource(1, 2, 3), 0, 1, log)
	doubler := actor.New("doubler", &demo.Doubler{}, 1, 1, log)
	sink := actor.New("sink", &demo.Sink{}, 1, 0, log)

	b := wiring.NewBuilder()

	toDoubler := wiring.Output(b, source, sampleUID, func(c *demo.Source) (float64, bool) { return c.Next() })
	if err := wiring.Into(toDoubler, doubler, func(c *demo.Doubler, e data.Envelope[float64]) {
		c.SetIn(*e.Get())
	}); err != nil {
		return err
	}

	toSink := wiring.Output(b, doubler, sampleUID, func(c *demo.Doubler) (float64, bool) { return c.Next() })
	if err := wiring.Into(toSink, sink, func(c *demo.Sink, e data.Envelope[float64]) {
		c.Record(*e.Get())
	}); err != nil {
		return err
	}

	m, err := model.New("pipeline-demo", log).Add(source, doubler, sink).Check()
	if err != nil {
		return err
	}

	m, err = m.Run(context.Background())
	if err != nil {
		return err
	}
	if _, err := m.Wait(); err != nil {
		return err
	}

	log.Info("demo complete")
	return nil
}
