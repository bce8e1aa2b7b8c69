package model_test

import (
	"context"
	"time"

	"github.com/gmt-dos/actors/actor"
	"github.com/gmt-dos/actors/data"
	"github.com/gmt-dos/actors/demo"
	"github.com/gmt-dos/actors/model"
	"github.com/gmt-dos/actors/telemetry"
	"github.com/gmt-dos/actors/uid"
	"github.com/gmt-dos/actors/wiring"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var sampleUID = uid.New[float64]("sample")

func link(b *wiring.Builder, from *actor.Actor[*demo.Doubler], to *actor.Actor[*demo.Doubler]) {
	out := wiring.Output(b, from, sampleUID, func(c *demo.Doubler) (float64, bool) { return c.Next() })
	Expect(wiring.Into(out, to, func(c *demo.Doubler, e data.Envelope[float64]) {
		c.SetIn(*e.Get())
	})).To(Succeed())
}

var _ = Describe("Model validation", func() {
	It("rejects an actor whose NI=0 but carries inputs", func() {
		producer := actor.New("producer", demo.NewSource(1), 0, 1, nil)
		bad := actor.New("bad", &demo.Doubler{}, 0, 1, nil)

		b := wiring.NewBuilder()
		out := wiring.Output(b, producer, sampleUID, func(c *demo.Source) (float64, bool) { return c.Next() })
		Expect(wiring.Into(out, bad, func(c *demo.Doubler, e data.Envelope[float64]) {
			c.SetIn(*e.Get())
		})).To(Succeed())

		_, err := model.New("bad-rate", nil).Add(producer, bad).Check()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("NI=0"))
	})

	It("rejects an input with no matching output in the model", func() {
		producer := actor.New("producer", demo.NewSource(1), 0, 1, nil)
		consumer := actor.New("consumer", &demo.Sink{}, 1, 0, nil)

		b := wiring.NewBuilder()
		out := wiring.Output(b, producer, sampleUID, func(c *demo.Source) (float64, bool) { return c.Next() })
		Expect(wiring.Into(out, consumer, func(c *demo.Sink, e data.Envelope[float64]) {
			c.Record(*e.Get())
		})).To(Succeed())

		// producer is deliberately left out of the model.
		_, err := model.New("dangling", nil).Add(consumer).Check()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("no matching output"))
	})

	It("rejects an incompatible producer/consumer rate pair", func() {
		producer := actor.New("producer", demo.NewSource(1, 2, 3), 0, 3, nil)
		consumer := actor.New("consumer", &demo.Sink{}, 2, 0, nil)

		b := wiring.NewBuilder()
		out := wiring.Output(b, producer, sampleUID, func(c *demo.Source) (float64, bool) { return c.Next() })
		Expect(wiring.Into(out, consumer, func(c *demo.Sink, e data.Envelope[float64]) {
			c.Record(*e.Get())
		})).To(Succeed())

		_, err := model.New("bad-pair", nil).Add(producer, consumer).Check()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("rate incompatible"))
	})
})

var _ = Describe("Model lifecycle", func() {
	It("drains a chain via cascading Disconnected without reporting it as a real error", func() {
		source := actor.New("source", demo.NewSource(1, 2, 3), 0, 1, nil)
		d1 := actor.New("d1", &demo.Doubler{}, 1, 1, nil)
		d2 := actor.New("d2", &demo.Doubler{}, 1, 1, nil)
		d3 := actor.New("d3", &demo.Doubler{}, 1, 1, nil)
		d4 := actor.New("d4", &demo.Doubler{}, 1, 1, nil)
		d5 := actor.New("d5", &demo.Doubler{}, 1, 1, nil)
		sink := actor.New("sink", &demo.Sink{}, 1, 0, nil)

		b := wiring.NewBuilder()
		out := wiring.Output(b, source, sampleUID, func(c *demo.Source) (float64, bool) { return c.Next() })
		Expect(wiring.Into(out, d1, func(c *demo.Doubler, e data.Envelope[float64]) { c.SetIn(*e.Get()) })).To(Succeed())
		link(b, d1, d2)
		link(b, d2, d3)
		link(b, d3, d4)
		link(b, d4, d5)
		last := wiring.Output(b, d5, sampleUID, func(c *demo.Doubler) (float64, bool) { return c.Next() })
		Expect(wiring.Into(last, sink, func(c *demo.Sink, e data.Envelope[float64]) { c.Record(*e.Get()) })).To(Succeed())

		m, err := model.New("s6", nil).Add(source, d1, d2, d3, d4, d5, sink).Check()
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		m, err = m.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = m.Wait()
		Expect(err).NotTo(HaveOccurred())

		Expect(m.State()).To(Equal(model.Completed))
		Expect(sink.Cell().Client.Values).To(HaveLen(3))
		for _, e := range m.Errors() {
			Expect(e.Error()).To(ContainSubstring("disconnected"))
		}
	})

	It("records telemetry across a run when UseMetrics is attached", func() {
		source := actor.New("source", demo.NewSource(1), 0, 1, nil)
		sink := actor.New("sink", &demo.Sink{}, 1, 0, nil)

		b := wiring.NewBuilder()
		out := wiring.Output(b, source, sampleUID, func(c *demo.Source) (float64, bool) { return c.Next() })
		Expect(wiring.Into(out, sink, func(c *demo.Sink, e data.Envelope[float64]) { c.Record(*e.Get()) })).To(Succeed())

		metrics := telemetry.New()
		m, err := model.New("metered", nil).UseMetrics(metrics).Add(source, sink).Check()
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		m, err = m.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = m.Wait()
		Expect(err).NotTo(HaveOccurred())

		Expect(m.Elapsed()).To(BeNumerically(">=", 0))
	})

	It("decimates four ticks into one emitted sum", func() {
		source := actor.New("source", demo.NewSource(1, 1, 1, 1), 0, 1, nil)
		summer := actor.New("summer", &demo.Summer{}, 1, 4, nil)
		sink := actor.New("sink", &demo.Sink{}, 4, 0, nil)

		b := wiring.NewBuilder()
		toSummer := wiring.Output(b, source, sampleUID, func(c *demo.Source) (float64, bool) { return c.Next() })
		Expect(wiring.Into(toSummer, summer, func(c *demo.Summer, e data.Envelope[float64]) { c.SetIn(*e.Get()) })).To(Succeed())
		toSink := wiring.Output(b, summer, sampleUID, func(c *demo.Summer) (float64, bool) { return c.Next() })
		Expect(wiring.Into(toSink, sink, func(c *demo.Sink, e data.Envelope[float64]) { c.Record(*e.Get()) })).To(Succeed())

		m, err := model.New("s2", nil).Add(source, summer, sink).Check()
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		m, err = m.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = m.Wait()
		Expect(err).NotTo(HaveOccurred())

		Expect(sink.Cell().Client.Values).To(Equal([]float64{4.0}))
	})

	It("re-emits one computed value NI/NO times per cycle", func() {
		source := actor.New("source", demo.NewSource(10), 0, 1, nil)
		repeater := actor.New("repeater", &demo.Repeater{}, 4, 1, nil)
		sink := actor.New("sink", &demo.Sink{}, 1, 0, nil)

		b := wiring.NewBuilder()
		toRepeater := wiring.Output(b, source, sampleUID, func(c *demo.Source) (float64, bool) { return c.Next() })
		Expect(wiring.Into(toRepeater, repeater, func(c *demo.Repeater, e data.Envelope[float64]) { c.SetIn(*e.Get()) })).To(Succeed())
		toSink := wiring.Output(b, repeater, sampleUID, func(c *demo.Repeater) (float64, bool) { return c.Next() })
		Expect(wiring.Into(toSink, sink, func(c *demo.Sink, e data.Envelope[float64]) { c.Record(*e.Get()) })).To(Succeed())

		m, err := model.New("s3", nil).Add(source, repeater, sink).Check()
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		m, err = m.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = m.Wait()
		Expect(err).NotTo(HaveOccurred())

		Expect(sink.Cell().Client.Values).To(Equal([]float64{10.0, 10.0, 10.0, 10.0}))
	})
})
