package wiring_test

import (
	"context"
	"time"

	"github.com/gmt-dos/actors/actor"
	"github.com/gmt-dos/actors/data"
	"github.com/gmt-dos/actors/demo"
	"github.com/gmt-dos/actors/model"
	"github.com/gmt-dos/actors/uid"
	"github.com/gmt-dos/actors/wiring"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var sampleUID = uid.New[float64]("sample")

var _ = Describe("Builder", func() {
	It("delivers the full stream independently to every multiplex arm", func() {
		source := actor.New("source", demo.NewSource(1, 2), 0, 1, nil)
		s1 := actor.New("sink1", &demo.Sink{}, 1, 0, nil)
		s2 := actor.New("sink2", &demo.Sink{}, 1, 0, nil)
		s3 := actor.New("sink3", &demo.Sink{}, 1, 0, nil)

		b := wiring.NewBuilder()
		out := wiring.Output(b, source, sampleUID, func(c *demo.Source) (float64, bool) { return c.Next() },
			wiring.WithMultiplex(3))

		Expect(wiring.Into(out, s1, func(c *demo.Sink, e data.Envelope[float64]) { c.Record(*e.Get()) })).To(Succeed())
		Expect(wiring.Into(out, s2, func(c *demo.Sink, e data.Envelope[float64]) { c.Record(*e.Get()) })).To(Succeed())
		Expect(wiring.Into(out, s3, func(c *demo.Sink, e data.Envelope[float64]) { c.Record(*e.Get()) })).To(Succeed())
		Expect(out.Remaining()).To(Equal(0))

		m, err := model.New("s5", nil).Add(source, s1, s2, s3).Check()
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		m, err = m.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = m.Wait()
		Expect(err).NotTo(HaveOccurred())

		Expect(s1.Cell().Client.Values).To(Equal([]float64{1.0, 2.0}))
		Expect(s2.Cell().Client.Values).To(Equal([]float64{1.0, 2.0}))
		Expect(s3.Cell().Client.Values).To(Equal([]float64{1.0, 2.0}))
	})

	It("reuses an existing output rather than duplicating it for a repeated UID on the same actor", func() {
		source := actor.New("source", demo.NewSource(1), 0, 1, nil)
		sink1 := actor.New("sink1", &demo.Sink{}, 1, 0, nil)
		sink2 := actor.New("sink2", &demo.Sink{}, 1, 0, nil)

		b := wiring.NewBuilder()
		outA := wiring.Output(b, source, sampleUID, func(c *demo.Source) (float64, bool) { return c.Next() })
		outB := wiring.Output(b, source, sampleUID, func(c *demo.Source) (float64, bool) { return c.Next() })
		Expect(outA.Hash()).To(Equal(outB.Hash()))

		Expect(wiring.Into(outA, sink1, func(c *demo.Sink, e data.Envelope[float64]) { c.Record(*e.Get()) })).To(Succeed())
		Expect(wiring.Into(outB, sink2, func(c *demo.Sink, e data.Envelope[float64]) { c.Record(*e.Get()) })).To(Succeed())

		Expect(source.Outputs()).To(HaveLen(1))
		Expect(source.Outputs()[0].FanOut()).To(Equal(2))
	})
})
