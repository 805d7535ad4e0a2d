package oopipe_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vrudhresh/uarch-sim/timing/oopipe"
)

func newEngine(robSize, iqSize, width int, trace string) *oopipe.Engine {
	reader := oopipe.NewTraceReader(strings.NewReader(trace))
	return oopipe.NewEngine(robSize, iqSize, width, reader)
}

var _ = Describe("Engine", func() {
	Describe("three independent op-type-0 instructions", func() {
		It("retires all three with EX duration 1 and a near-2.0 IPC", func() {
			trace := "0 0 1 -1 -1\n4 0 2 -1 -1\n8 0 3 -1 -1\n"
			engine := newEngine(8, 4, 2, trace)
			engine.Run()

			completed := engine.Completed()
			Expect(completed).To(HaveLen(3))

			for i, inst := range completed {
				Expect(inst.SeqNum).To(Equal(i))
				Expect(inst.EX.Duration).To(Equal(1))
			}

			stats := engine.Stats()
			Expect(stats.Instructions).To(Equal(3))
			Expect(stats.IPC()).To(BeNumerically(">", 0.5))
		})
	})

	Describe("a RAW chain of three op-type-2 instructions", func() {
		It("serializes execute: each dependent starts right after its producer finishes", func() {
			// r1 = op(r0); r1 = op(r1); r1 = op(r1) (each depends on the last).
			trace := "0 2 1 0 -1\n4 2 1 1 -1\n8 2 1 1 -1\n"
			engine := newEngine(8, 4, 2, trace)
			engine.Run()

			completed := engine.Completed()
			Expect(completed).To(HaveLen(3))

			for _, inst := range completed {
				Expect(inst.ExecLatency).To(Equal(5))
			}

			Expect(completed[1].EX.Begin).To(Equal(completed[0].EX.Begin + completed[0].EX.Duration))
			Expect(completed[2].EX.Begin).To(Equal(completed[1].EX.Begin + completed[1].EX.Duration))
		})
	})

	Describe("stage-pair invariants", func() {
		It("holds fe_begin < de_begin <= ... <= rt_begin for every retired instruction", func() {
			trace := "0 0 1 -1 -1\n4 1 2 1 -1\n8 2 3 2 1\n"
			engine := newEngine(4, 4, 2, trace)
			engine.Run()

			for _, inst := range engine.Completed() {
				Expect(inst.FE.Begin).To(BeNumerically("<", inst.DE.Begin))
				Expect(inst.DE.Begin).To(BeNumerically("<=", inst.RN.Begin))
				Expect(inst.RN.Begin).To(BeNumerically("<=", inst.RR.Begin))
				Expect(inst.RR.Begin).To(BeNumerically("<=", inst.DI.Begin))
				Expect(inst.DI.Begin).To(BeNumerically("<=", inst.IS.Begin))
				Expect(inst.IS.Begin).To(BeNumerically("<=", inst.EX.Begin))
				Expect(inst.EX.Begin).To(BeNumerically("<=", inst.WB.Begin))
				Expect(inst.WB.Begin).To(BeNumerically("<=", inst.RT.Begin))

				Expect(inst.DE.Begin).To(Equal(inst.FE.Begin + inst.FE.Duration))
				Expect(inst.RN.Begin).To(Equal(inst.DE.Begin + inst.DE.Duration))
				Expect(inst.RR.Begin).To(Equal(inst.RN.Begin + inst.RN.Duration))
				Expect(inst.DI.Begin).To(Equal(inst.RR.Begin + inst.RR.Duration))
				Expect(inst.IS.Begin).To(Equal(inst.DI.Begin + inst.DI.Duration))
				Expect(inst.EX.Begin).To(Equal(inst.IS.Begin + inst.IS.Duration))
				Expect(inst.WB.Begin).To(Equal(inst.EX.Begin + inst.EX.Duration))
				Expect(inst.RT.Begin).To(Equal(inst.WB.Begin + inst.WB.Duration))
			}
		})

		It("retires in fetch (seq_num) order and never exceeds ROB_SIZE / IQ_SIZE", func() {
			trace := "0 0 1 -1 -1\n4 0 2 -1 -1\n8 0 3 -1 -1\n12 0 4 -1 -1\n16 0 5 -1 -1\n"
			engine := newEngine(3, 2, 1, trace)
			engine.Run()

			completed := engine.Completed()
			Expect(completed).To(HaveLen(5))
			for i, inst := range completed {
				Expect(inst.SeqNum).To(Equal(i))
			}
		})
	})

	Describe("a malformed trailing record", func() {
		It("treats it as end of trace rather than an error", func() {
			trace := "0 0 1 -1 -1\nnotahexline\n"
			engine := newEngine(8, 4, 2, trace)
			engine.Run()

			Expect(engine.Completed()).To(HaveLen(1))
		})
	})
})
