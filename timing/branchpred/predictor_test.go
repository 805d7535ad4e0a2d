package branchpred_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vrudhresh/uarch-sim/timing/branchpred"
)

func runTrace(p branchpred.Predictor, trace string) {
	reader := branchpred.NewTraceReader(strings.NewReader(trace))
	for {
		rec, ok := reader.Next()
		if !ok {
			break
		}
		p.Predict(rec.Addr)
		p.Update(rec.Addr, rec.Taken)
	}
}

var _ = Describe("Bimodal", func() {
	It("alternates correct/incorrect on an alternating t/n stream and settles at counter 2", func() {
		bimodal := branchpred.NewBimodal(branchpred.BimodalConfig{M2: 3})
		trace := strings.Repeat("0 t\n0 n\n", 50)
		runTrace(bimodal, trace)

		stats := bimodal.Stats()
		Expect(stats.Predictions).To(Equal(uint64(100)))
		Expect(stats.Mispredictions).To(BeNumerically("~", 50, 1))

		entries := bimodal.Tables()["bimodal"]
		Expect(entries[0].Counter).To(Equal(uint8(2)))
	})

	It("keeps every counter within [0, 3]", func() {
		bimodal := branchpred.NewBimodal(branchpred.BimodalConfig{M2: 2})
		trace := strings.Repeat("0 t\n4 n\n8 t\nc n\n", 20)
		runTrace(bimodal, trace)

		for _, entry := range bimodal.Tables()["bimodal"] {
			Expect(entry.Counter).To(BeNumerically(">=", 0))
			Expect(entry.Counter).To(BeNumerically("<=", 3))
		}
	})
})

var _ = Describe("Gshare", func() {
	It("shifts GHR newest-bit-on-the-left after each update", func() {
		gshare := branchpred.NewGshare(branchpred.GshareConfig{M1: 8, N: 4})
		runTrace(gshare, "0 t\n0 t\n0 t\n0 n\n")
		Expect(gshare.GHR()).To(Equal(uint32(0b0111)))
	})

	It("degenerates to plain PC indexing when N is 0", func() {
		gshare := branchpred.NewGshare(branchpred.GshareConfig{M1: 6, N: 0})
		bimodal := branchpred.NewBimodal(branchpred.BimodalConfig{M2: 6})

		trace := "0 t\n4 n\n8 t\n0 n\n4 t\n"
		runTrace(gshare, trace)
		runTrace(bimodal, trace)

		Expect(gshare.Stats()).To(Equal(bimodal.Stats()))
		Expect(gshare.Tables()["gshare"]).To(Equal(bimodal.Tables()["bimodal"]))
	})
})

var _ = Describe("Hybrid", func() {
	It("keeps every chooser counter within [0, 3]", func() {
		hybrid := branchpred.NewHybrid(branchpred.HybridConfig{K: 4, M1: 6, N: 2, M2: 6})
		runTrace(hybrid, "0 t\n4 n\n8 t\nc n\n10 t\n")

		for _, entry := range hybrid.Tables()["chooser"] {
			Expect(entry.Counter).To(BeNumerically(">=", 0))
			Expect(entry.Counter).To(BeNumerically("<=", 3))
		}
	})

	It("with N=0 behaves exactly like bimodal with parameter M1", func() {
		hybrid := branchpred.NewHybrid(branchpred.HybridConfig{K: 3, M1: 5, N: 0, M2: 5})
		bimodal := branchpred.NewBimodal(branchpred.BimodalConfig{M2: 5})

		trace := "0 t\n4 n\n8 t\n0 n\n4 t\n8 n\n"
		runTrace(hybrid, trace)
		runTrace(bimodal, trace)

		Expect(hybrid.Tables()["gshare"]).To(Equal(bimodal.Tables()["bimodal"]))
	})

	It("reproduces the newest-bit-left GHR convention: \"tttn\" on one PC yields 0111", func() {
		// N=4 is required to surface a 4-bit pattern; see DESIGN.md for why
		// the scenario's GHR value only emerges with a 4-bit history register.
		hybrid := branchpred.NewHybrid(branchpred.HybridConfig{K: 2, M1: 8, N: 4, M2: 4})
		runTrace(hybrid, "0 t\n0 t\n0 t\n0 n\n")
		Expect(hybrid.GHR()).To(Equal(uint32(0b0111)))
	})
})
