package branchpred

// HybridConfig configures a Hybrid (tournament) predictor.
type HybridConfig struct {
	// K is the log2 chooser-table size.
	K uint
	// M1 and N configure the embedded gshare component.
	M1, N uint
	// M2 configures the embedded bimodal component.
	M2 uint
}

// Hybrid chooses between an embedded gshare and bimodal component via a
// chooser table of 2-bit saturating counters, trained only when exactly one
// component was correct (spec.md §4.2).
type Hybrid struct {
	chooser []counter
	k       uint

	bimodal []counter
	m2      uint

	gshare []counter
	m1, n  uint
	ghr    uint32

	stats Stats
}

// NewHybrid constructs a Hybrid predictor per cfg.
func NewHybrid(cfg HybridConfig) *Hybrid {
	chooser := make([]counter, uint64(1)<<cfg.K)
	for i := range chooser {
		chooser[i] = 1
	}
	bimodal := make([]counter, uint64(1)<<cfg.M2)
	for i := range bimodal {
		bimodal[i] = 2
	}
	gshare := make([]counter, uint64(1)<<cfg.M1)
	for i := range gshare {
		gshare[i] = 2
	}
	return &Hybrid{
		chooser: chooser, k: cfg.K,
		bimodal: bimodal, m2: cfg.M2,
		gshare: gshare, m1: cfg.M1, n: cfg.N,
	}
}

func (h *Hybrid) gshareIndex(pc uint64) uint32 {
	p := pcIndex(pc, h.m1)
	if h.n == 0 {
		return p
	}
	lowerBits := h.m1 - h.n
	pcUpper := p >> lowerBits
	pcLower := p & (uint32(1)<<lowerBits - 1)
	return ((pcUpper ^ h.ghr) << lowerBits) | pcLower
}

// Predict returns the chosen component's prediction: gshare if the chooser
// counter is >= 2, else bimodal.
func (h *Hybrid) Predict(pc uint64) bool {
	chooserIdx := pcIndex(pc, h.k)
	gPred := h.gshare[h.gshareIndex(pc)].taken()
	bPred := h.bimodal[pcIndex(pc, h.m2)].taken()
	if h.chooser[chooserIdx].taken() {
		return gPred
	}
	return bPred
}

// Update records the actual outcome for pc. Both component predictions are
// computed against pre-update state; only the selected component's counter
// is updated; the GHR always shifts; and the chooser is trained against the
// pre-update correctness of each component (spec.md §4.2, §5).
func (h *Hybrid) Update(pc uint64, taken bool) {
	chooserIdx := pcIndex(pc, h.k)
	gshareIdx := h.gshareIndex(pc)
	bimodalIdx := pcIndex(pc, h.m2)

	gPred := h.gshare[gshareIdx].taken()
	bPred := h.bimodal[bimodalIdx].taken()
	useGshare := h.chooser[chooserIdx].taken()

	finalPred := bPred
	if useGshare {
		finalPred = gPred
	}
	h.stats.record(finalPred, taken)

	if useGshare {
		h.gshare[gshareIdx] = h.gshare[gshareIdx].update(taken)
	} else {
		h.bimodal[bimodalIdx] = h.bimodal[bimodalIdx].update(taken)
	}

	if h.n > 0 {
		var bit uint32
		if taken {
			bit = 1
		}
		mask := uint32(1)<<h.n - 1
		h.ghr = ((h.ghr >> 1) | (bit << (h.n - 1))) & mask
	}

	gCorrect := gPred == taken
	bCorrect := bPred == taken
	switch {
	case gCorrect && !bCorrect:
		h.chooser[chooserIdx] = h.chooser[chooserIdx].update(true)
	case !gCorrect && bCorrect:
		h.chooser[chooserIdx] = h.chooser[chooserIdx].update(false)
	}
}

// Stats returns the running prediction statistics, tallied against the
// final (selected-component) prediction.
func (h *Hybrid) Stats() Stats { return h.stats }

// GHR returns the current global history register, masked to N bits with
// the newest outcome in bit N-1.
func (h *Hybrid) GHR() uint32 { return h.ghr }

// Tables returns the chooser, gshare, and bimodal tables, keyed for
// dump order {chooser, gshare, bimodal} (spec.md §6).
func (h *Hybrid) Tables() map[string][]TableEntry {
	return map[string][]TableEntry{
		"chooser": dumpTable(h.chooser),
		"gshare":  dumpTable(h.gshare),
		"bimodal": dumpTable(h.bimodal),
	}
}
