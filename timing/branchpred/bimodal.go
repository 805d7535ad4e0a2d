package branchpred

// BimodalConfig configures a Bimodal predictor.
type BimodalConfig struct {
	// M2 is the log2 table size: the table has 2^M2 entries.
	M2 uint
}

// Bimodal is a PC-indexed table of 2-bit saturating counters, initialized to
// weakly-taken (spec.md §4.2).
type Bimodal struct {
	table []counter
	bits  uint
	stats Stats
}

// NewBimodal constructs a Bimodal predictor per cfg.
func NewBimodal(cfg BimodalConfig) *Bimodal {
	size := uint64(1) << cfg.M2
	table := make([]counter, size)
	for i := range table {
		table[i] = 2
	}
	return &Bimodal{table: table, bits: cfg.M2}
}

// Predict returns the taken/not-taken prediction for pc without updating
// any state.
func (b *Bimodal) Predict(pc uint64) bool {
	return b.table[pcIndex(pc, b.bits)].taken()
}

// Update records the actual outcome for pc: the misprediction counter is
// updated from the pre-update state, then the counter itself saturates
// toward the outcome.
func (b *Bimodal) Update(pc uint64, taken bool) {
	idx := pcIndex(pc, b.bits)
	predicted := b.table[idx].taken()
	b.stats.record(predicted, taken)
	b.table[idx] = b.table[idx].update(taken)
}

// Stats returns the running prediction statistics.
func (b *Bimodal) Stats() Stats { return b.stats }

// Tables returns the bimodal table under the key "bimodal".
func (b *Bimodal) Tables() map[string][]TableEntry {
	return map[string][]TableEntry{"bimodal": dumpTable(b.table)}
}

func dumpTable(table []counter) []TableEntry {
	entries := make([]TableEntry, len(table))
	for i, c := range table {
		entries[i] = TableEntry{Index: uint32(i), Counter: uint8(c)}
	}
	return entries
}
