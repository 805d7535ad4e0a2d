package branchpred

// GshareConfig configures a Gshare predictor.
type GshareConfig struct {
	// M1 is the log2 table size: the table has 2^M1 entries.
	M1 uint
	// N is the number of global-history bits folded into the index. N must
	// be <= M1; N == 0 degenerates gshare into plain PC indexing.
	N uint
}

// Gshare indexes its counter table by PC bits XORed with a global history
// register of the N most recent outcomes (spec.md §4.2).
type Gshare struct {
	table []counter
	m1, n uint
	ghr   uint32
	stats Stats
}

// NewGshare constructs a Gshare predictor per cfg.
func NewGshare(cfg GshareConfig) *Gshare {
	size := uint64(1) << cfg.M1
	table := make([]counter, size)
	for i := range table {
		table[i] = 2
	}
	return &Gshare{table: table, m1: cfg.M1, n: cfg.N}
}

func (g *Gshare) index(pc uint64) uint32 {
	p := pcIndex(pc, g.m1)
	if g.n == 0 {
		return p
	}
	lowerBits := g.m1 - g.n
	pcUpper := p >> lowerBits
	pcLower := p & (uint32(1)<<lowerBits - 1)
	return ((pcUpper ^ g.ghr) << lowerBits) | pcLower
}

// Predict returns the taken/not-taken prediction for pc without updating
// any state.
func (g *Gshare) Predict(pc uint64) bool {
	return g.table[g.index(pc)].taken()
}

// Update records the actual outcome for pc: the counter is updated before
// the GHR shifts in the new outcome bit, in the newest-bit-on-the-left
// convention (spec.md §4.2, §5).
func (g *Gshare) Update(pc uint64, taken bool) {
	idx := g.index(pc)
	predicted := g.table[idx].taken()
	g.stats.record(predicted, taken)
	g.table[idx] = g.table[idx].update(taken)

	if g.n == 0 {
		return
	}
	var bit uint32
	if taken {
		bit = 1
	}
	mask := uint32(1)<<g.n - 1
	g.ghr = ((g.ghr >> 1) | (bit << (g.n - 1))) & mask
}

// Stats returns the running prediction statistics.
func (g *Gshare) Stats() Stats { return g.stats }

// GHR returns the current global history register, masked to N bits with
// the newest outcome in bit N-1.
func (g *Gshare) GHR() uint32 { return g.ghr }

// Tables returns the gshare table under the key "gshare".
func (g *Gshare) Tables() map[string][]TableEntry {
	return map[string][]TableEntry{"gshare": dumpTable(g.table)}
}
