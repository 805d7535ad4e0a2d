package cachesim

// Stats holds the global counters accumulated across both cache levels,
// reported as the lettered measurements block (spec.md §6).
type Stats struct {
	L1Reads, L1ReadMiss               int
	L1Writes, L1WriteMiss             int
	L1Writeback, L1Prefetches         int
	L2Reads, L2ReadMiss               int
	L2PrefetchReads, L2PrefetchMisses int
	L2Writes, L2WriteMiss             int
	L2Writeback, L2Prefetches         int
}

// L1MissRate returns (readmiss+writemiss)/(reads+writes), or 0 if no L1
// accesses occurred.
func (s Stats) L1MissRate() float64 {
	total := s.L1Reads + s.L1Writes
	if total == 0 {
		return 0
	}
	return float64(s.L1ReadMiss+s.L1WriteMiss) / float64(total)
}

// L2MissRate returns readmiss/reads for L2 demand accesses, or 0 if L2 saw
// no demand reads.
func (s Stats) L2MissRate() float64 {
	if s.L2Reads == 0 {
		return 0
	}
	return float64(s.L2ReadMiss) / float64(s.L2Reads)
}

// MemoryTraffic returns the traffic reaching main memory: the lowest
// level's misses, writebacks, and prefetches (spec.md §4.3).
func (s Stats) MemoryTraffic(hasL2 bool) int {
	if hasL2 {
		return s.L2ReadMiss + s.L2WriteMiss + s.L2Writeback + s.L2Prefetches
	}
	return s.L1ReadMiss + s.L1WriteMiss + s.L1Writeback + s.L1Prefetches
}
