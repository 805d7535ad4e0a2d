package cachesim

// Hierarchy wires an L1 cache, an optional backing L2, and the stream
// buffer set that attaches to whichever is the lowest configured level
// (spec.md §4.3).
type Hierarchy struct {
	L1    *Level
	L2    *Level // nil when absent
	Stats *Stats
}

// NewHierarchy builds the two-level cache described by the CLI's
// positional arguments. An l2Size of 0 means L2 is absent and the stream
// buffers attach directly to L1.
func NewHierarchy(blockSize, l1Size, l1Assoc, l2Size, l2Assoc, prefN, prefM int) *Hierarchy {
	stats := &Stats{}
	h := &Hierarchy{Stats: stats}

	l1Cfg := LevelConfig{BlockSize: blockSize, Size: l1Size, Assoc: l1Assoc}

	if l2Size > 0 {
		l2Cfg := LevelConfig{BlockSize: blockSize, Size: l2Size, Assoc: l2Assoc}
		h.L1 = newLevel(l1Cfg, true, nil, stats)
		h.L2 = newLevel(l2Cfg, false, newStreamBufferSet(prefN, prefM), stats)
		h.L1.next = h.L2
	} else {
		h.L1 = newLevel(l1Cfg, true, newStreamBufferSet(prefN, prefM), stats)
	}

	return h
}

// Access services one demand trace record against L1.
func (h *Hierarchy) Access(isRead bool, addr uint64) {
	h.L1.Request(isRead, addr)
}

// HasL2 reports whether this hierarchy was configured with a backing L2.
func (h *Hierarchy) HasL2() bool {
	return h.L2 != nil
}
