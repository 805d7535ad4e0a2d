package cachesim

import "container/list"

// streamBuffer is one FIFO of predicted-future block numbers.
type streamBuffer struct {
	blocks []uint64
	valid  bool
}

// streamBufferSet holds N stream buffers for one cache level, ordered
// MRU-to-head; a small linear scan outperforms an auxiliary index for the
// handful of buffers any real configuration uses.
type streamBufferSet struct {
	order *list.List // of *streamBuffer, front = MRU
	depth int
}

// newStreamBufferSet returns nil when n is 0: a level with no stream
// buffers carries no prefetch state at all.
func newStreamBufferSet(n, depth int) *streamBufferSet {
	if n == 0 {
		return nil
	}
	s := &streamBufferSet{order: list.New(), depth: depth}
	for i := 0; i < n; i++ {
		s.order.PushBack(&streamBuffer{})
	}
	return s
}

// find locates the buffer containing blockNum and the 0-indexed position of
// the hit within it.
func (s *streamBufferSet) find(blockNum uint64) (*list.Element, int) {
	for e := s.order.Front(); e != nil; e = e.Next() {
		sb := e.Value.(*streamBuffer)
		if !sb.valid {
			continue
		}
		for i, b := range sb.blocks {
			if b == blockNum {
				return e, i
			}
		}
	}
	return nil, -1
}

// advance drops the first pos+1 entries and appends that many new
// consecutive block numbers, continuing from the old tail (or from
// blockNum+1 if the buffer emptied). It returns the appended blocks and
// moves the buffer to MRU.
func (s *streamBufferSet) advance(e *list.Element, blockNum uint64, pos int) []uint64 {
	sb := e.Value.(*streamBuffer)
	numRemoved := pos + 1
	sb.blocks = sb.blocks[numRemoved:]

	var next uint64
	if len(sb.blocks) > 0 {
		next = sb.blocks[len(sb.blocks)-1] + 1
	} else {
		next = blockNum + 1
	}

	appended := make([]uint64, 0, numRemoved)
	for i := 0; i < numRemoved; i++ {
		sb.blocks = append(sb.blocks, next)
		appended = append(appended, next)
		next++
	}

	s.order.MoveToFront(e)
	return appended
}

// allocate reassigns the current LRU buffer to a fresh stream starting at
// missBlockNum+1, moves it to MRU, and returns the blocks it now holds.
func (s *streamBufferSet) allocate(missBlockNum uint64) []uint64 {
	e := s.order.Back()
	sb := e.Value.(*streamBuffer)

	sb.blocks = make([]uint64, s.depth)
	for i := 0; i < s.depth; i++ {
		sb.blocks[i] = missBlockNum + uint64(i+1)
	}
	sb.valid = true

	s.order.MoveToFront(e)
	return append([]uint64(nil), sb.blocks...)
}

// contents returns every valid non-empty buffer's block sequence, MRU
// buffer first.
func (s *streamBufferSet) contents() [][]uint64 {
	var out [][]uint64
	for e := s.order.Front(); e != nil; e = e.Next() {
		sb := e.Value.(*streamBuffer)
		if sb.valid && len(sb.blocks) > 0 {
			out = append(out, append([]uint64(nil), sb.blocks...))
		}
	}
	return out
}
