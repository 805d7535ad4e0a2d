// Package cachesim implements a two-level write-back, write-allocate LRU
// cache hierarchy with a unified stream-buffer prefetcher attached to the
// lowest configured level.
package cachesim

import (
	"container/list"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// LevelConfig describes one cache level's geometry.
type LevelConfig struct {
	BlockSize int
	Size      int
	Assoc     int
}

func (c LevelConfig) numSets() int {
	return c.Size / (c.BlockSize * c.Assoc)
}

// Level is one level of the hierarchy: an Akita directory for tag/LRU
// bookkeeping, an optional stream-buffer set, and a link to the next
// (farther from the processor) level.
type Level struct {
	cfg       LevelConfig
	directory *akitacache.DirectoryImpl
	isL1      bool
	next      *Level
	buffers   *streamBufferSet
	stats     *Stats
}

// newLevel constructs a level. buffers may be nil if this level owns no
// stream buffers. stats is shared across every level in the hierarchy, as
// the counters spec.md §4.3 defines are global, not per-level.
func newLevel(cfg LevelConfig, isL1 bool, buffers *streamBufferSet, stats *Stats) *Level {
	return &Level{
		cfg:  cfg,
		isL1: isL1,
		directory: akitacache.NewDirectory(
			cfg.numSets(),
			cfg.Assoc,
			cfg.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		buffers: buffers,
		stats:   stats,
	}
}

func (l *Level) blockAddr(addr uint64) uint64 {
	return (addr / uint64(l.cfg.BlockSize)) * uint64(l.cfg.BlockSize)
}

func (l *Level) blockNum(addr uint64) uint64 {
	return addr / uint64(l.cfg.BlockSize)
}

// Request services a demand access from the processor (spec.md §4.3,
// "Demand access at L1").
func (l *Level) Request(isRead bool, addr uint64) {
	l.cacheUpdate(isRead, addr, false)
}

// cacheUpdate implements both a top-level demand request and an upper
// level's fill/writeback request, mirroring the original's single
// cache_update entry point for both call sites.
func (l *Level) cacheUpdate(isRead bool, addr uint64, fromWriteback bool) {
	blockAddr := l.blockAddr(addr)
	block := l.directory.Lookup(0, blockAddr)

	if l.isL1 && !fromWriteback {
		if isRead {
			l.stats.L1Reads++
		} else {
			l.stats.L1Writes++
		}
	}

	if block != nil && block.IsValid {
		l.directory.Visit(block)
		if !isRead {
			block.IsDirty = true
		}

		if l.buffers != nil {
			blockNum := l.blockNum(addr)
			if e, pos := l.buffers.find(blockNum); e != nil {
				l.advanceStreamBuffer(e, blockNum, pos)
			}
		}
		return
	}

	blockNum := l.blockNum(addr)
	foundInSB := false
	var sbPos int
	var sbElem *list.Element
	if l.buffers != nil {
		if e, pos := l.buffers.find(blockNum); e != nil {
			foundInSB = true
			sbPos = pos
			sbElem = e
		}
	}

	if l.isL1 && !fromWriteback && !foundInSB {
		if isRead {
			l.stats.L1ReadMiss++
		} else {
			l.stats.L1WriteMiss++
		}
	}
	if !l.isL1 && !foundInSB {
		if fromWriteback {
			l.stats.L2WriteMiss++
		} else {
			l.stats.L2ReadMiss++
		}
	}

	victim := l.directory.FindVictim(blockAddr)
	if victim == nil {
		// Shouldn't happen with a properly sized directory.
		return
	}
	if victim.IsValid {
		oldAddr := victim.Tag
		if victim.IsDirty {
			if l.isL1 {
				l.stats.L1Writeback++
				if l.next != nil {
					l.stats.L2Writes++
					l.next.cacheUpdate(false, oldAddr, true)
				}
			} else {
				l.stats.L2Writeback++
			}
		}
	}

	if foundInSB {
		l.advanceStreamBuffer(sbElem, blockNum, sbPos)
	} else {
		if l.isL1 && !fromWriteback && l.next != nil {
			l.stats.L2Reads++
			l.next.cacheUpdate(true, blockAddr, false)
		}
		if l.buffers != nil {
			l.allocateStreamBuffer(blockNum)
		}
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = !isRead
	l.directory.Visit(victim)
}

func (l *Level) advanceStreamBuffer(e *list.Element, blockNum uint64, pos int) {
	appended := l.buffers.advance(e, blockNum, pos)
	l.countPrefetches(appended)
}

func (l *Level) allocateStreamBuffer(blockNum uint64) {
	newBlocks := l.buffers.allocate(blockNum)
	l.countPrefetches(newBlocks)
}

// countPrefetches tallies new prefetches at this level and, if this is an
// L1 with a backing L2, cascades each one as an L2 prefetch read
// (spec.md §4.3).
func (l *Level) countPrefetches(blocks []uint64) {
	if len(blocks) == 0 {
		return
	}
	if l.isL1 {
		l.stats.L1Prefetches += len(blocks)
	} else {
		l.stats.L2Prefetches += len(blocks)
	}

	if l.isL1 && l.next != nil {
		for _, b := range blocks {
			l.stats.L2PrefetchReads++
			l.next.processPrefetchFromUpperLevel(b * uint64(l.cfg.BlockSize))
		}
	}
}

// processPrefetchFromUpperLevel installs a block fetched speculatively by a
// higher level's stream buffer. Unlike cacheUpdate, a miss here is never
// suppressed by this level's own stream buffers — it is itself the
// cascading prefetch read (spec.md §4.3).
func (l *Level) processPrefetchFromUpperLevel(addr uint64) {
	blockAddr := l.blockAddr(addr)
	block := l.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		l.directory.Visit(block)
		return
	}

	l.stats.L2PrefetchMisses++

	victim := l.directory.FindVictim(blockAddr)
	if victim == nil {
		return
	}
	if victim.IsValid && victim.IsDirty {
		l.stats.L2Writeback++
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	l.directory.Visit(victim)
}

// BlockView is a read-only snapshot of one valid cache block for display.
type BlockView struct {
	Tag   uint64
	Dirty bool
}

// SetContents returns, per set, the valid blocks in MRU-first order. The
// printed tag is addr / (block_size * num_sets) — the bits above the set
// index — not the block-aligned address the directory keys blocks by
// internally (sim.cpp's display_contents, tag_block).
func (l *Level) SetContents() [][]BlockView {
	sets := l.directory.GetSets()
	numSets := uint64(l.cfg.numSets())
	out := make([][]BlockView, len(sets))
	for i, set := range sets {
		for _, b := range set.Blocks {
			if !b.IsValid {
				continue
			}
			tag := (b.Tag / uint64(l.cfg.BlockSize)) / numSets
			out[i] = append(out[i], BlockView{Tag: tag, Dirty: b.IsDirty})
		}
	}
	return out
}

// StreamBufferContents returns each valid buffer's block sequence,
// MRU-first, or nil if this level owns no stream buffers.
func (l *Level) StreamBufferContents() [][]uint64 {
	if l.buffers == nil {
		return nil
	}
	return l.buffers.contents()
}
