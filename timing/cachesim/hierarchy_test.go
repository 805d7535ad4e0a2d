package cachesim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vrudhresh/uarch-sim/timing/cachesim"
)

var _ = Describe("Hierarchy", func() {
	Describe("an L1-only cache with no prefetcher", func() {
		It("treats the first three distinct blocks as misses and a repeat as a hit", func() {
			h := cachesim.NewHierarchy(16, 1024, 2, 0, 0, 0, 0)
			h.Access(true, 0x0)
			h.Access(true, 0x10)
			h.Access(true, 0x20)
			h.Access(true, 0x0)

			Expect(h.Stats.L1Reads).To(Equal(4))
			Expect(h.Stats.L1ReadMiss).To(Equal(3))
			Expect(h.Stats.L1Writeback).To(Equal(0))
		})
	})

	Describe("LRU eviction within a set", func() {
		It("evicts the least-recently-used block once the set is full", func() {
			// BlockSize 16, 2 sets, 1-way: blocks 0 and 2 both map to set 0.
			h := cachesim.NewHierarchy(16, 32, 1, 0, 0, 0, 0)
			h.Access(true, 0x0)  // block 0, set 0: miss, installs.
			h.Access(true, 0x20) // block 2, set 0: miss, evicts block 0.
			h.Access(true, 0x0)  // block 0 again: miss, was evicted.

			Expect(h.Stats.L1Reads).To(Equal(3))
			Expect(h.Stats.L1ReadMiss).To(Equal(3))
		})
	})

	Describe("a dirty eviction from L1 with L2 present", func() {
		It("produces exactly one L2 write", func() {
			// 2 sets at L1; blocks 0 and 2 collide into set 0 with assoc 1.
			h := cachesim.NewHierarchy(16, 32, 1, 1024, 2, 0, 0)
			h.Access(false, 0x0)  // write block 0: miss, installs dirty.
			h.Access(false, 0x20) // write block 2: evicts dirty block 0.

			Expect(h.Stats.L1Writeback).To(Equal(1))
			Expect(h.Stats.L2Writes).To(Equal(1))
		})
	})

	Describe("scenario: sequential reads with a stream buffer attached to L2", func() {
		It("allocates on the first miss and advances on each subsequent suppressed miss", func() {
			h := cachesim.NewHierarchy(64, 1024, 2, 8192, 4, 1, 4)
			h.Access(true, 0x0)
			h.Access(true, 0x40)
			h.Access(true, 0x80)
			h.Access(true, 0xC0)

			// Every access misses at L1 (four distinct blocks, no repeats)
			// and is forwarded to L2 as a demand read.
			Expect(h.Stats.L1Reads).To(Equal(4))
			Expect(h.Stats.L1ReadMiss).To(Equal(4))
			Expect(h.Stats.L2Reads).To(Equal(4))

			// Only the very first L2 access misses for real: by the time the
			// second demand read arrives, L2's own stream buffer (allocated
			// on that first miss) already holds the requested block, so the
			// miss is suppressed.
			Expect(h.Stats.L2ReadMiss).To(Equal(1))

			// 4 prefetched on allocation + 1 more on each of 3 advances.
			Expect(h.Stats.L2Prefetches).To(Equal(7))

			// The stream buffer is owned by L2 itself (the lowest configured
			// level), and L2 has no further level to cascade prefetch reads
			// into — L2_prefetch_reads / L2_prefetch_misses stay at 0. (A
			// literal reading of "issues 4 L2 prefetch reads" would require
			// the buffer to live at L1 instead, which contradicts the
			// original program's wiring of the prefetcher to the lowest
			// configured level; see DESIGN.md.)
			Expect(h.Stats.L2PrefetchReads).To(Equal(0))
			Expect(h.Stats.L2PrefetchMisses).To(Equal(0))
		})

		It("keeps the stream buffer's block sequence strictly increasing by 1 after each advance", func() {
			h := cachesim.NewHierarchy(64, 1024, 2, 8192, 4, 1, 4)
			h.Access(true, 0x0)
			h.Access(true, 0x40)

			contents := h.L2.StreamBufferContents()
			Expect(contents).To(HaveLen(1))
			blocks := contents[0]
			for i := 1; i < len(blocks); i++ {
				Expect(blocks[i]).To(Equal(blocks[i-1] + 1))
			}
		})
	})

	Describe("miss-rate accounting", func() {
		It("matches (readmiss+writemiss)/(reads+writes) at L1", func() {
			h := cachesim.NewHierarchy(16, 1024, 2, 0, 0, 0, 0)
			h.Access(true, 0x0)
			h.Access(false, 0x10)
			h.Access(true, 0x0)

			stats := h.Stats
			total := stats.L1Reads + stats.L1Writes
			misses := stats.L1ReadMiss + stats.L1WriteMiss
			Expect(stats.L1MissRate()).To(BeNumerically("~", float64(misses)/float64(total), 1e-9))
		})
	})
})
