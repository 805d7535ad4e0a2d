package cachesim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vrudhresh/uarch-sim/timing/cachesim"
)

var _ = Describe("Config", func() {
	It("accepts an L1-only configuration", func() {
		cfg := cachesim.Config{BlockSize: 16, L1Size: 1024, L1Assoc: 2}
		Expect(cfg.Validate()).To(Succeed())
	})

	It("accepts a two-level configuration with a prefetcher", func() {
		cfg := cachesim.Config{
			BlockSize: 64, L1Size: 1024, L1Assoc: 2,
			L2Size: 8192, L2Assoc: 4, PrefN: 1, PrefM: 4,
		}
		Expect(cfg.Validate()).To(Succeed())
	})

	It("rejects an L1 size that doesn't divide evenly into sets", func() {
		cfg := cachesim.Config{BlockSize: 16, L1Size: 1000, L1Assoc: 2}
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("rejects an L2 size given without an L2 associativity", func() {
		cfg := cachesim.Config{BlockSize: 16, L1Size: 1024, L1Assoc: 2, L2Size: 8192}
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("builds a hierarchy from a valid config", func() {
		cfg := cachesim.Config{BlockSize: 16, L1Size: 1024, L1Assoc: 2}
		h, err := cachesim.NewHierarchyFromConfig(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.HasL2()).To(BeFalse())
	})

	It("rejects building a hierarchy from an invalid config", func() {
		cfg := cachesim.Config{BlockSize: 0, L1Size: 1024, L1Assoc: 2}
		_, err := cachesim.NewHierarchyFromConfig(cfg)
		Expect(err).To(HaveOccurred())
	})
})
