package cachesim

import "fmt"

// Config holds the positional tuning knobs for a two-level cache hierarchy.
// L2Size of 0 means no L2: the stream buffers attach directly to L1.
type Config struct {
	BlockSize int
	L1Size    int
	L1Assoc   int
	L2Size    int
	L2Assoc   int
	PrefN     int
	PrefM     int
}

// Validate checks that every size evenly divides into whole sets and that
// the prefetcher parameters are non-negative.
func (c Config) Validate() error {
	if c.BlockSize <= 0 {
		return fmt.Errorf("block size must be > 0")
	}
	if c.L1Size <= 0 || c.L1Assoc <= 0 {
		return fmt.Errorf("L1 size and associativity must be > 0")
	}
	if c.L1Size%(c.BlockSize*c.L1Assoc) != 0 {
		return fmt.Errorf("L1 size must be a multiple of block size * associativity")
	}
	if c.L2Size < 0 || c.L2Assoc < 0 {
		return fmt.Errorf("L2 size and associativity must be >= 0")
	}
	if c.L2Size > 0 {
		if c.L2Assoc <= 0 {
			return fmt.Errorf("L2 associativity must be > 0 when L2 size is > 0")
		}
		if c.L2Size%(c.BlockSize*c.L2Assoc) != 0 {
			return fmt.Errorf("L2 size must be a multiple of block size * associativity")
		}
	}
	if c.PrefN < 0 || c.PrefM < 0 {
		return fmt.Errorf("prefetcher stream count and depth must be >= 0")
	}
	return nil
}

// NewHierarchyFromConfig builds a Hierarchy after validating cfg.
func NewHierarchyFromConfig(cfg Config) (*Hierarchy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache configuration: %w", err)
	}
	return NewHierarchy(cfg.BlockSize, cfg.L1Size, cfg.L1Assoc, cfg.L2Size, cfg.L2Assoc, cfg.PrefN, cfg.PrefM), nil
}
