// Command cachesim runs the two-level cache simulator:
// sim <BLOCKSIZE> <L1_SIZE> <L1_ASSOC> <L2_SIZE> <L2_ASSOC> <PREF_N> <PREF_M> <trace>.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/vrudhresh/uarch-sim/timing/cachesim"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	if len(os.Args) != 9 {
		fmt.Fprintln(os.Stderr, "Error: Expected 8 command-line arguments.")
		os.Exit(1)
	}

	args := make([]int, 7)
	for i := 0; i < 7; i++ {
		v, err := strconv.Atoi(os.Args[i+1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: invalid numeric argument")
			os.Exit(1)
		}
		args[i] = v
	}
	blockSize, l1Size, l1Assoc, l2Size, l2Assoc, prefN, prefM := args[0], args[1], args[2], args[3], args[4], args[5], args[6]
	tracePath := os.Args[8]

	reader, err := cachesim.OpenTrace(tracePath)
	if err != nil {
		log.Error().Err(err).Str("trace", tracePath).Msg("unable to open trace file")
		fmt.Fprintf(os.Stderr, "Error: Unable to open file %s\n", tracePath)
		os.Exit(1)
	}
	defer reader.Close()

	fmt.Printf("===== Simulator configuration =====\n")
	fmt.Printf("BLOCKSIZE:  %d\n", blockSize)
	fmt.Printf("L1_SIZE:    %d\n", l1Size)
	fmt.Printf("L1_ASSOC:   %d\n", l1Assoc)
	fmt.Printf("L2_SIZE:    %d\n", l2Size)
	fmt.Printf("L2_ASSOC:   %d\n", l2Assoc)
	fmt.Printf("PREF_N:     %d\n", prefN)
	fmt.Printf("PREF_M:     %d\n", prefM)
	fmt.Printf("trace_file: %s\n\n", tracePath)

	cfg := cachesim.Config{
		BlockSize: blockSize, L1Size: l1Size, L1Assoc: l1Assoc,
		L2Size: l2Size, L2Assoc: l2Assoc, PrefN: prefN, PrefM: prefM,
	}
	h, err := cachesim.NewHierarchyFromConfig(cfg)
	if err != nil {
		log.Error().Err(err).Msg("rejecting configuration")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for {
		rec, ok := reader.Next()
		if !ok {
			break
		}
		h.Access(rec.Read, rec.Addr)
	}

	printSetContents(os.Stdout, "L1", h.L1)
	fmt.Println()
	if h.HasL2() {
		printSetContents(os.Stdout, "L2", h.L2)
		fmt.Println()
	}

	prefetchLevel := h.L1
	if h.HasL2() {
		prefetchLevel = h.L2
	}
	printStreamBuffers(os.Stdout, prefetchLevel)

	printMeasurements(os.Stdout, h)
}

func printSetContents(w *os.File, name string, level *cachesim.Level) {
	fmt.Fprintf(w, "===== %s contents =====\n", name)
	for i, set := range level.SetContents() {
		fmt.Fprintf(w, "set %6d:", i)
		for _, b := range set {
			fmt.Fprintf(w, "  %5x", b.Tag)
			if b.Dirty {
				fmt.Fprintf(w, " D")
			} else {
				fmt.Fprintf(w, "  ")
			}
		}
		fmt.Fprintln(w)
	}
}

func printStreamBuffers(w *os.File, level *cachesim.Level) {
	contents := level.StreamBufferContents()
	if contents == nil {
		return
	}

	fmt.Fprintf(w, "===== Stream Buffer(s) contents =====\n")
	for _, buf := range contents {
		for _, block := range buf {
			fmt.Fprintf(w, " %x", block)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

func printMeasurements(w *os.File, h *cachesim.Hierarchy) {
	stats := h.Stats
	fmt.Fprintf(w, "===== Measurements =====\n")
	fmt.Fprintf(w, "a. L1 reads:                   %d\n", stats.L1Reads)
	fmt.Fprintf(w, "b. L1 read misses:             %d\n", stats.L1ReadMiss)
	fmt.Fprintf(w, "c. L1 writes:                  %d\n", stats.L1Writes)
	fmt.Fprintf(w, "d. L1 write misses:            %d\n", stats.L1WriteMiss)
	fmt.Fprintf(w, "e. L1 miss rate:               %.4f\n", stats.L1MissRate())
	fmt.Fprintf(w, "f. L1 writebacks:              %d\n", stats.L1Writeback)
	fmt.Fprintf(w, "g. L1 prefetches:              %d\n", stats.L1Prefetches)
	fmt.Fprintf(w, "h. L2 reads (demand):          %d\n", stats.L2Reads)
	fmt.Fprintf(w, "i. L2 read misses (demand):    %d\n", stats.L2ReadMiss)
	fmt.Fprintf(w, "j. L2 reads (prefetch):        %d\n", stats.L2PrefetchReads)
	fmt.Fprintf(w, "k. L2 read misses (prefetch):  %d\n", stats.L2PrefetchMisses)
	fmt.Fprintf(w, "l. L2 writes:                  %d\n", stats.L2Writes)
	fmt.Fprintf(w, "m. L2 write misses:            %d\n", stats.L2WriteMiss)
	fmt.Fprintf(w, "n. L2 miss rate:               %.4f\n", stats.L2MissRate())
	fmt.Fprintf(w, "o. L2 writebacks:              %d\n", stats.L2Writeback)
	fmt.Fprintf(w, "p. L2 prefetches:              %d\n", stats.L2Prefetches)
	fmt.Fprintf(w, "q. memory traffic:             %d\n", stats.MemoryTraffic(h.HasL2()))
}
