// Command oopipe runs the out-of-order superscalar pipeline simulator:
// sim <ROB_SIZE> <IQ_SIZE> <WIDTH> <tracefile>.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/vrudhresh/uarch-sim/timing/oopipe"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	if len(os.Args) != 5 {
		fmt.Fprintln(os.Stderr, "usage: oopipe <ROB_SIZE> <IQ_SIZE> <WIDTH> <tracefile>")
		os.Exit(1)
	}

	robSize, err1 := strconv.Atoi(os.Args[1])
	iqSize, err2 := strconv.Atoi(os.Args[2])
	width, err3 := strconv.Atoi(os.Args[3])
	if err1 != nil || err2 != nil || err3 != nil {
		fmt.Fprintln(os.Stderr, "usage: oopipe <ROB_SIZE> <IQ_SIZE> <WIDTH> <tracefile>")
		os.Exit(1)
	}
	if robSize <= 0 || iqSize <= 0 || width <= 0 {
		fmt.Fprintln(os.Stderr, "Error: ROB_SIZE, IQ_SIZE, and WIDTH must all be > 0")
		os.Exit(1)
	}
	tracePath := os.Args[4]

	reader, err := oopipe.OpenTrace(tracePath)
	if err != nil {
		log.Error().Err(err).Str("trace", tracePath).Msg("unable to open trace file")
		fmt.Fprintf(os.Stderr, "Error: Unable to open file %s\n", tracePath)
		os.Exit(1)
	}
	defer reader.Close()

	log.Debug().Int("rob", robSize).Int("iq", iqSize).Int("width", width).Msg("starting simulation")

	engine := oopipe.NewEngine(robSize, iqSize, width, reader)
	engine.Run()

	printReport(os.Stdout, robSize, iqSize, width, tracePath, engine)
}

func printReport(w *os.File, robSize, iqSize, width int, tracePath string, engine *oopipe.Engine) {
	for _, inst := range engine.Completed() {
		feB, feD := stagePair(inst.FE)
		deB, deD := stagePair(inst.DE)
		rnB, rnD := stagePair(inst.RN)
		rrB, rrD := stagePair(inst.RR)
		diB, diD := stagePair(inst.DI)
		isB, isD := stagePair(inst.IS)
		exB, exD := stagePair(inst.EX)
		wbB, wbD := stagePair(inst.WB)
		rtB, rtD := stagePair(inst.RT)

		fmt.Fprintf(w, "%d fu{%d} src{%d,%d} dst{%d} FE{%d,%d} DE{%d,%d} RN{%d,%d} RR{%d,%d} DI{%d,%d} IS{%d,%d} EX{%d,%d} WB{%d,%d} RT{%d,%d}\n",
			inst.SeqNum, inst.OpType, inst.Src1, inst.Src2, inst.Dest,
			feB, feD, deB, deD, rnB, rnD, rrB, rrD,
			diB, diD, isB, isD, exB, exD, wbB, wbD, rtB, rtD)
	}

	stats := engine.Stats()
	fmt.Fprintf(w, "# === Simulator Command =========\n")
	fmt.Fprintf(w, "# sim %d %d %d %s\n", robSize, iqSize, width, tracePath)
	fmt.Fprintf(w, "# === Processor Configuration ===\n")
	fmt.Fprintf(w, "# ROB_SIZE: %d\n", robSize)
	fmt.Fprintf(w, "# IQ_SIZE: %d\n", iqSize)
	fmt.Fprintf(w, "# WIDTH: %d\n", width)
	fmt.Fprintf(w, "# === Simulation Results ========\n")
	fmt.Fprintf(w, "# Dynamic Instruction Count: %d\n", stats.Instructions)
	fmt.Fprintf(w, "# Cycles: %d\n", stats.Cycles)
	fmt.Fprintf(w, "# Instructions Per Cycle (IPC): %s\n", formatIPC(stats.IPC()))
}

func formatIPC(ipc float64) string {
	return fmt.Sprintf("%.2f", ipc)
}

// stagePair returns the two ints fmt.Fprintf needs for one "{b,d}" field,
// printing the sentinel 0,0 for a pair that never got set (spec.md §6).
func stagePair(p oopipe.StagePair) (int, int) {
	begin, duration := p.Begin, p.Duration
	if begin == -1 {
		begin = 0
	}
	if duration == -1 {
		duration = 0
	}
	return begin, duration
}
