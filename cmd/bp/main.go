// Command bp runs the branch predictor simulator:
// sim bimodal <M2> <trace>; sim gshare <M1> <N> <trace>;
// sim hybrid <K> <M1> <N> <M2> <trace>.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/vrudhresh/uarch-sim/timing/branchpred"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Error: Wrong number of inputs")
		os.Exit(1)
	}

	name := os.Args[1]

	var predictor branchpred.Predictor
	var tracePath string
	var commandEcho string

	switch name {
	case "bimodal":
		if len(os.Args) != 4 {
			fmt.Fprintf(os.Stderr, "Error: %s wrong number of inputs:%d\n", name, len(os.Args)-2)
			os.Exit(1)
		}
		m2, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: invalid M2")
			os.Exit(1)
		}
		tracePath = os.Args[3]
		predictor = branchpred.NewBimodal(branchpred.BimodalConfig{M2: uint(m2)})
		commandEcho = fmt.Sprintf("%s %s %d %s", os.Args[0], name, m2, tracePath)

	case "gshare":
		if len(os.Args) != 5 {
			fmt.Fprintf(os.Stderr, "Error: %s wrong number of inputs:%d\n", name, len(os.Args)-2)
			os.Exit(1)
		}
		m1, err1 := strconv.ParseUint(os.Args[2], 10, 64)
		n, err2 := strconv.ParseUint(os.Args[3], 10, 64)
		if err1 != nil || err2 != nil {
			fmt.Fprintln(os.Stderr, "Error: invalid M1/N")
			os.Exit(1)
		}
		tracePath = os.Args[4]
		predictor = branchpred.NewGshare(branchpred.GshareConfig{M1: uint(m1), N: uint(n)})
		commandEcho = fmt.Sprintf("%s %s %d %d %s", os.Args[0], name, m1, n, tracePath)

	case "hybrid":
		if len(os.Args) != 7 {
			fmt.Fprintf(os.Stderr, "Error: %s wrong number of inputs:%d\n", name, len(os.Args)-2)
			os.Exit(1)
		}
		k, err1 := strconv.ParseUint(os.Args[2], 10, 64)
		m1, err2 := strconv.ParseUint(os.Args[3], 10, 64)
		n, err3 := strconv.ParseUint(os.Args[4], 10, 64)
		m2, err4 := strconv.ParseUint(os.Args[5], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			fmt.Fprintln(os.Stderr, "Error: invalid K/M1/N/M2")
			os.Exit(1)
		}
		tracePath = os.Args[6]
		predictor = branchpred.NewHybrid(branchpred.HybridConfig{K: uint(k), M1: uint(m1), N: uint(n), M2: uint(m2)})
		commandEcho = fmt.Sprintf("%s %s %d %d %d %d %s", os.Args[0], name, k, m1, n, m2, tracePath)

	default:
		fmt.Fprintf(os.Stderr, "Error: Wrong branch predictor name:%s\n", name)
		os.Exit(1)
	}

	fmt.Printf("COMMAND\n%s\n", commandEcho)

	reader, err := branchpred.OpenTrace(tracePath)
	if err != nil {
		log.Error().Err(err).Str("trace", tracePath).Msg("unable to open trace file")
		fmt.Fprintf(os.Stderr, "Error: Unable to open file %s\n", tracePath)
		os.Exit(1)
	}
	defer reader.Close()

	for {
		rec, ok := reader.Next()
		if !ok {
			break
		}
		predictor.Predict(rec.Addr)
		predictor.Update(rec.Addr, rec.Taken)
	}

	stats := predictor.Stats()
	fmt.Printf("OUTPUT\n")
	fmt.Printf("number of predictions:\t\t%d\n", stats.Predictions)
	fmt.Printf("number of mispredictions:\t%d\n", stats.Mispredictions)
	fmt.Printf("misprediction rate:\t\t%.2f%%\n", stats.MispredictionRate())

	tables := predictor.Tables()
	printTable := func(label string, key string) {
		fmt.Printf("FINAL %s CONTENTS\n", label)
		for _, e := range tables[key] {
			fmt.Printf("%d\t%d\n", e.Index, e.Counter)
		}
	}

	switch name {
	case "bimodal":
		printTable("BIMODAL", "bimodal")
	case "gshare":
		printTable("GSHARE", "gshare")
	case "hybrid":
		printTable("CHOOSER", "chooser")
		printTable("GSHARE", "gshare")
		printTable("BIMODAL", "bimodal")
	}
}
