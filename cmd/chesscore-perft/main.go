package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/perft"
)

var (
	fen        = flag.String("fen", board.StartFEN, "position to count from")
	depth      = flag.Int("depth", 5, "perft depth")
	divide     = flag.Bool("divide", false, "print the node count below each root move")
	workers    = flag.Int("workers", 0, "parallel root-move workers (0 = GOMAXPROCS)")
	hashMB     = flag.Int("hash", 0, "perft hash table size in MB (0 = off)")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	if *depth < 1 {
		log.Fatalf("depth must be at least 1, got %d", *depth)
	}
	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var table *perft.Table
	if *hashMB > 0 {
		table = perft.NewTable(*hashMB)
	}

	start := time.Now()
	results, nodes, err := perft.DivideWithTable(ctx, pos, *depth, *workers, table)
	if err != nil {
		log.Print(err)
		return
	}
	elapsed := time.Since(start)

	if *divide {
		for _, r := range results {
			fmt.Printf("%s: %d\n", r.Move, r.Nodes)
		}
		fmt.Println()
	}
	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
	if table != nil {
		fmt.Printf("Hash hits: %.1f%%\n", table.HitRate())
	}
}
