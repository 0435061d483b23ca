// ChessCore - a chess rules core driven by a line-oriented command loop
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

const inMemory = ":memory:"

var (
	fen   = flag.String("fen", "", "start position (default: saved preference, else the standard start)")
	db    = flag.String("db", "", "database directory (default: platform data dir, "+inMemory+" for none on disk)")
	debug = flag.Bool("debug", false, "enable move validation logging")
)

func main() {
	flag.Parse()
	board.DebugMoveValidation = *debug

	store, err := openStore(*db)
	if err != nil {
		log.Fatal("could not open database: ", err)
	}
	defer store.Close()

	start := *fen
	if start == "" {
		prefs, err := store.LoadPreferences()
		if err != nil {
			log.Printf("Warning: preferences not loaded: %v", err)
		}
		start = prefs.DefaultFEN
	}

	session, err := game.NewSessionFromFEN(start)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	protocol := uci.New(session, store, os.Stdout, os.Stderr)
	protocol.Welcome()
	if err := protocol.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.Print(err)
	}
}

func openStore(dir string) (*storage.Storage, error) {
	switch dir {
	case "":
		return storage.NewStorage()
	case inMemory:
		return storage.OpenInMemory()
	default:
		return storage.Open(dir)
	}
}
