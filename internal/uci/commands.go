package uci

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/diagram"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/storage"
)

// handleSave stores the current game under a name. A finished game also
// counts towards the result statistics.
func (u *UCI) handleSave(args []string) {
	if !u.needStore() {
		return
	}
	if len(args) != 1 {
		u.info("Usage: save <name>")
		return
	}

	st, toMove := u.session.Outcome()
	rec := &storage.GameRecord{
		StartFEN: u.session.StartFEN(),
		Moves:    u.session.History(),
		Result:   game.ResultText(st, toMove),
	}
	if err := u.store.SaveGame(args[0], rec); err != nil {
		u.info("Failed to save game: %v", err)
		return
	}

	if st.IsOver() {
		if err := u.store.RecordGame(gameResult(st, toMove, len(rec.Moves))); err != nil {
			u.info("Failed to record result: %v", err)
		}
	}
	fmt.Fprintf(u.out, "saved %s\n", args[0])
}

// gameResult converts a finished status into a statistics entry.
func gameResult(st game.Status, toMove board.Color, plies int) storage.GameResult {
	r := storage.GameResult{Outcome: storage.OutcomeDraw, Plies: plies}
	switch st {
	case game.Checkmate:
		r.Outcome = storage.OutcomeWhiteWins
		if toMove == board.White {
			r.Outcome = storage.OutcomeBlackWins
		}
	default:
		r.DrawReason = st.String()
	}
	return r
}

// handleLoad replays a saved game into the session.
func (u *UCI) handleLoad(args []string) {
	if !u.needStore() {
		return
	}
	if len(args) != 1 {
		u.info("Usage: load <name>")
		return
	}

	rec, err := u.store.LoadGame(args[0])
	if err != nil {
		u.info("%v", err)
		return
	}
	if err := u.session.Replay(rec.StartFEN, rec.Moves); err != nil {
		u.info("Saved game %s does not replay: %v", args[0], err)
		return
	}
	fmt.Fprintf(u.out, "loaded %s (%d moves)\n", rec.Name, len(rec.Moves))
}

// handleGames lists saved games.
func (u *UCI) handleGames() {
	if !u.needStore() {
		return
	}
	games, err := u.store.ListGames()
	if err != nil {
		u.info("%v", err)
		return
	}
	for _, g := range games {
		line := fmt.Sprintf("%s %d %s", g.Name, len(g.Moves), g.Saved.Format("2006-01-02 15:04"))
		if g.Result != "" {
			line += " " + g.Result
		}
		fmt.Fprintln(u.out, line)
	}
}

// handleDelete removes a saved game.
func (u *UCI) handleDelete(args []string) {
	if !u.needStore() {
		return
	}
	if len(args) != 1 {
		u.info("Usage: delete <name>")
		return
	}
	if err := u.store.DeleteGame(args[0]); err != nil {
		u.info("%v", err)
		return
	}
	fmt.Fprintf(u.out, "deleted %s\n", args[0])
}

// handleStats prints the results recorded by save.
func (u *UCI) handleStats() {
	if !u.needStore() {
		return
	}
	stats, err := u.store.LoadStats()
	if err != nil {
		u.info("%v", err)
		return
	}

	fmt.Fprintf(u.out, "games %d white %d black %d draws %d (%.1f%%) plies %d\n",
		stats.GamesFinished, stats.WhiteWins, stats.BlackWins, stats.Draws, stats.DrawRate(), stats.TotalPlies)
	reasons := maps.Keys(stats.DrawsByReason)
	slices.Sort(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(u.out, "%s %d\n", reason, stats.DrawsByReason[reason])
	}
}

// Welcome prints a one-time introduction the first time a database is used.
func (u *UCI) Welcome() {
	if u.store == nil {
		return
	}

	isFirst, err := u.store.IsFirstLaunch()
	if err != nil {
		log.Printf("Warning: Failed to check first launch: %v", err)
		return
	}
	if !isFirst {
		return
	}

	u.info("Welcome to ChessCore. Type 'uci' for options; games are kept with 'save <name>' and summarized by 'stats'.")
	if err := u.store.MarkFirstLaunchComplete(); err != nil {
		log.Printf("Warning: Failed to mark first launch complete: %v", err)
	}
}

func (u *UCI) needStore() bool {
	if u.store == nil {
		u.info("No database open")
		return false
	}
	return true
}

// handleRender draws the board to an .svg or .png file. An optional square
// highlights the legal destinations of the piece on it.
func (u *UCI) handleRender(args []string) {
	if len(args) < 1 || len(args) > 2 {
		u.info("Usage: render <file.svg|file.png> [square]")
		return
	}

	opts := diagram.Options{
		SquareSize:  u.prefs.SquareSize,
		Flipped:     u.prefs.Flipped,
		Coordinates: u.prefs.ShowCoordinates,
	}
	if len(args) == 2 {
		sq, err := board.ParseSquare(args[1])
		if err != nil {
			u.info("%v", err)
			return
		}
		opts.Highlights = u.session.MovesFor(sq)
	}

	path := args[0]
	render := diagram.SVG
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
	case ".png":
		render = diagram.PNG
	default:
		u.info("Unsupported image type: %s", path)
		return
	}

	f, err := os.Create(path)
	if err != nil {
		u.info("%v", err)
		return
	}
	err = render(f, u.session.CurrentBoard(), opts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		u.info("Failed to render %s: %v", path, err)
		return
	}
	fmt.Fprintf(u.out, "wrote %s\n", path)
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 0 {
			u.info("Invalid hash size: %s", value)
			return
		}
		u.table = nil
		if mb > 0 {
			u.table = perft.NewTable(mb)
		}
	case "debug":
		enabled := strings.ToLower(value) == "true"
		board.DebugMoveValidation = enabled
		if enabled {
			u.info("Debug mode enabled")
		}
	case "flipped":
		u.prefs.Flipped = strings.ToLower(value) == "true"
		u.savePrefs()
	case "squaresize":
		size, err := strconv.Atoi(value)
		if err != nil || size < 16 || size > 256 {
			u.info("Invalid square size: %s", value)
			return
		}
		u.prefs.SquareSize = size
		u.savePrefs()
	case "defaultpromotion":
		switch v := strings.ToLower(value); v {
		case "q", "r", "b", "n":
			u.prefs.DefaultPromotion = v
			u.savePrefs()
		default:
			u.info("Invalid promotion piece: %s", value)
		}
	case "defaultfen":
		if _, err := board.ParseFEN(value); err != nil {
			u.info("Invalid FEN: %v", err)
			return
		}
		u.prefs.DefaultFEN = value
		u.savePrefs()
	case "cpuprofile":
		u.stopProfile()
		// Start new profile if path provided
		if value != "" && value != "stop" {
			if err := u.startProfile(value); err != nil {
				u.info("Failed to start profile: %v", err)
				return
			}
			u.info("CPU profiling to %s", value)
		}
	default:
		u.info("Unknown option: %s", name)
	}
}

// savePrefs persists preferences when a database is open.
func (u *UCI) savePrefs() {
	if u.store == nil {
		return
	}
	if err := u.store.SavePreferences(u.prefs); err != nil {
		u.info("Failed to save preferences: %v", err)
	}
}

func (u *UCI) startProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		return errors.Join(err, f.Close())
	}
	u.profileFile = f
	return nil
}

// stopProfile stops profiling if active.
func (u *UCI) stopProfile() {
	if u.profileFile == nil {
		return
	}
	pprof.StopCPUProfile()
	u.profileFile.Close()
	u.profileFile = nil
	u.info("CPU profile saved")
}
