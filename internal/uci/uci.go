// Package uci implements a line-oriented text protocol over a game session:
// the position and perft commands of the Universal Chess Interface plus
// commands for querying and playing the game, saving it and drawing it.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/storage"
)

// UCI reads commands and drives one game session.
type UCI struct {
	session *game.Session
	store   *storage.Storage // nil disables save, load and games
	prefs   *storage.Preferences

	out    io.Writer
	errOut io.Writer

	// Perft worker count; zero means GOMAXPROCS
	Workers int

	// Perft hash table, nil when disabled
	table *perft.Table

	// CPU profiling
	profileFile *os.File
}

// New creates a protocol handler for session. Command output goes to out,
// diagnostics to errOut. store may be nil.
func New(session *game.Session, store *storage.Storage, out, errOut io.Writer) *UCI {
	u := &UCI{
		session: session,
		store:   store,
		prefs:   storage.DefaultPreferences(),
		out:     out,
		errOut:  errOut,
	}
	if store != nil {
		prefs, err := store.LoadPreferences()
		if err != nil {
			log.Printf("load preferences: %v", err)
		} else {
			u.prefs = prefs
		}
	}
	return u
}

// Run reads commands from in until "quit", end of input or ctx is done.
func (u *UCI) Run(ctx context.Context, in io.Reader) error {
	defer u.stopProfile()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if quit := u.Execute(ctx, scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs a single command line and reports whether it was "quit".
func (u *UCI) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := parts[0]
	args := parts[1:]

	if board.DebugMoveValidation {
		u.info("DEBUG: %s", strings.Join(parts, " "))
	}

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		fmt.Fprintln(u.out, "readyok")
	case "ucinewgame":
		u.handleNewGame()
	case "position":
		u.handlePosition(args)
	case "go":
		u.handleGo(ctx, args)
	case "perft":
		u.handlePerft(ctx, args)
	case "setoption":
		u.handleSetOption(args)
	case "quit":
		return true

	// Session queries
	case "d":
		fmt.Fprint(u.out, u.session.Position().String())
	case "fen":
		fmt.Fprintln(u.out, u.session.FEN())
	case "board":
		u.handleBoard()
	case "moves":
		u.handleMoves(args)
	case "legal":
		u.handleLegal(args)
	case "all":
		u.handleAll()
	case "side":
		fmt.Fprintln(u.out, strings.ToLower(u.session.SideToMove().String()))
	case "status":
		u.handleStatus()
	case "history":
		u.handleHistory()

	// Playing
	case "move":
		u.handleMove(args, u.makeUCI)
	case "san":
		u.handleMove(args, u.session.MakeSAN)
	case "undo":
		if err := u.session.UnmakeLastMove(); err != nil {
			u.info("%v", err)
		}

	// Saved games and diagrams
	case "save":
		u.handleSave(args)
	case "load":
		u.handleLoad(args)
	case "games":
		u.handleGames()
	case "delete":
		u.handleDelete(args)
	case "stats":
		u.handleStats()
	case "render":
		u.handleRender(args)

	default:
		u.info("Unknown command: %s", cmd)
	}
	return false
}

// info writes a diagnostic line.
func (u *UCI) info(format string, args ...any) {
	fmt.Fprintf(u.errOut, "info string "+format+"\n", args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	fmt.Fprintln(u.out, "id name ChessCore")
	fmt.Fprintln(u.out, "id author ChessCore Team")
	fmt.Fprintln(u.out)
	fmt.Fprintln(u.out, "option name Hash type spin default 0 min 0 max 4096")
	fmt.Fprintln(u.out, "option name Debug type check default false")
	fmt.Fprintf(u.out, "option name Flipped type check default %v\n", u.prefs.Flipped)
	fmt.Fprintf(u.out, "option name SquareSize type spin default %d min 16 max 256\n", u.prefs.SquareSize)
	fmt.Fprintf(u.out, "option name DefaultPromotion type combo default %s var q var r var b var n\n", u.prefs.DefaultPromotion)
	fmt.Fprintln(u.out, "option name CPUProfile type string default <empty>")
	fmt.Fprintln(u.out, "uciok")
}

// handleNewGame resets the session to the preferred start position.
func (u *UCI) handleNewGame() {
	if err := u.session.SetPosition(u.prefs.DefaultFEN); err != nil {
		u.info("Invalid default FEN: %v", err)
		_ = u.session.SetPosition(board.StartFEN)
	}
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	// Find "moves" keyword
	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var fen string
	switch args[0] {
	case "startpos":
		fen = board.StartFEN
	case "fen":
		fen = strings.Join(args[1:movesAt], " ")
	default:
		u.info("Invalid position command: %s", args[0])
		return
	}

	var moves []string
	if movesAt < len(args) {
		moves = args[movesAt+1:]
	}
	if err := u.session.Replay(fen, moves); err != nil {
		u.info("Invalid position: %v", err)
		return
	}

	if board.DebugMoveValidation {
		legal := u.session.AllLegalMoves()
		var legalStrs []string
		for i := 0; i < len(legal) && i < 8; i++ {
			legalStrs = append(legalStrs, legal[i].String())
		}
		u.info("DEBUG: After position setup - fen=%s inCheck=%v legal=%v...",
			u.session.FEN(), u.session.InCheck(), legalStrs)
	}
}

// handleGo supports "go perft N", printing the per-move divide.
func (u *UCI) handleGo(ctx context.Context, args []string) {
	if len(args) < 2 || args[0] != "perft" {
		u.info("Only 'go perft <depth>' is supported")
		return
	}
	depth, err := parseDepth(args[1])
	if err != nil {
		u.info("%v", err)
		return
	}

	results, total, err := perft.DivideWithTable(ctx, u.session.Position(), depth, u.Workers, u.table)
	if err != nil {
		u.info("perft: %v", err)
		return
	}
	for _, r := range results {
		fmt.Fprintf(u.out, "%s: %d\n", r.Move, r.Nodes)
	}
	fmt.Fprintf(u.out, "\nNodes searched: %d\n", total)
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(ctx context.Context, args []string) {
	depth := 5
	if len(args) > 0 {
		d, err := parseDepth(args[0])
		if err != nil {
			u.info("%v", err)
			return
		}
		depth = d
	}

	start := time.Now()
	_, nodes, err := perft.DivideWithTable(ctx, u.session.Position(), depth, u.Workers, u.table)
	if err != nil {
		u.info("perft: %v", err)
		return
	}
	elapsed := time.Since(start)

	fmt.Fprintf(u.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(u.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Fprintf(u.out, "NPS: %.0f\n", nps)
	}
}

func parseDepth(s string) (int, error) {
	depth, err := strconv.Atoi(s)
	if err != nil || depth < 1 {
		return 0, fmt.Errorf("invalid depth %q", s)
	}
	return depth, nil
}

// handleBoard prints the 8x8 snapshot, rank 8 first, one signed code per square.
func (u *UCI) handleBoard() {
	grid := u.session.CurrentBoard()
	for _, row := range grid {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = strconv.Itoa(int(v))
		}
		fmt.Fprintln(u.out, strings.Join(cells, " "))
	}
}

// handleMoves prints the legal destinations of the piece on a square.
func (u *UCI) handleMoves(args []string) {
	if len(args) != 1 {
		u.info("Usage: moves <square>")
		return
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		u.info("%v", err)
		return
	}
	fmt.Fprintln(u.out, joinSquares(u.session.MovesFor(sq)))
}

func joinSquares(squares []board.Square) string {
	parts := make([]string, len(squares))
	for i, sq := range squares {
		parts[i] = sq.String()
	}
	return strings.Join(parts, " ")
}

// handleLegal answers whether from-to is a legal move.
func (u *UCI) handleLegal(args []string) {
	if len(args) != 2 {
		u.info("Usage: legal <from> <to>")
		return
	}
	from, err := board.ParseSquare(args[0])
	if err != nil {
		u.info("%v", err)
		return
	}
	to, err := board.ParseSquare(args[1])
	if err != nil {
		u.info("%v", err)
		return
	}
	fmt.Fprintln(u.out, u.session.IsLegalMove(from, to))
}

// handleAll lists every legal move in UCI notation.
func (u *UCI) handleAll() {
	moves := u.session.AllLegalMoves()
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	fmt.Fprintln(u.out, strings.Join(parts, " "))
}

// handleStatus prints the game state and, once over, the result.
func (u *UCI) handleStatus() {
	st, toMove := u.session.Outcome()
	if !st.IsOver() {
		if u.session.InCheck() {
			fmt.Fprintln(u.out, "ongoing check")
			return
		}
		fmt.Fprintln(u.out, st)
		return
	}
	fmt.Fprintf(u.out, "%s\n%s\n", st, game.ResultText(st, toMove))
}

// handleHistory prints the game in numbered SAN.
func (u *UCI) handleHistory() {
	pos, err := board.ParseFEN(u.session.StartFEN())
	if err != nil {
		u.info("%v", err)
		return
	}
	number := pos.FullMoveNumber
	blackFirst := pos.SideToMove == board.Black

	var sb strings.Builder
	for i, san := range u.session.SANHistory() {
		switch {
		case i == 0 && blackFirst:
			fmt.Fprintf(&sb, "%d... ", number)
			number++
		case (i%2 == 0) != blackFirst:
			fmt.Fprintf(&sb, "%d. ", number)
			number++
		}
		sb.WriteString(san)
		sb.WriteByte(' ')
	}
	fmt.Fprintln(u.out, strings.TrimSpace(sb.String()))
}

// makeUCI plays a UCI move. A promotion given without its piece uses the
// preferred promotion piece.
func (u *UCI) makeUCI(text string) error {
	err := u.session.MakeUCI(text)
	if err == nil || len(text) != 4 {
		return err
	}
	if u.session.MakeUCI(text+u.prefs.DefaultPromotion) == nil {
		return nil
	}
	return err
}

// handleMove plays one move with play and reports the result when the
// game ends.
func (u *UCI) handleMove(args []string, play func(string) error) {
	if len(args) != 1 {
		u.info("Usage: move <uci> | san <san>")
		return
	}
	if err := play(args[0]); err != nil {
		u.info("%v", err)
		return
	}
	if result := u.session.Result(); result != "" {
		fmt.Fprintln(u.out, result)
	}
}
