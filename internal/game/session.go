// Package game exposes one chess game to a presentation layer: position
// import, board snapshots, per-square move queries, and make/unmake with
// game-end classification.
package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hailam/chesscore/internal/board"
)

var (
	// ErrIllegalMove is returned by MakeMove when the move is not legal in
	// the current position. The session is left unchanged.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNoHistory is returned by UnmakeLastMove when no move has been made
	// since the last SetPosition.
	ErrNoHistory = errors.New("no move to undo")
)

// Session owns one Position and its history. All methods are safe for
// concurrent use; each call runs under the session lock.
type Session struct {
	mu sync.Mutex

	position *board.Position
	startFEN string

	moveHistory    []board.Move
	sanHistory     []string
	positionHashes []uint64 // one per position reached, start included
}

// NewSession starts a session from the standard starting position.
func NewSession() *Session {
	s := &Session{}
	s.reset(board.NewPosition())
	return s
}

// NewSessionFromFEN starts a session from a FEN string.
func NewSessionFromFEN(fen string) (*Session, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	s := &Session{}
	s.reset(pos)
	return s, nil
}

func (s *Session) reset(pos *board.Position) {
	s.position = pos
	s.startFEN = pos.ToFEN()
	s.moveHistory = nil
	s.sanHistory = nil
	s.positionHashes = []uint64{pos.Hash()}
}

// SetPosition replaces the current game with the parsed position. On a
// decode error the session keeps its previous state.
func (s *Session) SetPosition(fen string) error {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return fmt.Errorf("set position: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(pos)
	return nil
}

// CurrentBoard returns a snapshot for rendering. Row 0 is rank 8, column 0
// is file a; values are signed piece codes with zero for empty squares.
func (s *Session) CurrentBoard() [8][8]int8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position.Grid()
}

// MovesFor returns the legal destinations of the piece on sq. The result is
// empty when the square is empty, holds a piece of the side not to move, or
// the piece has no legal moves. Promotion choices collapse to one square.
// A king that may castle also lists the rook's square, matching what
// IsLegalMove and MakeMove accept.
func (s *Session) MovesFor(sq board.Square) []board.Square {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !sq.IsValid() {
		return nil
	}

	var seen board.Bitboard
	var result []board.Square
	add := func(to board.Square) {
		if !seen.IsSet(to) {
			seen = seen.Set(to)
			result = append(result, to)
		}
	}
	for _, m := range s.position.LegalMovesFrom(sq).Slice() {
		add(m.To())
		if m.IsCastling() {
			add(s.castlingRook(m))
		}
	}
	return result
}

// IsLegalMove reports whether some legal move goes from one square to the
// other. Dragging the king onto its own rook counts as castling.
func (s *Session) IsLegalMove(from, to board.Square) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findMove(from, to, board.NoPieceType) != board.NoMove
}

// MakeMove plays the legal move between the two squares. A promotion left
// as NoPieceType promotes to a queen. Illegal requests return an error
// wrapping ErrIllegalMove and do not touch the position.
func (s *Session) MakeMove(from, to board.Square, promotion board.PieceType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.findMove(from, to, promotion)
	if m == board.NoMove {
		return &IllegalMoveError{From: from, To: to, Reason: s.illegalReason(from, to)}
	}
	s.apply(m)
	return nil
}

// MakeUCI plays a move given in long algebraic notation, e.g. "e7e8q".
func (s *Session) MakeUCI(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.position.ParseMove(text)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}
	s.apply(m)
	return nil
}

// MakeSAN plays a move given in Standard Algebraic Notation.
func (s *Session) MakeSAN(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.position.ParseSAN(text)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}
	s.apply(m)
	return nil
}

// UnmakeLastMove takes back the most recent move.
func (s *Session) UnmakeLastMove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.moveHistory) == 0 {
		return ErrNoHistory
	}
	s.position.Unmake()

	n := len(s.moveHistory) - 1
	s.moveHistory = s.moveHistory[:n]
	s.sanHistory = s.sanHistory[:n]
	s.positionHashes = s.positionHashes[:len(s.positionHashes)-1]
	return nil
}

// AllLegalMoves returns every legal move of the side to move.
func (s *Session) AllLegalMoves() []board.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]board.Move(nil), s.position.GenerateLegalMoves().Slice()...)
}

// SideToMove returns the color whose turn it is.
func (s *Session) SideToMove() board.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position.SideToMove
}

// InCheck reports whether the side to move is in check.
func (s *Session) InCheck() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position.InCheck()
}

// FEN returns the current position as FEN.
func (s *Session) FEN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position.ToFEN()
}

// StartFEN returns the position the current game started from.
func (s *Session) StartFEN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startFEN
}

// History returns the moves played so far in UCI notation.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.moveHistory))
	for i, m := range s.moveHistory {
		out[i] = m.String()
	}
	return out
}

// Moves returns the moves played so far.
func (s *Session) Moves() []board.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]board.Move(nil), s.moveHistory...)
}

// SANHistory returns the moves played so far in SAN.
func (s *Session) SANHistory() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sanHistory...)
}

// Position returns a copy of the current position.
func (s *Session) Position() *board.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position.Clone()
}

// Replay resets the session to fen and plays the UCI moves in order. On
// any error the session keeps its previous state.
func (s *Session) Replay(fen string, moves []string) error {
	next, err := NewSessionFromFEN(fen)
	if err != nil {
		return err
	}
	for i, text := range moves {
		if err := next.MakeUCI(text); err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = next.position
	s.startFEN = next.startFEN
	s.moveHistory = next.moveHistory
	s.sanHistory = next.sanHistory
	s.positionHashes = next.positionHashes
	return nil
}

// apply records SAN, makes the move and tracks the repetition hash.
func (s *Session) apply(m board.Move) {
	s.sanHistory = append(s.sanHistory, s.position.SAN(m))
	s.position.Make(m)
	s.moveHistory = append(s.moveHistory, m)
	s.positionHashes = append(s.positionHashes, s.position.Hash())
}

// findMove finds a legal move from src to dst.
func (s *Session) findMove(src, dst board.Square, promotion board.PieceType) board.Move {
	if !src.IsValid() || !dst.IsValid() {
		return board.NoMove
	}
	if promotion == board.NoPieceType {
		promotion = board.Queen
	}

	legal := s.position.LegalMovesFrom(src)
	for _, move := range legal.Slice() {
		if move.To() == dst {
			if move.IsPromotion() && move.Promotion() != promotion {
				continue
			}
			return move
		}

		// Dragging the king onto its own rook castles toward that rook.
		if move.IsCastling() && dst == s.castlingRook(move) {
			return move
		}
	}
	return board.NoMove
}

// castlingRook returns the starting square of the rook a castling move uses.
func (s *Session) castlingRook(move board.Move) board.Square {
	rook := board.H1
	if move.Flags()&board.FlagCastleQueen != 0 {
		rook = board.A1
	}
	if s.position.SideToMove == board.Black {
		rook = rook.Mirror()
	}
	return rook
}
