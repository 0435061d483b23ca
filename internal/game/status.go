package game

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// Status classifies the current position.
type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	FiftyMoveDraw
	RepetitionDraw
	InsufficientMaterial
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveDraw:
		return "draw by 50-move rule"
	case RepetitionDraw:
		return "draw by threefold repetition"
	case InsufficientMaterial:
		return "draw by insufficient material"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// IsOver reports whether the game has ended.
func (s Status) IsOver() bool {
	return s != Ongoing
}

// Status classifies the position for the side to move. Mate and stalemate
// take precedence over the draw rules.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

// Outcome returns the status together with the side to move, read from the
// same position. On checkmate the side to move is the loser.
func (s *Session) Outcome() (Status, board.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status(), s.position.SideToMove
}

// Result returns a human-readable result line, empty while the game is on.
func (s *Session) Result() string {
	return ResultText(s.Outcome())
}

// status must be called with s.mu held.
func (s *Session) status() Status {
	pos := s.position
	side := pos.SideToMove
	if !pos.HasLegalMoves(side) {
		if pos.IsInCheck(side) {
			return Checkmate
		}
		return Stalemate
	}
	switch {
	case s.isThreefoldRepetition():
		return RepetitionDraw
	case pos.HalfMoveClock >= 100:
		return FiftyMoveDraw
	case pos.IsInsufficientMaterial():
		return InsufficientMaterial
	}
	return Ongoing
}

// ResultText formats a status as a result line. toMove is the side to move
// in the final position.
func ResultText(st Status, toMove board.Color) string {
	switch st {
	case Ongoing:
		return ""
	case Checkmate:
		if toMove == board.White {
			return "Black wins by checkmate"
		}
		return "White wins by checkmate"
	case Stalemate:
		return "Draw by stalemate"
	case RepetitionDraw:
		return "Draw by threefold repetition"
	case FiftyMoveDraw:
		return "Draw by 50-move rule"
	default:
		return "Draw by insufficient material"
	}
}

// isThreefoldRepetition checks if the current position has occurred 3 times.
func (s *Session) isThreefoldRepetition() bool {
	// Need at least 5 positions (4 half-moves) for threefold repetition
	if len(s.positionHashes) < 5 {
		return false
	}

	current := s.positionHashes[len(s.positionHashes)-1]
	count := 0
	for _, h := range s.positionHashes {
		if h == current {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

// Reason says why a from/to pair was rejected.
type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonNoPiece
	ReasonWrongSide
	ReasonBlockedByOwnPiece
	ReasonWouldLeaveKingInCheck
	ReasonInvalidPieceMovement
)

func (r Reason) String() string {
	switch r {
	case ReasonNoPiece:
		return "no piece on the origin square"
	case ReasonWrongSide:
		return "not that side's turn"
	case ReasonBlockedByOwnPiece:
		return "destination holds a friendly piece"
	case ReasonWouldLeaveKingInCheck:
		return "would leave the king in check"
	case ReasonInvalidPieceMovement:
		return "the piece cannot move that way"
	default:
		return "unknown"
	}
}

// IllegalMoveError describes a rejected MakeMove request. It matches
// ErrIllegalMove under errors.Is.
type IllegalMoveError struct {
	From, To board.Square
	Reason   Reason
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s%s: %s", e.From, e.To, e.Reason)
}

func (e *IllegalMoveError) Is(target error) bool {
	return target == ErrIllegalMove
}

// illegalReason analyzes why a move from src to dst is invalid.
func (s *Session) illegalReason(src, dst board.Square) Reason {
	if !src.IsValid() || !dst.IsValid() {
		return ReasonUnknown
	}
	piece := s.position.PieceAt(src)
	if piece == board.NoPiece {
		return ReasonNoPiece
	}
	if piece.Color() != s.position.SideToMove {
		return ReasonWrongSide
	}

	destPiece := s.position.PieceAt(dst)
	if destPiece != board.NoPiece && destPiece.Color() == piece.Color() {
		return ReasonBlockedByOwnPiece
	}

	// Generated but filtered out: the king would be left attacked.
	for _, m := range s.position.GeneratePseudoLegalMoves().Slice() {
		if m.From() == src && m.To() == dst {
			return ReasonWouldLeaveKingInCheck
		}
	}
	return ReasonInvalidPieceMovement
}
