package board

import "fmt"

// MoveFlag is the set of special-move markers that make/unmake act on.
type MoveFlag uint8

const (
	FlagCapture MoveFlag = 1 << iota
	FlagEnPassant
	FlagCastleKing
	FlagCastleQueen
	FlagDoublePush

	FlagNormal MoveFlag = 0
)

// Move encodes a chess move in 24 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-14: promotion piece type (NoPieceType if none)
// bits 15-19: flags
type Move uint32

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove creates a non-promoting move. Squares outside 0-63 are a caller
// bug and panic.
func NewMove(from, to Square, flags MoveFlag) Move {
	return newMove(from, to, NoPieceType, flags)
}

// NewPromotion creates a promotion move; add FlagCapture for capture-promotions.
func NewPromotion(from, to Square, promo PieceType, flags MoveFlag) Move {
	if promo < Knight || promo > Queen {
		panic(fmt.Sprintf("board: invalid promotion piece %v", promo))
	}
	return newMove(from, to, promo, flags)
}

func newMove(from, to Square, promo PieceType, flags MoveFlag) Move {
	if !from.IsValid() || !to.IsValid() {
		panic(fmt.Sprintf("board: move squares out of range (%d, %d)", from, to))
	}
	return Move(from) | Move(to)<<6 | Move(promo)<<12 | Move(flags)<<15
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Promotion returns the promotion piece type, NoPieceType if none.
func (m Move) Promotion() PieceType {
	return PieceType((m >> 12) & 7)
}

// Flags returns the move's flag set.
func (m Move) Flags() MoveFlag {
	return MoveFlag((m >> 15) & 0x1F)
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion() != NoPieceType
}

// IsCapture returns true if this move captures a piece, en passant included.
func (m Move) IsCapture() bool {
	return m.Flags()&(FlagCapture|FlagEnPassant) != 0
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flags()&FlagEnPassant != 0
}

// IsCastling returns true if this is a castling move (king's movement).
func (m Move) IsCastling() bool {
	return m.Flags()&(FlagCastleKing|FlagCastleQueen) != 0
}

// IsDoublePush returns true for a two-square pawn advance.
func (m Move) IsDoublePush() bool {
	return m.Flags()&FlagDoublePush != 0
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// ParseMove resolves UCI move text (e.g. "e2e4", "e7e8q") against the legal
// moves of the side to move.
func (p *Position) ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%q: %w", s, ErrInvalidMoveText)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	promo := NoPieceType
	if len(s) == 5 {
		promo = PieceTypeFromChar(s[4])
		if promo < Knight || promo > Queen {
			return NoMove, fmt.Errorf("invalid promotion piece %q: %w", s[4], ErrInvalidMoveText)
		}
	}

	legal := p.GenerateLegalMoves()
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.From() == from && m.To() == to && m.Promotion() == promo {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%s: %w", s, ErrNoMatchingMove)
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [512]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// HistoryRecord is everything Unmake needs to invert one Make.
type HistoryRecord struct {
	Move           Move
	Captured       Piece
	CapturedSquare Square // differs from Move.To() for en passant
	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
}
