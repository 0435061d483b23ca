package board

import (
	"fmt"
	"strings"
)

// DebugMoveValidation turns on consistency checks inside make/unmake that
// log when the mailbox and the bitboard cache disagree.
var DebugMoveValidation = false

// CastlingRights holds the four independent castling flags.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side still holds the right to castle
// in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleFlag(c, kingSide) != 0
}

func castleFlag(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// castlingClear[sq] lists the rights lost when a piece leaves or lands on sq.
var castlingClear = func() (t [64]CastlingRights) {
	t[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	t[H1] = WhiteKingSideCastle
	t[A1] = WhiteQueenSideCastle
	t[E8] = BlackKingSideCastle | BlackQueenSideCastle
	t[H8] = BlackKingSideCastle
	t[A8] = BlackQueenSideCastle
	return t
}()

// Position is the authoritative game state: a 64-square mailbox, the
// bitboard cache derived from it, and the scalar state fields. The history
// stack lets Unmake reverse the most recent Make.
type Position struct {
	squares [64]Piece

	// Piece bitboards: [Color][PieceType], slot 0 unused
	Pieces [2][7]Bitboard

	// Occupancy bitboards
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Moves since last pawn move or capture (for 50-move rule)
	FullMoveNumber int    // Full move counter, starts at 1

	history []HistoryRecord
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// newEmptyPosition returns a board with no pieces and default counters.
func newEmptyPosition() *Position {
	return &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
}

// Clone returns an independent copy, history included.
func (p *Position) Clone() *Position {
	c := *p
	c.history = append([]HistoryRecord(nil), p.history...)
	return &c
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return p.squares[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.squares[sq] == NoPiece
}

// KingSquare returns the square of c's king, NoSquare if it has none.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[c][King].LSB()
}

// Ply returns the number of moves on the history stack.
func (p *Position) Ply() int {
	return len(p.history)
}

// LastMove returns the most recently made move, NoMove if none.
func (p *Position) LastMove() Move {
	if len(p.history) == 0 {
		return NoMove
	}
	return p.history[len(p.history)-1].Move
}

// setPiece places a piece on an empty square.
func (p *Position) setPiece(piece Piece, sq Square) {
	if piece == NoPiece {
		return
	}
	c := piece.Color()
	bb := SquareBB(sq)

	p.squares[sq] = piece
	p.Pieces[c][piece.Type()] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
}

// removePiece clears a square and returns what stood on it.
func (p *Position) removePiece(sq Square) Piece {
	piece := p.squares[sq]
	if piece == NoPiece {
		return NoPiece
	}

	c := piece.Color()
	bb := SquareBB(sq)

	p.squares[sq] = NoPiece
	p.Pieces[c][piece.Type()] &^= bb
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb

	return piece
}

// movePiece moves whatever stands on from onto the empty square to.
func (p *Position) movePiece(from, to Square) {
	p.setPiece(p.removePiece(from), to)
}

// CheckConsistency verifies that the bitboard cache matches the mailbox.
func (p *Position) CheckConsistency() error {
	var pieces [2][7]Bitboard
	for sq := A1; sq <= H8; sq++ {
		if pc := p.squares[sq]; pc != NoPiece {
			pieces[pc.Color()][pc.Type()] |= SquareBB(sq)
		}
	}
	if pieces != p.Pieces {
		return fmt.Errorf("piece bitboards diverge from mailbox: %w", ErrInvalidPosition)
	}

	var occ [2]Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			occ[c] |= pieces[c][pt]
		}
	}
	if occ != p.Occupied || occ[White]|occ[Black] != p.AllOccupied {
		return fmt.Errorf("occupancy diverges from mailbox: %w", ErrInvalidPosition)
	}
	return nil
}

// Validate checks the rules a reachable position obeys. ParseFEN does not
// call it, so test positions without kings can still be loaded.
func (p *Position) Validate() error {
	if p.Pieces[White][King].PopCount() != 1 {
		return fmt.Errorf("white must have exactly one king: %w", ErrInvalidPosition)
	}
	if p.Pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("black must have exactly one king: %w", ErrInvalidPosition)
	}

	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawns cannot be on rank 1 or 8: %w", ErrInvalidPosition)
	}

	them := p.SideToMove.Other()
	if p.IsAttacked(p.KingSquare(them), p.SideToMove) {
		return fmt.Errorf("%v king is capturable: %w", them, ErrInvalidPosition)
	}
	return p.CheckConsistency()
}

// Grid returns the board as rows of signed piece codes for rendering.
// Row 0 is rank 8 and column 0 is file a, matching screen layout.
func (p *Position) Grid() [8][8]int8 {
	var g [8][8]int8
	for sq := A1; sq <= H8; sq++ {
		col, row := sq.Screen()
		g[row][col] = int8(p.squares[sq])
	}
	return g
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.squares[NewSquare(file, rank)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash())
	return sb.String()
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}

	wMinors := p.Pieces[White][Knight].PopCount() + p.Pieces[White][Bishop].PopCount()
	bMinors := p.Pieces[Black][Knight].PopCount() + p.Pieces[Black][Bishop].PopCount()

	// K vs K, or K+minor vs K
	return wMinors+bMinors <= 1
}
