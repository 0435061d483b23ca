// Package board holds the chess core: precomputed attack tables, the
// position model with its reversible make/unmake, move generation, check
// detection and FEN import/export.
package board

import (
	"fmt"
)

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare creates a square from file and rank (0-indexed).
// Coordinates outside 0-7 are a caller bug and panic.
func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		panic(fmt.Sprintf("board: square (%d, %d) out of range", file, rank))
	}
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%q: %w", s, ErrInvalidSquare)
	}

	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("%q: %w", s, ErrInvalidSquare)
	}

	return NewSquare(file, rank), nil
}

// SquareFromIndex converts an external 0-63 index, rejecting anything else.
func SquareFromIndex(i int) (Square, error) {
	if i < 0 || i > 63 {
		return NoSquare, fmt.Errorf("index %d: %w", i, ErrInvalidSquare)
	}
	return Square(i), nil
}

// SquareFromScreen maps top-left-origin screen cells (col right, row down)
// onto the engine's bottom-left-origin squares.
func SquareFromScreen(col, row int) (Square, error) {
	if col < 0 || col > 7 || row < 0 || row > 7 {
		return NoSquare, fmt.Errorf("screen cell (%d, %d): %w", col, row, ErrInvalidSquare)
	}
	return Square((7-row)*8 + col), nil
}

// Screen is the inverse of SquareFromScreen.
func (sq Square) Screen() (col, row int) {
	return sq.File(), 7 - sq.Rank()
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mirror returns the square mirrored vertically (for black's perspective).
func (sq Square) Mirror() Square {
	return sq ^ 56
}

// RelativeRank returns the rank from a given color's perspective.
// For White, rank 0 is the 1st rank; for Black, rank 0 is the 8th rank.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}
