package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a six-field FEN string and returns a Position.
//
// Parsing is strict so that ToFEN reproduces the input byte for byte: the
// fields are separated by single spaces, castling letters appear in KQkq
// order, and the clocks carry no sign or leading zeros. King presence is
// not enforced here; see Validate.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Split(fen, " ")
	if len(parts) != 6 {
		return nil, fmt.Errorf("need 6 space-separated fields, got %d: %w", len(parts), ErrInvalidFEN)
	}

	pos := newEmptyPosition()

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("%q: %w", parts[1], ErrInvalidSideToMove)
	}

	// Parse castling rights (field 2)
	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	// Parse en passant square (field 3)
	if err := parseEnPassant(pos, parts[3]); err != nil {
		return nil, err
	}

	// Parse half-move clock (field 4)
	hmc, err := parseClock(parts[4])
	if err != nil {
		return nil, fmt.Errorf("half-move clock: %w", err)
	}
	pos.HalfMoveClock = hmc

	// Parse full-move number (field 5)
	fmn, err := parseClock(parts[5])
	if err != nil {
		return nil, fmt.Errorf("full-move number: %w", err)
	}
	if fmn < 1 {
		return nil, fmt.Errorf("full-move number %d: %w", fmn, ErrInvalidClock)
	}
	pos.FullMoveNumber = fmn

	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("need 8 ranks, got %d: %w", len(ranks), ErrInvalidPlacement)
	}

	var count, kings [2]int
	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0
		lastWasDigit := false

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				// Two digits in a row would not survive a round trip.
				if lastWasDigit {
					return fmt.Errorf("adjacent digits in rank %d: %w", rank+1, ErrInvalidPlacement)
				}
				file += int(c - '0')
				lastWasDigit = true
				if file > 8 {
					return fmt.Errorf("rank %d overflows 8 files: %w", rank+1, ErrInvalidPlacement)
				}
				continue
			}

			piece := PieceFromChar(c)
			if piece == NoPiece {
				return fmt.Errorf("invalid piece character %q: %w", c, ErrInvalidPlacement)
			}
			if file > 7 {
				return fmt.Errorf("rank %d overflows 8 files: %w", rank+1, ErrInvalidPlacement)
			}
			pos.setPiece(piece, NewSquare(file, rank))
			count[piece.Color()]++
			if piece.Type() == King {
				kings[piece.Color()]++
			}
			file++
			lastWasDigit = false
		}

		if file != 8 {
			return fmt.Errorf("rank %d has %d files: %w", rank+1, file, ErrInvalidPlacement)
		}
	}

	for c := White; c <= Black; c++ {
		if count[c] > 16 {
			return fmt.Errorf("%v has %d pieces: %w", c, count[c], ErrInvalidPlacement)
		}
		if kings[c] > 1 {
			return fmt.Errorf("%v has %d kings: %w", c, kings[c], ErrInvalidPlacement)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}
	if castling == "" {
		return fmt.Errorf("empty field: %w", ErrInvalidCastling)
	}

	// Letters must be a subsequence of KQkq, which rules out duplicates too.
	order := "KQkq"
	next := 0
	for i := 0; i < len(castling); i++ {
		idx := strings.IndexByte(order, castling[i])
		if idx < 0 {
			return fmt.Errorf("invalid character %q: %w", castling[i], ErrInvalidCastling)
		}
		if idx < next {
			return fmt.Errorf("%q is not in KQkq order: %w", castling, ErrInvalidCastling)
		}
		pos.CastlingRights |= CastlingRights(1) << idx
		next = idx + 1
	}

	return nil
}

// parseEnPassant accepts "-" or a square on the rank a double push from the
// side not to move would skip.
func parseEnPassant(pos *Position, s string) error {
	if s == "-" {
		pos.EnPassant = NoSquare
		return nil
	}
	sq, err := ParseSquare(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEnPassant, err)
	}
	wantRank := 5
	if pos.SideToMove == Black {
		wantRank = 2
	}
	if sq.Rank() != wantRank {
		return fmt.Errorf("%s on wrong rank for %v to move: %w", s, pos.SideToMove, ErrInvalidEnPassant)
	}
	pos.EnPassant = sq
	return nil
}

// parseClock accepts a canonical non-negative decimal.
func parseClock(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || strconv.Itoa(n) != s {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidClock)
	}
	return n, nil
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.squares[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	// Half-move clock and full-move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}
