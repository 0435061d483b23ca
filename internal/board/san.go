package board

import (
	"fmt"
	"strings"
)

// SAN converts a legal move of the side to move to Standard Algebraic
// Notation, check and mate markers included.
func (p *Position) SAN(m Move) string {
	if m == NoMove {
		return "-"
	}

	from := m.From()
	to := m.To()
	piece := p.PieceAt(from)

	if piece == NoPiece {
		return m.String() // Fallback to UCI
	}

	var sb strings.Builder

	if m.IsCastling() {
		if m.Flags()&FlagCastleKing != 0 {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		pt := piece.Type()

		// Piece letter and disambiguation (not for pawns)
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(p.disambiguation(m, pt))
		}

		if m.IsCapture() {
			if pt == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(to.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion()])
		}
	}

	// Make the move temporarily to decide the check marker
	them := piece.Color().Other()
	p.Make(m)
	if p.IsInCheck(them) {
		if p.HasLegalMoves(them) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	p.Unmake()

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same piece type to the same square.
func (p *Position) disambiguation(m Move, pt PieceType) string {
	from := m.From()
	to := m.To()

	var candidates []Square
	pieces := p.Pieces[p.SideToMove][pt]

	allMoves := p.GenerateLegalMoves()
	for i := 0; i < allMoves.Len(); i++ {
		move := allMoves.Get(i)
		if move.To() != to || move.From() == from {
			continue
		}
		if pieces.IsSet(move.From()) {
			candidates = append(candidates, move.From())
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile := false
	sameRank := false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + from.File()))
	}
	if !sameRank {
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// ParseSAN resolves a SAN string against the legal moves of the side to move.
func (p *Position) ParseSAN(s string) (Move, error) {
	text := strings.TrimSpace(s)

	// Remove check/checkmate markers
	text = strings.TrimRight(text, "+#")

	legal := p.GenerateLegalMoves()

	// Handle castling
	var castle MoveFlag
	switch text {
	case "O-O", "0-0":
		castle = FlagCastleKing
	case "O-O-O", "0-0-0":
		castle = FlagCastleQueen
	}
	if castle != 0 {
		for i := 0; i < legal.Len(); i++ {
			if m := legal.Get(i); m.Flags()&castle != 0 {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%s: %w", s, ErrNoMatchingMove)
	}

	// Parse promotion
	promoPiece := NoPieceType
	if idx := strings.IndexByte(text, '='); idx >= 0 {
		if idx+2 != len(text) {
			return NoMove, fmt.Errorf("%q: %w", s, ErrInvalidMoveText)
		}
		promoPiece = PieceTypeFromChar(text[idx+1])
		if promoPiece < Knight || promoPiece > Queen {
			return NoMove, fmt.Errorf("%q: %w", s, ErrInvalidMoveText)
		}
		text = text[:idx]
	}

	isCapture := strings.Contains(text, "x")
	text = strings.ReplaceAll(text, "x", "")

	// Determine piece type
	pt := Pawn
	if len(text) > 0 && text[0] >= 'A' && text[0] <= 'Z' {
		pt = PieceTypeFromChar(text[0])
		if pt == NoPieceType || pt == Pawn {
			return NoMove, fmt.Errorf("%q: %w", s, ErrInvalidMoveText)
		}
		text = text[1:]
	}

	// Destination is the last two characters
	if len(text) < 2 {
		return NoMove, fmt.Errorf("%q: %w", s, ErrInvalidMoveText)
	}
	dest, err := ParseSquare(text[len(text)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %w", ErrInvalidMoveText, err)
	}
	text = text[:len(text)-2]

	// Disambiguation: file, rank, or both
	disambigFile, disambigRank := -1, -1
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'h':
			disambigFile = int(c - 'a')
		case c >= '1' && c <= '8':
			disambigRank = int(c - '1')
		default:
			return NoMove, fmt.Errorf("%q: %w", s, ErrInvalidMoveText)
		}
	}

	// Pawn captures name the source file; a bare pawn move never captures.
	if pt == Pawn && isCapture && disambigFile < 0 {
		return NoMove, fmt.Errorf("%q: %w", s, ErrInvalidMoveText)
	}

	found := NoMove
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.To() != dest || m.IsCastling() {
			continue
		}

		from := m.From()
		if p.squares[from].Type() != pt {
			continue
		}
		if disambigFile >= 0 && from.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && from.Rank() != disambigRank {
			continue
		}
		if isCapture && !m.IsCapture() {
			continue
		}
		if pt == Pawn && !isCapture && m.IsCapture() {
			continue
		}
		if m.Promotion() != promoPiece {
			continue
		}

		if found != NoMove {
			return NoMove, fmt.Errorf("%s: %w", s, ErrAmbiguousMove)
		}
		found = m
	}

	if found == NoMove {
		return NoMove, fmt.Errorf("%s: %w", s, ErrNoMatchingMove)
	}
	return found, nil
}

// MovesToSAN converts a move sequence played from p to SAN. p is left unchanged.
func MovesToSAN(p *Position, moves []Move) []string {
	result := make([]string, len(moves))
	c := p.Clone()

	for i, m := range moves {
		result[i] = c.SAN(m)
		c.Make(m)
	}

	return result
}
