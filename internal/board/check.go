package board

// IsAttacked reports whether any piece of color by attacks sq. A missing
// square (no king on the board) is never attacked.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	if !sq.IsValid() {
		return false
	}

	if tables.knight[sq]&p.Pieces[by][Knight] != 0 {
		return true
	}
	if tables.king[sq]&p.Pieces[by][King] != 0 {
		return true
	}
	// A pawn of by attacks sq when a pawn of the other color on sq would
	// capture onto the attacker's square.
	if tables.pawn[by.Other()][sq]&p.Pieces[by][Pawn] != 0 {
		return true
	}

	rookers := p.Pieces[by][Rook] | p.Pieces[by][Queen]
	bishopers := p.Pieces[by][Bishop] | p.Pieces[by][Queen]

	if rookers&tables.queen[sq] == 0 && bishopers&tables.queen[sq] == 0 {
		return false
	}

	for _, d := range RookDirections {
		if blocker, ok := tables.Nearest(sq, d, p.AllOccupied); ok && rookers.IsSet(blocker) {
			return true
		}
	}
	for _, d := range BishopDirections {
		if blocker, ok := tables.Nearest(sq, d, p.AllOccupied); ok && bishopers.IsSet(blocker) {
			return true
		}
	}
	return false
}

// AttackersOf returns every piece of color by that attacks sq.
func (p *Position) AttackersOf(sq Square, by Color) Bitboard {
	attackers := tables.knight[sq]&p.Pieces[by][Knight] |
		tables.king[sq]&p.Pieces[by][King] |
		tables.pawn[by.Other()][sq]&p.Pieces[by][Pawn]
	attackers |= RookAttacks(sq, p.AllOccupied) & (p.Pieces[by][Rook] | p.Pieces[by][Queen])
	attackers |= BishopAttacks(sq, p.AllOccupied) & (p.Pieces[by][Bishop] | p.Pieces[by][Queen])
	return attackers
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsInCheck(p.SideToMove)
}

// IsInCheck returns true if side's king is attacked.
func (p *Position) IsInCheck(side Color) bool {
	return p.IsAttacked(p.KingSquare(side), side.Other())
}

// IsCheckmate returns true if side is in check with no legal moves.
func (p *Position) IsCheckmate(side Color) bool {
	return p.IsInCheck(side) && !p.HasLegalMoves(side)
}

// IsStalemate returns true if side is not in check but has no legal moves.
func (p *Position) IsStalemate(side Color) bool {
	return !p.IsInCheck(side) && !p.HasLegalMoves(side)
}
