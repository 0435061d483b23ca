package board

import "log"

// Make applies a pseudo-legal move and pushes the record Unmake needs.
// The mover is whoever stands on the from square, so moves of either side
// can be made and unmade, which is how the legality filter tries the
// opponent's replies.
func (p *Position) Make(m Move) {
	from, to := m.From(), m.To()
	piece := p.squares[from]
	us := piece.Color()

	rec := HistoryRecord{
		Move:           m,
		CapturedSquare: NoSquare,
		SideToMove:     p.SideToMove,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
	}

	// Remove the captured piece. En passant takes the pawn behind the target.
	if m.IsEnPassant() {
		victim := to - 8
		if us == Black {
			victim = to + 8
		}
		rec.Captured = p.removePiece(victim)
		rec.CapturedSquare = victim
	} else if p.squares[to] != NoPiece {
		rec.Captured = p.removePiece(to)
		rec.CapturedSquare = to
	}

	p.removePiece(from)
	if promo := m.Promotion(); promo != NoPieceType {
		p.setPiece(NewPiece(promo, us), to)
	} else {
		p.setPiece(piece, to)
	}

	if m.IsCastling() {
		cp := castlingPathFor(us, m)
		p.movePiece(cp.rook, cp.rookTo)
	}

	p.CastlingRights &^= castlingClear[from] | castlingClear[to]

	p.EnPassant = NoSquare
	if m.IsDoublePush() {
		p.EnPassant = (from + to) / 2
	}

	if piece.Type() == Pawn || rec.Captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = us.Other()

	p.history = append(p.history, rec)

	if DebugMoveValidation {
		if err := p.CheckConsistency(); err != nil {
			log.Printf("MAKE %s: %v", m, err)
		}
	}
}

// Unmake reverses the most recent Make. Calling it with an empty history
// is a caller bug and panics.
func (p *Position) Unmake() {
	n := len(p.history)
	if n == 0 {
		panic("board: unmake with empty history")
	}
	rec := p.history[n-1]
	p.history = p.history[:n-1]

	m := rec.Move
	from, to := m.From(), m.To()
	moved := p.squares[to]
	us := moved.Color()

	if m.IsCastling() {
		cp := castlingPathFor(us, m)
		p.movePiece(cp.rookTo, cp.rook)
	}

	p.removePiece(to)
	if m.IsPromotion() {
		p.setPiece(NewPiece(Pawn, us), from)
	} else {
		p.setPiece(moved, from)
	}

	if rec.Captured != NoPiece {
		p.setPiece(rec.Captured, rec.CapturedSquare)
	}

	if us == Black {
		p.FullMoveNumber--
	}
	p.SideToMove = rec.SideToMove
	p.CastlingRights = rec.CastlingRights
	p.EnPassant = rec.EnPassant
	p.HalfMoveClock = rec.HalfMoveClock

	if DebugMoveValidation {
		if err := p.CheckConsistency(); err != nil {
			log.Printf("UNMAKE %s: %v", m, err)
		}
	}
}

// History returns a copy of the history stack, oldest first.
func (p *Position) History() []HistoryRecord {
	return append([]HistoryRecord(nil), p.history...)
}
