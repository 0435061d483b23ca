package board

import "log"

// GenerateLegalMoves generates all legal moves for the side to move.
func (p *Position) GenerateLegalMoves() *MoveList {
	return p.LegalMovesFor(p.SideToMove)
}

// LegalMovesFor generates the legal moves of either side.
func (p *Position) LegalMovesFor(side Color) *MoveList {
	ml := NewMoveList()
	p.GeneratePseudoLegal(ml, side)
	return p.FilterLegal(side, ml)
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	p.GeneratePseudoLegal(ml, p.SideToMove)
	return ml
}

// GeneratePseudoLegal appends every pseudo-legal move of side to ml.
// Pieces are visited by type and then by ascending square, so the order is
// stable for a given position.
func (p *Position) GeneratePseudoLegal(ml *MoveList, side Color) {
	if DebugMoveValidation {
		if n := p.Pieces[side][King].PopCount(); n != 1 {
			log.Printf("MOVEGEN: %v has %d kings, fen=%s", side, n, p.ToFEN())
		}
	}

	p.generatePawnMoves(ml, side)

	own := p.Occupied[side]
	occupied := p.AllOccupied

	knights := p.Pieces[side][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		p.addTargets(ml, from, tables.knight[from]&^own)
	}

	bishops := p.Pieces[side][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		p.addTargets(ml, from, p.slideTargets(from, BishopDirections, occupied, own))
	}

	rooks := p.Pieces[side][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		p.addTargets(ml, from, p.slideTargets(from, RookDirections, occupied, own))
	}

	queens := p.Pieces[side][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		targets := p.slideTargets(from, RookDirections, occupied, own) |
			p.slideTargets(from, BishopDirections, occupied, own)
		p.addTargets(ml, from, targets)
	}

	kings := p.Pieces[side][King]
	for kings != 0 {
		from := kings.PopLSB()
		p.addTargets(ml, from, tables.king[from]&^own)
	}

	p.generateCastlingMoves(ml, side)
}

// slideTargets bounds each ray at its nearest blocker. The blocker square
// stays in the set unless it holds one of our own pieces.
func (p *Position) slideTargets(from Square, dirs [4]Direction, occupied, own Bitboard) Bitboard {
	var targets Bitboard
	for _, d := range dirs {
		targets |= tables.Slide(from, d, occupied)
	}
	return targets &^ own
}

// addTargets adds one move per target square, flagging captures.
func (p *Position) addTargets(ml *MoveList, from Square, targets Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		if p.squares[to] != NoPiece {
			ml.Add(NewMove(from, to, FlagCapture))
		} else {
			ml.Add(NewMove(from, to, FlagNormal))
		}
	}
}

// generatePawnMoves generates all pawn moves.
func (p *Position) generatePawnMoves(ml *MoveList, us Color) {
	pawns := p.Pieces[us][Pawn]
	enemies := p.Occupied[us.Other()]
	empty := ^p.AllOccupied

	var push1, push2, attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	// Single pushes, promotions included
	for push1 != 0 {
		to := push1.PopLSB()
		from := Square(int(to) - pushDir)
		if SquareBB(to)&promotionRank != 0 {
			addPromotions(ml, from, to, FlagNormal)
		} else {
			ml.Add(NewMove(from, to, FlagNormal))
		}
	}

	for push2 != 0 {
		to := push2.PopLSB()
		from := Square(int(to) - 2*pushDir)
		ml.Add(NewMove(from, to, FlagDoublePush))
	}

	// Captures toward the a-file, then toward the h-file
	for attackL != 0 {
		to := attackL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		addPawnCapture(ml, from, to, promotionRank)
	}
	for attackR != 0 {
		to := attackR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		addPawnCapture(ml, from, to, promotionRank)
	}

	// En passant belongs to the side to move only, and needs the double-pushed
	// pawn to actually stand behind the target square.
	if p.EnPassant == NoSquare || us != p.SideToMove {
		return
	}
	victim := Square(int(p.EnPassant) - pushDir)
	if p.squares[victim] != NewPiece(Pawn, us.Other()) {
		return
	}
	epAttackers := tables.pawn[us.Other()][p.EnPassant] & pawns
	for epAttackers != 0 {
		from := epAttackers.PopLSB()
		ml.Add(NewMove(from, p.EnPassant, FlagEnPassant))
	}
}

func addPawnCapture(ml *MoveList, from, to Square, promotionRank Bitboard) {
	if SquareBB(to)&promotionRank != 0 {
		addPromotions(ml, from, to, FlagCapture)
		return
	}
	ml.Add(NewMove(from, to, FlagCapture))
}

// addPromotions adds all four promotion moves.
func addPromotions(ml *MoveList, from, to Square, flags MoveFlag) {
	ml.Add(NewPromotion(from, to, Queen, flags))
	ml.Add(NewPromotion(from, to, Rook, flags))
	ml.Add(NewPromotion(from, to, Bishop, flags))
	ml.Add(NewPromotion(from, to, Knight, flags))
}

// castlingPath describes one castling move on the home rank.
type castlingPath struct {
	right   CastlingRights
	flag    MoveFlag
	king    Square
	rook    Square
	kingTo  Square
	rookTo  Square
	empty   Bitboard // squares between king and rook
	transit Bitboard // squares the king stands on or crosses, destination included
}

var castlingPaths = [2][2]castlingPath{
	White: {
		{WhiteKingSideCastle, FlagCastleKing, E1, H1, G1, F1,
			SquareBB(F1) | SquareBB(G1),
			SquareBB(E1) | SquareBB(F1) | SquareBB(G1)},
		{WhiteQueenSideCastle, FlagCastleQueen, E1, A1, C1, D1,
			SquareBB(B1) | SquareBB(C1) | SquareBB(D1),
			SquareBB(E1) | SquareBB(D1) | SquareBB(C1)},
	},
	Black: {
		{BlackKingSideCastle, FlagCastleKing, E8, H8, G8, F8,
			SquareBB(F8) | SquareBB(G8),
			SquareBB(E8) | SquareBB(F8) | SquareBB(G8)},
		{BlackQueenSideCastle, FlagCastleQueen, E8, A8, C8, D8,
			SquareBB(B8) | SquareBB(C8) | SquareBB(D8),
			SquareBB(E8) | SquareBB(D8) | SquareBB(C8)},
	},
}

// castlingPathFor returns the rook relocation for a castling king move.
func castlingPathFor(c Color, m Move) castlingPath {
	if m.Flags()&FlagCastleKing != 0 {
		return castlingPaths[c][0]
	}
	return castlingPaths[c][1]
}

// generateCastlingMoves adds castling when the right is held, king and rook
// stand on their home squares, the squares between them are empty, and the
// king neither starts on, crosses, nor lands on an attacked square.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	for _, cp := range castlingPaths[us] {
		if p.CastlingRights&cp.right == 0 {
			continue
		}
		if p.squares[cp.king] != NewPiece(King, us) || p.squares[cp.rook] != NewPiece(Rook, us) {
			continue
		}
		if p.AllOccupied&cp.empty != 0 {
			continue
		}
		attacked := false
		transit := cp.transit
		for transit != 0 {
			if p.IsAttacked(transit.PopLSB(), them) {
				attacked = true
				break
			}
		}
		if !attacked {
			ml.Add(NewMove(cp.king, cp.kingTo, cp.flag))
		}
	}
}

// FilterLegal keeps the moves of side that do not leave its own king
// attacked, testing each one by make, check and unmake.
func (p *Position) FilterLegal(side Color, ml *MoveList) *MoveList {
	result := NewMoveList()
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if p.IsLegal(side, m) {
			result.Add(m)
		}
	}
	return result
}

// IsLegal reports whether the pseudo-legal move m of side keeps side's king safe.
func (p *Position) IsLegal(side Color, m Move) bool {
	p.Make(m)
	attacked := p.IsAttacked(p.KingSquare(side), side.Other())
	p.Unmake()
	return !attacked
}

// LegalMovesFrom returns the legal moves of the side to move that start on sq.
func (p *Position) LegalMovesFrom(sq Square) *MoveList {
	result := NewMoveList()
	piece := p.PieceAt(sq)
	if piece == NoPiece || piece.Color() != p.SideToMove {
		return result
	}
	legal := p.GenerateLegalMoves()
	for i := 0; i < legal.Len(); i++ {
		if m := legal.Get(i); m.From() == sq {
			result.Add(m)
		}
	}
	return result
}

// HasLegalMoves returns true if the side has any legal moves.
func (p *Position) HasLegalMoves(side Color) bool {
	ml := NewMoveList()
	p.GeneratePseudoLegal(ml, side)
	for i := 0; i < ml.Len(); i++ {
		if p.IsLegal(side, ml.Get(i)) {
			return true
		}
	}
	return false
}
