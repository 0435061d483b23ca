package board

// Direction is one of the eight compass directions a ray can travel.
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// Directions lists all eight ray directions in table order.
var Directions = [8]Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

// Slider direction sets.
var (
	RookDirections   = [4]Direction{North, East, South, West}
	BishopDirections = [4]Direction{NorthEast, SouthEast, SouthWest, NorthWest}
)

// fileStep and rankStep give the per-step coordinate delta of each direction.
var (
	fileStep = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
	rankStep = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
)

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return (d + 4) & 7
}

// Increasing reports whether square indices grow along the direction, which
// decides whether the nearest blocker is the lowest or the highest set bit.
func (d Direction) Increasing() bool {
	return d == North || d == NorthEast || d == East || d == NorthWest
}

// Diagonal reports whether the direction is a bishop direction.
func (d Direction) Diagonal() bool {
	return d&1 == 1
}

// AttackTables holds every geometry-only mask the generator and the check
// detector read. One instance is built at package init and shared by every
// Position in the process; nothing writes to it afterwards.
type AttackTables struct {
	rookHorizontal [64]Bitboard
	rookVertical   [64]Bitboard
	bishopDiagonal [64]Bitboard // a1-h8 orientation
	bishopAnti     [64]Bitboard // h1-a8 orientation
	queen          [64]Bitboard
	knight         [64]Bitboard
	king           [64]Bitboard
	pawn           [2][64]Bitboard // capture targets, [Color][Square]

	rays [8][64]Bitboard // [Direction][Square]

	// connecting holds the squares strictly between two aligned squares.
	// connectingFull holds the ray from the first square through the second
	// out to the edge, excluding the first square.
	connecting     [64][64]Bitboard
	connectingFull [64][64]Bitboard
	direction      [64][64]int8 // Direction from first to second square, -1 if unaligned
}

var tables = generateAttackTables()

// Attacks returns the process-wide attack tables.
func Attacks() *AttackTables {
	return tables
}

func generateAttackTables() *AttackTables {
	t := &AttackTables{}
	t.initRays()
	t.initSliderMasks()
	t.initKnightAttacks()
	t.initKingAttacks()
	t.initPawnAttacks()
	t.initConnecting()
	return t
}

func (t *AttackTables) initRays() {
	for sq := A1; sq <= H8; sq++ {
		for _, d := range Directions {
			var ray Bitboard
			f, r := sq.File()+fileStep[d], sq.Rank()+rankStep[d]
			for onBoard(f, r) {
				ray |= SquareBB(NewSquare(f, r))
				f += fileStep[d]
				r += rankStep[d]
			}
			t.rays[d][sq] = ray
		}
	}
}

func (t *AttackTables) initSliderMasks() {
	for sq := A1; sq <= H8; sq++ {
		t.rookHorizontal[sq] = t.rays[East][sq] | t.rays[West][sq]
		t.rookVertical[sq] = t.rays[North][sq] | t.rays[South][sq]
		t.bishopDiagonal[sq] = t.rays[NorthEast][sq] | t.rays[SouthWest][sq]
		t.bishopAnti[sq] = t.rays[NorthWest][sq] | t.rays[SouthEast][sq]
		t.queen[sq] = t.rookHorizontal[sq] | t.rookVertical[sq] |
			t.bishopDiagonal[sq] | t.bishopAnti[sq]
	}
}

func (t *AttackTables) initKnightAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		var attacks Bitboard

		// Up/down 2, left/right 1
		attacks |= (bb << 17) & NotFileA
		attacks |= (bb << 15) & NotFileH
		attacks |= (bb >> 17) & NotFileH
		attacks |= (bb >> 15) & NotFileA

		// Up/down 1, left/right 2
		attacks |= (bb << 10) & NotFileAB
		attacks |= (bb << 6) & NotFileGH
		attacks |= (bb >> 10) & NotFileGH
		attacks |= (bb >> 6) & NotFileAB

		t.knight[sq] = attacks
	}
}

func (t *AttackTables) initKingAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)
		var attacks Bitboard
		for _, d := range Directions {
			attacks |= bb.Shift(d)
		}
		t.king[sq] = attacks
	}
}

func (t *AttackTables) initPawnAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)
		t.pawn[White][sq] = bb.NorthEast() | bb.NorthWest()
		t.pawn[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

// initConnecting fills the pair tables by case analysis on the relative
// position of the two squares: same file, same rank, or unit slope.
func (t *AttackTables) initConnecting() {
	for sq1 := A1; sq1 <= H8; sq1++ {
		for sq2 := A1; sq2 <= H8; sq2++ {
			t.direction[sq1][sq2] = -1
			if sq1 == sq2 {
				continue
			}

			df := sq2.File() - sq1.File()
			dr := sq2.Rank() - sq1.Rank()

			var d Direction
			switch {
			case df == 0 && dr > 0:
				d = North
			case df == 0:
				d = South
			case dr == 0 && df > 0:
				d = East
			case dr == 0:
				d = West
			case df == dr && df > 0:
				d = NorthEast
			case df == dr:
				d = SouthWest
			case df == -dr && df > 0:
				d = SouthEast
			case df == -dr:
				d = NorthWest
			default:
				continue // not on a shared line
			}

			t.direction[sq1][sq2] = int8(d)
			t.connectingFull[sq1][sq2] = t.rays[d][sq1]
			t.connecting[sq1][sq2] = t.rays[d][sq1] & t.rays[d.Opposite()][sq2]
		}
	}
}

func onBoard(file, rank int) bool {
	return file >= 0 && file <= 7 && rank >= 0 && rank <= 7
}

// Knight returns the knight jump mask for a square.
func (t *AttackTables) Knight(sq Square) Bitboard { return t.knight[sq] }

// King returns the king step mask for a square.
func (t *AttackTables) King(sq Square) Bitboard { return t.king[sq] }

// Pawn returns the squares a pawn of color c on sq captures onto.
func (t *AttackTables) Pawn(c Color, sq Square) Bitboard { return t.pawn[c][sq] }

// RookLines returns the unblocked horizontal and vertical rays.
func (t *AttackTables) RookLines(sq Square) (horizontal, vertical Bitboard) {
	return t.rookHorizontal[sq], t.rookVertical[sq]
}

// BishopLines returns the unblocked a1-h8 and h1-a8 oriented diagonals.
func (t *AttackTables) BishopLines(sq Square) (diagonal, anti Bitboard) {
	return t.bishopDiagonal[sq], t.bishopAnti[sq]
}

// Queen returns all eight unblocked rays from a square.
func (t *AttackTables) Queen(sq Square) Bitboard { return t.queen[sq] }

// Ray returns the unblocked ray from sq in direction d.
func (t *AttackTables) Ray(d Direction, sq Square) Bitboard { return t.rays[d][sq] }

// Between returns the squares strictly between two aligned squares.
func (t *AttackTables) Between(from, to Square) Bitboard { return t.connecting[from][to] }

// Through returns the ray from one square through another to the board
// edge, excluding the first square. Empty when the squares are unaligned.
func (t *AttackTables) Through(from, to Square) Bitboard { return t.connectingFull[from][to] }

// DirectionTo returns the direction from one square to another and whether
// the two share a rank, file or diagonal.
func (t *AttackTables) DirectionTo(from, to Square) (Direction, bool) {
	d := t.direction[from][to]
	if d < 0 {
		return 0, false
	}
	return Direction(d), true
}

// Nearest returns the first occupied square along the ray from sq in
// direction d, if any.
func (t *AttackTables) Nearest(sq Square, d Direction, occupied Bitboard) (Square, bool) {
	blockers := t.rays[d][sq] & occupied
	if blockers == 0 {
		return NoSquare, false
	}
	if d.Increasing() {
		return blockers.LSB(), true
	}
	return blockers.MSB(), true
}

// Slide returns the squares reachable from sq along direction d: every
// empty square up to the first blocker, plus the blocker itself. Callers
// mask out their own pieces to turn the blocker square into a capture or not.
func (t *AttackTables) Slide(sq Square, d Direction, occupied Bitboard) Bitboard {
	blocker, ok := t.Nearest(sq, d, occupied)
	if !ok {
		return t.rays[d][sq]
	}
	// The line through the blocker, cut where the blocker's own ray begins.
	return t.Through(sq, blocker) &^ t.rays[d][blocker]
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return tables.knight[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return tables.king[sq]
}

// PawnAttacks returns the pawn attack bitboard for a square and color.
func PawnAttacks(sq Square, c Color) Bitboard {
	return tables.pawn[c][sq]
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range RookDirections {
		attacks |= tables.Slide(sq, d, occupied)
	}
	return attacks
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range BishopDirections {
		attacks |= tables.Slide(sq, d, occupied)
	}
	return attacks
}

// Between returns the bitboard of squares strictly between two squares.
// Returns empty if squares are not aligned (not on same rank, file, or diagonal).
func Between(sq1, sq2 Square) Bitboard {
	return tables.connecting[sq1][sq2]
}
