package board

// Zobrist keys, drawn from a fixed-seed PRNG so hashes are stable across runs.
var (
	zobristPiece      [2][7][64]uint64 // [Color][PieceType][Square], slot 0 unused
	zobristEnPassant  [8]uint64        // One per file
	zobristCastling   [16]uint64       // All 16 castling combinations
	zobristSideToMove uint64           // XOR when black to move
)

func init() {
	initZobrist()
}

type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// next is xorshift64*.
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234) // Fixed seed

	// Piece keys
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	// En passant keys (one per file)
	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	// Castling keys (all 16 combinations)
	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}

	// Side to move key
	zobristSideToMove = rng.next()
}

// Hash computes the Zobrist key of the position from the mailbox. The en
// passant file only counts when a pawn of the side to move could take there,
// so transpositions that differ only in a dead target compare equal.
func (p *Position) Hash() uint64 {
	var hash uint64

	for sq := A1; sq <= H8; sq++ {
		if pc := p.squares[sq]; pc != NoPiece {
			hash ^= zobristPiece[pc.Color()][pc.Type()][sq]
		}
	}

	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}

	hash ^= zobristCastling[p.CastlingRights]

	if p.EnPassant != NoSquare &&
		tables.pawn[p.SideToMove.Other()][p.EnPassant]&p.Pieces[p.SideToMove][Pawn] != 0 {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	return hash
}
