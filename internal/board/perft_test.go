package board

import "testing"

// countLeaves walks the legal move tree with Make and Unmake.
func countLeaves(p *Position, depth int) uint64 {
	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		p.Make(m)
		nodes += countLeaves(p, depth-1)
		p.Unmake()
	}
	return nodes
}

func TestLeafCounts(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		nodes []uint64 // by depth, starting at 1
		long  int      // depths from here on only run without -short
	}{
		{"start", StartFEN, []uint64{20, 400, 8902, 197281}, 4},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", []uint64{48, 2039, 97862}, 3},
		{"en passant endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812, 43238}, 4},
		{"underpromotion", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467}, 3},
		{"promotion with check", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486, 62379}, 3},
		// e4xd3 would expose the king on a4 to the rook on h4.
		{"en passant pinned on the rank", "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", []uint64{6, 94}, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			hash := pos.Hash()
			for i, want := range tc.nodes {
				depth := i + 1
				if depth >= tc.long && testing.Short() {
					break
				}
				if got := countLeaves(pos, depth); got != want {
					t.Errorf("depth %d: %d leaves, want %d", depth, got, want)
				}
			}
			if pos.ToFEN() != tc.fen || pos.Hash() != hash {
				t.Errorf("position not restored: %s", pos.ToFEN())
			}
		})
	}
}

func TestEnPassantPinnedOnRank(t *testing.T) {
	pos := mustParse(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.IsEnPassant() {
			t.Errorf("%s leaves the king in check", m)
		}
	}
}
