package game

import (
	"errors"
	"sync"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestNewSessionBoundary(t *testing.T) {
	s := NewSession()

	if got := len(s.AllLegalMoves()); got != 20 {
		t.Errorf("AllLegalMoves = %d, want 20", got)
	}
	if s.SideToMove() != board.White {
		t.Errorf("SideToMove = %v, want White", s.SideToMove())
	}
	if s.FEN() != board.StartFEN || s.StartFEN() != board.StartFEN {
		t.Errorf("FEN = %s", s.FEN())
	}

	grid := s.CurrentBoard()
	if grid[7][4] != int8(board.WhiteKing) || grid[0][4] != int8(board.BlackKing) {
		t.Errorf("CurrentBoard kings misplaced: %v / %v", grid[7], grid[0])
	}
}

func TestMovesFor(t *testing.T) {
	s := NewSession()

	got := s.MovesFor(board.E2)
	if len(got) != 2 || got[0] != board.E3 || got[1] != board.E4 {
		t.Errorf("MovesFor(e2) = %v, want [e3 e4]", got)
	}
	if got := s.MovesFor(board.E7); len(got) != 0 {
		t.Errorf("MovesFor(e7) with white to move = %v", got)
	}
	if got := s.MovesFor(board.E4); len(got) != 0 {
		t.Errorf("MovesFor(empty) = %v", got)
	}
	if got := s.MovesFor(board.NoSquare); got != nil {
		t.Errorf("MovesFor(NoSquare) = %v", got)
	}

	// Four promotion choices collapse to one destination.
	p, err := NewSessionFromFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.MovesFor(board.A7); len(got) != 1 || got[0] != board.A8 {
		t.Errorf("MovesFor(a7) = %v, want [a8]", got)
	}
}

func TestMakeMoveAndUndo(t *testing.T) {
	s := NewSession()

	if !s.IsLegalMove(board.E2, board.E4) {
		t.Fatal("e2e4 should be legal")
	}
	if err := s.MakeMove(board.E2, board.E4, board.NoPieceType); err != nil {
		t.Fatal(err)
	}
	if s.SideToMove() != board.Black {
		t.Error("side did not change")
	}
	if err := s.MakeMove(board.E7, board.E5, board.NoPieceType); err != nil {
		t.Fatal(err)
	}

	if got := s.History(); len(got) != 2 || got[0] != "e2e4" || got[1] != "e7e5" {
		t.Errorf("History = %v", got)
	}
	if got := s.SANHistory(); len(got) != 2 || got[0] != "e4" || got[1] != "e5" {
		t.Errorf("SANHistory = %v", got)
	}

	if err := s.UnmakeLastMove(); err != nil {
		t.Fatal(err)
	}
	if err := s.UnmakeLastMove(); err != nil {
		t.Fatal(err)
	}
	if s.FEN() != board.StartFEN {
		t.Errorf("after undo FEN = %s", s.FEN())
	}
	if err := s.UnmakeLastMove(); !errors.Is(err, ErrNoHistory) {
		t.Errorf("undo on empty history = %v, want ErrNoHistory", err)
	}
}

func TestIllegalMoveLeavesStateUnchanged(t *testing.T) {
	s, err := NewSessionFromFEN("4r1k1/8/8/8/8/8/4N3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	before := s.FEN()

	tests := []struct {
		from, to board.Square
		reason   Reason
	}{
		{board.A1, board.A2, ReasonNoPiece},
		{board.G8, board.G7, ReasonWrongSide},
		{board.E1, board.E2, ReasonBlockedByOwnPiece},
		{board.E2, board.C3, ReasonWouldLeaveKingInCheck},
		{board.E2, board.E4, ReasonInvalidPieceMovement},
	}

	for _, tc := range tests {
		if s.IsLegalMove(tc.from, tc.to) {
			t.Errorf("%s%s reported legal", tc.from, tc.to)
		}
		err := s.MakeMove(tc.from, tc.to, board.NoPieceType)
		if !errors.Is(err, ErrIllegalMove) {
			t.Errorf("%s%s: error %v does not match ErrIllegalMove", tc.from, tc.to, err)
		}
		var ime *IllegalMoveError
		if !errors.As(err, &ime) || ime.Reason != tc.reason {
			t.Errorf("%s%s: reason = %v, want %v", tc.from, tc.to, err, tc.reason)
		}
		if s.FEN() != before || len(s.History()) != 0 {
			t.Fatalf("illegal move mutated the session: %s", s.FEN())
		}
	}

	if err := s.MakeMove(board.NoSquare, board.E2, board.NoPieceType); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("out-of-range square: %v", err)
	}
}

func TestPromotionDefaultsToQueen(t *testing.T) {
	s, err := NewSessionFromFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.MakeMove(board.A7, board.A8, board.NoPieceType); err != nil {
		t.Fatal(err)
	}
	if got := s.CurrentBoard()[0][0]; got != int8(board.WhiteQueen) {
		t.Errorf("a8 = %d, want white queen", got)
	}

	if err := s.UnmakeLastMove(); err != nil {
		t.Fatal(err)
	}
	if err := s.MakeMove(board.A7, board.A8, board.Knight); err != nil {
		t.Fatal(err)
	}
	if got := s.CurrentBoard()[0][0]; got != int8(board.WhiteKnight) {
		t.Errorf("a8 = %d, want white knight", got)
	}
}

func TestCastleByDraggingOntoRook(t *testing.T) {
	s, err := NewSessionFromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.MakeMove(board.E1, board.H1, board.NoPieceType); err != nil {
		t.Fatal(err)
	}
	if err := s.MakeMove(board.E8, board.A8, board.NoPieceType); err != nil {
		t.Fatal(err)
	}
	if got, want := s.FEN(), "2kr3r/8/8/8/8/8/8/R4RK1 w - - 2 2"; got != want {
		t.Errorf("FEN = %s, want %s", got, want)
	}
	if got := s.SANHistory(); got[0] != "O-O" || got[1] != "O-O-O" {
		t.Errorf("SANHistory = %v", got)
	}
}

func TestMovesForListsRookWhenCastling(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		king board.Square
		want []board.Square
		not  []board.Square
	}{
		{"white both sides", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", board.E1,
			[]board.Square{board.G1, board.H1, board.C1, board.A1}, nil},
		{"black both sides", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", board.E8,
			[]board.Square{board.G8, board.H8, board.C8, board.A8}, nil},
		{"no rights", "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1", board.E1,
			nil, []board.Square{board.G1, board.H1, board.C1, board.A1}},
		{"kingside blocked", "r3k2r/8/8/8/8/8/8/R3K1NR w KQkq - 0 1", board.E1,
			[]board.Square{board.C1, board.A1}, []board.Square{board.G1, board.H1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewSessionFromFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			got := s.MovesFor(tc.king)
			listed := func(sq board.Square) bool {
				for _, g := range got {
					if g == sq {
						return true
					}
				}
				return false
			}
			for _, sq := range tc.want {
				if !listed(sq) {
					t.Errorf("MovesFor(%s) = %v, missing %s", tc.king, got, sq)
				}
			}
			for _, sq := range tc.not {
				if listed(sq) {
					t.Errorf("MovesFor(%s) = %v, should not list %s", tc.king, got, sq)
				}
			}
			// Every listed square is accepted, and nothing else is.
			for _, sq := range got {
				if !s.IsLegalMove(tc.king, sq) {
					t.Errorf("MovesFor lists %s but IsLegalMove rejects it", sq)
				}
			}
			for to := board.A1; to <= board.H8; to++ {
				if s.IsLegalMove(tc.king, to) && !listed(to) {
					t.Errorf("IsLegalMove accepts %s but MovesFor omits it", to)
				}
			}
		})
	}
}

func TestSetPosition(t *testing.T) {
	s := NewSession()
	_ = s.MakeMove(board.E2, board.E4, board.NoPieceType)

	if err := s.SetPosition("not a fen"); !errors.Is(err, board.ErrInvalidFEN) {
		t.Errorf("SetPosition error = %v, want ErrInvalidFEN", err)
	}
	if len(s.History()) != 1 {
		t.Error("failed SetPosition discarded the game")
	}

	fen := "8/8/8/8/8/8/8/R3K2r w Q - 0 1"
	if err := s.SetPosition(fen); err != nil {
		t.Fatal(err)
	}
	if s.FEN() != fen || s.StartFEN() != fen || len(s.History()) != 0 {
		t.Errorf("SetPosition did not reset the game")
	}
	if !s.InCheck() {
		t.Error("white king on e1 should be in check from h1")
	}
}

func TestReplay(t *testing.T) {
	s := NewSession()
	if err := s.Replay(board.StartFEN, []string{"e2e4", "e7e5", "g1f3"}); err != nil {
		t.Fatal(err)
	}
	if got := s.SANHistory(); len(got) != 3 || got[2] != "Nf3" {
		t.Errorf("SANHistory = %v", got)
	}

	before := s.FEN()
	if err := s.Replay(board.StartFEN, []string{"e2e4", "e2e4"}); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Replay error = %v, want ErrIllegalMove", err)
	}
	if s.FEN() != before {
		t.Error("failed Replay changed the session")
	}
}

func TestConcurrentReaders(t *testing.T) {
	s := NewSession()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = s.AllLegalMoves()
				_ = s.CurrentBoard()
				_ = s.MovesFor(board.G1)
			}
		}()
	}
	wg.Wait()
	if s.FEN() != board.StartFEN {
		t.Errorf("readers changed the position: %s", s.FEN())
	}
}

func TestMakeSANRejectsLooseText(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		san  string
		want error
	}{
		{"push onto a capture square", "4k3/8/8/4p3/3P4/8/8/4K3 w - - 0 1", "e5", board.ErrNoMatchingMove},
		{"ambiguous knight", "4k3/8/8/8/8/8/8/1N2K1N1 w - - 0 1", "Nd2", board.ErrAmbiguousMove},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewSessionFromFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			err = s.MakeSAN(tc.san)
			if !errors.Is(err, ErrIllegalMove) || !errors.Is(err, tc.want) {
				t.Errorf("MakeSAN(%s) error = %v, want %v", tc.san, err, tc.want)
			}
			if s.FEN() != tc.fen || len(s.History()) != 0 {
				t.Errorf("rejected MakeSAN changed the game: %s", s.FEN())
			}
		})
	}
}
