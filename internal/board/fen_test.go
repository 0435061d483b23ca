package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"8/8/8/8/8/8/8/R3K2r w Q - 0 1",
		"8/8/8/8/8/8/8/8 w - - 0 1",
		"4k3/8/8/8/8/8/8/4K3 b Kq - 99 120",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			if got := pos.ToFEN(); got != fen {
				t.Errorf("round trip:\n got %s\nwant %s", got, fen)
			}
			if err := pos.CheckConsistency(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestParseFENFields(t *testing.T) {
	pos, err := ParseFEN("rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w Kq e6 3 7")
	if err != nil {
		t.Fatal(err)
	}

	if pos.SideToMove != White {
		t.Errorf("side = %v, want White", pos.SideToMove)
	}
	if pos.CastlingRights != WhiteKingSideCastle|BlackQueenSideCastle {
		t.Errorf("castling = %s, want Kq", pos.CastlingRights)
	}
	if pos.EnPassant != E6 {
		t.Errorf("en passant = %s, want e6", pos.EnPassant)
	}
	if pos.HalfMoveClock != 3 || pos.FullMoveNumber != 7 {
		t.Errorf("clocks = %d %d, want 3 7", pos.HalfMoveClock, pos.FullMoveNumber)
	}
	if pos.PieceAt(E4) != WhitePawn || pos.PieceAt(E5) != BlackPawn || pos.PieceAt(D8) != BlackQueen {
		t.Error("pieces not placed where expected")
	}
	if pos.KingSquare(White) != E1 || pos.KingSquare(Black) != E8 {
		t.Errorf("kings = %s %s", pos.KingSquare(White), pos.KingSquare(Black))
	}
}

func TestParseFENRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want error
	}{
		{"empty", "", ErrInvalidFEN},
		{"four fields", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -", ErrInvalidFEN},
		{"seven fields", StartFEN + " 1", ErrInvalidFEN},
		{"double space", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR  w KQkq - 0 1", ErrInvalidFEN},
		{"seven ranks", "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", ErrInvalidPlacement},
		{"bad piece letter", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1", ErrInvalidPlacement},
		{"short rank", "rnbqkbnr/pppppppp/8/8/8/7/PPPPPPPP/RNBQKBNR w KQkq - 0 1", ErrInvalidPlacement},
		{"long rank", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPPP/RNBQKBNR w KQkq - 0 1", ErrInvalidPlacement},
		{"nine", "rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", ErrInvalidPlacement},
		{"split digits", "rnbqkbnr/pppppppp/44/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", ErrInvalidPlacement},
		{"two kings", "kk6/8/8/8/8/8/8/4K3 w - - 0 1", ErrInvalidPlacement},
		{"side", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1", ErrInvalidSideToMove},
		{"castling letter", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkx - 0 1", ErrInvalidCastling},
		{"castling order", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w kKQq - 0 1", ErrInvalidCastling},
		{"castling duplicate", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KK - 0 1", ErrInvalidCastling},
		{"en passant off board", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq i6 0 1", ErrInvalidEnPassant},
		{"en passant wrong rank", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e3 0 1", ErrInvalidEnPassant},
		{"en passant square text", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1", ErrInvalidSquare},
		{"negative clock", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1", ErrInvalidClock},
		{"padded clock", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 00 1", ErrInvalidClock},
		{"text clock", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1", ErrInvalidClock},
		{"zero fullmove", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0", ErrInvalidClock},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err == nil {
				t.Fatalf("expected error, got position %s", pos.ToFEN())
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("error %v does not wrap %v", err, tc.want)
			}
		})
	}
}

func TestGridUsesScreenOrientation(t *testing.T) {
	g := NewPosition().Grid()

	// Row 0 is rank 8 from White's side.
	if g[0][0] != int8(BlackRook) || g[0][4] != int8(BlackKing) {
		t.Errorf("top row = %v", g[0])
	}
	if g[7][3] != int8(WhiteQueen) || g[7][4] != int8(WhiteKing) {
		t.Errorf("bottom row = %v", g[7])
	}
	for col := 0; col < 8; col++ {
		if g[6][col] != int8(WhitePawn) || g[1][col] != int8(BlackPawn) || g[4][col] != 0 {
			t.Fatalf("pawn rows wrong at column %d", col)
		}
	}
}

func TestScreenReflection(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		col, row := sq.Screen()
		back, err := SquareFromScreen(col, row)
		if err != nil || back != sq {
			t.Fatalf("SquareFromScreen(%d, %d) = %s, %v; want %s", col, row, back, err, sq)
		}
	}
	if sq, _ := SquareFromScreen(0, 0); sq != A8 {
		t.Errorf("top-left = %s, want a8", sq)
	}
	if sq, _ := SquareFromScreen(7, 7); sq != H1 {
		t.Errorf("bottom-right = %s, want h1", sq)
	}
	if _, err := SquareFromScreen(8, 0); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("expected ErrInvalidSquare, got %v", err)
	}
	if _, err := SquareFromIndex(64); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("expected ErrInvalidSquare, got %v", err)
	}
	if _, err := SquareFromIndex(-1); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("expected ErrInvalidSquare, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := NewPosition().Validate(); err != nil {
		t.Errorf("start position: %v", err)
	}

	tests := []struct {
		fen string
		ok  bool
	}{
		{"8/8/8/8/8/8/8/R3K2r w Q - 0 1", false},   // no black king
		{"4k3/8/8/8/8/8/8/P3K3 w - - 0 1", false},  // pawn on rank 1
		{"4k3/4R3/8/8/8/8/8/4K3 w - - 0 1", false}, // side not to move in check
		{"4k3/8/8/8/8/8/8/4K2R w - - 0 1", true},
	}

	for _, tc := range tests {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("%s: %v", tc.fen, err)
		}
		err = pos.Validate()
		if (err == nil) != tc.ok {
			t.Errorf("Validate(%s) = %v, want ok=%v", tc.fen, err, tc.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("Validate(%s) error %v does not wrap ErrInvalidPosition", tc.fen, err)
		}
	}
}
