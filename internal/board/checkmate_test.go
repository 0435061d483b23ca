package board

import (
	"testing"
)

func TestCheckmate(t *testing.T) {
	// Back rank mate: White Ka1, Ra8; Black Kh8 boxed in by g7/h7.
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	t.Log("Checkmate position:")
	t.Log(pos)
	t.Log("Checkers bitboard:", pos.AttackersOf(pos.KingSquare(Black), White))

	if !pos.InCheck() {
		t.Error("Expected black to be in check")
	}
	if n := pos.GenerateLegalMoves().Len(); n != 0 {
		t.Errorf("Black has %d legal moves, want 0", n)
	}
	if !pos.IsCheckmate(Black) {
		t.Error("Expected checkmate but got false")
	}
	if pos.IsStalemate(Black) {
		t.Error("Checkmate classified as stalemate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// Black king on h8 can take the unprotected rook on g8.
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	t.Log("Not checkmate position (king can capture rook):")
	t.Log(pos)

	if !pos.InCheck() {
		t.Error("Expected black to be in check")
	}
	moves := pos.GenerateLegalMoves()
	if moves.Len() != 1 || moves.Get(0) != NewMove(H8, G8, FlagCapture) {
		t.Errorf("legal moves = %v, want [h8g8]", moves.Slice())
	}
	if pos.IsCheckmate(Black) {
		t.Error("Expected NOT checkmate but got true")
	}
}

func TestStalemate(t *testing.T) {
	// Black Ka8, White Qb6 and Kc7 (classic queen stalemate).
	pos, err := ParseFEN("k7/2K5/1Q6/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	if pos.InCheck() {
		t.Error("Expected black not to be in check")
	}
	if !pos.IsStalemate(Black) {
		t.Error("Expected stalemate")
	}
	if pos.IsCheckmate(Black) {
		t.Error("Stalemate classified as checkmate")
	}
}

func TestFoolsMate(t *testing.T) {
	pos := NewPosition()
	for _, uci := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m, err := pos.ParseMove(uci)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", uci, err)
		}
		pos.Make(m)
	}

	if !pos.IsCheckmate(White) {
		t.Fatalf("Expected white to be mated:\n%s", pos)
	}
	if got, want := pos.ToFEN(), "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"; got != want {
		t.Errorf("FEN = %s, want %s", got, want)
	}
}
