package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferences(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.SquareSize != 64 || prefs.DefaultPromotion != "q" || !prefs.ShowCoordinates {
		t.Errorf("expected defaults, got %+v", prefs)
	}

	prefs.Flipped = true
	prefs.SquareSize = 48
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if !got.Flipped || got.SquareSize != 48 {
		t.Errorf("LoadPreferences = %+v", got)
	}
	if got.LastPlayed.IsZero() {
		t.Error("LastPlayed not set on save")
	}
}

func TestFirstLaunch(t *testing.T) {
	s := openTest(t)

	first, err := s.IsFirstLaunch()
	if err != nil || !first {
		t.Fatalf("IsFirstLaunch = %v, %v", first, err)
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatal(err)
	}
	if first, _ := s.IsFirstLaunch(); first {
		t.Error("still first launch after marking")
	}
}

func TestGames(t *testing.T) {
	s := openTest(t)

	for _, name := range []string{"scholar", "italian", "fools"} {
		rec := &GameRecord{
			StartFEN: DefaultPreferences().DefaultFEN,
			Moves:    []string{"e2e4", "e7e5"},
		}
		if err := s.SaveGame(name, rec); err != nil {
			t.Fatalf("SaveGame(%s): %v", name, err)
		}
	}

	rec, err := s.LoadGame("italian")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Name != "italian" || len(rec.Moves) != 2 || rec.Moves[1] != "e7e5" || rec.Saved.IsZero() {
		t.Errorf("LoadGame = %+v", rec)
	}

	games, err := s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, g := range games {
		names = append(names, g.Name)
	}
	if len(names) != 3 || names[0] != "fools" || names[1] != "italian" || names[2] != "scholar" {
		t.Errorf("ListGames names = %v", names)
	}

	if err := s.DeleteGame("italian"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadGame("italian"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("LoadGame after delete = %v, want ErrGameNotFound", err)
	}
	if err := s.DeleteGame("italian"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("second DeleteGame = %v, want ErrGameNotFound", err)
	}
}

func TestInvalidGameName(t *testing.T) {
	s := openTest(t)

	for _, name := range []string{"", "a/b"} {
		if err := s.SaveGame(name, &GameRecord{}); !errors.Is(err, ErrInvalidName) {
			t.Errorf("SaveGame(%q) = %v, want ErrInvalidName", name, err)
		}
		if _, err := s.LoadGame(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("LoadGame(%q) = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestRecordGame(t *testing.T) {
	s := openTest(t)

	results := []GameResult{
		{Outcome: OutcomeWhiteWins, Plies: 30},
		{Outcome: OutcomeBlackWins, Plies: 4},
		{Outcome: OutcomeDraw, DrawReason: "stalemate", Plies: 60},
		{Outcome: OutcomeDraw, DrawReason: "repetition", Plies: 10},
	}
	for _, r := range results {
		if err := s.RecordGame(r); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesFinished != 4 || stats.WhiteWins != 1 || stats.BlackWins != 1 || stats.Draws != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TotalPlies != 104 {
		t.Errorf("TotalPlies = %d, want 104", stats.TotalPlies)
	}
	if stats.DrawsByReason["stalemate"] != 1 || stats.DrawsByReason["repetition"] != 1 {
		t.Errorf("DrawsByReason = %v", stats.DrawsByReason)
	}
	if rate := stats.DrawRate(); rate != 50 {
		t.Errorf("DrawRate = %.2f, want 50", rate)
	}
	if NewGameStats().DrawRate() != 0 {
		t.Error("empty stats should have a zero draw rate")
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveGame("kept", &GameRecord{Moves: []string{"d2d4"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	rec, err := s.LoadGame("kept")
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Moves) != 1 || rec.Moves[0] != "d2d4" {
		t.Errorf("reopened game = %+v", rec)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv(DataDirEnv, filepath.Join(t.TempDir(), "data"))

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatal(err)
	}
	if dbDir != filepath.Join(dataDir, "db") {
		t.Errorf("GetDatabaseDir = %s", dbDir)
	}
}
