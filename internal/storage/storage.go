// Package storage keeps saved games, preferences and result statistics in
// a BadgerDB database.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/exp/slices"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	gamePrefix     = "game/"
)

var (
	// ErrGameNotFound is returned when no game is saved under a name.
	ErrGameNotFound = errors.New("game not found")

	// ErrInvalidName is returned for empty game names or names with a slash.
	ErrInvalidName = errors.New("invalid game name")
)

// Preferences stores user settings for the command loop and diagrams.
type Preferences struct {
	DefaultFEN       string    `json:"default_fen"`
	SquareSize       int       `json:"square_size"`
	Flipped          bool      `json:"flipped"`
	ShowCoordinates  bool      `json:"show_coordinates"`
	DefaultPromotion string    `json:"default_promotion"` // one of "q", "r", "b", "n"
	LastPlayed       time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		DefaultFEN:       "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		SquareSize:       64,
		ShowCoordinates:  true,
		DefaultPromotion: "q",
	}
}

// GameRecord is a saved game: the start position plus the moves played from
// it in UCI notation, which is enough to rebuild the full history.
type GameRecord struct {
	Name     string    `json:"name"`
	StartFEN string    `json:"start_fen"`
	Moves    []string  `json:"moves"`
	Result   string    `json:"result,omitempty"`
	Saved    time.Time `json:"saved"`
}

// GameStats counts finished games by outcome.
type GameStats struct {
	GamesFinished int            `json:"games_finished"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Draws         int            `json:"draws"`
	DrawsByReason map[string]int `json:"draws_by_reason"`
	TotalPlies    int            `json:"total_plies"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		DrawsByReason: make(map[string]int),
	}
}

// Outcome is the result of a completed game.
type Outcome int

const (
	OutcomeWhiteWins Outcome = iota
	OutcomeBlackWins
	OutcomeDraw
)

// GameResult represents the result of a completed game
type GameResult struct {
	Outcome    Outcome
	DrawReason string
	Plies      int
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if _, err := s.get(keyPreferences, prefs); err != nil {
		return prefs, err
	}
	return prefs, nil
}

// SaveGame stores rec under name, replacing any game of that name.
func (s *Storage) SaveGame(name string, rec *GameRecord) error {
	if err := validName(name); err != nil {
		return err
	}
	rec.Name = name
	rec.Saved = time.Now()
	return s.put(gamePrefix+name, rec)
}

// LoadGame returns the game saved under name.
func (s *Storage) LoadGame(name string) (*GameRecord, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	rec := &GameRecord{}
	found, err := s.get(gamePrefix+name, rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%q: %w", name, ErrGameNotFound)
	}
	return rec, nil
}

// DeleteGame removes the game saved under name.
func (s *Storage) DeleteGame(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(gamePrefix + name)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%q: %w", name, ErrGameNotFound)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ListGames returns every saved game, sorted by name.
func (s *Storage) ListGames() ([]*GameRecord, error) {
	var games []*GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			rec := &GameRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			games = append(games, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(games, func(a, b *GameRecord) bool {
		return a.Name < b.Name
	})
	return games, nil
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if _, err := s.get(keyStats, stats); err != nil {
		return stats, err
	}
	if stats.DrawsByReason == nil {
		stats.DrawsByReason = make(map[string]int)
	}
	return stats, nil
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesFinished++
	stats.TotalPlies += result.Plies

	switch result.Outcome {
	case OutcomeWhiteWins:
		stats.WhiteWins++
	case OutcomeBlackWins:
		stats.BlackWins++
	default:
		stats.Draws++
		stats.DrawsByReason[result.DrawReason]++
	}

	return s.SaveStats(stats)
}

// DrawRate returns the share of drawn games as a percentage (0-100)
func (s *GameStats) DrawRate() float64 {
	if s.GamesFinished == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.GamesFinished) * 100
}

// put stores v as JSON under key.
func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the JSON under key into v and reports whether it existed.
func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

func validName(name string) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}
