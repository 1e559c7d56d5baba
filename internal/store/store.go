package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/luminal/internal/progress"
	"github.com/roach88/luminal/internal/puzzle"
)

// Document keys.
const (
	KeyProgress      = "progress"
	KeyCatalog       = "catalog"
	KeyCoins         = "coins"
	KeyLeaderboard   = "leaderboard"
	KeyThemes        = "themes"
	KeySelectedTheme = "theme.selected"
	KeyDaily         = "daily"
)

var (
	// ErrInvalidAmount is returned for negative coin amounts.
	ErrInvalidAmount = errors.New("store: coin amount must not be negative")
	// ErrUnknownTheme is returned for a theme id outside the theme list.
	ErrUnknownTheme = errors.New("store: unknown theme")
	// ErrThemeLocked is returned when selecting a theme that is not purchased.
	ErrThemeLocked = errors.New("store: theme not purchased")
)

// IDGenerator produces leaderboard entry ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator returns time-ordered UUIDv7 ids.
type UUIDv7Generator struct{}

func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Store is the typed document facade over a Backend.
//
// Read-modify-write cycles (coins, leaderboard, themes, daily) are
// serialized by mu, so one Store must own a given backend.
type Store struct {
	backend Backend
	now     func() time.Time
	ids     IDGenerator
	gen     *puzzle.Generator
	logger  *slog.Logger

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithNow sets the time source for timestamps and the daily challenge day.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDs sets the leaderboard id generator. Default: UUIDv7Generator.
func WithIDs(ids IDGenerator) Option {
	return func(s *Store) {
		s.ids = ids
	}
}

// WithGenerator sets the generator used when the catalog or the daily
// challenge must be created. Default: a time-seeded generator.
func WithGenerator(g *puzzle.Generator) Option {
	return func(s *Store) {
		s.gen = g
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New wraps backend. The Store takes ownership: Close closes the backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		ids:     UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = puzzle.NewSeededGenerator(s.now().UnixNano())
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// LoadProgress returns the saved progress, or fresh progress when there is
// none or it cannot be read.
func (s *Store) LoadProgress(ctx context.Context) progress.UserProgress {
	var p progress.UserProgress
	if !s.load(ctx, KeyProgress, &p) {
		return progress.New()
	}
	return p.Normalize()
}

// SaveProgress replaces the saved progress.
func (s *Store) SaveProgress(ctx context.Context, p progress.UserProgress) error {
	return s.save(ctx, KeyProgress, p)
}

// ResetProgress drops the saved progress. Coins, themes and the
// leaderboard are kept.
func (s *Store) ResetProgress(ctx context.Context) error {
	if err := s.backend.Delete(ctx, KeyProgress); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	s.logger.Info("progress reset")
	return nil
}

// LoadCatalog returns the saved level catalog. When none is saved a fresh
// campaign is generated and persisted.
func (s *Store) LoadCatalog(ctx context.Context) ([]puzzle.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var levels []puzzle.Level
	if s.load(ctx, KeyCatalog, &levels) && len(levels) > 0 {
		return levels, nil
	}

	levels, err := puzzle.DefaultCatalog(s.gen)
	if err != nil {
		return nil, fmt.Errorf("generate catalog: %w", err)
	}
	if err := s.save(ctx, KeyCatalog, levels); err != nil {
		s.logger.Warn("catalog not persisted", "error", err)
	}
	return levels, nil
}

// SaveCatalog replaces the saved level catalog.
func (s *Store) SaveCatalog(ctx context.Context, levels []puzzle.Level) error {
	return s.save(ctx, KeyCatalog, levels)
}

// Coins returns the coin balance.
func (s *Store) Coins(ctx context.Context) int {
	var n int
	s.load(ctx, KeyCoins, &n)
	return n
}

// AddCoins credits amount and returns the new balance.
func (s *Store) AddCoins(ctx context.Context, amount int) (int, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.Coins(ctx) + amount
	if err := s.save(ctx, KeyCoins, balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// SpendCoins debits amount when the balance covers it. It reports false,
// leaving the balance untouched, when funds are insufficient.
func (s *Store) SpendCoins(ctx context.Context, amount int) (bool, error) {
	if amount < 0 {
		return false, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spendLocked(ctx, amount)
}

func (s *Store) spendLocked(ctx context.Context, amount int) (bool, error) {
	balance := s.Coins(ctx)
	if balance < amount {
		return false, nil
	}
	if err := s.save(ctx, KeyCoins, balance-amount); err != nil {
		return false, err
	}
	return true, nil
}

// Achievements returns the predefined achievement catalog.
func (s *Store) Achievements() []progress.Achievement {
	return progress.DefaultAchievements()
}

// load decodes the document under key into v. It reports false when the
// document is missing or unreadable; the latter is logged.
func (s *Store) load(ctx context.Context, key string, v any) bool {
	data, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		s.logger.Warn("document read failed, using default", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("document corrupt, using default", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
