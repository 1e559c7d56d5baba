// Package config loads runtime settings from LUMINAL_* environment
// variables. CLI flags override individual fields after loading.
package config

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/luminal/internal/store"
)

// Backend names a store backend.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendBadger Backend = "badger"
	BackendMemory Backend = "memory"
)

// Valid reports whether b is a known backend.
func (b Backend) Valid() bool {
	switch b {
	case BackendSQLite, BackendBadger, BackendMemory:
		return true
	}
	return false
}

// Config holds runtime settings.
type Config struct {
	DBPath     string     `env:"LUMINAL_DB_PATH" envDefault:"luminal.db"`
	Backend    Backend    `env:"LUMINAL_BACKEND" envDefault:"sqlite"`
	BadgerDir  string     `env:"LUMINAL_BADGER_DIR" envDefault:"luminal.badger"`
	PlayerName string     `env:"LUMINAL_PLAYER_NAME" envDefault:"Player"`
	BoardScale float64    `env:"LUMINAL_BOARD_SCALE" envDefault:"400"`
	Seed       int64      `env:"LUMINAL_SEED"`
	LogLevel   slog.Level `env:"LUMINAL_LOG_LEVEL" envDefault:"INFO"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if !c.Backend.Valid() {
		return fmt.Errorf("unknown backend %q (want sqlite, badger or memory)", c.Backend)
	}
	if c.Backend == BackendSQLite && c.DBPath == "" {
		return fmt.Errorf("sqlite backend needs a database path")
	}
	if c.Backend == BackendBadger && c.BadgerDir == "" {
		return fmt.Errorf("badger backend needs a directory")
	}
	if c.BoardScale <= 0 {
		return fmt.Errorf("board scale must be positive, got %v", c.BoardScale)
	}
	return nil
}

// OpenBackend opens the configured store backend.
func (c Config) OpenBackend(logger *slog.Logger) (store.Backend, error) {
	switch c.Backend {
	case BackendSQLite:
		return store.OpenSQLite(c.DBPath)
	case BackendBadger:
		cfg := store.DefaultBadgerConfig(c.BadgerDir)
		cfg.Logger = logger
		return store.OpenBadger(cfg)
	case BackendMemory:
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
}

// ResolveSeed returns the configured seed, or a fresh random one when the
// seed is zero.
func (c Config) ResolveSeed() (int64, error) {
	if c.Seed != 0 {
		return c.Seed, nil
	}
	return NewSeed()
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
