package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// LeaderboardSize caps the number of kept entries.
const LeaderboardSize = 100

// DefaultPlayerName is used when an entry has a blank name.
const DefaultPlayerName = "Player"

// LeaderboardEntry is one recorded victory.
type LeaderboardEntry struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	Level      int       `json:"level"`
	Difficulty string    `json:"difficulty"`
	Date       time.Time `json:"date"`
}

// Leaderboard returns the kept entries, highest score first.
func (s *Store) Leaderboard(ctx context.Context) []LeaderboardEntry {
	var entries []LeaderboardEntry
	s.load(ctx, KeyLeaderboard, &entries)
	sortEntries(entries)
	return entries
}

// AddLeaderboardEntry records e and trims the board to LeaderboardSize.
// Missing ids and dates are filled in and the player name is normalized.
// The stored entry is returned.
func (s *Store) AddLeaderboardEntry(ctx context.Context, e LeaderboardEntry) (LeaderboardEntry, error) {
	if e.ID == "" {
		e.ID = s.ids.Generate()
	}
	if e.Date.IsZero() {
		e.Date = s.now()
	}
	e.PlayerName = NormalizePlayerName(e.PlayerName)

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append(s.Leaderboard(ctx), e)
	sortEntries(entries)
	if len(entries) > LeaderboardSize {
		entries = entries[:LeaderboardSize]
	}
	if err := s.save(ctx, KeyLeaderboard, entries); err != nil {
		return LeaderboardEntry{}, err
	}
	return e, nil
}

// NormalizePlayerName trims name and converts it to Unicode NFC so the same
// name typed on different keyboards compares equal.
func NormalizePlayerName(name string) string {
	name = strings.TrimSpace(norm.NFC.String(name))
	if name == "" {
		return DefaultPlayerName
	}
	return name
}

// sortEntries orders by score descending; equal scores keep insertion order.
func sortEntries(entries []LeaderboardEntry) {
	slices.SortStableFunc(entries, func(a, b LeaderboardEntry) int {
		return cmp.Compare(b.Score, a.Score)
	})
}
