// Package store persists player state as JSON documents under fixed keys.
//
// A Store is a typed facade over a Backend, a minimal byte-oriented
// key-value interface. Three backends ship with the package:
//
//   - SQLite (OpenSQLite): a single kv table, WAL mode, schema migrations
//     tracked through PRAGMA user_version
//   - Badger (OpenBadger): embedded LSM store, with an in-memory mode for
//     tests
//   - Memory (NewMemory): a map, for tests and throwaway sessions
//
// # Documents
//
//	progress        progress.UserProgress
//	catalog         []puzzle.Level
//	coins           int
//	leaderboard     []LeaderboardEntry (top 100, score descending)
//	themes          []Theme
//	theme.selected  theme id
//	daily           puzzle.Challenge
//
// Loads never fail the caller. A missing or undecodable document falls back
// to its default and the failure is logged. Writes return errors.
package store
