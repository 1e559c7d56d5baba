// Package progress folds finished sessions into a player's persistent
// progress: per-level bests, the unlock pointer, lifetime totals, coins and
// achievements.
//
// The Updater is pure. It never touches storage and never mutates the
// progress it is given; callers persist the returned value.
package progress
