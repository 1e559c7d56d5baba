package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/luminal/internal/puzzle"
)

// DailyChallenge returns the challenge for the calendar day of day. A
// stored challenge for another day is replaced by a freshly drawn one.
func (s *Store) DailyChallenge(ctx context.Context, day time.Time) (puzzle.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyLocked(ctx, day)
}

// CompleteDailyChallenge marks the challenge for day completed and reports
// whether this call was the one that completed it. The reward is paid by
// the caller from the session award, not here.
func (s *Store) CompleteDailyChallenge(ctx context.Context, day time.Time) (puzzle.Challenge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.dailyLocked(ctx, day)
	if err != nil {
		return puzzle.Challenge{}, false, err
	}
	if ch.Completed {
		return ch, false, nil
	}
	ch.Completed = true
	if err := s.save(ctx, KeyDaily, ch); err != nil {
		return puzzle.Challenge{}, false, err
	}
	s.logger.Info("daily challenge completed", "day", ch.Day, "reward", ch.Reward)
	return ch, true, nil
}

func (s *Store) dailyLocked(ctx context.Context, day time.Time) (puzzle.Challenge, error) {
	var ch puzzle.Challenge
	if s.load(ctx, KeyDaily, &ch) && ch.IsFor(day) {
		return ch, nil
	}

	ch, err := puzzle.NewDailyChallenge(s.gen.Rand(), day)
	if err != nil {
		return puzzle.Challenge{}, fmt.Errorf("draw daily challenge: %w", err)
	}
	if err := s.save(ctx, KeyDaily, ch); err != nil {
		return puzzle.Challenge{}, err
	}
	s.logger.Debug("daily challenge drawn", "day", ch.Day, "difficulty", ch.Difficulty)
	return ch, nil
}
