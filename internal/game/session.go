// Package game runs one play session end to end: it feeds player input to
// the traversal engine and, once the engine finishes, settles the outcome
// into persistent progress, coins, the leaderboard and metrics.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/luminal/internal/engine"
	"github.com/roach88/luminal/internal/metrics"
	"github.com/roach88/luminal/internal/progress"
	"github.com/roach88/luminal/internal/puzzle"
	"github.com/roach88/luminal/internal/store"
)

// ProgressStore is the persistence a session needs. *store.Store
// implements it.
type ProgressStore interface {
	LoadProgress(ctx context.Context) progress.UserProgress
	SaveProgress(ctx context.Context, p progress.UserProgress) error
	AddCoins(ctx context.Context, amount int) (int, error)
	AddLeaderboardEntry(ctx context.Context, e store.LeaderboardEntry) (store.LeaderboardEntry, error)
	CompleteDailyChallenge(ctx context.Context, day time.Time) (puzzle.Challenge, bool, error)
}

var _ ProgressStore = (*store.Store)(nil)

// Report is the settled result of a finished session.
type Report struct {
	Outcome  engine.Outcome          `json:"outcome"`
	Award    progress.Award          `json:"award"`
	Progress progress.UserProgress   `json:"progress"`
	Daily    *puzzle.Challenge       `json:"daily,omitempty"`
	Entry    *store.LeaderboardEntry `json:"leaderboard_entry,omitempty"`
}

// Session drives one level at a time. It is not safe for concurrent use;
// like the engine, it expects a single input goroutine.
type Session struct {
	store   ProgressStore
	engine  *engine.Engine
	updater *progress.Updater
	metrics *metrics.Recorder
	player  string
	logger  *slog.Logger

	level  *puzzle.Level
	daily  *puzzle.Challenge
	report *Report
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithEngine supplies the engine. The caller owns its listener wiring;
// by default the session builds an engine that reports to its metrics.
func WithEngine(e *engine.Engine) SessionOption {
	return func(s *Session) {
		s.engine = e
	}
}

// WithUpdater supplies the progression updater.
func WithUpdater(u *progress.Updater) SessionOption {
	return func(s *Session) {
		s.updater = u
	}
}

// WithMetrics records session metrics on r.
func WithMetrics(r *metrics.Recorder) SessionOption {
	return func(s *Session) {
		s.metrics = r
	}
}

// WithPlayer sets the leaderboard name. Default: store.DefaultPlayerName.
func WithPlayer(name string) SessionOption {
	return func(s *Session) {
		s.player = name
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates a session persisting to st.
func NewSession(st ProgressStore, opts ...SessionOption) *Session {
	s := &Session{
		store:  st,
		player: store.DefaultPlayerName,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.updater == nil {
		s.updater = progress.NewUpdater()
	}
	if s.engine == nil {
		s.engine = engine.New(
			engine.WithListener(s.metrics),
			engine.WithLogger(s.logger),
		)
	}
	return s
}

// Engine exposes the underlying engine for read-only queries.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// Start begins a campaign or quick-play level.
func (s *Session) Start(ctx context.Context, level *puzzle.Level) error {
	return s.start(ctx, level, nil)
}

// StartDaily begins the daily challenge ch played on level.
func (s *Session) StartDaily(ctx context.Context, ch puzzle.Challenge, level *puzzle.Level) error {
	if _, err := time.Parse(puzzle.DayLayout, ch.Day); err != nil {
		return fmt.Errorf("daily challenge day %q: %w", ch.Day, err)
	}
	return s.start(ctx, level, &ch)
}

func (s *Session) start(_ context.Context, level *puzzle.Level, daily *puzzle.Challenge) error {
	if err := s.engine.Start(level); err != nil {
		return err
	}
	s.level = level
	s.daily = daily
	s.report = nil
	s.metrics.SessionStarted(level.Difficulty)
	return nil
}

// Tap forwards a node tap and settles the session if it ended.
func (s *Session) Tap(ctx context.Context, id string) (engine.TapResult, error) {
	res, err := s.engine.TapNode(id)
	if err != nil {
		return res, err
	}
	s.settle(ctx)
	return res, nil
}

// Swipe forwards a swipe gesture.
func (s *Session) Swipe(_ context.Context, from, to puzzle.Point) bool {
	return s.engine.Swipe(from, to)
}

// Tick advances the level clock and settles the session if time ran out.
func (s *Session) Tick(ctx context.Context, dt time.Duration) error {
	if err := s.engine.Tick(dt); err != nil {
		return err
	}
	s.settle(ctx)
	return nil
}

// Pause pauses the running level.
func (s *Session) Pause() { s.engine.Pause() }

// Resume resumes a paused level.
func (s *Session) Resume() { s.engine.Resume() }

// Abandon drops the running level. Nothing is persisted.
func (s *Session) Abandon() {
	s.engine.Abandon()
	s.level = nil
	s.daily = nil
	s.report = nil
}

// Report returns the settled report once the level has finished.
func (s *Session) Report() (Report, bool) {
	if s.report == nil {
		return Report{}, false
	}
	return *s.report, true
}

// settle persists a finished outcome exactly once. Store failures are
// logged; the in-memory report is still produced.
func (s *Session) settle(ctx context.Context) {
	if s.report != nil || s.engine.State() != engine.StateFinished {
		return
	}
	out, ok := s.engine.Outcome()
	if !ok {
		return
	}

	// A daily win is recorded first; only the call that completes it pays
	// the reward.
	var (
		completed *puzzle.Challenge
		newly     bool
	)
	if s.daily != nil && out.Victory() {
		completed, newly = s.completeDaily(ctx)
	}

	current := s.store.LoadProgress(ctx)
	var (
		next  progress.UserProgress
		award progress.Award
	)
	if s.daily != nil {
		ch := *s.daily
		if out.Victory() {
			ch.Completed = !newly
		}
		next, award = s.updater.ApplyDailyOutcome(ch, out, current)
	} else {
		next, award = s.updater.ApplyOutcome(*s.level, out, current)
	}
	report := &Report{Outcome: out, Award: award, Progress: next}

	if err := s.store.SaveProgress(ctx, next); err != nil {
		s.logger.Error("save progress failed", "level", out.LevelNumber, "error", err)
	}
	if award.Coins > 0 {
		if _, err := s.store.AddCoins(ctx, award.Coins); err != nil {
			s.logger.Error("add coins failed", "coins", award.Coins, "error", err)
		}
	}

	if out.Victory() {
		entry, err := s.store.AddLeaderboardEntry(ctx, store.LeaderboardEntry{
			PlayerName: s.player,
			Score:      out.Score,
			Level:      out.LevelNumber,
			Difficulty: string(s.level.Difficulty),
		})
		if err != nil {
			s.logger.Error("leaderboard entry failed", "level", out.LevelNumber, "error", err)
		} else {
			report.Entry = &entry
		}

		report.Daily = completed
	}

	s.metrics.SessionFinished(out)
	s.metrics.Coins(award.Coins)
	for _, a := range award.Achievements {
		s.metrics.AchievementUnlocked(a.ID)
		s.logger.Info("achievement unlocked", "achievement", a.ID, "title", a.Title)
	}

	s.report = report
	s.logger.Info("session settled",
		"level", out.LevelNumber,
		"result", out.Result,
		"score", out.Score,
		"stars", out.Stars,
		"coins", award.Coins,
	)
}

// completeDaily records the running daily challenge as completed. A failed
// write yields no challenge and is treated as already completed.
func (s *Session) completeDaily(ctx context.Context) (*puzzle.Challenge, bool) {
	day, _ := time.Parse(puzzle.DayLayout, s.daily.Day)
	ch, newly, err := s.store.CompleteDailyChallenge(ctx, day)
	if err != nil {
		s.logger.Error("complete daily challenge failed", "day", s.daily.Day, "error", err)
		return nil, false
	}
	return &ch, newly
}
