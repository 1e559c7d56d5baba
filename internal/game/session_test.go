package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/luminal/internal/engine"
	"github.com/roach88/luminal/internal/metrics"
	"github.com/roach88/luminal/internal/progress"
	"github.com/roach88/luminal/internal/puzzle"
	"github.com/roach88/luminal/internal/store"
	"github.com/roach88/luminal/internal/testutil"
)

type fixture struct {
	session *Session
	store   *store.Store
	metrics *metrics.Recorder
	clock   *testutil.ManualClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clock := testutil.NewManualClock(testutil.Epoch)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(store.NewMemory(),
		store.WithNow(clock.Now),
		store.WithIDs(testutil.NewSequentialIDs("entry")),
		store.WithGenerator(puzzle.NewSeededGenerator(3)),
		store.WithLogger(logger),
	)
	t.Cleanup(func() { st.Close() })

	rec := metrics.NewRecorder(prometheus.NewRegistry())
	eng := engine.New(engine.WithClock(clock), engine.WithListener(rec), engine.WithLogger(logger))
	s := NewSession(st,
		WithEngine(eng),
		WithUpdater(progress.NewUpdater(progress.WithNow(clock.Now))),
		WithMetrics(rec),
		WithPlayer("Ada"),
		WithLogger(logger),
	)
	return fixture{session: s, store: st, metrics: rec, clock: clock}
}

// comboLevel scores 390 on the path s, a, b, g.
func comboLevel(number int) *puzzle.Level {
	return testutil.NewLevel(number, 100).
		Node("s", puzzle.NodeStart, 0).
		Node("a", puzzle.NodeCheckpoint, 30).
		Node("b", puzzle.NodeCheckpoint, 30).
		Node("g", puzzle.NodeGoal, 100).
		Chain("s", "a", "b", "g").
		TimeLimit(time.Minute).
		Build()
}

func play(t *testing.T, s *Session, ids ...string) {
	t.Helper()
	for _, id := range ids {
		res, err := s.Tap(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, engine.TapAccepted, res, id)
	}
}

func TestSession_VictorySettles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.session.Start(ctx, comboLevel(1)))
	_, ok := f.session.Report()
	assert.False(t, ok)

	f.clock.Advance(12 * time.Second)
	play(t, f.session, "s", "a", "b", "g")

	report, ok := f.session.Report()
	require.True(t, ok)
	assert.Equal(t, 390, report.Outcome.Score)
	assert.Equal(t, 3, report.Outcome.Stars)
	assert.Equal(t, 3*progress.CoinsPerStar+39, report.Award.Coins)
	assert.Equal(t, 2, report.Progress.HighestUnlocked)
	require.NotNil(t, report.Entry)
	assert.Equal(t, "entry-1", report.Entry.ID)
	assert.Nil(t, report.Daily)

	saved := f.store.LoadProgress(ctx)
	assert.Equal(t, 2, saved.HighestUnlocked)
	assert.Equal(t, 390, saved.TotalScore)
	assert.Equal(t, 12*time.Second, saved.Levels[1].BestTime)
	assert.True(t, saved.HasAchievement("first-steps"))
	assert.True(t, saved.HasAchievement("speed-demon"))

	assert.Equal(t, 114, f.store.Coins(ctx))

	board := f.store.Leaderboard(ctx)
	require.Len(t, board, 1)
	assert.Equal(t, "Ada", board[0].PlayerName)
	assert.Equal(t, "easy", board[0].Difficulty)

	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.SessionsStarted.WithLabelValues("easy")))
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.SessionsFinished.WithLabelValues("victory")))
	assert.Equal(t, 114.0, promtest.ToFloat64(f.metrics.CoinsAwarded))
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.AchievementsUnlocked.WithLabelValues("first-steps")))

	// further input after the end does not settle twice
	_, err := f.session.Tap(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, f.session.Tick(ctx, time.Second))
	assert.Equal(t, 114, f.store.Coins(ctx))
	assert.Len(t, f.store.Leaderboard(ctx), 1)
}

func TestSession_DefeatByTimeout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.session.Start(ctx, comboLevel(1)))
	play(t, f.session, "s", "a")

	res, err := f.session.Tap(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, engine.TapRejected, res)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.InvalidMoves))

	for i := 0; i < 6; i++ {
		require.NoError(t, f.session.Tick(ctx, 10*time.Second))
	}

	report, ok := f.session.Report()
	require.True(t, ok)
	assert.Equal(t, engine.ResultDefeat, report.Outcome.Result)
	assert.Equal(t, progress.Award{}, report.Award)
	assert.Nil(t, report.Entry)

	saved := f.store.LoadProgress(ctx)
	assert.Equal(t, 1, saved.GamesPlayed)
	assert.Equal(t, 1, saved.HighestUnlocked)
	assert.Equal(t, 0, f.store.Coins(ctx))
	assert.Empty(t, f.store.Leaderboard(ctx))
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.SessionsFinished.WithLabelValues("defeat")))
}

func TestSession_DailyChallengePaysRewardOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ch, err := f.store.DailyChallenge(ctx, f.clock.Now())
	require.NoError(t, err)
	level := comboLevel(puzzle.DailyLevelNumber)
	level.TargetScore = ch.TargetScore

	require.NoError(t, f.session.StartDaily(ctx, ch, level))
	play(t, f.session, "s", "a", "b", "g")

	report, ok := f.session.Report()
	require.True(t, ok)
	require.NotNil(t, report.Daily)
	assert.True(t, report.Daily.Completed)
	stars := engine.Stars(390, ch.TargetScore)
	first := stars*progress.CoinsPerStar + 39 + ch.Reward
	assert.Equal(t, first, report.Award.Coins)

	saved := f.store.LoadProgress(ctx)
	assert.Empty(t, saved.Levels)
	assert.Equal(t, 1, saved.HighestUnlocked)
	assert.Equal(t, 390, saved.TotalScore)

	// replay the completed challenge: no second reward
	done, err := f.store.DailyChallenge(ctx, f.clock.Now())
	require.NoError(t, err)
	require.True(t, done.Completed)
	require.NoError(t, f.session.StartDaily(ctx, done, level))
	play(t, f.session, "s", "a", "b", "g")

	report, ok = f.session.Report()
	require.True(t, ok)
	assert.Equal(t, stars*progress.CoinsPerStar+39, report.Award.Coins)
	assert.Equal(t, first+report.Award.Coins, f.store.Coins(ctx))
}

func TestSession_DailyStaleChallengePaysRewardOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ch, err := f.store.DailyChallenge(ctx, f.clock.Now())
	require.NoError(t, err)
	require.False(t, ch.Completed)
	level := comboLevel(puzzle.DailyLevelNumber)
	level.TargetScore = ch.TargetScore
	base := engine.Stars(390, ch.TargetScore)*progress.CoinsPerStar + 39

	// the same uncompleted value is reused for both wins
	require.NoError(t, f.session.StartDaily(ctx, ch, level))
	play(t, f.session, "s", "a", "b", "g")
	first, ok := f.session.Report()
	require.True(t, ok)
	assert.Equal(t, base+ch.Reward, first.Award.Coins)

	require.NoError(t, f.session.StartDaily(ctx, ch, level))
	play(t, f.session, "s", "a", "b", "g")
	second, ok := f.session.Report()
	require.True(t, ok)
	assert.Equal(t, base, second.Award.Coins)
	require.NotNil(t, second.Daily)
	assert.True(t, second.Daily.Completed)

	assert.Equal(t, 2*base+ch.Reward, f.store.Coins(ctx))
}

func TestSession_DailyDefeatLeavesChallengeOpen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ch, err := f.store.DailyChallenge(ctx, f.clock.Now())
	require.NoError(t, err)
	level := comboLevel(puzzle.DailyLevelNumber)
	level.TargetScore = ch.TargetScore

	require.NoError(t, f.session.StartDaily(ctx, ch, level))
	for i := 0; i < 6; i++ {
		require.NoError(t, f.session.Tick(ctx, 10*time.Second))
	}

	report, ok := f.session.Report()
	require.True(t, ok)
	assert.Nil(t, report.Daily)
	assert.Zero(t, report.Award.Coins)

	stored, err := f.store.DailyChallenge(ctx, f.clock.Now())
	require.NoError(t, err)
	assert.False(t, stored.Completed)
}

func TestSession_StartDailyRejectsBadDay(t *testing.T) {
	f := newFixture(t)
	err := f.session.StartDaily(context.Background(), puzzle.Challenge{Day: "yesterday"}, comboLevel(puzzle.DailyLevelNumber))
	assert.Error(t, err)
	assert.Equal(t, engine.StateIdle, f.session.Engine().State())
}

func TestSession_StartWhileRunning(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.session.Start(ctx, comboLevel(1)))
	err := f.session.Start(ctx, comboLevel(2))
	assert.True(t, engine.IsIllegalState(err))

	f.session.Pause()
	assert.Equal(t, engine.StatePaused, f.session.Engine().State())
	f.session.Resume()

	assert.True(t, f.session.Swipe(ctx, puzzle.Point{X: 0, Y: 0.5}, puzzle.Point{X: 1, Y: 0.5}))

	f.session.Abandon()
	require.NoError(t, f.session.Start(ctx, comboLevel(2)))
	assert.Equal(t, 2, f.session.Engine().Level().Number)
	assert.Equal(t, progress.New(), f.store.LoadProgress(ctx))
}

// failingStore fails every write.
type failingStore struct {
	loads int
}

var errWrite = errors.New("disk full")

func (f *failingStore) LoadProgress(context.Context) progress.UserProgress {
	f.loads++
	return progress.New()
}

func (f *failingStore) SaveProgress(context.Context, progress.UserProgress) error { return errWrite }

func (f *failingStore) AddCoins(context.Context, int) (int, error) { return 0, errWrite }

func (f *failingStore) AddLeaderboardEntry(context.Context, store.LeaderboardEntry) (store.LeaderboardEntry, error) {
	return store.LeaderboardEntry{}, errWrite
}

func (f *failingStore) CompleteDailyChallenge(context.Context, time.Time) (puzzle.Challenge, bool, error) {
	return puzzle.Challenge{}, false, errWrite
}

func TestSession_StoreFailuresStillReport(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{}
	s := NewSession(st, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	require.NoError(t, s.Start(ctx, comboLevel(1)))
	play(t, s, "s", "a", "b", "g")

	report, ok := s.Report()
	require.True(t, ok)
	assert.Equal(t, 390, report.Outcome.Score)
	assert.Nil(t, report.Entry)
	assert.Equal(t, 1, st.loads)
}
