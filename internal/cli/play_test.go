package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/luminal/internal/progress"
	"github.com/roach88/luminal/internal/puzzle"
)

func TestPlay_CurrentLevelSettlesProgress(t *testing.T) {
	flags := sqliteFlags(t)

	res := runCLI(t, with(flags, "play", "--format", "json")...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var played PlayResult
	decodeData(t, res.stdout, &played)
	assert.Equal(t, 1, played.Level)
	assert.Equal(t, "victory", played.Result)
	assert.Equal(t, 2, played.CurrentLevel)
	assert.InDelta(t, 20000, played.ElapsedMS, 1, "the default duration is simulated")
	assert.Equal(t, 0, played.InvalidMoves)
	assert.Equal(t, played.Coins, played.Balance)
	assert.Contains(t, played.Achievements, "first-steps")
	assert.Len(t, played.Path, 4, "the tutorial has four nodes")

	res = runCLI(t, with(flags, "progress", "--format", "json")...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	var prog ProgressResult
	decodeData(t, res.stdout, &prog)
	assert.Equal(t, 2, prog.Progress.HighestUnlocked)
	assert.Equal(t, 1, prog.Progress.GamesPlayed)
	assert.Equal(t, played.Balance, prog.Coins)
	assert.Equal(t, "midnight", prog.SelectedTheme)
	assert.Len(t, prog.Achievements, len(progress.DefaultAchievements()))

	res = runCLI(t, with(flags, "leaderboard", "--format", "json")...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	var board LeaderboardResult
	decodeData(t, res.stdout, &board)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, "Ada", board.Entries[0].PlayerName)
	assert.Equal(t, played.Score, board.Entries[0].Score)
	assert.Equal(t, 1, board.Entries[0].Level)

	res = runCLI(t, with(flags, "catalog", "--format", "json")...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	var catalog CatalogResult
	decodeData(t, res.stdout, &catalog)
	assert.Equal(t, 2, catalog.CurrentLevel)
	assert.True(t, catalog.Levels[1].Unlocked)
	assert.False(t, catalog.Levels[2].Unlocked)
	assert.Equal(t, played.Stars, catalog.Levels[0].Stars)
}

func TestPlay_Text(t *testing.T) {
	res := runCLI(t, with(sqliteFlags(t), "play", "1")...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Level 1: First Contact")
	assert.Contains(t, res.stdout, "Result: victory")
	assert.Contains(t, res.stdout, "Achievement unlocked: first-steps")
	assert.Contains(t, res.stdout, "Current level: 2")
}

func TestPlay_Failures(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"locked level", []string{"play", "5"}, ExitFailure, "level 5 is locked"},
		{"unknown level", []string{"play", "21"}, ExitCommandError, "level 21 does not exist"},
		{"bad level number", []string{"play", "one"}, ExitCommandError, "invalid level number"},
		{"route stops early", []string{"play", "--taps", "0,1"}, ExitFailure, "not finished after 2 taps"},
		{"index out of range", []string{"play", "--taps", "0,9"}, ExitCommandError, "out of range"},
		{"unknown node", []string{"play", "--taps", "nope"}, ExitCommandError, `node "nope" is not part of level 1`},
		{"daily with level", []string{"play", "1", "--daily"}, ExitCommandError, "cannot be combined"},
		{"negative duration", []string{"play", "--duration", "-1s"}, ExitCommandError, "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, with(sqliteFlags(t), tt.args...)...)
			assert.Equal(t, tt.code, res.code)
			assert.Contains(t, res.stderr, tt.want)
		})
	}
}

func TestPlay_RejectedTapsAreCounted(t *testing.T) {
	// The tutorial goal sits three layers past the start and is never
	// linked from it.
	res := runCLI(t, with(sqliteFlags(t), "play", "--taps", "0,3,1,2,3", "--format", "json")...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var played PlayResult
	decodeData(t, res.stdout, &played)
	assert.Equal(t, "victory", played.Result)
	assert.Equal(t, 1, played.InvalidMoves)
}

func TestPlay_MetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.prom")
	res := runCLI(t, with(sqliteFlags(t), "play", "--metrics-file", path)...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `luminal_session_started_total{difficulty="easy"} 1`)
	assert.Contains(t, text, `luminal_session_finished_total{result="victory"} 1`)
	assert.Contains(t, text, "luminal_coins_awarded_total")
}

func TestPlay_DailyChallenge(t *testing.T) {
	flags := sqliteFlags(t)

	res := runCLI(t, with(flags, "daily", "--format", "json")...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	var before DailyResult
	decodeData(t, res.stdout, &before)
	assert.Equal(t, time.Now().Format(puzzle.DayLayout), before.Day)
	assert.False(t, before.Completed)

	res = runCLI(t, with(flags, "play", "--daily", "--format", "json")...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	var played PlayResult
	decodeData(t, res.stdout, &played)
	assert.True(t, played.Daily)
	assert.Equal(t, puzzle.DailyLevelNumber, played.Level)
	assert.Equal(t, "victory", played.Result)
	assert.Equal(t, 1, played.CurrentLevel, "daily levels do not advance the campaign")
	assert.GreaterOrEqual(t, played.Coins, before.Reward)

	res = runCLI(t, with(flags, "daily", "--format", "json")...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	var after DailyResult
	decodeData(t, res.stdout, &after)
	assert.Equal(t, before.ID, after.ID)
	assert.True(t, after.Completed)

	res = runCLI(t, with(flags, "play", "--daily", "--format", "json")...)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	var replay PlayResult
	decodeData(t, res.stdout, &replay)
	assert.Equal(t, played.Score, replay.Score, "same seed, same daily level")
	assert.Equal(t, before.Reward, played.Coins-replay.Coins, "the reward is paid once")
}
