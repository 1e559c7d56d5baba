package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAchievements(t *testing.T) {
	catalog := DefaultAchievements()
	require.Len(t, catalog, 7)

	seen := map[string]bool{}
	for _, a := range catalog {
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Title)
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
	}
}

func TestAchievementMet(t *testing.T) {
	p := New()
	p.Levels[1] = LevelStats{BestScore: 300, BestTime: 30 * time.Second, Stars: 3, Attempts: 1}
	p.Levels[2] = LevelStats{BestScore: 100, BestTime: 80 * time.Second, Stars: 1, Attempts: 2}
	p.TotalScore = 9_999
	p.GamesPlayed = 7

	tests := []struct {
		req  Requirement
		want bool
	}{
		{Requirement{Kind: RequireCompleteLevels, Count: 2}, true},
		{Requirement{Kind: RequireCompleteLevels, Count: 3}, false},
		{Requirement{Kind: RequireReachScore, Score: 9_999}, true},
		{Requirement{Kind: RequireReachScore, Score: 10_000}, false},
		{Requirement{Kind: RequireCompleteInTime, Within: 30 * time.Second}, true},
		{Requirement{Kind: RequireCompleteInTime, Within: 29 * time.Second}, false},
		{Requirement{Kind: RequirePerfectStreak, Count: 1}, true},
		{Requirement{Kind: RequirePerfectStreak, Count: 2}, false},
		{Requirement{Kind: RequirePlayDays, Count: 7}, true},
		{Requirement{Kind: RequirePlayDays, Count: 8}, false},
		{Requirement{Kind: "unknown"}, false},
	}
	for _, tt := range tests {
		a := Achievement{ID: "x", Requirement: tt.req}
		assert.Equal(t, tt.want, a.Met(p), "%+v", tt.req)
	}

	empty := Achievement{Requirement: Requirement{Kind: RequireCompleteInTime, Within: time.Hour}}
	assert.False(t, empty.Met(New()))
}

func TestAchievementStatus(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := New()
	p.Achievements["explorer"] = at

	status := AchievementStatus(DefaultAchievements(), p)
	require.Len(t, status, 7)
	for _, s := range status {
		if s.ID == "explorer" {
			assert.True(t, s.Unlocked)
			assert.Equal(t, at, s.UnlockedAt)
			continue
		}
		assert.False(t, s.Unlocked, s.ID)
		assert.True(t, s.UnlockedAt.IsZero())
	}
}

func TestUserProgressHelpers(t *testing.T) {
	p := New()
	assert.True(t, p.IsUnlocked(1))
	assert.False(t, p.IsUnlocked(0))
	assert.False(t, p.IsUnlocked(2))

	_, ok := p.FastestTime()
	assert.False(t, ok)

	p.Levels[3] = LevelStats{BestTime: 40 * time.Second}
	p.Levels[4] = LevelStats{BestTime: 35 * time.Second, Stars: 3}
	best, ok := p.FastestTime()
	require.True(t, ok)
	assert.Equal(t, 35*time.Second, best)
	assert.Equal(t, 2, p.CompletedLevels())
	assert.Equal(t, 1, p.PerfectLevels())

	c := p.Clone()
	c.Levels[5] = LevelStats{}
	c.Achievements["x"] = time.Time{}
	assert.Len(t, p.Levels, 2)
	assert.Empty(t, p.Achievements)
}
