package progress

import (
	"maps"
	"time"
)

// LevelStats are the per-level bests of a completed level.
type LevelStats struct {
	BestScore   int           `json:"best_score"`
	BestTime    time.Duration `json:"best_time"`
	Attempts    int           `json:"attempts"`
	Stars       int           `json:"stars"`
	CompletedAt time.Time     `json:"completed_at"`
}

// UserProgress is the persistent state of one player.
//
// INVARIANTS:
//   - HighestUnlocked >= 1 and CurrentLevel >= 1
//   - a level number is unlocked iff it is <= HighestUnlocked
//   - Levels only holds levels completed at least once
type UserProgress struct {
	CurrentLevel    int                  `json:"current_level"`
	HighestUnlocked int                  `json:"highest_unlocked"`
	TotalScore      int                  `json:"total_score"`
	Levels          map[int]LevelStats   `json:"levels"`
	Achievements    map[string]time.Time `json:"achievements"`
	GamesPlayed     int                  `json:"games_played"`
	TotalPlayTime   time.Duration        `json:"total_play_time"`
	LastPlayed      time.Time            `json:"last_played"`
}

// New returns the progress of a player who has not played yet.
func New() UserProgress {
	return UserProgress{
		CurrentLevel:    1,
		HighestUnlocked: 1,
		Levels:          map[int]LevelStats{},
		Achievements:    map[string]time.Time{},
	}
}

// IsUnlocked reports whether level number n can be played.
func (p UserProgress) IsUnlocked(n int) bool {
	return n >= 1 && n <= p.HighestUnlocked
}

// Clone returns a deep copy.
func (p UserProgress) Clone() UserProgress {
	c := p
	c.Levels = make(map[int]LevelStats, len(p.Levels))
	maps.Copy(c.Levels, p.Levels)
	c.Achievements = make(map[string]time.Time, len(p.Achievements))
	maps.Copy(c.Achievements, p.Achievements)
	return c
}

// Normalize repairs a decoded document: nil maps become empty and the
// level pointers are lifted to at least 1.
func (p UserProgress) Normalize() UserProgress {
	if p.Levels == nil {
		p.Levels = map[int]LevelStats{}
	}
	if p.Achievements == nil {
		p.Achievements = map[string]time.Time{}
	}
	p.CurrentLevel = max(p.CurrentLevel, 1)
	p.HighestUnlocked = max(p.HighestUnlocked, 1)
	return p
}

// CompletedLevels counts levels completed at least once.
func (p UserProgress) CompletedLevels() int {
	return len(p.Levels)
}

// PerfectLevels counts levels whose best rating is three stars.
func (p UserProgress) PerfectLevels() int {
	n := 0
	for _, s := range p.Levels {
		if s.Stars >= 3 {
			n++
		}
	}
	return n
}

// FastestTime returns the smallest best time over all completed levels.
func (p UserProgress) FastestTime() (time.Duration, bool) {
	var best time.Duration
	found := false
	for _, s := range p.Levels {
		if !found || s.BestTime < best {
			best = s.BestTime
			found = true
		}
	}
	return best, found
}

// HasAchievement reports whether id has been unlocked.
func (p UserProgress) HasAchievement(id string) bool {
	_, ok := p.Achievements[id]
	return ok
}
