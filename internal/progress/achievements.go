package progress

import "time"

// RequirementKind selects how an achievement is evaluated.
type RequirementKind string

const (
	// RequireCompleteLevels counts completed levels against Count.
	RequireCompleteLevels RequirementKind = "complete_levels"
	// RequireReachScore compares the lifetime total score against Score.
	RequireReachScore RequirementKind = "reach_score"
	// RequireCompleteInTime needs any best time at or below Within.
	RequireCompleteInTime RequirementKind = "complete_in_time"
	// RequirePerfectStreak counts three-star levels against Count.
	RequirePerfectStreak RequirementKind = "perfect_streak"
	// RequirePlayDays counts games played against Count.
	RequirePlayDays RequirementKind = "play_days"
)

// Requirement is the unlock condition of an achievement.
type Requirement struct {
	Kind   RequirementKind `json:"kind"`
	Count  int             `json:"count,omitempty"`
	Score  int             `json:"score,omitempty"`
	Within time.Duration   `json:"within,omitempty"`
}

// Achievement is a one-time milestone.
type Achievement struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Requirement Requirement `json:"requirement"`
}

// Met reports whether p satisfies the requirement.
func (a Achievement) Met(p UserProgress) bool {
	r := a.Requirement
	switch r.Kind {
	case RequireCompleteLevels:
		return p.CompletedLevels() >= r.Count
	case RequireReachScore:
		return p.TotalScore >= r.Score
	case RequireCompleteInTime:
		best, ok := p.FastestTime()
		return ok && best <= r.Within
	case RequirePerfectStreak:
		return p.PerfectLevels() >= r.Count
	case RequirePlayDays:
		return p.GamesPlayed >= r.Count
	default:
		return false
	}
}

// DefaultAchievements returns the built-in catalog.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{
			ID:          "first-steps",
			Title:       "First Steps",
			Description: "Complete your first level",
			Requirement: Requirement{Kind: RequireCompleteLevels, Count: 1},
		},
		{
			ID:          "explorer",
			Title:       "Explorer",
			Description: "Complete 5 levels",
			Requirement: Requirement{Kind: RequireCompleteLevels, Count: 5},
		},
		{
			ID:          "master-navigator",
			Title:       "Master Navigator",
			Description: "Complete 10 levels",
			Requirement: Requirement{Kind: RequireCompleteLevels, Count: 10},
		},
		{
			ID:          "speed-demon",
			Title:       "Speed Demon",
			Description: "Complete a level in under 30 seconds",
			Requirement: Requirement{Kind: RequireCompleteInTime, Within: 30 * time.Second},
		},
		{
			ID:          "score-hunter",
			Title:       "Score Hunter",
			Description: "Reach a total score of 10,000",
			Requirement: Requirement{Kind: RequireReachScore, Score: 10_000},
		},
		{
			ID:          "perfect-streak",
			Title:       "Perfect Streak",
			Description: "Get 3 perfect scores",
			Requirement: Requirement{Kind: RequirePerfectStreak, Count: 3},
		},
		{
			ID:          "dedication",
			Title:       "Dedication",
			Description: "Play 7 games",
			Requirement: Requirement{Kind: RequirePlayDays, Count: 7},
		},
	}
}

// AchievementState is an achievement merged with a player's unlock state.
type AchievementState struct {
	Achievement
	Unlocked   bool      `json:"unlocked"`
	UnlockedAt time.Time `json:"unlocked_at,omitzero"`
}

// AchievementStatus merges catalog with the unlocked set of p, in catalog
// order.
func AchievementStatus(catalog []Achievement, p UserProgress) []AchievementState {
	out := make([]AchievementState, 0, len(catalog))
	for _, a := range catalog {
		at, ok := p.Achievements[a.ID]
		out = append(out, AchievementState{Achievement: a, Unlocked: ok, UnlockedAt: at})
	}
	return out
}
