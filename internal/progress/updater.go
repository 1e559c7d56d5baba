package progress

import (
	"time"

	"github.com/roach88/luminal/internal/engine"
	"github.com/roach88/luminal/internal/puzzle"
)

const (
	// CoinsPerStar is paid per star of a victory.
	CoinsPerStar = 25
	// ScorePerCoin converts score into coins, rounding down.
	ScorePerCoin = 10
)

// Award is what a single outcome earned on top of the updated progress.
type Award struct {
	Coins        int           `json:"coins"`
	Achievements []Achievement `json:"achievements,omitempty"`
}

// Updater applies outcomes to progress.
type Updater struct {
	now          func() time.Time
	achievements []Achievement
}

// UpdaterOption configures an Updater.
type UpdaterOption func(*Updater)

// WithNow sets the time source used for timestamps. Default: time.Now.
func WithNow(now func() time.Time) UpdaterOption {
	return func(u *Updater) {
		u.now = now
	}
}

// WithAchievements replaces the achievement catalog.
// Default: DefaultAchievements().
func WithAchievements(catalog []Achievement) UpdaterOption {
	return func(u *Updater) {
		u.achievements = catalog
	}
}

// NewUpdater creates an Updater.
func NewUpdater(opts ...UpdaterOption) *Updater {
	u := &Updater{
		now:          time.Now,
		achievements: DefaultAchievements(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Achievements returns the catalog the updater evaluates.
func (u *Updater) Achievements() []Achievement {
	return u.achievements
}

// ApplyOutcome folds a finished campaign or quick-play session into p.
// A defeat only counts the game.
func (u *Updater) ApplyOutcome(level puzzle.Level, out engine.Outcome, p UserProgress) (UserProgress, Award) {
	next := p.Normalize().Clone()
	if !out.Victory() {
		next.GamesPlayed++
		return next, Award{}
	}

	now := u.now()
	stats, seen := next.Levels[level.Number]
	improved := !seen || out.Score > stats.BestScore || out.Elapsed < stats.BestTime
	if !seen {
		stats.BestScore = out.Score
		stats.BestTime = out.Elapsed
	} else {
		stats.BestScore = max(stats.BestScore, out.Score)
		stats.BestTime = min(stats.BestTime, out.Elapsed)
	}
	stats.Attempts++
	stats.Stars = max(stats.Stars, out.Stars)
	if improved {
		stats.CompletedAt = now
	}
	next.Levels[level.Number] = stats

	if level.Number >= next.HighestUnlocked {
		next.HighestUnlocked = level.Number + 1
	}
	next.CurrentLevel = level.Number + 1

	u.recordPlay(&next, out, now)
	award := Award{
		Coins:        coinsFor(out),
		Achievements: u.unlock(&next, now),
	}
	return next, award
}

// ApplyDailyOutcome folds a finished daily challenge into p. The daily
// level sits outside the campaign: per-level stats and unlock pointers are
// left alone. The challenge reward is paid only while ch is not completed.
func (u *Updater) ApplyDailyOutcome(ch puzzle.Challenge, out engine.Outcome, p UserProgress) (UserProgress, Award) {
	next := p.Normalize().Clone()
	if !out.Victory() {
		next.GamesPlayed++
		return next, Award{}
	}

	now := u.now()
	u.recordPlay(&next, out, now)
	coins := coinsFor(out)
	if !ch.Completed {
		coins += ch.Reward
	}
	return next, Award{
		Coins:        coins,
		Achievements: u.unlock(&next, now),
	}
}

func (u *Updater) recordPlay(p *UserProgress, out engine.Outcome, now time.Time) {
	p.TotalScore += out.Score
	p.GamesPlayed++
	p.TotalPlayTime += out.Elapsed
	p.LastPlayed = now
}

// unlock records every newly satisfied achievement and returns them.
func (u *Updater) unlock(p *UserProgress, now time.Time) []Achievement {
	var unlocked []Achievement
	for _, a := range u.achievements {
		if p.HasAchievement(a.ID) || !a.Met(*p) {
			continue
		}
		p.Achievements[a.ID] = now
		unlocked = append(unlocked, a)
	}
	return unlocked
}

func coinsFor(out engine.Outcome) int {
	return out.Stars*CoinsPerStar + out.Score/ScorePerCoin
}
