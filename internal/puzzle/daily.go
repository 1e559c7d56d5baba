package puzzle

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// DailyLevelNumber is the level number reserved for daily challenges.
// It sits outside the campaign and never advances the unlock pointer.
const DailyLevelNumber = 999

// DayLayout formats the calendar day a challenge belongs to.
const DayLayout = "2006-01-02"

var dailyTitles = []string{
	"Speed Run",
	"Perfect Path",
	"Time Master",
	"Combo King",
	"Flawless Victory",
}

var dailyDescriptions = []string{
	"Complete without hitting obstacles",
	"Finish under target time",
	"Get max combo",
	"Score above target",
	"Collect all power-ups",
}

// Challenge is the once-per-day special level.
type Challenge struct {
	ID          string        `json:"id"`
	Day         string        `json:"day"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Difficulty  Difficulty    `json:"difficulty"`
	TargetScore int           `json:"target_score"`
	TimeLimit   time.Duration `json:"time_limit"`
	Reward      int           `json:"reward"`
	Completed   bool          `json:"completed"`
}

// NewDailyChallenge draws a challenge for the calendar day of day.
func NewDailyChallenge(rng *rand.Rand, day time.Time) (Challenge, error) {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return Challenge{}, fmt.Errorf("draw challenge id: %w", err)
	}
	return Challenge{
		ID:          id.String(),
		Day:         day.Format(DayLayout),
		Difficulty:  Difficulties[rng.Intn(len(Difficulties))],
		Title:       dailyTitles[rng.Intn(len(dailyTitles))],
		Description: dailyDescriptions[rng.Intn(len(dailyDescriptions))],
		TargetScore: 300 + rng.Intn(501),
		TimeLimit:   time.Duration(60+rng.Intn(121)) * time.Second,
		Reward:      50 + rng.Intn(151),
	}, nil
}

// IsFor reports whether the challenge belongs to the calendar day of t.
func (c Challenge) IsFor(t time.Time) bool {
	return c.Day == t.Format(DayLayout)
}

// Level builds the playable level for the challenge. The graph uses the
// tier's quick-play complexity; target and time limit come from the
// challenge itself.
func (c Challenge) Level(g *Generator) (Level, error) {
	if !c.Difficulty.Valid() {
		return Level{}, newError(ErrCodeInvalidParameter, fmt.Sprintf("unknown difficulty %q", c.Difficulty))
	}
	nodes, err := g.Generate(ParametersFor(c.Difficulty).Complexity, c.Difficulty)
	if err != nil {
		return Level{}, err
	}
	return Level{
		Number:      DailyLevelNumber,
		Title:       c.Title,
		Description: c.Description,
		Difficulty:  c.Difficulty,
		TargetScore: c.TargetScore,
		TimeLimit:   c.TimeLimit,
		Nodes:       nodes,
	}, nil
}
