package puzzle

import (
	"fmt"
	"time"
)

// Parameters are the per-tier settings used for quick-play levels.
type Parameters struct {
	TimeLimit   time.Duration
	Complexity  int
	TargetScore int
}

// ParametersFor returns the quick-play settings for d.
func ParametersFor(d Difficulty) Parameters {
	switch d {
	case Medium:
		return Parameters{TimeLimit: 120 * time.Second, Complexity: 7, TargetScore: 350}
	case Hard:
		return Parameters{TimeLimit: 90 * time.Second, Complexity: 9, TargetScore: 500}
	case Expert:
		return Parameters{TimeLimit: 60 * time.Second, Complexity: 12, TargetScore: 800}
	default:
		return Parameters{TimeLimit: 180 * time.Second, Complexity: 5, TargetScore: 200}
	}
}

var quickPlayTitles = map[Difficulty]string{
	Easy:   "Training",
	Medium: "Challenge",
	Hard:   "Trial",
	Expert: "Mastery",
}

var quickPlayDescriptions = map[Difficulty]string{
	Easy:   "Great start for beginners",
	Medium: "Test your skills",
	Hard:   "For experienced players only",
	Expert: "Extreme challenge",
}

// LevelFor builds a quick-play level for a tier.
func LevelFor(g *Generator, d Difficulty, number int) (Level, error) {
	if !d.Valid() {
		return Level{}, newError(ErrCodeInvalidParameter, fmt.Sprintf("unknown difficulty %q", d))
	}
	p := ParametersFor(d)
	nodes, err := g.Generate(p.Complexity, d)
	if err != nil {
		return Level{}, err
	}
	return Level{
		Number:      number,
		Title:       fmt.Sprintf("%s %d", quickPlayTitles[d], number),
		Description: quickPlayDescriptions[d],
		Difficulty:  d,
		TargetScore: p.TargetScore,
		TimeLimit:   p.TimeLimit,
		Nodes:       nodes,
	}, nil
}

// campaignTier describes a contiguous run of campaign levels.
type campaignTier struct {
	first, last    int
	title          string
	description    string
	difficulty     Difficulty
	complexityBase int
	targetPerLevel int
	timeLimit      time.Duration
}

var campaign = []campaignTier{
	{2, 5, "Gateway", "Navigate through the dimensional gateways", Easy, 3, 100, 120 * time.Second},
	{6, 10, "Nexus", "Master the dimensional nexus points", Medium, 5, 150, 90 * time.Second},
	{11, 15, "Rift", "Challenge the dimensional rifts", Hard, 8, 200, 60 * time.Second},
	{16, 20, "Singularity", "Face the ultimate dimensional challenge", Expert, 12, 300, 45 * time.Second},
}

// CampaignSize is the number of levels in the default catalog.
const CampaignSize = 20

// DefaultCatalog generates the 20-level campaign. Level 1 is an untimed
// tutorial; later levels grow in complexity, target and time pressure.
func DefaultCatalog(g *Generator) ([]Level, error) {
	levels := make([]Level, 0, CampaignSize)

	tutorial, err := g.Generate(3, Easy)
	if err != nil {
		return nil, fmt.Errorf("generate level 1: %w", err)
	}
	levels = append(levels, Level{
		Number:      1,
		Title:       "First Contact",
		Description: "Begin your journey into the Luminal Dimension",
		Difficulty:  Easy,
		TargetScore: 100,
		Nodes:       tutorial,
	})

	for _, tier := range campaign {
		for i := tier.first; i <= tier.last; i++ {
			nodes, err := g.Generate(tier.complexityBase+i, tier.difficulty)
			if err != nil {
				return nil, fmt.Errorf("generate level %d: %w", i, err)
			}
			levels = append(levels, Level{
				Number:      i,
				Title:       fmt.Sprintf("%s %d", tier.title, i-tier.first+1),
				Description: tier.description,
				Difficulty:  tier.difficulty,
				TargetScore: tier.targetPerLevel * i,
				TimeLimit:   tier.timeLimit,
				Nodes:       nodes,
			})
		}
	}
	return levels, nil
}

// FindLevel returns the level with the given number.
func FindLevel(levels []Level, number int) (Level, bool) {
	for _, l := range levels {
		if l.Number == number {
			return l, true
		}
	}
	return Level{}, false
}
