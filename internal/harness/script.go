package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/luminal/internal/puzzle"
)

// Script is a scripted play session.
type Script struct {
	// Name uniquely identifies the script. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what the script demonstrates.
	Description string `yaml:"description"`

	// BoardScale overrides the engine's swipe scale. Zero keeps the default.
	BoardScale float64 `yaml:"board_scale,omitempty"`

	// Level is an inline level. Exactly one of Level and Generate is set.
	Level *LevelSpec `yaml:"level,omitempty"`

	// Generate describes a generated level.
	Generate *GenerateSpec `yaml:"generate,omitempty"`

	// Steps are the inputs fed to the engine, in order.
	Steps []Step `yaml:"steps"`

	// Expect is checked against the final engine state.
	Expect Expect `yaml:"expect"`
}

// LevelSpec is an inline level.
type LevelSpec struct {
	Number      int               `yaml:"number"`
	Title       string            `yaml:"title,omitempty"`
	Difficulty  puzzle.Difficulty `yaml:"difficulty,omitempty"`
	TargetScore int               `yaml:"target_score"`
	TimeLimit   time.Duration     `yaml:"time_limit,omitempty"`
	Nodes       []NodeSpec        `yaml:"nodes"`
}

// NodeSpec is one node of an inline level.
type NodeSpec struct {
	ID          string          `yaml:"id"`
	Type        puzzle.NodeType `yaml:"type"`
	X           float64         `yaml:"x"`
	Y           float64         `yaml:"y"`
	Value       int             `yaml:"value,omitempty"`
	Connections []string        `yaml:"connections,omitempty"`
}

// GenerateSpec asks the generator for a level.
type GenerateSpec struct {
	Complexity  int               `yaml:"complexity"`
	Difficulty  puzzle.Difficulty `yaml:"difficulty"`
	Seed        int64             `yaml:"seed"`
	TargetScore int               `yaml:"target_score"`
	TimeLimit   time.Duration     `yaml:"time_limit,omitempty"`
}

// Step is one input. Exactly one field is set.
type Step struct {
	Tap      string        `yaml:"tap,omitempty"`
	TapIndex *int          `yaml:"tap_index,omitempty"`
	Swipe    *SwipeStep    `yaml:"swipe,omitempty"`
	Tick     time.Duration `yaml:"tick,omitempty"`
	Wait     time.Duration `yaml:"wait,omitempty"`
	Pause    bool          `yaml:"pause,omitempty"`
	Resume   bool          `yaml:"resume,omitempty"`
}

// SwipeStep is a swipe between two board points.
type SwipeStep struct {
	From puzzle.Point `yaml:"from"`
	To   puzzle.Point `yaml:"to"`
}

// Step kinds.
const (
	StepTap      = "tap"
	StepTapIndex = "tap_index"
	StepSwipe    = "swipe"
	StepTick     = "tick"
	StepWait     = "wait"
	StepPause    = "pause"
	StepResume   = "resume"
)

// Kind names the step. Steps with zero or several fields set have kind "".
func (s Step) Kind() string {
	var kinds []string
	if s.Tap != "" {
		kinds = append(kinds, StepTap)
	}
	if s.TapIndex != nil {
		kinds = append(kinds, StepTapIndex)
	}
	if s.Swipe != nil {
		kinds = append(kinds, StepSwipe)
	}
	if s.Tick != 0 {
		kinds = append(kinds, StepTick)
	}
	if s.Wait != 0 {
		kinds = append(kinds, StepWait)
	}
	if s.Pause {
		kinds = append(kinds, StepPause)
	}
	if s.Resume {
		kinds = append(kinds, StepResume)
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// Expect lists the checked end-state fields. Unset fields are not checked.
type Expect struct {
	Result       string   `yaml:"result,omitempty"`
	Reason       string   `yaml:"reason,omitempty"`
	State        string   `yaml:"state,omitempty"`
	Score        *int     `yaml:"score,omitempty"`
	Combo        *int     `yaml:"combo,omitempty"`
	Stars        *int     `yaml:"stars,omitempty"`
	Path         []string `yaml:"path,omitempty"`
	InvalidMoves *int     `yaml:"invalid_moves,omitempty"`
}

// LoadScript reads and parses a script YAML file. Unknown fields are
// rejected so typos surface as errors.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	return ParseScript(data)
}

// ParseScript parses and validates a script document.
func ParseScript(data []byte) (*Script, error) {
	var script Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&script); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScript(&script); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &script, nil
}

// validateScript checks that required fields are present and valid.
func validateScript(s *Script) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if (s.Level == nil) == (s.Generate == nil) {
		return fmt.Errorf("exactly one of level and generate is required")
	}
	if s.BoardScale < 0 {
		return fmt.Errorf("board_scale must not be negative")
	}
	if s.Generate != nil {
		if s.Generate.Complexity < 2 {
			return fmt.Errorf("generate.complexity must be at least 2")
		}
		if !s.Generate.Difficulty.Valid() {
			return fmt.Errorf("generate.difficulty %q is unknown", s.Generate.Difficulty)
		}
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch step.Kind() {
		case "":
			return fmt.Errorf("steps[%d]: exactly one action is required", i)
		case StepTick, StepWait:
			if step.Tick < 0 || step.Wait < 0 {
				return fmt.Errorf("steps[%d]: duration must be positive", i)
			}
		case StepTapIndex:
			if *step.TapIndex < 0 {
				return fmt.Errorf("steps[%d]: tap_index must not be negative", i)
			}
		}
	}

	if r := s.Expect.Result; r != "" && r != "victory" && r != "defeat" && r != "none" {
		return fmt.Errorf("expect.result %q must be victory, defeat or none", r)
	}
	return nil
}

// BuildLevel materializes the script's level and checks it is playable.
func (s *Script) BuildLevel() (*puzzle.Level, error) {
	var level puzzle.Level
	if s.Generate != nil {
		g := s.Generate
		nodes, err := puzzle.NewSeededGenerator(g.Seed).Generate(g.Complexity, g.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("generate level: %w", err)
		}
		level = puzzle.Level{
			Number:      1,
			Title:       s.Name,
			Difficulty:  g.Difficulty,
			TargetScore: g.TargetScore,
			TimeLimit:   g.TimeLimit,
			Nodes:       nodes,
		}
	} else {
		spec := s.Level
		level = puzzle.Level{
			Number:      max(spec.Number, 1),
			Title:       spec.Title,
			Difficulty:  spec.Difficulty,
			TargetScore: spec.TargetScore,
			TimeLimit:   spec.TimeLimit,
		}
		if level.Difficulty == "" {
			level.Difficulty = puzzle.Easy
		}
		if level.Title == "" {
			level.Title = s.Name
		}
		for _, n := range spec.Nodes {
			level.Nodes = append(level.Nodes, puzzle.Node{
				ID:          n.ID,
				Position:    puzzle.Point{X: n.X, Y: n.Y},
				Type:        n.Type,
				Value:       n.Value,
				Connections: n.Connections,
			})
		}
	}

	if err := level.Validate(); err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}
	return &level, nil
}
