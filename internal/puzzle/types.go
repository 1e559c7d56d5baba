package puzzle

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// NodeType identifies the role a node plays on the board.
type NodeType string

const (
	NodeStart      NodeType = "start"
	NodeCheckpoint NodeType = "checkpoint"
	NodeObstacle   NodeType = "obstacle"
	NodeGoal       NodeType = "goal"
	NodePowerup    NodeType = "powerup"
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case NodeStart, NodeCheckpoint, NodeObstacle, NodeGoal, NodePowerup:
		return true
	}
	return false
}

// Point is a position in normalized board space, both axes in [0,1].
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Node is a single point of a puzzle graph.
type Node struct {
	ID          string   `json:"id"`
	Position    Point    `json:"position"`
	Type        NodeType `json:"type"`
	Value       int      `json:"value"`
	Connections []string `json:"connections,omitempty"`
}

// ConnectsTo reports whether n has an outgoing edge to id.
func (n Node) ConnectsTo(id string) bool {
	for _, c := range n.Connections {
		if c == id {
			return true
		}
	}
	return false
}

// Difficulty is the tier a level is generated for.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
	Expert Difficulty = "expert"
)

// Difficulties lists every tier in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard, Expert}

// ParseDifficulty converts a case-insensitive name into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", newError(ErrCodeInvalidParameter, fmt.Sprintf("unknown difficulty %q", s))
	}
	return d, nil
}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard, Expert:
		return true
	}
	return false
}

// Multiplier is the scalar tied to the tier. It feeds generation
// parameters and is never applied to traversal scoring.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case Medium:
		return 1.5
	case Hard:
		return 2.0
	case Expert:
		return 3.0
	default:
		return 1.0
	}
}

// ObstacleProbability is the chance an intermediate node becomes an obstacle.
func (d Difficulty) ObstacleProbability() float64 {
	switch d {
	case Medium:
		return 0.20
	case Hard:
		return 0.30
	case Expert:
		return 0.40
	default:
		return 0.10
	}
}

// Level is an immutable, generated puzzle.
//
// Whether a level is unlocked is not part of the level itself; it is derived
// from the player's progress (see progress.UserProgress.IsUnlocked).
type Level struct {
	Number      int           `json:"number"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Difficulty  Difficulty    `json:"difficulty"`
	TargetScore int           `json:"target_score"`
	TimeLimit   time.Duration `json:"time_limit,omitempty"`
	Nodes       []Node        `json:"nodes"`
}

// Timed reports whether the level runs against a clock.
func (l *Level) Timed() bool {
	return l.TimeLimit > 0
}

// Graph returns an id index over the level's nodes.
func (l *Level) Graph() *Graph {
	return NewGraph(l.Nodes)
}
