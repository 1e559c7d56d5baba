package testutil

import (
	"time"

	"github.com/roach88/luminal/internal/puzzle"
)

// LevelBuilder assembles hand-made levels for tests. Nodes get positions
// on a vertical line in insertion order; edges are added explicitly.
type LevelBuilder struct {
	level puzzle.Level
	index map[string]int
}

// NewLevel starts a builder for an untimed easy level.
func NewLevel(number, target int) *LevelBuilder {
	return &LevelBuilder{
		level: puzzle.Level{
			Number:      number,
			Title:       "fixture",
			Difficulty:  puzzle.Easy,
			TargetScore: target,
		},
		index: map[string]int{},
	}
}

// Node adds a node.
func (b *LevelBuilder) Node(id string, t puzzle.NodeType, value int) *LevelBuilder {
	b.index[id] = len(b.level.Nodes)
	b.level.Nodes = append(b.level.Nodes, puzzle.Node{
		ID:       id,
		Type:     t,
		Value:    value,
		Position: puzzle.Point{X: 0.5, Y: 0.1 + 0.05*float64(len(b.level.Nodes))},
	})
	return b
}

// Edge connects from -> to.
func (b *LevelBuilder) Edge(from string, to ...string) *LevelBuilder {
	i := b.index[from]
	b.level.Nodes[i].Connections = append(b.level.Nodes[i].Connections, to...)
	return b
}

// Chain connects each id to the next one.
func (b *LevelBuilder) Chain(ids ...string) *LevelBuilder {
	for i := 0; i+1 < len(ids); i++ {
		b.Edge(ids[i], ids[i+1])
	}
	return b
}

// TimeLimit makes the level timed.
func (b *LevelBuilder) TimeLimit(d time.Duration) *LevelBuilder {
	b.level.TimeLimit = d
	return b
}

// Difficulty sets the tier.
func (b *LevelBuilder) Difficulty(d puzzle.Difficulty) *LevelBuilder {
	b.level.Difficulty = d
	return b
}

// Build returns the level.
func (b *LevelBuilder) Build() *puzzle.Level {
	l := b.level
	return &l
}
