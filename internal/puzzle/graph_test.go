package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain() []Node {
	return []Node{
		{ID: "s", Type: NodeStart, Position: Point{0.5, 0.1}, Connections: []string{"a"}},
		{ID: "a", Type: NodeCheckpoint, Value: 30, Position: Point{0.4, 0.5}, Connections: []string{"g"}},
		{ID: "g", Type: NodeGoal, Value: 100, Position: Point{0.5, 0.9}},
	}
}

func TestGraph_Lookups(t *testing.T) {
	g := NewGraph(chain())

	assert.Equal(t, 3, g.Len())
	n, ok := g.Node("a")
	require.True(t, ok)
	assert.Equal(t, 30, n.Value)

	_, ok = g.Node("missing")
	assert.False(t, ok)

	start, ok := g.Start()
	require.True(t, ok)
	assert.Equal(t, "s", start.ID)

	succ := g.Successors("s")
	require.Len(t, succ, 1)
	assert.Equal(t, "a", succ[0].ID)

	assert.True(t, g.Reachable("s", "g"))
	assert.False(t, g.Reachable("g", "s"))
	assert.False(t, g.Reachable("s", "nope"))
}

func TestLevelValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]Node) []Node
		nodeID string
	}{
		{
			name:   "duplicate id",
			mutate: func(n []Node) []Node { n[1].ID = "s"; return n },
			nodeID: "s",
		},
		{
			name:   "dangling connection",
			mutate: func(n []Node) []Node { n[1].Connections = []string{"g", "ghost"}; return n },
			nodeID: "a",
		},
		{
			name:   "two starts",
			mutate: func(n []Node) []Node { n[1].Type = NodeStart; return n },
		},
		{
			name:   "missing goal",
			mutate: func(n []Node) []Node { n[2].Type = NodeCheckpoint; return n },
		},
		{
			name:   "unreachable goal",
			mutate: func(n []Node) []Node { n[1].Connections = nil; return n },
		},
		{
			name:   "unknown type",
			mutate: func(n []Node) []Node { n[1].Type = "bridge"; return n },
			nodeID: "a",
		},
		{
			name:   "too small",
			mutate: func(n []Node) []Node { return n[:1] },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := Level{Number: 1, Nodes: tt.mutate(chain())}
			err := level.Validate()
			require.Error(t, err)
			assert.True(t, IsInvalidLevel(err))

			var pe *Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.nodeID, pe.NodeID)
		})
	}

	ok := Level{Number: 1, Nodes: chain()}
	assert.NoError(t, ok.Validate())
}
