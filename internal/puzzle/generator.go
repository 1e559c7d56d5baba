package puzzle

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// Layout constants for the layered board.
const (
	startY = 0.1
	goalY  = 0.9
	// layerSpan is the vertical band intermediate nodes are spread over.
	layerSpan = 0.7

	minX = 0.2
	maxX = 0.8

	// powerupBand sits directly above the obstacle band of the type roll.
	powerupBand = 0.15

	skipEdgeMaxDistance = 0.5
	sidePathMaxDY       = 0.15
	sidePathMinDX       = 0.2
	// sidePathMinComplexity is the complexity above which lateral edges
	// are added.
	sidePathMinComplexity = 5

	GoalValue = 100
)

type valueRange struct{ lo, hi int }

var valueRanges = map[NodeType]valueRange{
	NodeCheckpoint: {20, 50},
	NodeObstacle:   {30, 60},
	NodePowerup:    {40, 80},
}

// Generator builds layered puzzle graphs from an injected random source.
//
// Generator is not safe for concurrent use: *rand.Rand is not.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator wraps rng. The same rng state always yields the same graph.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// NewSeededGenerator is shorthand for NewGenerator(rand.New(rand.NewSource(seed))).
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

// Rand exposes the underlying source so callers composing levels (catalogs,
// daily challenges) keep drawing from one deterministic stream.
func (g *Generator) Rand() *rand.Rand {
	return g.rng
}

// Generate builds complexity+1 nodes: a start node, complexity-1
// intermediate nodes and a goal node, wired by the connection pass.
//
// The unconditional i -> i+1 edges form a backbone, so the goal is always
// reachable from the start.
func (g *Generator) Generate(complexity int, d Difficulty) ([]Node, error) {
	if complexity < 2 {
		return nil, newError(ErrCodeInvalidParameter, fmt.Sprintf("complexity must be >= 2, got %d", complexity))
	}
	if !d.Valid() {
		return nil, newError(ErrCodeInvalidParameter, fmt.Sprintf("unknown difficulty %q", d))
	}

	nodes := make([]Node, 0, complexity+1)

	startID, err := g.newID()
	if err != nil {
		return nil, err
	}
	nodes = append(nodes, Node{
		ID:       startID,
		Position: Point{X: 0.5, Y: startY},
		Type:     NodeStart,
		Value:    0,
	})

	pObstacle := d.ObstacleProbability()
	for i := 1; i < complexity; i++ {
		x := minX + g.rng.Float64()*(maxX-minX)
		y := startY + (float64(i)/float64(complexity))*layerSpan

		var t NodeType
		switch roll := g.rng.Float64(); {
		case roll < pObstacle:
			t = NodeObstacle
		case roll < pObstacle+powerupBand:
			t = NodePowerup
		default:
			t = NodeCheckpoint
		}

		r := valueRanges[t]
		value := r.lo + g.rng.Intn(r.hi-r.lo+1)

		id, err := g.newID()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, Node{
			ID:       id,
			Position: Point{X: x, Y: y},
			Type:     t,
			Value:    value,
		})
	}

	goalID, err := g.newID()
	if err != nil {
		return nil, err
	}
	nodes = append(nodes, Node{
		ID:       goalID,
		Position: Point{X: 0.5, Y: goalY},
		Type:     NodeGoal,
		Value:    GoalValue,
	})

	connect(nodes, complexity)
	return nodes, nil
}

// connect runs the connection pass over final positions and ids.
func connect(nodes []Node, complexity int) {
	n := len(nodes)
	for i := 0; i < n-1; i++ {
		conns := []string{nodes[i+1].ID}

		if i <= n-3 && nodes[i].Position.Distance(nodes[i+2].Position) < skipEdgeMaxDistance {
			conns = append(conns, nodes[i+2].ID)
		}

		// Side paths start from every node, the start included.
		if complexity > sidePathMinComplexity {
			for j := i + 2; j < n; j++ {
				dy := math.Abs(nodes[i].Position.Y - nodes[j].Position.Y)
				dx := math.Abs(nodes[i].Position.X - nodes[j].Position.X)
				if dy < sidePathMaxDY && dx > sidePathMinDX && !contains(conns, nodes[j].ID) {
					conns = append(conns, nodes[j].ID)
				}
			}
		}

		nodes[i].Connections = conns
	}
}

func (g *Generator) newID() (string, error) {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return "", fmt.Errorf("draw node id: %w", err)
	}
	return id.String(), nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
