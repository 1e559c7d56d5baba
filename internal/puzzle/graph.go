package puzzle

import "fmt"

// Graph is a read-only id index over a slice of nodes.
// The nodes slice remains the owner; Graph only stores positions into it.
type Graph struct {
	nodes []Node
	index map[string]int
}

// NewGraph indexes nodes by id. When ids repeat, the first occurrence wins;
// Validate reports the duplicate.
func NewGraph(nodes []Node) *Graph {
	g := &Graph{
		nodes: nodes,
		index: make(map[string]int, len(nodes)),
	}
	for i, n := range nodes {
		if _, dup := g.index[n.ID]; !dup {
			g.index[n.ID] = i
		}
	}
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Has reports whether id belongs to the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Start returns the first start node.
func (g *Graph) Start() (Node, bool) {
	return g.firstOfType(NodeStart)
}

// Goal returns the first goal node.
func (g *Graph) Goal() (Node, bool) {
	return g.firstOfType(NodeGoal)
}

func (g *Graph) firstOfType(t NodeType) (Node, bool) {
	for _, n := range g.nodes {
		if n.Type == t {
			return n, true
		}
	}
	return Node{}, false
}

// Successors returns the nodes reachable over one outgoing edge of id,
// in connection order. Unknown targets are skipped.
func (g *Graph) Successors(id string) []Node {
	n, ok := g.Node(id)
	if !ok {
		return nil
	}
	out := make([]Node, 0, len(n.Connections))
	for _, c := range n.Connections {
		if next, ok := g.Node(c); ok {
			out = append(out, next)
		}
	}
	return out
}

// Reachable reports whether a directed path leads from one node to another.
func (g *Graph) Reachable(from, to string) bool {
	if !g.Has(from) || !g.Has(to) {
		return false
	}
	seen := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return true
		}
		for _, next := range g.Successors(cur) {
			if !seen[next.ID] {
				seen[next.ID] = true
				queue = append(queue, next.ID)
			}
		}
	}
	return false
}

// Validate checks the structural invariants of a level graph: non-empty
// unique ids, known node types, exactly one start and one goal, no
// dangling connections and a path from start to goal.
func (l *Level) Validate() error {
	if len(l.Nodes) < 2 {
		return newError(ErrCodeInvalidLevel, fmt.Sprintf("level %d has %d nodes, need at least 2", l.Number, len(l.Nodes)))
	}

	seen := make(map[string]bool, len(l.Nodes))
	starts, goals := 0, 0
	for _, n := range l.Nodes {
		if n.ID == "" {
			return newError(ErrCodeInvalidLevel, "node id is empty")
		}
		if seen[n.ID] {
			return nodeError(ErrCodeInvalidLevel, "duplicate node id", n.ID)
		}
		seen[n.ID] = true
		if !n.Type.Valid() {
			return nodeError(ErrCodeInvalidLevel, fmt.Sprintf("unknown node type %q", n.Type), n.ID)
		}
		switch n.Type {
		case NodeStart:
			starts++
		case NodeGoal:
			goals++
		}
	}
	if starts != 1 {
		return newError(ErrCodeInvalidLevel, fmt.Sprintf("want exactly one start node, got %d", starts))
	}
	if goals != 1 {
		return newError(ErrCodeInvalidLevel, fmt.Sprintf("want exactly one goal node, got %d", goals))
	}

	for _, n := range l.Nodes {
		for _, c := range n.Connections {
			if !seen[c] {
				return nodeError(ErrCodeInvalidLevel, fmt.Sprintf("dangling connection to %q", c), n.ID)
			}
		}
	}

	g := l.Graph()
	start, _ := g.Start()
	goal, _ := g.Goal()
	if !g.Reachable(start.ID, goal.ID) {
		return newError(ErrCodeInvalidLevel, "goal is not reachable from start")
	}
	return nil
}
