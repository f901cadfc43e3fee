package graph

import "fmt"

// Graph is an append-only arena of kind-tagged nodes and edges.
type Graph struct {
	kinds []NodeKind
	edges []Edge
	out   [][]int // node -> indices into edges, insertion order
	in    [][]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode appends a node and returns its handle.
func (g *Graph) AddNode(kind NodeKind) NodeID {
	id := NodeID(len(g.kinds))
	g.kinds = append(g.kinds, kind)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return id
}

// AddEdge appends a directed edge. Both endpoints must exist and match the
// node kinds the edge kind connects.
func (g *Graph) AddEdge(from, to NodeID, kind EdgeKind) error {
	if !g.Has(from) {
		return fmt.Errorf("edge source %d: %w", from, ErrNodeNotFound)
	}
	if !g.Has(to) {
		return fmt.Errorf("edge target %d: %w", to, ErrNodeNotFound)
	}
	if kind < 0 || kind >= NumEdgeKinds {
		return fmt.Errorf("%s: %w", kind, ErrInvalidEdgeKind)
	}
	want := endpoints[kind]
	if g.kinds[from] != want[0] || g.kinds[to] != want[1] {
		return fmt.Errorf("%s from %s to %s: %w", kind, g.kinds[from], g.kinds[to], ErrInvalidEdgeKind)
	}

	idx := len(g.edges)
	g.edges = append(g.edges, Edge{From: from, To: to, Kind: kind})
	g.out[from] = append(g.out[from], idx)
	g.in[to] = append(g.in[to], idx)
	return nil
}

// Has reports whether id names a node in the graph.
func (g *Graph) Has(id NodeID) bool {
	return id >= 0 && int(id) < len(g.kinds)
}

// Kind returns the kind of node id.
func (g *Graph) Kind(id NodeID) (NodeKind, bool) {
	if !g.Has(id) {
		return 0, false
	}
	return g.kinds[id], true
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.kinds)
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// SuccessorsByKind returns the targets of id's outgoing edges of the given
// kind, in edge insertion order.
func (g *Graph) SuccessorsByKind(id NodeID, kind EdgeKind) []NodeID {
	if !g.Has(id) {
		return nil
	}
	var out []NodeID
	for _, idx := range g.out[id] {
		if e := g.edges[idx]; e.Kind == kind {
			out = append(out, e.To)
		}
	}
	return out
}

// PredecessorsByKind returns the sources of id's incoming edges of the
// given kind, in edge insertion order.
func (g *Graph) PredecessorsByKind(id NodeID, kind EdgeKind) []NodeID {
	if !g.Has(id) {
		return nil
	}
	var out []NodeID
	for _, idx := range g.in[id] {
		if e := g.edges[idx]; e.Kind == kind {
			out = append(out, e.From)
		}
	}
	return out
}

// NodesOfKind returns every node of the given kind in creation order.
func (g *Graph) NodesOfKind(kind NodeKind) []NodeID {
	var out []NodeID
	for i, k := range g.kinds {
		if k == kind {
			out = append(out, NodeID(i))
		}
	}
	return out
}
