package graph

// Adjacency yields the neighbors of a node in some derived relation, such
// as "previous state along the creator action".
type Adjacency func(NodeID) []NodeID

// Cycle is one strongly connected component that contains a cycle, with a
// traversal through it that starts and ends on the same node.
type Cycle struct {
	Members []NodeID
	Path    []NodeID
}

// Cycles finds every cycle of adj over the given nodes using Tarjan's
// algorithm. Components of size one count only if they have a self-loop.
// Roots are visited in the order given, so results are deterministic.
func Cycles(nodes []NodeID, adj Adjacency) []Cycle {
	var cycles []Cycle
	for _, scc := range tarjanSCC(nodes, adj) {
		if len(scc) > 1 || hasSelfLoop(scc[0], adj) {
			cycles = append(cycles, Cycle{
				Members: scc,
				Path:    reconstructCyclePath(scc, adj),
			})
		}
	}
	return cycles
}

func hasSelfLoop(node NodeID, adj Adjacency) bool {
	for _, n := range adj(node) {
		if n == node {
			return true
		}
	}
	return false
}

func tarjanSCC(nodes []NodeID, adj Adjacency) [][]NodeID {
	var (
		index   = 0
		stack   []NodeID
		indices = make(map[NodeID]int)
		lowlink = make(map[NodeID]int)
		onStack = make(map[NodeID]bool)
		sccs    [][]NodeID
	)

	var strongConnect func(NodeID)
	strongConnect = func(v NodeID) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj(v) {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []NodeID
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, n := range nodes {
		if _, visited := indices[n]; !visited {
			strongConnect(n)
		}
	}
	return sccs
}

// reconstructCyclePath walks from the first member along edges that stay
// inside the component until it returns to the start.
func reconstructCyclePath(scc []NodeID, adj Adjacency) []NodeID {
	members := make(map[NodeID]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}

	start := scc[0]
	current := start
	path := []NodeID{current}
	visited := make(map[NodeID]bool)

	for {
		visited[current] = true

		next, found := NodeID(0), false
		for _, n := range adj(current) {
			if members[n] && (!visited[n] || n == start) {
				next, found = n, true
				break
			}
		}
		if !found {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
