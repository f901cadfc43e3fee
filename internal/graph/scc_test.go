package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adjacency(m map[NodeID][]NodeID) Adjacency {
	return func(n NodeID) []NodeID { return m[n] }
}

func TestCyclesDAG(t *testing.T) {
	adj := adjacency(map[NodeID][]NodeID{0: {1}, 1: {2}})
	assert.Empty(t, Cycles([]NodeID{0, 1, 2}, adj))
}

func TestCyclesSelfLoop(t *testing.T) {
	adj := adjacency(map[NodeID][]NodeID{0: {0}})

	cycles := Cycles([]NodeID{0}, adj)
	require.Len(t, cycles, 1)
	assert.Equal(t, []NodeID{0, 0}, cycles[0].Path)
}

func TestCyclesTwoNode(t *testing.T) {
	adj := adjacency(map[NodeID][]NodeID{0: {1}, 1: {0}, 2: {0}})

	cycles := Cycles([]NodeID{0, 1, 2}, adj)
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []NodeID{0, 1}, cycles[0].Members)

	path := cycles[0].Path
	require.Len(t, path, 3)
	assert.Equal(t, path[0], path[2], "cycle path must close")
}

func TestCyclesDisjoint(t *testing.T) {
	adj := adjacency(map[NodeID][]NodeID{
		0: {1}, 1: {0},
		2: {3}, 3: {4}, 4: {2},
	})

	cycles := Cycles([]NodeID{0, 1, 2, 3, 4}, adj)
	assert.Len(t, cycles, 2)
}
