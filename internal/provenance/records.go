package provenance

import (
	"github.com/roach88/provsim/internal/graph"
	"github.com/roach88/provsim/internal/ir"
)

// Action is a user interaction that turned one state into another.
type Action struct {
	id    graph.NodeID
	graph *Graph

	Name    string
	Inverse bool
}

// ID returns the action's node handle.
func (a *Action) ID() graph.NodeID {
	return a.id
}

// Previous returns the state the action was taken from, or nil.
func (a *Action) Previous() *State {
	if ids := a.graph.predecessors(a.id, graph.EdgeNext); len(ids) > 0 {
		return a.graph.states[ids[0]]
	}
	return nil
}

// ResultsIn returns the state the action produced, or nil.
func (a *Action) ResultsIn() *State {
	if ids := a.graph.successors(a.id, graph.EdgeResultsIn); len(ids) > 0 {
		return a.graph.states[ids[0]]
	}
	return nil
}

// String returns the action name.
func (a *Action) String() string {
	return a.Name
}

// Object is an artifact a state consists of, such as a view or a dataset
// selection. Its Source yields the token tree it contributes.
type Object struct {
	id    graph.NodeID
	graph *Graph

	Name   string
	Source TokenSource
}

// ID returns the object's node handle.
func (o *Object) ID() graph.NodeID {
	return o.id
}

// StateTokenTree returns the tree contributed by the object's source, or
// nil when it has no source.
func (o *Object) StateTokenTree() *ir.Token {
	if o.Source == nil {
		return nil
	}
	return o.Source.StateTokenTree()
}

// String returns the object name.
func (o *Object) String() string {
	return o.Name
}
