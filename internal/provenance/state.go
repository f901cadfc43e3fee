package provenance

import (
	"log/slog"
	"slices"

	"github.com/roach88/provsim/internal/graph"
)

// State is one point in a recorded exploration.
type State struct {
	id    graph.NodeID
	graph *Graph

	Name        string
	Description string

	tree treeCache
}

// ID returns the state's node handle.
func (s *State) ID() graph.NodeID {
	return s.id
}

// String returns the state name.
func (s *State) String() string {
	return s.Name
}

// ResultsFrom returns every action leading to s, inverse ones included.
func (s *State) ResultsFrom() []*Action {
	return s.actions(s.graph.predecessors(s.id, graph.EdgeResultsIn), true)
}

// Creator returns the first non-inverse action that produced s, or nil.
func (s *State) Creator() *Action {
	if from := s.actions(s.graph.predecessors(s.id, graph.EdgeResultsIn), false); len(from) > 0 {
		return from[0]
	}
	return nil
}

// Next returns the non-inverse actions taken from s, in recording order.
func (s *State) Next() []*Action {
	return s.actions(s.graph.successors(s.id, graph.EdgeNext), false)
}

func (s *State) actions(ids []graph.NodeID, inverse bool) []*Action {
	var out []*Action
	for _, id := range ids {
		if a := s.graph.actions[id]; inverse || !a.Inverse {
			out = append(out, a)
		}
	}
	return out
}

// ConsistsOf returns the objects attached to s, in attachment order.
func (s *State) ConsistsOf() []*Object {
	ids := s.graph.successors(s.id, graph.EdgeConsistsOf)
	out := make([]*Object, len(ids))
	for i, id := range ids {
		out[i] = s.graph.objects[id]
	}
	return out
}

// PreviousState returns the state the creator action was taken from, or
// nil for a root state.
func (s *State) PreviousState() *State {
	if a := s.Creator(); a != nil {
		return a.Previous()
	}
	return nil
}

// NextState returns the state produced by the first recorded next action,
// or nil. With several next actions the result depends on the order they
// were recorded in.
func (s *State) NextState() *State {
	if next := s.Next(); len(next) > 0 {
		return next[0].ResultsIn()
	}
	return nil
}

// PreviousStates returns the origin of every action leading to s.
func (s *State) PreviousStates() []*State {
	var out []*State
	for _, a := range s.ResultsFrom() {
		if p := a.Previous(); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// NextStates returns the result of every non-inverse action taken from s.
func (s *State) NextStates() []*State {
	var out []*State
	for _, a := range s.Next() {
		if r := a.ResultsIn(); r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Path returns the states from the root to s, both inclusive, following
// each state's creator back to its previous state. If the chain loops,
// the walk stops before revisiting a state and a warning is logged; use
// CheckPath to surface the loop as an error.
func (s *State) Path() []*State {
	path, back := s.walkPath()
	if back != nil {
		slog.Warn("creator chain loops, path truncated",
			"state", s.Name,
			"back", back.Name,
			"length", len(path),
		)
	}
	return path
}

// CheckPath is like Path but reports a looping creator chain as a
// *CycleError. The truncated path is returned alongside the error.
func (s *State) CheckPath() ([]*State, error) {
	path, back := s.walkPath()
	if back == nil {
		return path, nil
	}
	names := make([]string, len(path))
	for i, p := range path {
		names[i] = p.Name
	}
	return path, &CycleError{State: s.Name, Back: back.Name, Path: names}
}

func (s *State) walkPath() (path []*State, back *State) {
	seen := map[*State]bool{s: true}
	path = []*State{s}
	for p := s.PreviousState(); p != nil; p = p.PreviousState() {
		if seen[p] {
			back = p
			break
		}
		seen[p] = true
		path = append(path, p)
	}
	slices.Reverse(path)
	return path, back
}
