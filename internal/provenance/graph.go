package provenance

import (
	"fmt"

	"github.com/roach88/provsim/internal/graph"
)

// Graph is one exploration session: an arena of states, actions and
// objects with typed relations between them.
type Graph struct {
	g       *graph.Graph
	states  map[graph.NodeID]*State
	actions map[graph.NodeID]*Action
	objects map[graph.NodeID]*Object
}

// New creates an empty session graph.
func New() *Graph {
	return &Graph{
		g:       graph.New(),
		states:  make(map[graph.NodeID]*State),
		actions: make(map[graph.NodeID]*Action),
		objects: make(map[graph.NodeID]*Object),
	}
}

// AddState appends a state with no tree resolved yet.
func (g *Graph) AddState(name, description string) *State {
	s := &State{
		id:          g.g.AddNode(graph.KindState),
		graph:       g,
		Name:        name,
		Description: description,
	}
	g.states[s.id] = s
	return s
}

// AddAction appends an action. Inverse actions (undos) are skipped when
// resolving creators and next actions.
func (g *Graph) AddAction(name string, inverse bool) *Action {
	a := &Action{
		id:      g.g.AddNode(graph.KindAction),
		graph:   g,
		Name:    name,
		Inverse: inverse,
	}
	g.actions[a.id] = a
	return a
}

// AddObject appends an object backed by src. src may be nil.
func (g *Graph) AddObject(name string, src TokenSource) *Object {
	o := &Object{
		id:     g.g.AddNode(graph.KindObject),
		graph:  g,
		Name:   name,
		Source: src,
	}
	g.objects[o.id] = o
	return o
}

// Record links from -next-> action -results_in-> to. A nil from records
// an action with no origin, such as the one creating the root state.
func (g *Graph) Record(from *State, a *Action, to *State) error {
	if err := g.owns(a.graph, to.graph); err != nil {
		return fmt.Errorf("record %q: %w", a.Name, err)
	}
	if from != nil {
		if err := g.owns(from.graph); err != nil {
			return fmt.Errorf("record %q: %w", a.Name, err)
		}
		if err := g.g.AddEdge(from.id, a.id, graph.EdgeNext); err != nil {
			return fmt.Errorf("record %q: %w", a.Name, err)
		}
	}
	if err := g.g.AddEdge(a.id, to.id, graph.EdgeResultsIn); err != nil {
		return fmt.Errorf("record %q: %w", a.Name, err)
	}
	return nil
}

// Attach links s -consists_of-> o. Attachment order is the order objects
// are consulted when deriving the state's token tree.
func (g *Graph) Attach(s *State, o *Object) error {
	if err := g.owns(s.graph, o.graph); err != nil {
		return fmt.Errorf("attach %q to %q: %w", o.Name, s.Name, err)
	}
	if err := g.g.AddEdge(s.id, o.id, graph.EdgeConsistsOf); err != nil {
		return fmt.Errorf("attach %q to %q: %w", o.Name, s.Name, err)
	}
	return nil
}

func (g *Graph) owns(owners ...*Graph) error {
	for _, o := range owners {
		if o != g {
			return ErrForeignNode
		}
	}
	return nil
}

// States returns all states in creation order.
func (g *Graph) States() []*State {
	return collect(g, graph.KindState, g.states)
}

// Actions returns all actions in creation order.
func (g *Graph) Actions() []*Action {
	return collect(g, graph.KindAction, g.actions)
}

// Objects returns all objects in creation order.
func (g *Graph) Objects() []*Object {
	return collect(g, graph.KindObject, g.objects)
}

func collect[T any](g *Graph, kind graph.NodeKind, m map[graph.NodeID]T) []T {
	ids := g.g.NodesOfKind(kind)
	out := make([]T, len(ids))
	for i, id := range ids {
		out[i] = m[id]
	}
	return out
}

// State returns the state with the given node id.
func (g *Graph) State(id graph.NodeID) (*State, bool) {
	s, ok := g.states[id]
	return s, ok
}

// StateByName returns the first state created with the given name.
func (g *Graph) StateByName(name string) (*State, bool) {
	for _, s := range g.States() {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Action returns the action with the given node id.
func (g *Graph) Action(id graph.NodeID) (*Action, bool) {
	a, ok := g.actions[id]
	return a, ok
}

// Object returns the object with the given node id.
func (g *Graph) Object(id graph.NodeID) (*Object, bool) {
	o, ok := g.objects[id]
	return o, ok
}

// Edges returns every relation in insertion order.
func (g *Graph) Edges() []graph.Edge {
	return g.g.Edges()
}

// Link adds a raw relation between two existing nodes. It is used when
// restoring a persisted session, where edges are replayed in their
// original order.
func (g *Graph) Link(e graph.Edge) error {
	return g.g.AddEdge(e.From, e.To, e.Kind)
}

// Len returns the number of nodes of all kinds.
func (g *Graph) Len() int {
	return g.g.Len()
}

// Cycles reports every loop in the creator chain: each returned slice is
// one loop, starting and ending on the same state.
func (g *Graph) Cycles() [][]*State {
	ids := g.g.NodesOfKind(graph.KindState)
	prev := func(id graph.NodeID) []graph.NodeID {
		if p := g.states[id].PreviousState(); p != nil {
			return []graph.NodeID{p.id}
		}
		return nil
	}

	var out [][]*State
	for _, c := range graph.Cycles(ids, prev) {
		loop := make([]*State, len(c.Path))
		for i, id := range c.Path {
			loop[i] = g.states[id]
		}
		out = append(out, loop)
	}
	return out
}

func (g *Graph) successors(id graph.NodeID, kind graph.EdgeKind) []graph.NodeID {
	return g.g.SuccessorsByKind(id, kind)
}

func (g *Graph) predecessors(id graph.NodeID, kind graph.EdgeKind) []graph.NodeID {
	return g.g.PredecessorsByKind(id, kind)
}
