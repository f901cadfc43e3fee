package graph

import "fmt"

// NodeID is a handle into the graph arena.
type NodeID int

// NodeKind classifies a node.
type NodeKind int

const (
	// KindState is an exploration state.
	KindState NodeKind = iota

	// KindAction is a user action transforming one state into another.
	KindAction

	// KindObject is a tracked artifact a state consists of.
	KindObject
)

var nodeKindNames = map[NodeKind]string{
	KindState:  "state",
	KindAction: "action",
	KindObject: "object",
}

// String returns the string representation of the node kind.
func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// ParseNodeKind is the inverse of NodeKind.String.
func ParseNodeKind(s string) (NodeKind, error) {
	for k, name := range nodeKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("node kind %q: %w", s, ErrUnknownKind)
}

// EdgeKind defines the relation an edge represents.
type EdgeKind int

const (
	// EdgeResultsIn links an action to the state it produced.
	EdgeResultsIn EdgeKind = iota

	// EdgeNext links a state to an action taken from it.
	EdgeNext

	// EdgeConsistsOf links a state to an object it is composed of.
	EdgeConsistsOf

	// NumEdgeKinds is the total number of edge kinds (for array sizing).
	NumEdgeKinds
)

var edgeKindNames = map[EdgeKind]string{
	EdgeResultsIn:  "results_in",
	EdgeNext:       "next",
	EdgeConsistsOf: "consists_of",
}

// String returns the string representation of the edge kind.
func (k EdgeKind) String() string {
	if name, ok := edgeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EdgeKind(%d)", int(k))
}

// ParseEdgeKind is the inverse of EdgeKind.String.
func ParseEdgeKind(s string) (EdgeKind, error) {
	for k, name := range edgeKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("edge kind %q: %w", s, ErrUnknownKind)
}

// endpoints lists the node kinds each edge kind may connect.
var endpoints = [NumEdgeKinds][2]NodeKind{
	EdgeResultsIn:  {KindAction, KindState},
	EdgeNext:       {KindState, KindAction},
	EdgeConsistsOf: {KindState, KindObject},
}

// Edge is a directed, kind-tagged relation between two nodes.
type Edge struct {
	From NodeID
	To   NodeID
	Kind EdgeKind
}
