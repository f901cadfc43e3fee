package graph

import "errors"

// Sentinel errors for graph operations.
var (
	// ErrNodeNotFound is returned when an edge references a non-existent node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrInvalidEdgeKind is returned when an edge kind is not valid for the
	// given source and target node kinds.
	ErrInvalidEdgeKind = errors.New("invalid edge kind for node kinds")

	// ErrUnknownKind is returned when parsing an unrecognized kind name.
	ErrUnknownKind = errors.New("unknown kind")
)
