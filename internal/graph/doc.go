// Package graph is the arena graph substrate under the provenance model.
//
// Nodes are integer handles into a slice; edges carry a relation kind so
// callers can ask for predecessors or successors of one kind only. Edge
// lists preserve insertion order, and several queries in the provenance
// layer ("first recorded action", "first object with a tree") rely on it.
//
// # Thread Safety
//
// Graph is NOT safe for concurrent use. The provenance layer owns one
// graph per session and drives it from a single goroutine.
package graph
