// Package provenance models a recorded exploration session as a graph of
// states and actions.
//
// A session is a Graph. States are snapshots of the visualization
// configuration; actions transform one state into the next; objects are
// the artifacts a state consists of. Relations are typed edges on the
// underlying arena (see internal/graph):
//
//	state  -next->        action
//	action -results_in->  state
//	state  -consists_of-> object
//
// Each state carries a token tree describing what was on screen. The tree
// is resolved at most once per state through an explicit fallback chain
// (memoized, decoded from the serialized cache, derived from the first
// object that yields one) and is write-once afterwards.
//
// Actions flagged as inverse (undo) are ignored when resolving a state's
// creator and its next actions, so an undo never becomes part of a path.
package provenance
