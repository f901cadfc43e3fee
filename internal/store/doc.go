// Package store provides SQLite-backed durable storage for exploration
// sessions.
//
// A session is one provenance graph. The store keeps:
//   - Sessions: id, name, logical sequence number, registry hash
//   - Nodes: states, actions and objects, keyed by their arena handle
//   - Edges: typed relations, in insertion order
//   - Token trees: portable JSON of resolved state trees and object trees,
//     with a content hash for cross-session lookup
//
// # Ordering
//
//   - Sessions are ordered by seq (logical clock), never by wall time
//   - Nodes are restored in node_id order so arena handles survive a
//     round trip
//   - Edges are restored in seq order so "first recorded" queries answer
//     the same after a reload
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s for locks
//   - foreign_keys=ON: Enforce referential integrity
package store
