package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/provsim/internal/graph"
	"github.com/roach88/provsim/internal/ir"
	"github.com/roach88/provsim/internal/provenance"
)

// SessionInfo describes a stored session.
type SessionInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Seq          int64  `json:"seq"`
	RegistryHash string `json:"registry_hash,omitempty"`
	NodeCount    int    `json:"node_count"`
}

// Session is a stored session restored into a provenance graph.
type Session struct {
	SessionInfo
	Graph *provenance.Graph
}

// StateRef locates a state across sessions.
type StateRef struct {
	SessionID string `json:"session_id"`
	NodeID    int    `json:"node_id"`
	Name      string `json:"name"`
}

// ListSessions returns all sessions ordered by seq.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, seq, registry_hash, node_count
		FROM sessions
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.Seq, &info.RegistryHash, &info.NodeCount); err != nil {
			return nil, fmt.Errorf("list sessions: scan: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

// LoadGraph restores a session. Node handles, edge order, state tree
// caches and object trees are reproduced exactly; restored states report
// HasCachedTree without deriving anything.
func (s *Store) LoadGraph(ctx context.Context, id string) (*Session, error) {
	sess := &Session{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, seq, registry_hash, node_count
		FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &sess.Name, &sess.Seq, &sess.RegistryHash, &sess.NodeCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load session %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	trees, err := s.loadTrees(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	g := provenance.New()
	if err := s.loadNodes(ctx, id, g, trees); err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if err := s.loadEdges(ctx, id, g); err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	sess.Graph = g
	return sess, nil
}

func (s *Store) loadTrees(ctx context.Context, session string) (map[int][]byte, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT node_id, tree FROM token_trees WHERE session_id = ?
	`, session)
	if err != nil {
		return nil, fmt.Errorf("trees: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]byte)
	for rows.Next() {
		var (
			nodeID int
			tree   string
		)
		if err := rows.Scan(&nodeID, &tree); err != nil {
			return nil, fmt.Errorf("trees: scan: %w", err)
		}
		out[nodeID] = []byte(tree)
	}
	return out, rows.Err()
}

func (s *Store) loadNodes(ctx context.Context, session string, g *provenance.Graph, trees map[int][]byte) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT node_id, kind, name, description, inverse
		FROM nodes WHERE session_id = ?
		ORDER BY node_id ASC
	`, session)
	if err != nil {
		return fmt.Errorf("nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			nodeID      int
			kindName    string
			name        string
			description string
			inverse     int
		)
		if err := rows.Scan(&nodeID, &kindName, &name, &description, &inverse); err != nil {
			return fmt.Errorf("nodes: scan: %w", err)
		}
		kind, err := graph.ParseNodeKind(kindName)
		if err != nil {
			return fmt.Errorf("node %d: %w", nodeID, err)
		}

		var got graph.NodeID
		switch kind {
		case graph.KindState:
			st := g.AddState(name, description)
			if data, ok := trees[nodeID]; ok {
				if err := st.Restore(data); err != nil {
					return err
				}
			}
			got = st.ID()
		case graph.KindAction:
			got = g.AddAction(name, inverse != 0).ID()
		case graph.KindObject:
			var src provenance.TokenSource
			if data, ok := trees[nodeID]; ok {
				t, err := ir.DecodeTree(data)
				if err != nil {
					return fmt.Errorf("object %q: %w", name, err)
				}
				src = provenance.StaticTree{Tree: t}
			}
			got = g.AddObject(name, src).ID()
		}

		if int(got) != nodeID {
			return fmt.Errorf("node %d restored as %d: node ids are not contiguous", nodeID, got)
		}
	}
	return rows.Err()
}

func (s *Store) loadEdges(ctx context.Context, session string, g *provenance.Graph) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT from_id, to_id, kind
		FROM edges WHERE session_id = ?
		ORDER BY seq ASC
	`, session)
	if err != nil {
		return fmt.Errorf("edges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			from, to int
			kindName string
		)
		if err := rows.Scan(&from, &to, &kindName); err != nil {
			return fmt.Errorf("edges: scan: %w", err)
		}
		kind, err := graph.ParseEdgeKind(kindName)
		if err != nil {
			return err
		}
		if err := g.Link(graph.Edge{From: graph.NodeID(from), To: graph.NodeID(to), Kind: kind}); err != nil {
			return fmt.Errorf("edge %d -> %d: %w", from, to, err)
		}
	}
	return rows.Err()
}

// StatesByTreeHash finds states, in any session, whose persisted token
// tree has the given content hash (see ir.TreeHash).
func (s *Store) StatesByTreeHash(ctx context.Context, hash string) ([]StateRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.session_id, t.node_id, n.name
		FROM token_trees t
		JOIN nodes n ON n.session_id = t.session_id AND n.node_id = t.node_id
		JOIN sessions s ON s.id = t.session_id
		WHERE t.hash = ? AND n.kind = ?
		ORDER BY s.seq ASC, t.node_id ASC
	`, hash, graph.KindState.String())
	if err != nil {
		return nil, fmt.Errorf("states by tree hash: %w", err)
	}
	defer rows.Close()

	var out []StateRef
	for rows.Next() {
		var ref StateRef
		if err := rows.Scan(&ref.SessionID, &ref.NodeID, &ref.Name); err != nil {
			return nil, fmt.Errorf("states by tree hash: scan: %w", err)
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("states by tree hash: %w", err)
	}
	return out, nil
}
