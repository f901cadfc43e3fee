package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/provsim/internal/graph"
	"github.com/roach88/provsim/internal/ir"
	"github.com/roach88/provsim/internal/provenance"
)

// SaveGraph writes g as a new session and returns its id. reg may be nil;
// when set, its hash is recorded so comparisons can be checked against
// the weighting the session was recorded with.
//
// State trees are persisted only once resolved; unresolved states reload
// unresolved. Object trees are persisted as snapshots of their source.
func (s *Store) SaveGraph(ctx context.Context, name string, g *provenance.Graph, reg *ir.Registry) (string, error) {
	var regHash string
	if reg != nil {
		h, err := ir.RegistryHash(reg)
		if err != nil {
			return "", fmt.Errorf("save graph: %w", err)
		}
		regHash = h
	}

	id := s.ids.Generate()
	seq := s.clock.Next()

	err := s.tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sessions (id, name, seq, registry_hash, node_count)
			VALUES (?, ?, ?, ?, ?)
		`, id, name, seq, regHash, g.Len()); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		for _, st := range g.States() {
			if err := insertNode(ctx, tx, id, st.ID(), graph.KindState, st.Name, st.Description, false); err != nil {
				return err
			}
			if data := st.SerializedTree(); data != nil {
				if err := insertTree(ctx, tx, id, st.ID(), data); err != nil {
					return err
				}
			}
		}

		for _, a := range g.Actions() {
			if err := insertNode(ctx, tx, id, a.ID(), graph.KindAction, a.Name, "", a.Inverse); err != nil {
				return err
			}
		}

		for _, o := range g.Objects() {
			if err := insertNode(ctx, tx, id, o.ID(), graph.KindObject, o.Name, "", false); err != nil {
				return err
			}
			t := o.StateTokenTree()
			if t == nil {
				continue
			}
			data, err := ir.EncodeTree(t)
			if err != nil {
				return fmt.Errorf("encode object %q: %w", o.Name, err)
			}
			if err := insertTree(ctx, tx, id, o.ID(), data); err != nil {
				return err
			}
		}

		for i, e := range g.Edges() {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO edges (session_id, seq, from_id, to_id, kind)
				VALUES (?, ?, ?, ?, ?)
			`, id, i, int(e.From), int(e.To), e.Kind.String()); err != nil {
				return fmt.Errorf("insert edge %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("save graph: %w", err)
	}
	return id, nil
}

func insertNode(ctx context.Context, tx *sql.Tx, session string, id graph.NodeID, kind graph.NodeKind, name, description string, inverse bool) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO nodes (session_id, node_id, kind, name, description, inverse)
		VALUES (?, ?, ?, ?, ?, ?)
	`, session, int(id), kind.String(), name, description, boolToInt(inverse))
	if err != nil {
		return fmt.Errorf("insert %s %q: %w", kind, name, err)
	}
	return nil
}

// insertTree stores an encoded tree with the content hash of its decoded
// form, so equal trees hash equal however they were encoded.
func insertTree(ctx context.Context, tx *sql.Tx, session string, id graph.NodeID, data []byte) error {
	t, err := ir.DecodeTree(data)
	if err != nil {
		return fmt.Errorf("tree of node %d: %w", id, err)
	}
	hash, err := ir.TreeHash(t)
	if err != nil {
		return fmt.Errorf("tree of node %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO token_trees (session_id, node_id, tree, hash)
		VALUES (?, ?, ?, ?)
	`, session, int(id), string(data), hash); err != nil {
		return fmt.Errorf("insert tree of node %d: %w", id, err)
	}
	return nil
}

// DeleteSession removes a session and everything recorded under it.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete session %s: %w", id, ErrSessionNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
