package provenance

import (
	"fmt"
	"log/slog"

	"github.com/roach88/provsim/internal/ir"
	"github.com/roach88/provsim/internal/treediff"
)

// Incomparable is the distance SimilarityTo reports when the other state
// has no cached token tree.
const Incomparable = -1

// TreeStatus is the resolution state of a state's token tree.
type TreeStatus int

const (
	// TreeUncomputed means no tree has been resolved yet.
	TreeUncomputed TreeStatus = iota

	// TreeRestored means the tree was decoded from the serialized cache.
	TreeRestored

	// TreeDerived means the tree was derived from the state's objects.
	// A derivation that found no tree is still final.
	TreeDerived
)

var treeStatusNames = map[TreeStatus]string{
	TreeUncomputed: "uncomputed",
	TreeRestored:   "restored",
	TreeDerived:    "derived",
}

// String returns the string representation of the status.
func (t TreeStatus) String() string {
	if name, ok := treeStatusNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TreeStatus(%d)", int(t))
}

// treeCache holds the memoized tree and its serialized form separately.
type treeCache struct {
	status     TreeStatus
	tree       *ir.Token
	serialized []byte
}

// TreeStatus reports how far the state's token tree has been resolved.
func (s *State) TreeStatus() TreeStatus {
	return s.tree.status
}

// HasCachedTree reports whether the token tree is available without
// deriving it from objects: it has been resolved, or a serialized cache
// has been restored.
func (s *State) HasCachedTree() bool {
	return s.tree.status != TreeUncomputed || s.tree.serialized != nil
}

// SerializedTree returns the portable form of the token tree, or nil when
// nothing has been resolved or restored.
func (s *State) SerializedTree() []byte {
	return s.tree.serialized
}

// Restore installs a serialized token tree, typically loaded from a
// store. It fails once the tree has been resolved.
func (s *State) Restore(data []byte) error {
	if s.tree.status != TreeUncomputed {
		return fmt.Errorf("restore %q: %w", s.Name, ErrTreeResolved)
	}
	s.tree.serialized = data
	return nil
}

// TokenTree returns the state's token tree, resolving it on first use:
//
//  1. the memoized tree, if already resolved
//  2. the serialized cache, decoded
//  3. the first non-nil tree among the attached objects, in attachment
//     order, which is then memoized and serialized
//
// The result may be nil for a state whose objects yield nothing.
func (s *State) TokenTree() (*ir.Token, error) {
	if err := s.resolveTree(); err != nil {
		return nil, err
	}
	return s.tree.tree, nil
}

func (s *State) resolveTree() error {
	if s.tree.status != TreeUncomputed {
		return nil
	}

	if s.tree.serialized != nil {
		t, err := decodeCache(s.tree.serialized)
		if err != nil {
			return fmt.Errorf("state %q: %w", s.Name, err)
		}
		s.tree.tree = t
		s.tree.status = TreeRestored
		return nil
	}

	t := s.deriveTree()
	data, err := ir.EncodeTree(t)
	if err != nil {
		return fmt.Errorf("state %q: %w", s.Name, err)
	}
	s.tree = treeCache{status: TreeDerived, tree: t, serialized: data}

	slog.Debug("token tree derived",
		"state", s.Name,
		"empty", t == nil,
	)
	return nil
}

func (s *State) deriveTree() *ir.Token {
	for _, o := range s.ConsistsOf() {
		if t := o.StateTokenTree(); t != nil {
			return t.Clone()
		}
	}
	return nil
}

// peekTree returns the tree without memoizing anything on s.
func (s *State) peekTree() (*ir.Token, error) {
	if s.tree.status != TreeUncomputed {
		return s.tree.tree, nil
	}
	t, err := decodeCache(s.tree.serialized)
	if err != nil {
		return nil, fmt.Errorf("state %q: %w", s.Name, err)
	}
	return t, nil
}

func decodeCache(data []byte) (*ir.Token, error) {
	t, err := ir.DecodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptCache, err)
	}
	return t, nil
}

// SimilarityTo returns the structural diff distance from other's tree to
// s's tree: the number of positions the patch touches. It returns 0 when
// other is s and Incomparable when other has no cached tree. It resolves
// s's own tree if needed and never resolves other's.
func (s *State) SimilarityTo(other *State) (int, error) {
	if !other.HasCachedTree() {
		return Incomparable, nil
	}
	if s == other {
		return 0, nil
	}

	theirs, err := other.peekTree()
	if err != nil {
		return Incomparable, err
	}
	ours, err := s.TokenTree()
	if err != nil {
		return Incomparable, err
	}

	patch := treediff.Diff(treediff.FromToken(theirs), treediff.FromToken(ours))
	return patch.Distance(), nil
}
