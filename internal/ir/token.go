package ir

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel errors for token tree validation.
var (
	// ErrDuplicateSibling is returned when two children of the same token
	// share a name. Names are the alignment key during matching, so
	// duplicates would make pairing ambiguous.
	ErrDuplicateSibling = errors.New("duplicate sibling token name")

	// ErrEmptyTokenName is returned for a token without a name.
	ErrEmptyTokenName = errors.New("empty token name")

	// ErrNegativeImportance is returned for a leaf with importance < 0.
	ErrNegativeImportance = errors.New("negative token importance")

	// ErrNonFiniteImportance is returned for a leaf with a NaN or infinite
	// importance.
	ErrNonFiniteImportance = errors.New("non-finite token importance")

	// ErrInteriorAttributes is returned when an interior token carries a
	// category, importance or value of its own.
	ErrInteriorAttributes = errors.New("interior token carries leaf attributes")
)

// Token is a named node in a state's token tree.
//
// Interior tokens hold children and nothing else. Leaves carry a category
// index into the Registry, a non-negative importance that contributes to
// similarity mass, and an optional value used by leaf comparators.
//
// A token with no children is a leaf unless Group is set. Group marks an
// interior token that happens to be empty (e.g. a state with no active
// configuration), so it still aligns as a container rather than a leaf.
type Token struct {
	Name       string
	Children   []*Token
	Group      bool
	Category   int
	Importance float64
	Value      string
}

// Leaf creates a leaf token.
func Leaf(name string, category int, importance float64, value string) *Token {
	return &Token{
		Name:       name,
		Category:   category,
		Importance: importance,
		Value:      value,
	}
}

// Group creates an interior token with the given children.
func Group(name string, children ...*Token) *Token {
	return &Token{
		Name:     name,
		Children: children,
		Group:    true,
	}
}

// IsLeaf reports whether the token is a leaf.
func (t *Token) IsLeaf() bool {
	return len(t.Children) == 0 && !t.Group
}

// Walk visits t and its descendants in pre-order.
// Returning false from fn skips the children of the visited token.
func (t *Token) Walk(fn func(tok *Token, depth int) bool) {
	if t == nil {
		return
	}
	t.walk(fn, 0)
}

func (t *Token) walk(fn func(tok *Token, depth int) bool, depth int) {
	if !fn(t, depth) {
		return
	}
	for _, c := range t.Children {
		c.walk(fn, depth+1)
	}
}

// Leaves returns all leaves under t in pre-order.
func (t *Token) Leaves() []*Token {
	var leaves []*Token
	t.Walk(func(tok *Token, _ int) bool {
		if tok.IsLeaf() {
			leaves = append(leaves, tok)
		}
		return true
	})
	return leaves
}

// Child returns the direct child with the given name, or nil.
func (t *Token) Child(name string) *Token {
	if t == nil {
		return nil
	}
	for _, c := range t.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Find follows a name path from t. Find() with no names returns t.
func (t *Token) Find(names ...string) *Token {
	cur := t
	for _, n := range names {
		cur = cur.Child(n)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Clone returns a deep copy of t.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	c := *t
	if t.Children != nil {
		c.Children = make([]*Token, len(t.Children))
		for i, child := range t.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// Equal reports whether two trees have the same shape, names, kinds and
// leaf attributes.
func (t *Token) Equal(o *Token) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Name != o.Name || t.IsLeaf() != o.IsLeaf() || len(t.Children) != len(o.Children) {
		return false
	}
	if t.IsLeaf() {
		return t.Category == o.Category && t.Importance == o.Importance && t.Value == o.Value
	}
	for i := range t.Children {
		if !t.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Validate checks the structural invariants of the tree rooted at t.
// Errors wrap one of the sentinel errors above and name the offending
// token by its slash-separated path.
func (t *Token) Validate() error {
	if t == nil {
		return nil
	}
	return t.validate(nil)
}

func (t *Token) validate(parent []string) error {
	path := append(parent[:len(parent):len(parent)], t.Name)
	if t.Name == "" {
		return fmt.Errorf("%s: %w", tokenPath(path), ErrEmptyTokenName)
	}

	if t.IsLeaf() {
		if math.IsNaN(t.Importance) || math.IsInf(t.Importance, 0) {
			return fmt.Errorf("%s: %w", tokenPath(path), ErrNonFiniteImportance)
		}
		if t.Importance < 0 {
			return fmt.Errorf("%s: %w", tokenPath(path), ErrNegativeImportance)
		}
		return nil
	}

	if t.Category != 0 || t.Importance != 0 || t.Value != "" {
		return fmt.Errorf("%s: %w", tokenPath(path), ErrInteriorAttributes)
	}

	seen := make(map[string]bool, len(t.Children))
	for _, c := range t.Children {
		if seen[c.Name] {
			return fmt.Errorf("%s/%s: %w", tokenPath(path), c.Name, ErrDuplicateSibling)
		}
		seen[c.Name] = true
		if err := c.validate(path); err != nil {
			return err
		}
	}
	return nil
}

func tokenPath(names []string) string {
	return strings.Join(names, "/")
}

// String returns the token name.
func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}
