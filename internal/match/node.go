package match

import "github.com/roach88/provsim/internal/ir"

// Node is one entry of the matched-tree arena. Its index in the arena is
// its identity; the root is index 0.
type Node struct {
	Left     *ir.Token
	Right    *ir.Token
	Children []int

	// Unscaled is the balanced size, one slot per category.
	Unscaled []float64

	// TokenSimilarity is the comparator score of a paired leaf, in [0,1].
	// It is zero for every other node.
	TokenSimilarity float64
}

// IsPaired reports whether both sides are present.
func (n *Node) IsPaired() bool {
	return n.Left != nil && n.Right != nil
}

// HasLeft reports whether the left side is present.
func (n *Node) HasLeft() bool {
	return n.Left != nil
}

// HasRight reports whether the right side is present.
func (n *Node) HasRight() bool {
	return n.Right != nil
}

// IsLeaf reports whether the node has no matched children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Name returns the alignment key. Paired nodes share it.
func (n *Node) Name() string {
	if n.Left != nil {
		return n.Left.Name
	}
	return n.Right.Name
}

// Side returns "paired", "left" or "right".
func (n *Node) Side() string {
	switch {
	case n.IsPaired():
		return "paired"
	case n.HasLeft():
		return "left"
	default:
		return "right"
	}
}

// leafToken returns the token supplying category and importance: the
// left side when it is a leaf, otherwise the right side when it is one.
// A node whose sides are both interior carries no mass.
func (n *Node) leafToken() *ir.Token {
	if n.Left != nil && n.Left.IsLeaf() {
		return n.Left
	}
	if n.Right != nil && n.Right.IsLeaf() {
		return n.Right
	}
	return nil
}

// Category returns the leaf category, or -1 for a massless node.
func (n *Node) Category() int {
	if t := n.leafToken(); t != nil {
		return t.Category
	}
	return -1
}

// Importance returns the leaf importance, or 0 for a massless node.
func (n *Node) Importance() float64 {
	if t := n.leafToken(); t != nil {
		return t.Importance
	}
	return 0
}

// mass is the leaf's importance scaled by its balanced share of cat.
func (n *Node) mass(cat int) float64 {
	if cat >= len(n.Unscaled) {
		return 0
	}
	return n.Importance() * n.Unscaled[cat]
}
