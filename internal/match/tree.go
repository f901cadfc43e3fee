package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/provsim/internal/ir"
	"github.com/roach88/provsim/internal/provenance"
)

// rootName names the synthetic token wrapping each side's tree.
const rootName = "root"

// ErrNilRegistry is returned when a tree is built without a registry.
var ErrNilRegistry = errors.New("nil registry")

// Tree is a matched tree over two token trees.
type Tree struct {
	nodes []Node
	reg   *ir.Registry
	cmp   Comparator

	leftTokenless  bool
	rightTokenless bool
}

// New aligns left and right under a synthetic root and balances the
// result. Either tree may be nil. Both trees must be valid and reference
// only categories known to reg; duplicate sibling names are rejected with
// ir.ErrDuplicateSibling.
func New(left, right *ir.Token, reg *ir.Registry, opts ...Option) (*Tree, error) {
	return NewContext(context.Background(), left, right, reg, opts...)
}

// NewContext is New with a context for tracing and metrics.
func NewContext(ctx context.Context, left, right *ir.Token, reg *ir.Registry, opts ...Option) (*Tree, error) {
	ctx, span := startMatchSpan(ctx)
	defer span.End()
	start := time.Now()

	t, err := build(left, right, reg, opts)
	recordMatchMetrics(ctx, time.Since(start), t, err == nil)
	setMatchSpanResult(span, t, err)
	if err != nil {
		return nil, err
	}

	slog.Debug("matched tree built",
		"nodes", t.Len(),
		"leaves", len(t.Leaves()),
	)
	return t, nil
}

// FromStates matches the token trees of two states, resolving them first.
func FromStates(ctx context.Context, left, right *provenance.State, reg *ir.Registry, opts ...Option) (*Tree, error) {
	lt, err := left.TokenTree()
	if err != nil {
		return nil, fmt.Errorf("match left state: %w", err)
	}
	rt, err := right.TokenTree()
	if err != nil {
		return nil, fmt.Errorf("match right state: %w", err)
	}
	return NewContext(ctx, lt, rt, reg, opts...)
}

func build(left, right *ir.Token, reg *ir.Registry, opts []Option) (*Tree, error) {
	if reg == nil {
		return nil, fmt.Errorf("match: %w", ErrNilRegistry)
	}
	if err := check(left, reg); err != nil {
		return nil, fmt.Errorf("match left tree: %w", err)
	}
	if err := check(right, reg); err != nil {
		return nil, fmt.Errorf("match right tree: %w", err)
	}

	cfg := config{comparator: ValueComparator}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &Tree{
		reg:            reg,
		cmp:            cfg.comparator,
		leftTokenless:  len(left.Leaves()) == 0,
		rightTokenless: len(right.Leaves()) == 0,
	}

	lroot, rroot := wrap(left), wrap(right)
	root := t.add(lroot, rroot)
	t.matchInto(root, lroot, rroot)

	t.nodes[root].Unscaled = ones(reg.Len())
	t.balance(root)
	t.scoreLeaves()
	return t, nil
}

func check(tok *ir.Token, reg *ir.Registry) error {
	if err := tok.Validate(); err != nil {
		return err
	}
	return reg.CheckTree(tok)
}

func wrap(tok *ir.Token) *ir.Token {
	if tok == nil {
		return ir.Group(rootName)
	}
	return ir.Group(rootName, tok)
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func (t *Tree) add(left, right *ir.Token) int {
	t.nodes = append(t.nodes, Node{Left: left, Right: right})
	return len(t.nodes) - 1
}

// matchInto expands the pair (left, right) below the matched node at
// parent. Node indices are assigned in pre-order.
func (t *Tree) matchInto(parent int, left, right *ir.Token) {
	switch {
	case left == nil && right == nil:
		return

	case left == nil:
		for _, c := range right.Children {
			t.appendMatched(parent, nil, c)
		}

	case right == nil:
		for _, c := range left.Children {
			t.appendMatched(parent, c, nil)
		}

	default:
		if left.IsLeaf() || right.IsLeaf() {
			return
		}
		leftOnly, both, rightOnly := partition(left.Children, right.Children)
		for _, c := range leftOnly {
			t.appendMatched(parent, c, nil)
		}
		for _, p := range both {
			t.appendMatched(parent, p[0], p[1])
		}
		for _, c := range rightOnly {
			t.appendMatched(parent, nil, c)
		}
	}
}

func (t *Tree) appendMatched(parent int, left, right *ir.Token) {
	n := t.add(left, right)
	t.matchInto(n, left, right)
	t.nodes[parent].Children = append(t.nodes[parent].Children, n)
}

// partition splits two sibling lists by name. Pairs keep left order.
func partition(left, right []*ir.Token) (leftOnly []*ir.Token, both [][2]*ir.Token, rightOnly []*ir.Token) {
	rightByName := make(map[string]*ir.Token, len(right))
	for _, r := range right {
		rightByName[r.Name] = r
	}
	leftNames := make(map[string]bool, len(left))

	for _, l := range left {
		leftNames[l.Name] = true
		if r, ok := rightByName[l.Name]; ok {
			both = append(both, [2]*ir.Token{l, r})
		} else {
			leftOnly = append(leftOnly, l)
		}
	}
	for _, r := range right {
		if !leftNames[r.Name] {
			rightOnly = append(rightOnly, r)
		}
	}
	return leftOnly, both, rightOnly
}

// balance splits each node's unscaled size evenly across its children.
func (t *Tree) balance(i int) {
	children := t.nodes[i].Children
	if len(children) == 0 {
		return
	}
	parent := t.nodes[i].Unscaled
	k := float64(len(children))
	for _, c := range children {
		size := make([]float64, len(parent))
		for j, v := range parent {
			size[j] = v / k
		}
		t.nodes[c].Unscaled = size
		t.balance(c)
	}
}

func (t *Tree) scoreLeaves() {
	for _, i := range t.Leaves() {
		n := &t.nodes[i]
		if n.IsPaired() && n.Left.IsLeaf() && n.Right.IsLeaf() {
			n.TokenSimilarity = clamp01(t.cmp(n.Left, n.Right))
		}
	}
}

// Len returns the number of matched nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the index of the root node.
func (t *Tree) Root() int {
	return 0
}

// Node returns the node at index i. The pointer is valid for the life of
// the tree and must not be modified.
func (t *Tree) Node(i int) *Node {
	return &t.nodes[i]
}

// Registry returns the registry the tree was built with.
func (t *Tree) Registry() *ir.Registry {
	return t.reg
}

// Leaves returns the indices of all matched leaves in pre-order. The root
// is never a leaf, even when both trees are empty.
func (t *Tree) Leaves() []int {
	var out []int
	for i := 1; i < len(t.nodes); i++ {
		if t.nodes[i].IsLeaf() {
			out = append(out, i)
		}
	}
	return out
}

// Walk visits nodes in pre-order. Returning false from fn skips the
// children of the visited node.
func (t *Tree) Walk(fn func(i int, n *Node, depth int) bool) {
	t.walk(0, 0, fn)
}

func (t *Tree) walk(i, depth int, fn func(int, *Node, int) bool) {
	if !fn(i, &t.nodes[i], depth) {
		return
	}
	for _, c := range t.nodes[i].Children {
		t.walk(c, depth+1, fn)
	}
}

// Counts tallies matched nodes by side, root excluded.
type Counts struct {
	Paired    int `json:"paired"`
	LeftOnly  int `json:"left_only"`
	RightOnly int `json:"right_only"`
}

// Count returns node counts by side. With leavesOnly, only matched leaves
// are counted.
func (t *Tree) Count(leavesOnly bool) Counts {
	var c Counts
	for i := 1; i < len(t.nodes); i++ {
		n := &t.nodes[i]
		if leavesOnly && !n.IsLeaf() {
			continue
		}
		switch {
		case n.IsPaired():
			c.Paired++
		case n.HasLeft():
			c.LeftOnly++
		default:
			c.RightOnly++
		}
	}
	return c
}
