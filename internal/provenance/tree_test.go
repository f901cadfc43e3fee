package provenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/provsim/internal/ir"
)

func viewTree(chart string) *ir.Token {
	return ir.Group("app",
		ir.Group("view", ir.Leaf("chart", ir.CategoryVisual, 1, chart)),
		ir.Leaf("filter", ir.CategoryData, 1, "age > 30"),
	)
}

// countingSource counts how often the tree is requested.
type countingSource struct {
	tree  *ir.Token
	calls int
}

func (c *countingSource) StateTokenTree() *ir.Token {
	c.calls++
	return c.tree
}

func stateWithTree(t *testing.T, g *Graph, name string, tree *ir.Token) *State {
	t.Helper()
	s := g.AddState(name, "")
	require.NoError(t, g.Attach(s, g.AddObject(name+"-app", StaticTree{Tree: tree})))
	return s
}

func TestTokenTreeDerivesFirstNonNil(t *testing.T) {
	g := New()
	s := g.AddState("s", "")
	empty := &countingSource{}
	first := &countingSource{tree: viewTree("bar")}
	second := &countingSource{tree: viewTree("line")}
	require.NoError(t, g.Attach(s, g.AddObject("empty", empty)))
	require.NoError(t, g.Attach(s, g.AddObject("first", first)))
	require.NoError(t, g.Attach(s, g.AddObject("second", second)))

	assert.False(t, s.HasCachedTree())
	assert.Equal(t, TreeUncomputed, s.TreeStatus())

	tree, err := s.TokenTree()
	require.NoError(t, err)
	assert.Equal(t, "bar", tree.Find("view", "chart").Value)
	assert.Equal(t, TreeDerived, s.TreeStatus())
	assert.True(t, s.HasCachedTree())
	assert.NotNil(t, s.SerializedTree())
	assert.Equal(t, 0, second.calls, "derivation stops at the first tree")

	_, err = s.TokenTree()
	require.NoError(t, err)
	assert.Equal(t, 1, empty.calls, "derivation happens at most once")
	assert.Equal(t, 1, first.calls)
}

func TestTokenTreeIsOwnedByState(t *testing.T) {
	g := New()
	src := viewTree("bar")
	s := stateWithTree(t, g, "s", src)

	tree, err := s.TokenTree()
	require.NoError(t, err)
	src.Find("view", "chart").Value = "pie"

	assert.Equal(t, "bar", tree.Find("view", "chart").Value)
}

func TestTokenTreeEmptyDerivationIsFinal(t *testing.T) {
	g := New()
	s := g.AddState("s", "")
	src := &countingSource{}
	require.NoError(t, g.Attach(s, g.AddObject("o", src)))

	tree, err := s.TokenTree()
	require.NoError(t, err)
	assert.Nil(t, tree)
	assert.Equal(t, TreeDerived, s.TreeStatus())

	src.tree = viewTree("bar")
	tree, err = s.TokenTree()
	require.NoError(t, err)
	assert.Nil(t, tree, "an empty derivation is memoized too")
	assert.Equal(t, 1, src.calls)
}

func TestTokenTreeRestoredFromCache(t *testing.T) {
	data, err := ir.EncodeTree(viewTree("scatter"))
	require.NoError(t, err)

	g := New()
	s := stateWithTree(t, g, "s", viewTree("ignored"))
	require.NoError(t, s.Restore(data))
	assert.True(t, s.HasCachedTree(), "a restored cache counts as cached")

	tree, err := s.TokenTree()
	require.NoError(t, err)
	assert.Equal(t, TreeRestored, s.TreeStatus())
	assert.Equal(t, "scatter", tree.Find("view", "chart").Value, "cache wins over derivation")

	assert.ErrorIs(t, s.Restore(data), ErrTreeResolved)
}

func TestTokenTreeCorruptCache(t *testing.T) {
	g := New()
	s := g.AddState("s", "")
	require.NoError(t, s.Restore([]byte("{")))

	_, err := s.TokenTree()
	assert.ErrorIs(t, err, ErrCorruptCache)
	assert.Equal(t, TreeUncomputed, s.TreeStatus())
}

func TestSimilarityToSelfAndIncomparable(t *testing.T) {
	g := New()
	a := stateWithTree(t, g, "a", viewTree("bar"))
	b := stateWithTree(t, g, "b", viewTree("bar"))

	d, err := a.SimilarityTo(b)
	require.NoError(t, err)
	assert.Equal(t, Incomparable, d, "other side has no cached tree")
	assert.Equal(t, TreeUncomputed, b.TreeStatus(), "other is never resolved")

	_, err = b.TokenTree()
	require.NoError(t, err)
	d, err = b.SimilarityTo(b)
	require.NoError(t, err)
	assert.Equal(t, 0, d)
}

func TestSimilarityToDistance(t *testing.T) {
	g := New()
	a := stateWithTree(t, g, "a", viewTree("bar"))
	same := stateWithTree(t, g, "same", viewTree("bar"))
	changed := stateWithTree(t, g, "changed", viewTree("line"))
	_, err := a.TokenTree()
	require.NoError(t, err)

	d, err := same.SimilarityTo(a)
	require.NoError(t, err)
	assert.Equal(t, 0, d)
	assert.Equal(t, TreeDerived, same.TreeStatus(), "own tree is resolved")

	d, err = changed.SimilarityTo(a)
	require.NoError(t, err)
	assert.Equal(t, 1, d)
}

func TestSimilarityToRestoredOtherNotMemoized(t *testing.T) {
	data, err := ir.EncodeTree(viewTree("bar"))
	require.NoError(t, err)

	g := New()
	other := g.AddState("other", "")
	require.NoError(t, other.Restore(data))
	s := stateWithTree(t, g, "s", viewTree("line"))

	d, err := s.SimilarityTo(other)
	require.NoError(t, err)
	assert.Equal(t, 1, d)
	assert.Equal(t, TreeUncomputed, other.TreeStatus())
}

func TestTreeStatusString(t *testing.T) {
	assert.Equal(t, "restored", TreeRestored.String())
	assert.Equal(t, "TreeStatus(7)", TreeStatus(7).String())
}
