package match

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/provsim/internal/ir"
	"github.com/roach88/provsim/internal/provenance"
)

const eps = 1e-9

func threeCats() *ir.Registry {
	return ir.MustRegistry(
		ir.Category{ID: "data", Weight: 50},
		ir.Category{ID: "visual", Weight: 30},
		ir.Category{ID: "selection", Weight: 20},
	)
}

func exploration(chart, sel string) *ir.Token {
	return ir.Group("app",
		ir.Group("filters",
			ir.Leaf("age", 0, 1, "age > 30"),
			ir.Leaf("country", 0, 1, "DE"),
		),
		ir.Leaf("chart", 1, 2, chart),
		ir.Leaf("selection", 2, 1, sel),
	)
}

func TestIdenticalSingleChild(t *testing.T) {
	left := ir.Group("root", ir.Leaf("a", 0, 1, "x"))
	right := ir.Group("root", ir.Leaf("a", 0, 1, "x"))

	tree, err := New(left, right, threeCats())
	require.NoError(t, err)

	assert.InDelta(t, 1.0, tree.Similarity(), eps)
	assert.InDelta(t, 1.0, tree.SimilarityPerCategory()[0], eps)
	assert.Equal(t, Counts{Paired: 1}, tree.Count(true))
}

func TestDisjointSingleTokens(t *testing.T) {
	tree, err := New(ir.Leaf("a", 0, 1, ""), ir.Leaf("b", 0, 1, ""), threeCats())
	require.NoError(t, err)

	root := tree.Node(tree.Root())
	require.Len(t, root.Children, 2)
	assert.Equal(t, "left", tree.Node(root.Children[0]).Side())
	assert.Equal(t, "right", tree.Node(root.Children[1]).Side())
	assert.Equal(t, Counts{LeftOnly: 1, RightOnly: 1}, tree.Count(true))
}

func TestAlignmentOrder(t *testing.T) {
	left := ir.Group("app", ir.Leaf("l1", 0, 1, ""), ir.Leaf("both", 0, 1, ""), ir.Leaf("l2", 0, 1, ""))
	right := ir.Group("app", ir.Leaf("r1", 0, 1, ""), ir.Leaf("both", 0, 1, ""))

	tree, err := New(left, right, threeCats())
	require.NoError(t, err)

	app := tree.Node(tree.Node(0).Children[0])
	require.True(t, app.IsPaired())

	var got []string
	for _, c := range app.Children {
		n := tree.Node(c)
		got = append(got, n.Side()+":"+n.Name())
	}
	assert.Equal(t, []string{"left:l1", "left:l2", "paired:both", "right:r1"}, got)
}

func TestPairingByNameNotPosition(t *testing.T) {
	left := ir.Group("app", ir.Leaf("x", 0, 1, "1"), ir.Leaf("y", 0, 1, "2"))
	right := ir.Group("app", ir.Leaf("only", 0, 1, ""), ir.Leaf("y", 0, 1, "2"), ir.Leaf("x", 0, 1, "1"))

	tree, err := New(left, right, threeCats())
	require.NoError(t, err)

	tree.Walk(func(_ int, n *Node, _ int) bool {
		if n.IsPaired() {
			assert.Equal(t, n.Left.Name, n.Right.Name)
		}
		return true
	})
	assert.Equal(t, Counts{Paired: 2, RightOnly: 1}, tree.Count(true))
}

func TestUnpairedSubtreesExpand(t *testing.T) {
	left := ir.Group("app", ir.Group("panel", ir.Leaf("a", 0, 1, ""), ir.Group("inner", ir.Leaf("b", 0, 1, ""))))

	tree, err := New(left, nil, threeCats())
	require.NoError(t, err)

	// root, app, panel, a, inner, b
	assert.Equal(t, 6, tree.Len())
	assert.Equal(t, Counts{LeftOnly: 5}, tree.Count(false))
	assert.Equal(t, Counts{LeftOnly: 2}, tree.Count(true))
}

func TestLeafFacingInteriorIsBoundary(t *testing.T) {
	left := ir.Group("app", ir.Leaf("x", 0, 1, "v"))
	right := ir.Group("app", ir.Group("x", ir.Leaf("deep", 0, 1, "v")))

	tree, err := New(left, right, threeCats())
	require.NoError(t, err)

	var x *Node
	tree.Walk(func(_ int, n *Node, _ int) bool {
		if n.Name() == "x" {
			x = n
		}
		return true
	})
	require.NotNil(t, x)
	assert.True(t, x.IsPaired())
	assert.True(t, x.IsLeaf(), "mismatched pair is not expanded")
	assert.Equal(t, 0.0, x.TokenSimilarity)
	assert.Equal(t, 0, x.Category(), "mass comes from the leaf side")
}

func TestDuplicateSiblingsRejected(t *testing.T) {
	bad := ir.Group("app", ir.Leaf("a", 0, 1, ""), ir.Leaf("a", 0, 1, ""))

	_, err := New(bad, nil, threeCats())
	assert.ErrorIs(t, err, ir.ErrDuplicateSibling)

	_, err = New(nil, bad, threeCats())
	assert.ErrorIs(t, err, ir.ErrDuplicateSibling)
}

func TestUnknownCategoryRejected(t *testing.T) {
	_, err := New(ir.Leaf("a", 7, 1, ""), nil, threeCats())
	assert.ErrorIs(t, err, ir.ErrCategoryOutOfRange)

	_, err = New(nil, nil, nil)
	assert.Error(t, err)
}

func TestBalanceWeights(t *testing.T) {
	left := ir.Group("app", ir.Leaf("a", 0, 1, ""), ir.Group("g", ir.Leaf("b", 0, 1, ""), ir.Leaf("c", 0, 1, "")))

	tree, err := New(left, left.Clone(), threeCats())
	require.NoError(t, err)

	sizes := map[string]float64{}
	tree.Walk(func(_ int, n *Node, _ int) bool {
		require.Len(t, n.Unscaled, 3)
		sizes[n.Name()] = n.Unscaled[1]
		return true
	})

	assert.InDelta(t, 1.0, sizes["root"], eps)
	assert.InDelta(t, 1.0, sizes["app"], eps)
	assert.InDelta(t, 0.5, sizes["a"], eps)
	assert.InDelta(t, 0.5, sizes["g"], eps)
	assert.InDelta(t, 0.25, sizes["b"], eps)
	assert.InDelta(t, 0.25, sizes["c"], eps)
}

func TestSimilarityPerCategory(t *testing.T) {
	tree, err := New(exploration("bar", "row:1"), exploration("line", "row:1"), threeCats())
	require.NoError(t, err)

	per := tree.SimilarityPerCategory()
	assert.InDelta(t, 1.0, per[0], eps)
	assert.InDelta(t, 0.0, per[1], eps, "chart changed")
	assert.InDelta(t, 1.0, per[2], eps)
	for _, v := range per {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestSimilarityZeroCategoryKeepsWeight(t *testing.T) {
	tree, err := New(exploration("bar", "row:1"), exploration("line", "row:1"), threeCats())
	require.NoError(t, err)

	// visual scores 0 and still contributes its full 30%.
	assert.InDelta(t, 1.0, tree.Similarity(), eps)
}

func TestSimilarityPartialCategory(t *testing.T) {
	left := exploration("bar", "row:1")
	right := exploration("bar", "row:1")
	right.Find("filters", "country").Value = "FR"

	tree, err := New(left, right, threeCats())
	require.NoError(t, err)

	assert.InDelta(t, 0.5, tree.SimilarityPerCategory()[0], eps)
	assert.InDelta(t, 0.5*0.5+0.3+0.2, tree.Similarity(), eps)
}

func TestSimilarityBalancedLeafMass(t *testing.T) {
	left := ir.Group("app",
		ir.Leaf("a", 0, 1, "x"),
		ir.Group("g", ir.Leaf("b", 0, 1, ""), ir.Leaf("c", 0, 1, ""), ir.Leaf("d", 0, 1, "")),
	)
	right := ir.Group("app", ir.Leaf("a", 0, 1, "x"))

	tree, err := New(left, right, threeCats())
	require.NoError(t, err)

	// a holds half the category, b, c and d a sixth each.
	assert.InDelta(t, 0.5, tree.SimilarityPerCategory()[0], eps)

	lineup := tree.SimilarityForLineup()
	assert.InDelta(t, 0.5, lineup[LineupLeft][0], eps)
	assert.InDelta(t, 0.5, lineup[LineupShared][0], eps)
	assert.InDelta(t, 0.0, lineup[LineupRight][0], eps)
}

func TestSimilarityIdenticalIsOne(t *testing.T) {
	tree, err := New(exploration("bar", "row:1"), exploration("bar", "row:1"), ir.DefaultRegistry())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, tree.Similarity(), eps)
}

func TestWithComparator(t *testing.T) {
	half := func(_, _ *ir.Token) float64 { return 0.5 }
	tree, err := New(exploration("bar", "row:1"), exploration("bar", "row:1"), threeCats(), WithComparator(half))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, tree.SimilarityPerCategory()[0], eps)

	wild := func(_, _ *ir.Token) float64 { return 7 }
	tree, err = New(exploration("bar", "row:1"), exploration("bar", "row:1"), threeCats(), WithComparator(wild))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, tree.SimilarityPerCategory()[0], eps, "scores clamp to 1")
}

func TestLineupBothEmpty(t *testing.T) {
	tree, err := New(nil, ir.Group("app"), threeCats())
	require.NoError(t, err)

	ones := []float64{1, 1, 1}
	assert.Equal(t, [3][]float64{ones, ones, ones}, tree.SimilarityForLineup())
}

func TestLineupOneEmpty(t *testing.T) {
	tree, err := New(nil, exploration("bar", "row:1"), threeCats())
	require.NoError(t, err)

	zeros := []float64{0, 0, 0}
	assert.Equal(t, [3][]float64{zeros, zeros, zeros}, tree.SimilarityForLineup())
}

func TestLineupSumsToOne(t *testing.T) {
	left := ir.Group("app", ir.Leaf("a", 0, 2, "x"), ir.Leaf("gone", 0, 1, ""), ir.Leaf("chart", 1, 1, "bar"))
	right := ir.Group("app", ir.Leaf("a", 0, 2, "y"), ir.Leaf("new", 0, 3, ""), ir.Leaf("chart", 1, 1, "bar"))

	tree, err := New(left, right, threeCats())
	require.NoError(t, err)
	lineup := tree.SimilarityForLineup()

	for cat := 0; cat < 3; cat++ {
		sum := lineup[LineupLeft][cat] + lineup[LineupShared][cat] + lineup[LineupRight][cat]
		assert.InDelta(t, 1.0, sum, eps, "category %d", cat)
	}

	// data: a mismatched (2 -> 1 left, 1 right), gone 1 left, new 3 right.
	assert.InDelta(t, 2.0/6, lineup[LineupLeft][0], eps)
	assert.InDelta(t, 0.0, lineup[LineupShared][0], eps)
	assert.InDelta(t, 4.0/6, lineup[LineupRight][0], eps)

	// visual: identical chart.
	assert.InDelta(t, 1.0, lineup[LineupShared][1], eps)

	// selection: no tokens.
	assert.Equal(t, 0.0, lineup[LineupLeft][2])
	assert.Equal(t, 1.0, lineup[LineupShared][2])
	assert.Equal(t, 0.0, lineup[LineupRight][2])
}

func TestNewRejectsNonFiniteImportance(t *testing.T) {
	bad := ir.Group("app", ir.Leaf("a", 0, math.NaN(), "x"))

	_, err := New(bad, exploration("bar", "row:1"), threeCats())
	assert.ErrorIs(t, err, ir.ErrNonFiniteImportance)

	_, err = New(exploration("bar", "row:1"), ir.Group("app", ir.Leaf("a", 0, math.Inf(1), "x")), threeCats())
	assert.ErrorIs(t, err, ir.ErrNonFiniteImportance)
}

func TestNewNilRegistry(t *testing.T) {
	_, err := New(exploration("bar", "row:1"), exploration("bar", "row:1"), nil)
	assert.ErrorIs(t, err, ErrNilRegistry)
}

func TestLeavesExcludeRoot(t *testing.T) {
	tree, err := New(nil, nil, threeCats())
	require.NoError(t, err)

	assert.Equal(t, 1, tree.Len())
	assert.Empty(t, tree.Leaves())
	assert.InDelta(t, 1.0, tree.Similarity(), eps)
}

func TestFromStates(t *testing.T) {
	g := provenance.New()
	a := g.AddState("a", "")
	b := g.AddState("b", "")
	require.NoError(t, g.Attach(a, g.AddObject("app", provenance.StaticTree{Tree: exploration("bar", "row:1")})))
	require.NoError(t, g.Attach(b, g.AddObject("app", provenance.StaticTree{Tree: exploration("bar", "row:2")})))

	tree, err := FromStates(context.Background(), a, b, threeCats())
	require.NoError(t, err)

	assert.True(t, a.HasCachedTree())
	assert.True(t, b.HasCachedTree())
	assert.InDelta(t, 0.0, tree.SimilarityPerCategory()[2], eps)
}

func TestSnapshot(t *testing.T) {
	tree, err := New(ir.Group("r", ir.Leaf("a", 0, 1, "x")), ir.Group("r", ir.Leaf("a", 0, 1, "y")), threeCats())
	require.NoError(t, err)

	snap := tree.Snapshot()
	assert.Equal(t, "root", snap["side"])

	r := snap["children"].([]any)[0].(map[string]any)
	leaf := r["children"].([]any)[0].(map[string]any)
	assert.Equal(t, "paired", leaf["side"])
	assert.Equal(t, 0.0, leaf["token_similarity"])
	assert.Equal(t, 2, leaf["id"])
	assert.Equal(t, []any{1.0, 1.0, 1.0}, leaf["unscaled"])

	_, err = ir.MarshalCanonical(snap)
	assert.NoError(t, err, "snapshot is canonical-encodable")
}
