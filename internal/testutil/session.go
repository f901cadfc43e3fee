package testutil

import (
	"testing"

	"github.com/roach88/provsim/internal/ir"
	"github.com/roach88/provsim/internal/provenance"
)

// ExplorationTree returns a small dashboard token tree. chart and
// selection vary the visual and selection leaves.
func ExplorationTree(chart, selection string) *ir.Token {
	return ir.Group("app",
		ir.Group("filters",
			ir.Leaf("age", ir.CategoryData, 1, "age > 30"),
			ir.Leaf("country", ir.CategoryData, 1, "DE"),
		),
		ir.Group("view",
			ir.Leaf("chart", ir.CategoryVisual, 2, chart),
			ir.Leaf("panel", ir.CategoryLayout, 1, "split"),
		),
		ir.Leaf("selection", ir.CategorySelection, 1, selection),
	)
}

// SampleSession builds a three-state session:
//
//	(load) -> start -(chart)-> bars -(select)-> picked
//	                 \-(undo chart, inverse)-> start
//
// Each state consists of one application object with a static tree.
// No tree is resolved.
func SampleSession(t *testing.T) *provenance.Graph {
	t.Helper()
	g := provenance.New()

	start := addState(t, g, "start", ExplorationTree("scatter", ""))
	bars := addState(t, g, "bars", ExplorationTree("bar", ""))
	picked := addState(t, g, "picked", ExplorationTree("bar", "row:17"))

	must(t, g.Record(nil, g.AddAction("load", false), start))
	must(t, g.Record(start, g.AddAction("chart", false), bars))
	must(t, g.Record(bars, g.AddAction("select", false), picked))
	must(t, g.Record(bars, g.AddAction("undo chart", true), start))
	return g
}

func addState(t *testing.T, g *provenance.Graph, name string, tree *ir.Token) *provenance.State {
	t.Helper()
	s := g.AddState(name, "state "+name)
	must(t, g.Attach(s, g.AddObject(name+"/app", provenance.StaticTree{Tree: tree})))
	return s
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("sample session: %v", err)
	}
}
