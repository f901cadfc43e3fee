package match

// Snapshot renders the matched tree as nested maps built only from the
// types ir.MarshalCanonical accepts, so it can be hashed, printed as JSON
// or kept in golden files.
func (t *Tree) Snapshot() map[string]any {
	return t.snapshot(0)
}

func (t *Tree) snapshot(i int) map[string]any {
	n := &t.nodes[i]
	m := map[string]any{
		"id":       i,
		"name":     n.Name(),
		"side":     n.Side(),
		"unscaled": floats(n.Unscaled),
	}
	if i == 0 {
		m["side"] = "root"
	}
	if n.IsLeaf() && i != 0 {
		m["category"] = n.Category()
		m["importance"] = n.Importance()
		if n.IsPaired() {
			m["token_similarity"] = n.TokenSimilarity
		}
	}
	if len(n.Children) > 0 {
		children := make([]any, len(n.Children))
		for j, c := range n.Children {
			children[j] = t.snapshot(c)
		}
		m["children"] = children
	}
	return m
}

func floats(v []float64) []any {
	out := make([]any, len(v))
	for i, f := range v {
		out[i] = f
	}
	return out
}
