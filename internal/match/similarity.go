package match

// Lineup slot order returned by SimilarityForLineup.
const (
	LineupLeft = iota
	LineupShared
	LineupRight
)

// SimilarityPerCategory returns, per category, the share of leaf mass that
// is paired, scaled by each pair's token similarity. A leaf's mass is its
// importance times its balanced share of the category. A category without
// mass scores 1.
func (t *Tree) SimilarityPerCategory() []float64 {
	n := t.reg.Len()
	total := make([]float64, n)
	matched := make([]float64, n)

	for _, i := range t.Leaves() {
		node := &t.nodes[i]
		cat := node.Category()
		if cat < 0 {
			continue
		}
		imp := node.mass(cat)
		total[cat] += imp
		if node.IsPaired() {
			matched[cat] += imp * node.TokenSimilarity
		}
	}

	out := make([]float64, n)
	for i := range out {
		if total[i] == 0 {
			out[i] = 1
			continue
		}
		out[i] = matched[i] / total[i]
	}
	return out
}

// Similarity combines SimilarityPerCategory with the registry weights into
// a single score in [0,1]. A category scoring exactly 0 still contributes
// its full weight.
func (t *Tree) Similarity() float64 {
	sims := t.SimilarityPerCategory()
	var sim float64
	for i, w := range t.reg.Weights() {
		if sims[i] == 0 {
			sim += w / 100
			continue
		}
		sim += sims[i] * w / 100
	}
	return sim
}

// SimilarityForLineup returns left-exclusive, shared and right-exclusive
// mass per category, normalized to sum to 1 for every category holding a
// leaf. Categories without leaves report shared = 1. If neither tree has
// leaves every slot is 1; if exactly one has none every slot is 0.
//
// A paired leaf puts mass*sim into shared and mass*(1-sim)/2 into each
// side. An unpaired leaf puts its full mass into its side.
func (t *Tree) SimilarityForLineup() [3][]float64 {
	n := t.reg.Len()
	var out [3][]float64

	if t.leftTokenless || t.rightTokenless {
		fill := 0.0
		if t.leftTokenless && t.rightTokenless {
			fill = 1
		}
		for s := range out {
			out[s] = make([]float64, n)
			for i := range out[s] {
				out[s][i] = fill
			}
		}
		return out
	}

	for s := range out {
		out[s] = make([]float64, n)
	}
	hasToken := make([]bool, n)

	for _, i := range t.Leaves() {
		node := &t.nodes[i]
		cat := node.Category()
		if cat < 0 {
			continue
		}
		hasToken[cat] = true
		imp := node.mass(cat)

		switch {
		case node.IsPaired():
			sim := node.TokenSimilarity
			out[LineupShared][cat] += imp * sim
			out[LineupLeft][cat] += imp * (1 - sim) / 2
			out[LineupRight][cat] += imp * (1 - sim) / 2
		case node.HasLeft():
			out[LineupLeft][cat] += imp
		default:
			out[LineupRight][cat] += imp
		}
	}

	for i := 0; i < n; i++ {
		total := out[LineupLeft][i] + out[LineupShared][i] + out[LineupRight][i]
		if !hasToken[i] || total == 0 {
			out[LineupLeft][i], out[LineupShared][i], out[LineupRight][i] = 0, 1, 0
			continue
		}
		out[LineupLeft][i] /= total
		out[LineupShared][i] /= total
		out[LineupRight][i] /= total
	}
	return out
}
