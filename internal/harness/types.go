package harness

import (
	"github.com/roach88/provsim/internal/match"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// SessionID is the id the session was stored under.
	SessionID string `json:"session_id"`

	// Comparisons holds one entry per scenario comparison, in order.
	Comparisons []ComparisonResult `json:"comparisons"`

	// Paths maps each checked state to its provenance path.
	Paths map[string][]string `json:"paths,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// ComparisonResult records what matching two states produced.
type ComparisonResult struct {
	Left        string                `json:"left"`
	Right       string                `json:"right"`
	Similarity  float64               `json:"similarity"`
	PerCategory map[string]float64    `json:"per_category"`
	Lineup      map[string][3]float64 `json:"lineup"`
	Distance    int                   `json:"distance"`
	Counts      match.Counts          `json:"counts"`

	// Matched is the snapshot of the matched tree, used for golden files.
	Matched map[string]any `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Comparisons: []ComparisonResult{},
		Paths:       make(map[string][]string),
		Errors:      []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// newComparisonResult summarizes a matched tree. Per-category and lineup
// values are keyed by category id.
func newComparisonResult(left, right string, tree *match.Tree, distance int) ComparisonResult {
	reg := tree.Registry()
	perCat := tree.SimilarityPerCategory()
	lineup := tree.SimilarityForLineup()

	cr := ComparisonResult{
		Left:        left,
		Right:       right,
		Similarity:  tree.Similarity(),
		PerCategory: make(map[string]float64, reg.Len()),
		Lineup:      make(map[string][3]float64, reg.Len()),
		Distance:    distance,
		Counts:      tree.Count(true),
		Matched:     tree.Snapshot(),
	}
	for i := 0; i < reg.Len(); i++ {
		id := reg.ID(i)
		cr.PerCategory[id] = perCat[i]
		cr.Lineup[id] = [3]float64{
			lineup[match.LineupLeft][i],
			lineup[match.LineupShared][i],
			lineup[match.LineupRight][i],
		}
	}
	return cr
}
