package ir

import (
	"errors"
	"fmt"
	"math"
)

// WeightTotal is the sum every registry's weights must reach.
const WeightTotal = 100.0

// weightEpsilon absorbs float rounding when summing weights.
const weightEpsilon = 1e-9

// Sentinel errors for registry construction.
var (
	ErrEmptyRegistry      = errors.New("registry has no categories")
	ErrDuplicateCategory  = errors.New("duplicate category id")
	ErrEmptyCategoryID    = errors.New("empty category id")
	ErrNegativeWeight     = errors.New("negative category weight")
	ErrWeightSum          = errors.New("category weights must sum to 100")
	ErrCategoryOutOfRange = errors.New("token category out of range")
)

// Category is a semantic bucket that leaf tokens belong to.
type Category struct {
	ID     string  `json:"id" yaml:"id"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Registry is an ordered, read-only set of categories with percentage
// weights summing to 100. A token's Category field indexes into it.
type Registry struct {
	categories []Category
	index      map[string]int
}

// Default category order used when no registry file is supplied.
const (
	CategoryData = iota
	CategoryVisual
	CategorySelection
	CategoryLayout
	CategoryAnalysis
)

// DefaultRegistry returns the built-in registry:
// data 30, visual 20, selection 25, layout 5, analysis 20.
func DefaultRegistry() *Registry {
	return MustRegistry(
		Category{ID: "data", Weight: 30},
		Category{ID: "visual", Weight: 20},
		Category{ID: "selection", Weight: 25},
		Category{ID: "layout", Weight: 5},
		Category{ID: "analysis", Weight: 20},
	)
}

// NewRegistry validates the categories and builds a registry.
func NewRegistry(categories ...Category) (*Registry, error) {
	if len(categories) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{
		categories: make([]Category, len(categories)),
		index:      make(map[string]int, len(categories)),
	}
	copy(r.categories, categories)

	var sum float64
	for i, c := range r.categories {
		if c.ID == "" {
			return nil, fmt.Errorf("category %d: %w", i, ErrEmptyCategoryID)
		}
		if _, dup := r.index[c.ID]; dup {
			return nil, fmt.Errorf("category %q: %w", c.ID, ErrDuplicateCategory)
		}
		if c.Weight < 0 {
			return nil, fmt.Errorf("category %q: %w", c.ID, ErrNegativeWeight)
		}
		r.index[c.ID] = i
		sum += c.Weight
	}

	if math.Abs(sum-WeightTotal) > weightEpsilon {
		return nil, fmt.Errorf("%w (got %g)", ErrWeightSum, sum)
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
// Use only in tests or with literal, known-valid categories.
func MustRegistry(categories ...Category) *Registry {
	r, err := NewRegistry(categories...)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of categories.
func (r *Registry) Len() int {
	return len(r.categories)
}

// Categories returns a copy of the ordered categories.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Weights returns the percentage weights in category order.
func (r *Registry) Weights() []float64 {
	out := make([]float64, len(r.categories))
	for i, c := range r.categories {
		out[i] = c.Weight
	}
	return out
}

// Index returns the position of the category with the given id.
func (r *Registry) Index(id string) (int, bool) {
	i, ok := r.index[id]
	return i, ok
}

// ID returns the id of the category at index i, or "" when out of range.
func (r *Registry) ID(i int) string {
	if i < 0 || i >= len(r.categories) {
		return ""
	}
	return r.categories[i].ID
}

// CheckTree verifies that every leaf under t references a known category.
func (r *Registry) CheckTree(t *Token) error {
	var err error
	t.Walk(func(tok *Token, _ int) bool {
		if err != nil {
			return false
		}
		if tok.IsLeaf() && (tok.Category < 0 || tok.Category >= len(r.categories)) {
			err = fmt.Errorf("token %q category %d: %w", tok.Name, tok.Category, ErrCategoryOutOfRange)
		}
		return true
	})
	return err
}
