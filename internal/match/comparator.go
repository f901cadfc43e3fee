package match

import (
	"math"

	"github.com/roach88/provsim/internal/ir"
)

// Comparator scores how similar two paired leaves are. Results are
// clamped to [0,1].
type Comparator func(left, right *ir.Token) float64

// ValueComparator scores 1 when both leaves carry the same value and 0
// otherwise.
func ValueComparator(left, right *ir.Token) float64 {
	if left.Value == right.Value {
		return 1
	}
	return 0
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Option configures tree construction.
type Option func(*config)

type config struct {
	comparator Comparator
}

// WithComparator replaces ValueComparator for paired leaves.
func WithComparator(c Comparator) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.comparator = c
		}
	}
}
