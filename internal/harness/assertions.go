package harness

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
)

// defaultTolerance bounds float comparisons when a comparison sets none.
const defaultTolerance = 1e-9

// Expectation kinds reported in AssertionError.Type.
const (
	AssertSimilarity  = "similarity"
	AssertPerCategory = "per_category"
	AssertLineup      = "lineup"
	AssertDistance    = "distance"
	AssertCounts      = "counts"
	AssertPath        = "path"
)

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Expectation kind for categorization
	Subject  string // The comparison or state the expectation is about
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s (%s)\n", e.Type, e.Subject)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

// IsAssertionError reports whether err is or wraps an *AssertionError.
func IsAssertionError(err error) bool {
	var ae *AssertionError
	return errors.As(err, &ae)
}

// EvaluateAssertions checks the scenario's expectations against the
// result. Comparisons and result entries correspond by index.
// Returns a slice of error messages for failed expectations.
func EvaluateAssertions(scenario *Scenario, result *Result) []string {
	var msgs []string
	collect := func(errs ...error) {
		for _, err := range errs {
			if err != nil {
				msgs = append(msgs, err.Error())
			}
		}
	}

	for i, c := range scenario.Comparisons {
		if c.Expect == nil || i >= len(result.Comparisons) {
			continue
		}
		collect(assertComparison(c.Expect, result.Comparisons[i])...)
	}

	for _, p := range scenario.Paths {
		collect(assertPath(p, result.Paths[p.State]))
	}
	return msgs
}

func assertComparison(exp *CompareSpec, got ComparisonResult) []error {
	subject := got.Left + " vs " + got.Right
	tol := exp.Tolerance
	if tol == 0 {
		tol = defaultTolerance
	}

	var errs []error
	if exp.Similarity != nil && !near(*exp.Similarity, got.Similarity, tol) {
		errs = append(errs, &AssertionError{
			Type:     AssertSimilarity,
			Subject:  subject,
			Expected: formatFloat(*exp.Similarity),
			Actual:   formatFloat(got.Similarity),
		})
	}

	for _, id := range sortedKeys(exp.PerCategory) {
		want := exp.PerCategory[id]
		have, ok := got.PerCategory[id]
		if !ok || !near(want, have, tol) {
			errs = append(errs, &AssertionError{
				Type:     AssertPerCategory,
				Subject:  subject,
				Expected: fmt.Sprintf("%s = %s", id, formatFloat(want)),
				Actual:   describeCategory(id, have, ok),
			})
		}
	}

	for _, id := range sortedKeys(exp.Lineup) {
		want := exp.Lineup[id]
		have, ok := got.Lineup[id]
		if !ok || !nearAll(want[:], have[:], tol) {
			actual := "unknown category"
			if ok {
				actual = fmt.Sprintf("%s = %v", id, have)
			}
			errs = append(errs, &AssertionError{
				Type:     AssertLineup,
				Subject:  subject,
				Expected: fmt.Sprintf("%s = %v", id, want),
				Actual:   actual,
			})
		}
	}

	if exp.Distance != nil && *exp.Distance != got.Distance {
		errs = append(errs, &AssertionError{
			Type:     AssertDistance,
			Subject:  subject,
			Expected: fmt.Sprintf("%d", *exp.Distance),
			Actual:   fmt.Sprintf("%d", got.Distance),
		})
	}

	counts := []struct {
		name string
		want *int
		have int
	}{
		{"paired", exp.Paired, got.Counts.Paired},
		{"left_only", exp.LeftOnly, got.Counts.LeftOnly},
		{"right_only", exp.RightOnly, got.Counts.RightOnly},
	}
	for _, c := range counts {
		if c.want != nil && *c.want != c.have {
			errs = append(errs, &AssertionError{
				Type:     AssertCounts,
				Subject:  subject,
				Expected: fmt.Sprintf("%d %s leaves", *c.want, c.name),
				Actual:   fmt.Sprintf("%d %s leaves", c.have, c.name),
			})
		}
	}
	return errs
}

func assertPath(p PathExpect, got []string) error {
	if slices.Equal(p.Expect, got) {
		return nil
	}
	return &AssertionError{
		Type:     AssertPath,
		Subject:  p.State,
		Expected: strings.Join(p.Expect, " -> "),
		Actual:   strings.Join(got, " -> "),
	}
}

func describeCategory(id string, v float64, ok bool) string {
	if !ok {
		return fmt.Sprintf("unknown category %q", id)
	}
	return fmt.Sprintf("%s = %s", id, formatFloat(v))
}

func near(want, have, tol float64) bool {
	return math.Abs(want-have) <= tol
}

func nearAll(want, have []float64, tol float64) bool {
	for i := range want {
		if !near(want[i], have[i], tol) {
			return false
		}
	}
	return true
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.6g", f)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
