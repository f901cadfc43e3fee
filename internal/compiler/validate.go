package compiler

import (
	"errors"
	"fmt"
	"math"

	"github.com/roach88/provsim/internal/ir"
)

// Validation error codes (E200-E299)
const (
	ErrRegistryEmpty     = "E201" // at least one category required
	ErrCategoryIDEmpty   = "E202" // category id must be non-empty
	ErrCategoryIDDup     = "E203" // duplicate category id
	ErrCategoryWeightNeg = "E204" // weight must be non-negative
	ErrCategoryWeightSum = "E205" // weights must sum to 100
)

// ValidationError represents a registry validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateCategories checks registry rules.
// Returns all errors found (does not fail-fast).
func ValidateCategories(cats []ir.Category) []ValidationError {
	if len(cats) == 0 {
		return []ValidationError{{
			Field:   "categories",
			Message: "at least one category is required",
			Code:    ErrRegistryEmpty,
		}}
	}

	var errs []ValidationError
	seen := make(map[string]bool, len(cats))
	var sum float64

	for i, c := range cats {
		field := fmt.Sprintf("categories[%d]", i)

		// E202: id is required
		if c.ID == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".id",
				Message: "category id is required",
				Code:    ErrCategoryIDEmpty,
			})
		} else if seen[c.ID] {
			// E203: duplicate id
			errs = append(errs, ValidationError{
				Field:   field + ".id",
				Message: fmt.Sprintf("duplicate category id %q", c.ID),
				Code:    ErrCategoryIDDup,
			})
		}
		seen[c.ID] = true

		// E204: negative weight
		if c.Weight < 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".weight",
				Message: fmt.Sprintf("weight %g is negative", c.Weight),
				Code:    ErrCategoryWeightNeg,
			})
		}
		sum += c.Weight
	}

	// E205: weights must sum to 100
	if math.Abs(sum-ir.WeightTotal) > 1e-9 {
		errs = append(errs, ValidationError{
			Field:   "categories",
			Message: fmt.Sprintf("weights sum to %g, want %g", sum, ir.WeightTotal),
			Code:    ErrCategoryWeightSum,
		})
	}
	return errs
}

// joinValidation folds validation errors into one error value.
func joinValidation(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return errors.Join(out...)
}

// ValidationErrors collects the ValidationErrors carried by err, looking
// through wrapping and joined errors. It returns nil when there are none.
func ValidationErrors(err error) []ValidationError {
	var out []ValidationError
	var walk func(error)
	walk = func(e error) {
		switch x := e.(type) {
		case nil:
		case ValidationError:
			out = append(out, x)
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(x.Unwrap())
		}
	}
	walk(err)
	return out
}
