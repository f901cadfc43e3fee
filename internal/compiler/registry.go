package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/provsim/internal/ir"
)

// registrySchema types the registry file before extraction. Semantic rules
// are left to ValidateCategories so they surface as coded errors.
const registrySchema = `
#Category: {
	id:     string
	weight: number
}
#Registry: {
	categories: [...#Category]
	...
}
`

// CompileRegistry extracts the ordered categories from a CUE value holding
// a `categories` list.
func CompileRegistry(v cue.Value) ([]ir.Category, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	if !v.LookupPath(cue.ParsePath("categories")).Exists() {
		return nil, &CompileError{
			Field:   "categories",
			Message: "categories is required",
			Pos:     v.Pos(),
		}
	}

	schema := v.Context().CompileString(registrySchema, cue.Filename("registry-schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile registry schema: %w", err)
	}
	v = schema.LookupPath(cue.ParsePath("#Registry")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	listVal := v.LookupPath(cue.ParsePath("categories"))
	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var cats []ir.Category
	for iter.Next() {
		c, err := parseCategory(iter.Value())
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, nil
}

func parseCategory(v cue.Value) (ir.Category, error) {
	var c ir.Category

	id, err := v.LookupPath(cue.ParsePath("id")).String()
	if err != nil {
		return c, formatCUEError(err)
	}
	c.ID = id

	weight, err := v.LookupPath(cue.ParsePath("weight")).Float64()
	if err != nil {
		return c, formatCUEError(err)
	}
	c.Weight = weight
	return c, nil
}

// BuildRegistry compiles and validates a CUE value into a Registry.
// Validation failures are returned joined, one ValidationError each.
func BuildRegistry(v cue.Value) (*ir.Registry, error) {
	cats, err := CompileRegistry(v)
	if err != nil {
		return nil, err
	}
	if err := joinValidation(ValidateCategories(cats)); err != nil {
		return nil, err
	}
	return ir.NewRegistry(cats...)
}

// LoadRegistryFile reads a CUE registry file and builds a Registry.
func LoadRegistryFile(path string) (*ir.Registry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(path))
	reg, err := BuildRegistry(v)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return reg, nil
}
