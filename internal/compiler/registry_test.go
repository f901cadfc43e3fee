package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/provsim/internal/ir"
)

func TestCompileRegistryBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		categories: [
			{id: "data", weight: 60},
			{id: "visual", weight: 40.0},
		]
	`)
	require.NoError(t, v.Err())

	cats, err := CompileRegistry(v)
	require.NoError(t, err)
	assert.Equal(t, []ir.Category{{ID: "data", Weight: 60}, {ID: "visual", Weight: 40}}, cats)
}

func TestCompileRegistryMissingCategories(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`name: "x"`)

	_, err := CompileRegistry(v)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "categories", ce.Field)
}

func TestCompileRegistryWrongType(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`categories: [{id: 3, weight: 100}]`)

	_, err := CompileRegistry(v)
	assert.Error(t, err)
}

func TestCompileRegistryIncomplete(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`categories: [{id: "a", weight: number}]`)

	_, err := CompileRegistry(v)
	assert.Error(t, err, "non-concrete weight is rejected")
}

func TestValidateCategories(t *testing.T) {
	tests := []struct {
		name  string
		cats  []ir.Category
		codes []string
	}{
		{"valid", []ir.Category{{ID: "a", Weight: 70}, {ID: "b", Weight: 30}}, nil},
		{"empty", nil, []string{ErrRegistryEmpty}},
		{"empty id", []ir.Category{{ID: "", Weight: 100}}, []string{ErrCategoryIDEmpty}},
		{"duplicate", []ir.Category{{ID: "a", Weight: 50}, {ID: "a", Weight: 50}}, []string{ErrCategoryIDDup}},
		{"negative", []ir.Category{{ID: "a", Weight: 110}, {ID: "b", Weight: -10}}, []string{ErrCategoryWeightNeg}},
		{"sum", []ir.Category{{ID: "a", Weight: 10}}, []string{ErrCategoryWeightSum}},
		{"several", []ir.Category{{ID: "a", Weight: -5}, {ID: "a", Weight: 5}}, []string{ErrCategoryWeightNeg, ErrCategoryIDDup, ErrCategoryWeightSum}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCategories(tt.cats)
			var codes []string
			for _, e := range errs {
				codes = append(codes, e.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestBuildRegistryJoinsValidationErrors(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`categories: [{id: "", weight: 10}]`)

	_, err := BuildRegistry(v)
	require.Error(t, err)

	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), ErrCategoryIDEmpty)
	assert.Contains(t, err.Error(), ErrCategoryWeightSum)
}

func TestLoadRegistryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.cue")
	src := `categories: [
	{id: "data", weight: 30},
	{id: "visual", weight: 20},
	{id: "selection", weight: 25},
	{id: "layout", weight: 5},
	{id: "analysis", weight: 20},
]
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	reg, err := LoadRegistryFile(path)
	require.NoError(t, err)
	assert.Equal(t, ir.DefaultRegistry().Weights(), reg.Weights())

	_, err = LoadRegistryFile(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)
}

func TestLoadRegistryFileSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.cue")
	require.NoError(t, os.WriteFile(path, []byte("categories: [\n"), 0o644))

	_, err := LoadRegistryFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.cue")
}

func TestValidationErrorsThroughWrapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	src := `categories: [{id: "a", weight: 60}, {id: "a", weight: -10}]`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	_, err := LoadRegistryFile(path)
	require.Error(t, err)

	var codes []string
	for _, ve := range ValidationErrors(err) {
		codes = append(codes, ve.Code)
	}
	assert.Equal(t, []string{ErrCategoryIDDup, ErrCategoryWeightNeg, ErrCategoryWeightSum}, codes)

	assert.Nil(t, ValidationErrors(nil))
	assert.Nil(t, ValidationErrors(errors.New("plain")))
}
