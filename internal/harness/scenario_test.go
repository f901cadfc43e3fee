package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/provsim/internal/ir"
)

func TestLoadScenario_ValidFile(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "country_filter.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "country_filter", scenario.Name)
	assert.Len(t, scenario.States, 3)
	assert.Len(t, scenario.Actions, 4)
	assert.True(t, scenario.Actions[2].Inverse)
	assert.Equal(t, filepath.Join("testdata", "registry", "weights.cue"), filepath.Clean(scenario.Registry),
		"registry resolved against the scenario directory")

	require.Len(t, scenario.Comparisons, 2)
	exp := scenario.Comparisons[0].Expect
	require.NotNil(t, exp)
	assert.InDelta(t, 0.7, *exp.Similarity, 1e-12)
	assert.Equal(t, [3]float64{0.25, 0.5, 0.25}, exp.Lineup["data"])
	assert.Equal(t, 1, *exp.Distance)
	assert.Nil(t, scenario.Comparisons[1].Expect.Similarity)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_AbsoluteRegistryKept(t *testing.T) {
	dir := t.TempDir()
	reg := filepath.Join(dir, "weights.cue")
	path := filepath.Join(dir, "s.yaml")
	content := "name: s\nregistry: " + reg + "\nstates:\n  - name: a\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, reg, scenario.Registry)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: s\nstate: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			yaml:    "states:\n  - name: a\n",
			wantErr: "name is required",
		},
		{
			name:    "no states",
			yaml:    "name: s\n",
			wantErr: "states list is required",
		},
		{
			name:    "duplicate state",
			yaml:    "name: s\nstates:\n  - name: a\n  - name: a\n",
			wantErr: `duplicate state "a"`,
		},
		{
			name:    "categories and registry",
			yaml:    "name: s\nregistry: r.cue\ncategories:\n  - {id: x, weight: 100}\nstates:\n  - name: a\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "action to unknown state",
			yaml:    "name: s\nstates:\n  - name: a\nactions:\n  - {name: go, from: a, to: b}\n",
			wantErr: `actions[0].to: unknown state "b"`,
		},
		{
			name:    "action without name",
			yaml:    "name: s\nstates:\n  - name: a\nactions:\n  - {to: a}\n",
			wantErr: "actions[0]: name is required",
		},
		{
			name:    "comparison with unknown state",
			yaml:    "name: s\nstates:\n  - name: a\ncomparisons:\n  - {left: a, right: z}\n",
			wantErr: `comparisons[0].right: unknown state "z"`,
		},
		{
			name:    "negative tolerance",
			yaml:    "name: s\nstates:\n  - name: a\ncomparisons:\n  - left: a\n    right: a\n    expect: {tolerance: -1}\n",
			wantErr: "tolerance must be non-negative",
		},
		{
			name:    "path for unknown state",
			yaml:    "name: s\nstates:\n  - name: a\npaths:\n  - {state: q, expect: [q]}\n",
			wantErr: `paths[0].state: unknown state "q"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildToken(t *testing.T) {
	reg := ir.DefaultRegistry()
	imp := 2.5

	tok, err := buildToken(&TokenSpec{
		Name: "app",
		Children: []TokenSpec{
			{Name: "chart", Category: "visual", Importance: &imp, Value: "bar"},
			{Name: "filter", Category: "data"},
			{Name: "empty", Group: true},
		},
	}, reg)
	require.NoError(t, err)

	want := ir.Group("app",
		ir.Leaf("chart", ir.CategoryVisual, 2.5, "bar"),
		ir.Leaf("filter", ir.CategoryData, 1, ""),
		ir.Group("empty"),
	)
	assert.True(t, want.Equal(tok))
	assert.False(t, tok.Find("empty").IsLeaf())
}

func TestBuildToken_Errors(t *testing.T) {
	reg := ir.DefaultRegistry()

	_, err := buildToken(&TokenSpec{
		Name:     "app",
		Children: []TokenSpec{{Name: "x", Category: "nope"}},
	}, reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `app/token "x": unknown category "nope"`)

	_, err = buildToken(&TokenSpec{
		Name:     "app",
		Value:    "v",
		Children: []TokenSpec{{Name: "x", Category: "data"}},
	}, reg)
	assert.ErrorIs(t, err, ir.ErrInteriorAttributes)

	tok, err := buildToken(nil, reg)
	require.NoError(t, err)
	assert.Nil(t, tok)
}
