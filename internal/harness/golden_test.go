package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/provsim/internal/ir"
)

func TestRunWithGolden_ChartSwap(t *testing.T) {
	// Regenerate with:
	//   go test ./internal/harness -run TestRunWithGolden_ChartSwap -update
	result, err := RunWithGolden(t, loadTestScenario(t, "chart_swap"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestSnapshot_CanonicalMap(t *testing.T) {
	result, err := Run(loadTestScenario(t, "chart_swap"))
	require.NoError(t, err)

	snap := Snapshot{ScenarioName: "chart_swap", Comparisons: result.Comparisons}
	m := snap.toCanonicalMap()

	assert.Equal(t, "chart_swap", m["scenario_name"])
	comparisons := m["comparisons"].([]any)
	require.Len(t, comparisons, 1)
	c := comparisons[0].(map[string]any)
	assert.Equal(t, "bar", c["left"])
	assert.Equal(t, 2, c["distance"])

	first, err := ir.MarshalCanonical(m)
	require.NoError(t, err)
	second, err := ir.MarshalCanonical(snap.toCanonicalMap())
	require.NoError(t, err)
	assert.Equal(t, first, second, "snapshot encoding is deterministic")
}
