package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/provsim/internal/ir"
)

// Snapshot captures the comparisons of a scenario execution, including
// every matched tree, in canonical JSON form.
type Snapshot struct {
	ScenarioName string
	Comparisons  []ComparisonResult
}

// toCanonicalMap converts a Snapshot to the generic form accepted by
// ir.MarshalCanonical.
func (s *Snapshot) toCanonicalMap() map[string]any {
	comparisons := make([]any, len(s.Comparisons))
	for i, c := range s.Comparisons {
		perCat := make(map[string]any, len(c.PerCategory))
		for id, v := range c.PerCategory {
			perCat[id] = v
		}
		comparisons[i] = map[string]any{
			"left":         c.Left,
			"right":        c.Right,
			"similarity":   c.Similarity,
			"distance":     c.Distance,
			"per_category": perCat,
			"matched":      c.Matched,
		}
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"comparisons":   comparisons,
	}
}

// SnapshotJSON encodes the comparisons of a result as the canonical JSON
// stored in golden files.
func SnapshotJSON(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{
		ScenarioName: scenarioName,
		Comparisons:  result.Comparisons,
	}
	data, err := ir.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", scenarioName, err)
	}
	return data, nil
}

// RunWithGolden executes a scenario and compares its matched trees against
// a golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := SnapshotJSON(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
