package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// countryFilterYAML is a three-state session: one filter change, one
// undo, one chart change.
const countryFilterYAML = `name: country_filter
categories:
  - {id: data, weight: 60}
  - {id: visual, weight: 40}
states:
  - name: start
    tree:
      name: app
      children:
        - {name: age, category: data, value: "> 30"}
        - {name: country, category: data, value: DE}
        - {name: chart, category: visual, importance: 2, value: bar}
  - name: fr
    tree:
      name: app
      children:
        - {name: age, category: data, value: "> 30"}
        - {name: country, category: data, value: FR}
        - {name: chart, category: visual, importance: 2, value: bar}
  - name: line
    tree:
      name: app
      children:
        - {name: age, category: data, value: "> 30"}
        - {name: country, category: data, value: FR}
        - {name: chart, category: visual, importance: 2, value: line}
actions:
  - {name: load, to: start}
  - {name: filter country, from: start, to: fr}
  - {name: undo filter, from: fr, to: start, inverse: true}
  - {name: chart type, from: fr, to: line}
comparisons:
  - left: start
    right: fr
    expect:
      similarity: 0.7
      distance: 1
paths:
  - state: line
    expect: [start, fr, line]
`

// weightsCUE matches the inline categories of countryFilterYAML.
const weightsCUE = `categories: [
	{id: "data", weight: 60},
	{id: "visual", weight: 40},
]
`

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeData unmarshals the data field of a JSON CLIResponse into v and
// returns the response status.
func decodeData(t *testing.T, out string, v any) string {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	if v != nil {
		require.NoError(t, json.Unmarshal(resp.Data, v), out)
	}
	return resp.Status
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// fixture is an imported country_filter session.
type fixture struct {
	db         string
	categories string
	session    string
}

func importFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	scenario := writeFile(t, dir, "country_filter.yaml", countryFilterYAML)
	fx := fixture{
		db:         filepath.Join(dir, "sessions.db"),
		categories: writeFile(t, dir, "weights.cue", weightsCUE),
	}

	out, _, err := execute(t, "--db", fx.db, "--format", "json", "import", scenario)
	require.NoError(t, err, out)

	var res ImportResult
	require.Equal(t, "ok", decodeData(t, out, &res))
	fx.session = res.SessionID
	return fx
}

// run executes a subcommand against the fixture database and registry.
func (fx fixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return execute(t, append([]string{"--db", fx.db, "--categories", fx.categories}, args...)...)
}
