package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/provsim/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "missing"
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// Golden file states reported per scenario.
const (
	goldenMatch   = "match"
	goldenUpdated = "updated"
	goldenMissing = "missing"
)

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run similarity scenarios",
		Long: `Run every scenario file in a directory.

Each scenario builds its provenance graph in a fresh in-memory store,
runs its comparisons and path checks, and evaluates its expectations.
When <scenarios-dir>/golden/<name>.golden exists, the canonical snapshot
of the comparisons must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  provsim test ./scenarios
  provsim test ./scenarios --filter "chart-*"
  provsim test ./scenarios --update
  provsim test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	info, err := os.Stat(scenariosDir)
	if err != nil || !info.IsDir() {
		return f.Fail(NewExitError(ExitCommandError,
			fmt.Sprintf("scenarios directory not found: %s", scenariosDir)).withErrCode(ErrCodeNotFound))
	}

	files, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return f.Fail(WrapExitError(ExitCommandError, "failed to find scenarios", err).withErrCode(ErrCodeScenario))
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	for _, file := range files {
		sr := runScenario(cmd, file, opts.Update)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Scenarios = append(result.Scenarios, sr)
		opts.log().Debug("scenario finished", "scenario", sr.Name, "pass", sr.Pass)
	}

	if result.Failed == 0 {
		return f.Success(result, func(w io.Writer) { writeTestText(w, result) })
	}

	// Failures keep the full result as data under an error status.
	if opts.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(CLIResponse{Status: "error", Data: result}); err != nil {
			return err
		}
	} else {
		writeTestText(f.Writer, result)
	}
	return NewExitError(ExitFailure,
		fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total)).withErrCode(ErrCodeTestFailed)
}

// findScenarioFiles returns the YAML files directly under dir whose base
// name matches filter.
func findScenarioFiles(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			if ok, _ := filepath.Match(filter, strings.TrimSuffix(e.Name(), ext)); !ok {
				continue
			}
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// runScenario loads, runs and golden-checks one scenario file.
func runScenario(cmd *cobra.Command, file string, update bool) ScenarioResult {
	sr := ScenarioResult{Name: filepath.Base(file), File: file}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("load: %v", err)}
		return sr
	}
	sr.Name = scenario.Name

	result, err := harness.RunContext(cmd.Context(), scenario)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("run: %v", err)}
		return sr
	}
	sr.Errors = result.Errors

	state, err := checkGolden(file, scenario.Name, result, update)
	if err != nil {
		sr.Errors = append(sr.Errors, err.Error())
		return sr
	}
	sr.Golden = state
	sr.Pass = result.Pass
	return sr
}

// checkGolden compares the result snapshot with the scenario's golden
// file, or rewrites it when update is set.
func checkGolden(file, name string, result *harness.Result, update bool) (string, error) {
	path := goldenFilePath(file)

	data, err := harness.SnapshotJSON(name, result)
	if err != nil {
		return "", err
	}

	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write golden file: %w", err)
		}
		return goldenUpdated, nil
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return goldenMissing, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read golden file: %w", err)
	}
	if !bytes.Equal(want, data) {
		return "", fmt.Errorf("golden file mismatch: %s (run with --update to regenerate)", path)
	}
	return goldenMatch, nil
}

// goldenFilePath returns <dir>/golden/<base>.golden for a scenario file.
func goldenFilePath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

func writeTestText(w io.Writer, result TestResult) {
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}

	st := stylesFor(w)
	for _, sr := range result.Scenarios {
		line := fmt.Sprintf("%s %s", st.mark(sr.Pass), sr.Name)
		if sr.Golden == goldenUpdated {
			line += st.Muted.Render(" (golden updated)")
		}
		fmt.Fprintln(w, line)
		for _, e := range sr.Errors {
			for _, l := range strings.Split(e, "\n") {
				fmt.Fprintf(w, "  %s\n", l)
			}
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
}
