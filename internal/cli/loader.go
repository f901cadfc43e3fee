package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/provsim/internal/compiler"
	"github.com/roach88/provsim/internal/harness"
	"github.com/roach88/provsim/internal/ir"
	"github.com/roach88/provsim/internal/provenance"
	"github.com/roach88/provsim/internal/store"
)

// Error code constants - unified across all CLI commands. Registry
// validation failures carry the compiler's E2xx codes in their details.
const (
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeNotFound   = "E005" // File, session or state not found
	ErrCodeRegistry   = "E006" // Category registry failed to compile or validate
	ErrCodeScenario   = "E007" // Scenario failed to load or run
	ErrCodeStore      = "E008" // Database error
	ErrCodeTestFailed = "E_TEST_FAILED"
)

// loadRegistry returns the registry named by --categories, or the
// built-in registry.
func loadRegistry(opts *RootOptions) (*ir.Registry, error) {
	if opts.Categories == "" {
		return ir.DefaultRegistry(), nil
	}
	if _, err := os.Stat(opts.Categories); err != nil {
		return nil, WrapExitError(ExitCommandError, "registry file not found", err).withErrCode(ErrCodeNotFound)
	}
	reg, err := compiler.LoadRegistryFile(opts.Categories)
	if err != nil {
		exitErr := WrapExitError(ExitFailure, "invalid category registry", err).withErrCode(ErrCodeRegistry)
		if verrs := compiler.ValidationErrors(err); len(verrs) > 0 {
			exitErr = exitErr.withDetails(verrs)
		}
		return nil, exitErr
	}
	return reg, nil
}

// openStore opens the --db database. Read-only commands pass mustExist so
// a mistyped path is reported instead of silently creating a database.
func openStore(opts *RootOptions, mustExist bool) (*store.Store, error) {
	if opts.DB == "" {
		return nil, NewExitError(ExitCommandError, "--db is required").withErrCode(ErrCodeNotFound)
	}
	if mustExist {
		if _, err := os.Stat(opts.DB); err != nil {
			return nil, WrapExitError(ExitCommandError, "database not found", err).withErrCode(ErrCodeNotFound)
		}
	}
	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err).withErrCode(ErrCodeStore)
	}
	return st, nil
}

// loadSession restores a stored session.
func loadSession(ctx context.Context, st *store.Store, id string) (*store.Session, error) {
	sess, err := st.LoadGraph(ctx, id)
	if errors.Is(err, store.ErrSessionNotFound) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", id)).withErrCode(ErrCodeNotFound)
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load session", err).withErrCode(ErrCodeStore)
	}
	return sess, nil
}

// lookupState finds a state by name in a restored session.
func lookupState(sess *store.Session, name string) (*provenance.State, error) {
	s, ok := sess.Graph.StateByName(name)
	if !ok {
		return nil, NewExitError(ExitCommandError,
			fmt.Sprintf("state %q not found in session %s", name, sess.ID)).withErrCode(ErrCodeNotFound)
	}
	return s, nil
}

// loadScenarioFile loads a scenario YAML file.
func loadScenarioFile(path string) (*harness.Scenario, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "scenario file not found", err).withErrCode(ErrCodeNotFound)
	}
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load scenario", err).withErrCode(ErrCodeScenario)
	}
	return scenario, nil
}
