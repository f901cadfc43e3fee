package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/provsim/internal/provenance"
)

// PathResult is the provenance of one state.
type PathResult struct {
	SessionID string   `json:"session_id"`
	State     string   `json:"state"`
	Path      []string `json:"path"`
	Next      []string `json:"next"`

	// LoopsBackTo names the state a looping creator chain returns to.
	// Path is truncated before it.
	LoopsBackTo string `json:"loops_back_to,omitempty"`
}

// NewPathCommand creates the path command.
func NewPathCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path <session> <state>",
		Short: "Show how a state was reached",
		Long: `Show the chain of states from the session root to the given state,
following each state's creating action back to the state it was taken
from. Inverse actions (undo) are not followed. The states reached by
actions taken from the state are listed as well.

Example:
  provsim path --db ./sessions.db session-id picked`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runPath(opts *RootOptions, sessionID, name string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	st, err := openStore(opts, true)
	if err != nil {
		return f.Fail(err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			opts.log().Error("error closing database", "error", closeErr)
		}
	}()

	sess, err := loadSession(cmd.Context(), st, sessionID)
	if err != nil {
		return f.Fail(err)
	}
	state, err := lookupState(sess, name)
	if err != nil {
		return f.Fail(err)
	}

	result := PathResult{SessionID: sessionID, State: name}
	path, err := state.CheckPath()
	var cycle *provenance.CycleError
	if errors.As(err, &cycle) {
		result.LoopsBackTo = cycle.Back
		opts.log().Warn("creator chain loops", "state", name, "back", cycle.Back)
	}
	result.Path = stateNames(path)
	result.Next = stateNames(state.NextStates())

	return f.Success(result, func(w io.Writer) {
		s := stylesFor(w)
		line := strings.Join(result.Path, " -> ")
		if result.LoopsBackTo != "" {
			line = s.Fail.Render("(loops to "+result.LoopsBackTo+") ") + line
		}
		fmt.Fprintln(w, line)
		if len(result.Next) > 0 {
			fmt.Fprintln(w, s.Muted.Render("next: "+strings.Join(result.Next, ", ")))
		}
	})
}

func stateNames(states []*provenance.State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = s.Name
	}
	return out
}
