package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/provsim/internal/ir"
	"github.com/roach88/provsim/internal/store"
)

// TwinsResult lists states whose token tree is identical to one state's.
type TwinsResult struct {
	SessionID string           `json:"session_id"`
	State     string           `json:"state"`
	TreeHash  string           `json:"tree_hash"`
	Twins     []store.StateRef `json:"twins"`
}

// NewTwinsCommand creates the twins command.
func NewTwinsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "twins <session> <state>",
		Short: "Find states with an identical token tree",
		Long: `Find states, in any stored session, whose token tree has the same content
hash as the given state. The state itself is not listed.

Example:
  provsim twins --db ./sessions.db session-id picked`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTwins(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runTwins(opts *RootOptions, sessionID, name string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := cmd.Context()

	st, err := openStore(opts, true)
	if err != nil {
		return f.Fail(err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			opts.log().Error("error closing database", "error", closeErr)
		}
	}()

	sess, err := loadSession(ctx, st, sessionID)
	if err != nil {
		return f.Fail(err)
	}
	state, err := lookupState(sess, name)
	if err != nil {
		return f.Fail(err)
	}
	tree, err := state.TokenTree()
	if err != nil {
		return f.Fail(WrapExitError(ExitCommandError, fmt.Sprintf("failed to resolve state %q", name), err))
	}
	hash, err := ir.TreeHash(tree)
	if err != nil {
		return f.Fail(WrapExitError(ExitCommandError, "failed to hash token tree", err))
	}

	refs, err := st.StatesByTreeHash(ctx, hash)
	if err != nil {
		return f.Fail(WrapExitError(ExitCommandError, "failed to query states", err).withErrCode(ErrCodeStore))
	}
	result := TwinsResult{SessionID: sessionID, State: name, TreeHash: hash, Twins: []store.StateRef{}}
	for _, ref := range refs {
		if ref.SessionID == sessionID && ref.NodeID == int(state.ID()) {
			continue
		}
		result.Twins = append(result.Twins, ref)
	}

	return f.Success(result, func(w io.Writer) {
		if len(result.Twins) == 0 {
			fmt.Fprintf(w, "No states share the token tree of %s.\n", name)
			return
		}
		rows := make([][]string, len(result.Twins))
		for i, ref := range result.Twins {
			rows[i] = []string{ref.SessionID, strconv.Itoa(ref.NodeID), ref.Name}
		}
		writeTable(w, []string{"SESSION", "NODE", "STATE"}, rows)
	})
}
