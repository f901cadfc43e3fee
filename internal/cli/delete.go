package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/provsim/internal/store"
)

// DeleteResult names a removed session.
type DeleteResult struct {
	SessionID string `json:"session_id"`
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session>",
		Short: "Delete a stored session",
		Long: `Delete a session with its states, actions, objects and token trees.

Example:
  provsim delete --db ./sessions.db session-id`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args[0], cmd)
		},
	}
}

func runDelete(opts *RootOptions, sessionID string, cmd *cobra.Command) error {
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

	if err := st.DeleteSession(cmd.Context(), sessionID); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return f.Fail(NewExitError(ExitCommandError,
				fmt.Sprintf("session not found: %s", sessionID)).withErrCode(ErrCodeNotFound))
		}
		return f.Fail(WrapExitError(ExitCommandError, "failed to delete session", err).withErrCode(ErrCodeStore))
	}
	opts.log().Info("session deleted", "session", sessionID)

	return f.Success(DeleteResult{SessionID: sessionID}, func(w io.Writer) {
		fmt.Fprintf(w, "Deleted session %s\n", sessionID)
	})
}
