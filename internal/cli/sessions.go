package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/provsim/internal/store"
)

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions",
		Long: `List the sessions stored in the database, oldest first.

Example:
  provsim sessions --db ./sessions.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessions(rootOpts, cmd)
		},
	}
}

func runSessions(opts *RootOptions, cmd *cobra.Command) error {
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

	sessions, err := st.ListSessions(cmd.Context())
	if err != nil {
		return f.Fail(WrapExitError(ExitCommandError, "failed to list sessions", err).withErrCode(ErrCodeStore))
	}
	if sessions == nil {
		sessions = []store.SessionInfo{}
	}

	return f.Success(sessions, func(w io.Writer) {
		if len(sessions) == 0 {
			fmt.Fprintln(w, "No sessions found.")
			return
		}
		rows := make([][]string, len(sessions))
		for i, s := range sessions {
			rows[i] = []string{strconv.FormatInt(s.Seq, 10), s.ID, s.Name, strconv.Itoa(s.NodeCount)}
		}
		writeTable(w, []string{"SEQ", "ID", "NAME", "NODES"}, rows)
	})
}
