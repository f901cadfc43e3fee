package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/provsim/internal/match"
)

// LineupRow is one category's share of left-only, shared and right-only
// mass. The three values sum to 1 unless exactly one state is empty.
type LineupRow struct {
	ID     string  `json:"id"`
	Left   float64 `json:"left"`
	Shared float64 `json:"shared"`
	Right  float64 `json:"right"`
}

// LineupResult is the lineup of two states.
type LineupResult struct {
	SessionID  string      `json:"session_id"`
	Left       string      `json:"left"`
	Right      string      `json:"right"`
	Categories []LineupRow `json:"categories"`
}

// NewLineupCommand creates the lineup command.
func NewLineupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lineup <session> <left-state> <right-state>",
		Short: "Show per-category overlap of two states",
		Long: `Show, per category, which share of the two states' leaf mass is found
only on the left, shared, or only on the right.

Example:
  provsim lineup --db ./sessions.db session-id start bars`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineup(rootOpts, args[0], args[1], args[2], cmd)
		},
	}
}

func runLineup(opts *RootOptions, sessionID, left, right string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	m, err := matchStates(cmd.Context(), opts, sessionID, left, right)
	if err != nil {
		return f.Fail(err)
	}

	reg := m.tree.Registry()
	lineup := m.tree.SimilarityForLineup()
	result := LineupResult{
		SessionID:  sessionID,
		Left:       left,
		Right:      right,
		Categories: make([]LineupRow, reg.Len()),
	}
	for i := range result.Categories {
		result.Categories[i] = LineupRow{
			ID:     reg.ID(i),
			Left:   lineup[match.LineupLeft][i],
			Shared: lineup[match.LineupShared][i],
			Right:  lineup[match.LineupRight][i],
		}
	}

	return f.Success(result, func(w io.Writer) {
		rows := make([][]string, len(result.Categories))
		for i, c := range result.Categories {
			rows[i] = []string{c.ID, formatScore(c.Left), formatScore(c.Shared), formatScore(c.Right)}
		}
		writeTable(w, []string{"CATEGORY", left, "SHARED", right}, rows)
	})
}
