package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/provsim/internal/ir"
	"github.com/roach88/provsim/internal/match"
	"github.com/roach88/provsim/internal/provenance"
	"github.com/roach88/provsim/internal/store"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	Tree bool // include the matched tree
}

// CategoryScore is one category's similarity.
type CategoryScore struct {
	ID         string  `json:"id"`
	Weight     float64 `json:"weight"`
	Similarity float64 `json:"similarity"`
}

// CompareResult is the outcome of comparing two states.
type CompareResult struct {
	SessionID   string          `json:"session_id"`
	Left        string          `json:"left"`
	Right       string          `json:"right"`
	Similarity  float64         `json:"similarity"`
	PerCategory []CategoryScore `json:"per_category"`
	Distance    int             `json:"distance"`
	Leaves      match.Counts    `json:"leaves"`
	Matched     map[string]any  `json:"matched,omitempty"`
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare <session> <left-state> <right-state>",
		Short: "Compare two states of a stored session",
		Long: `Match the token trees of two states and report their similarity.

Output includes the weighted similarity, the per-category similarity,
the structural diff distance and how many leaves were paired or found
on one side only.

Examples:
  provsim compare --db ./sessions.db session-id start bars
  provsim compare --db ./sessions.db session-id start bars --tree --format json
  provsim compare --db ./sessions.db --categories weights.cue session-id start bars`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Tree, "tree", false, "include the matched tree (json only)")

	return cmd
}

func runCompare(opts *CompareOptions, sessionID, left, right string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	m, err := matchStates(cmd.Context(), opts.RootOptions, sessionID, left, right)
	if err != nil {
		return f.Fail(err)
	}

	distance, err := m.left.SimilarityTo(m.right)
	if err != nil {
		return f.Fail(WrapExitError(ExitCommandError, "failed to diff states", err))
	}

	reg := m.tree.Registry()
	sims := m.tree.SimilarityPerCategory()
	result := CompareResult{
		SessionID:   sessionID,
		Left:        left,
		Right:       right,
		Similarity:  m.tree.Similarity(),
		PerCategory: make([]CategoryScore, reg.Len()),
		Distance:    distance,
		Leaves:      m.tree.Count(true),
	}
	for i, c := range reg.Categories() {
		result.PerCategory[i] = CategoryScore{ID: c.ID, Weight: c.Weight, Similarity: sims[i]}
	}
	if opts.Tree {
		result.Matched = m.tree.Snapshot()
	}

	return f.Success(result, func(w io.Writer) {
		s := stylesFor(w)
		fmt.Fprintln(w, s.Title.Render(fmt.Sprintf("%s vs %s", left, right))+
			s.Muted.Render(fmt.Sprintf(" (session %s)", sessionID)))
		fmt.Fprintf(w, "similarity  %s\n", formatScore(result.Similarity))
		fmt.Fprintf(w, "distance    %d\n", result.Distance)
		fmt.Fprintf(w, "leaves      %d paired, %d left-only, %d right-only\n",
			result.Leaves.Paired, result.Leaves.LeftOnly, result.Leaves.RightOnly)

		rows := make([][]string, len(result.PerCategory))
		for i, c := range result.PerCategory {
			rows[i] = []string{c.ID, strconv.FormatFloat(c.Weight, 'g', -1, 64), formatScore(c.Similarity)}
		}
		writeTable(w, []string{"CATEGORY", "WEIGHT", "SIMILARITY"}, rows)
	})
}

// matched is a comparison of two restored states.
type matched struct {
	left, right *provenance.State
	tree        *match.Tree
}

// matchStates loads a session and matches two of its states under the
// --categories registry.
func matchStates(ctx context.Context, opts *RootOptions, sessionID, left, right string) (*matched, error) {
	reg, err := loadRegistry(opts)
	if err != nil {
		return nil, err
	}

	st, err := openStore(opts, true)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			opts.log().Error("error closing database", "error", closeErr)
		}
	}()

	sess, err := loadSession(ctx, st, sessionID)
	if err != nil {
		return nil, err
	}
	warnRegistryMismatch(opts.log(), sess, reg)

	l, err := lookupState(sess, left)
	if err != nil {
		return nil, err
	}
	r, err := lookupState(sess, right)
	if err != nil {
		return nil, err
	}

	tree, err := match.FromStates(ctx, l, r, reg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to match states", err).withErrCode(ErrCodeRegistry)
	}
	return &matched{left: l, right: r, tree: tree}, nil
}

// warnRegistryMismatch logs when a session was recorded under a different
// registry than the one used to compare it.
func warnRegistryMismatch(log *slog.Logger, sess *store.Session, reg *ir.Registry) {
	if sess.RegistryHash == "" {
		return
	}
	hash, err := ir.RegistryHash(reg)
	if err != nil || hash == sess.RegistryHash {
		return
	}
	log.Warn("session was recorded with a different category registry",
		"session", sess.ID,
	)
}
