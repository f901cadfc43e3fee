package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/provsim/internal/ir"
)

// CategoriesResult is the categories command output.
type CategoriesResult struct {
	Source     string        `json:"source"` // registry file, or "built-in"
	Hash       string        `json:"hash"`
	Categories []ir.Category `json:"categories"`
}

// NewCategoriesCommand creates the categories command.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show the category registry",
		Long: `Compile and validate the category registry, then print its categories,
weights and content hash.

Without --categories the built-in registry is shown. A registry that fails
validation exits 1 and lists every violation.

Example:
  provsim categories --categories ./weights.cue`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCategories(rootOpts, cmd)
		},
	}
}

func runCategories(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	reg, err := loadRegistry(opts)
	if err != nil {
		return f.Fail(err)
	}
	hash, err := ir.RegistryHash(reg)
	if err != nil {
		return f.Fail(WrapExitError(ExitFailure, "failed to hash registry", err).withErrCode(ErrCodeRegistry))
	}

	result := CategoriesResult{
		Source:     opts.Categories,
		Hash:       hash,
		Categories: reg.Categories(),
	}
	if result.Source == "" {
		result.Source = "built-in"
	}

	return f.Success(result, func(w io.Writer) {
		st := stylesFor(w)
		fmt.Fprintf(w, "%s %s\n", st.Title.Render("Registry"), result.Source)
		rows := make([][]string, len(result.Categories))
		for i, c := range result.Categories {
			rows[i] = []string{fmt.Sprint(i), c.ID, fmt.Sprintf("%g", c.Weight)}
		}
		writeTable(w, []string{"#", "CATEGORY", "WEIGHT"}, rows)
		fmt.Fprintf(w, "%s\n", st.Muted.Render("hash "+result.Hash))
	})
}
