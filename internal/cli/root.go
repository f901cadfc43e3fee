package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/provsim/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	DB         string // SQLite session database
	Categories string // CUE category registry; empty means built-in

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the provsim CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "provsim",
		Short: "provsim - exploration provenance similarity",
		Long: `Record exploration sessions as provenance graphs and compare their states.

States are matched token tree against token tree, scored per category,
and summarized as a weighted similarity, a lineup and a diff distance.`,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.logger = logging.NewWriter(cmd.ErrOrStderr(), logging.Level(opts.Verbose))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "provsim.db", "path to SQLite session database")
	cmd.PersistentFlags().StringVar(&opts.Categories, "categories", "", "CUE category registry file (default: built-in)")

	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewSessionsCommand(opts))
	cmd.AddCommand(NewCompareCommand(opts))
	cmd.AddCommand(NewLineupCommand(opts))
	cmd.AddCommand(NewPathCommand(opts))
	cmd.AddCommand(NewTwinsCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// log returns the logger bound by the root command, or a no-op logger
// before it runs.
func (o *RootOptions) log() *slog.Logger {
	if o.logger == nil {
		return logging.NewNop()
	}
	return o.logger
}

// newFormatter builds the formatter for a command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
