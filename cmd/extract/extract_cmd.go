package extract

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/importsmoke/artifact"
	"github.com/LegacyCodeHQ/importsmoke/cmd/runopts"
	"github.com/LegacyCodeHQ/importsmoke/pipeline"
)

// Cmd represents the extract command.
var Cmd = NewCommand()

// NewCommand returns a new extract command instance.
func NewCommand() *cobra.Command {
	flags := &runopts.Flags{}
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Write the sorted, deduplicated import list without generating a test.",
		Long: `Scan Python scripts and notebooks and write one normalized import statement
per line, sorted and deduplicated. Comments, blank lines and multi-line
formatting are removed.

Examples:
  importsmoke extract
  importsmoke extract --stdout
  importsmoke extract --parser tree-sitter`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.Options()
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			extraction, err := pipeline.Extract(fs, opts)
			if err != nil {
				return fmt.Errorf("failed to extract imports: %w", err)
			}

			if toStdout {
				for _, line := range extraction.Imports {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
						return err
					}
				}
				return nil
			}

			if err := artifact.WriteImports(fs, opts.ImportsFile(), extraction.Imports); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d imports to %s\n", len(extraction.Imports), runopts.Rel(opts.RepoRoot, opts.ImportsFile()))
			return err
		},
	}

	flags.Register(cmd)
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the import list instead of writing it")

	return cmd
}
