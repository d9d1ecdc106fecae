package generate

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/importsmoke/cmd/runopts"
	"github.com/LegacyCodeHQ/importsmoke/pipeline"
	"github.com/LegacyCodeHQ/importsmoke/starimport"
)

// Cmd represents the generate command.
var Cmd = NewCommand()

// NewCommand returns a new generate command instance.
func NewCommand() *cobra.Command {
	flags := &runopts.Flags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Collect every import and write the import smoke test.",
		Long: `Scan Python scripts and notebooks for import statements, write the sorted
import list, and generate a pytest module that executes every import.

Both files are rewritten on every run. The exit status only reports whether
generation succeeded; run the generated module with pytest to check imports.

Examples:
  importsmoke generate
  importsmoke generate -r ./project
  importsmoke generate --test-out ci/test_imports.py --ignore scratch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.Options()
			if err != nil {
				return err
			}

			result, err := pipeline.Run(afero.NewOsFs(), opts)
			if err != nil {
				return fmt.Errorf("failed to generate import test: %w", err)
			}

			return PrintSummary(cmd.OutOrStdout(), opts.RepoRoot, result)
		},
	}

	flags.Register(cmd)

	return cmd
}

// PrintSummary reports what a pipeline run wrote.
func PrintSummary(w io.Writer, repoRoot string, result *pipeline.Result) error {
	if _, err := fmt.Fprintf(w, "Scanned %d files, found %d unique imports\n", result.Files, len(result.Imports)); err != nil {
		return err
	}

	for _, star := range result.Stars {
		if star.Resolution.Outcome != starimport.NotLocal {
			continue
		}
		if _, err := color.New(color.FgYellow).Fprintf(w, "Skipping star import of non-local module %s\n", star.Resolution.Module); err != nil {
			return err
		}
	}

	green := color.New(color.FgGreen)
	if _, err := green.Fprintf(w, "Wrote %s\n", runopts.Rel(repoRoot, result.ImportsFile)); err != nil {
		return err
	}
	_, err := green.Fprintf(w, "Wrote %s\n", runopts.Rel(repoRoot, result.TestFile))
	return err
}
