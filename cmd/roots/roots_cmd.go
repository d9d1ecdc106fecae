package roots

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/importsmoke/cmd/runopts"
	"github.com/LegacyCodeHQ/importsmoke/coderoot"
	"github.com/LegacyCodeHQ/importsmoke/pipeline"
	"github.com/LegacyCodeHQ/importsmoke/starimport"
)

// Cmd represents the roots command.
var Cmd = NewCommand()

// NewCommand returns a new roots command instance.
func NewCommand() *cobra.Command {
	flags := &runopts.Flags{}
	var showStars bool

	cmd := &cobra.Command{
		Use:   "roots",
		Short: "List the code roots the generated test adds to the import path.",
		Long: `List every first-level directory that contains a Python script below it,
ignoring hidden, build and environment directories.

With --stars, also scan for star imports and show where each one resolves.
Star imports of modules that are not found locally are skipped by the
generated test.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.Options()
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			roots := coderoot.Discover(fs, opts.RepoRoot, opts.Ignore)
			if err := printRoots(cmd.OutOrStdout(), roots); err != nil {
				return err
			}
			if !showStars {
				return nil
			}

			extraction, err := pipeline.Extract(fs, opts)
			if err != nil {
				return fmt.Errorf("failed to extract imports: %w", err)
			}
			stars := pipeline.ResolveStars(fs, extraction.Imports, roots, opts.SourcePrefix)
			return printStars(cmd.OutOrStdout(), opts.RepoRoot, stars)
		},
	}

	flags.Register(cmd)
	cmd.Flags().BoolVar(&showStars, "stars", false, "Also show how star imports resolve")

	return cmd
}

func printRoots(w io.Writer, roots []coderoot.Root) error {
	if len(roots) == 0 {
		_, err := fmt.Fprintln(w, "No code roots found")
		return err
	}
	for _, root := range roots {
		if _, err := fmt.Fprintln(w, root.Name()); err != nil {
			return err
		}
	}
	return nil
}

func printStars(w io.Writer, repoRoot string, stars []pipeline.StarImport) error {
	if len(stars) == 0 {
		_, err := fmt.Fprintln(w, "\nNo star imports found")
		return err
	}

	if _, err := fmt.Fprintln(w, "\nStar imports:"); err != nil {
		return err
	}
	for _, star := range stars {
		var err error
		if star.Resolution.Outcome == starimport.Found {
			_, err = color.New(color.FgGreen).Fprintf(w, "  %s -> %s\n", star.Line, runopts.Rel(repoRoot, star.Resolution.Path))
		} else {
			_, err = color.New(color.FgYellow).Fprintf(w, "  %s (%s, skipped)\n", star.Line, star.Resolution.Outcome)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
