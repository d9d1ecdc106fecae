package why

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/importsmoke/cmd/runopts"
	"github.com/LegacyCodeHQ/importsmoke/pipeline"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// origin is one import line and the files it was found in.
type origin struct {
	Line  string   `json:"line"`
	Files []string `json:"files"`
}

// Cmd represents the why command.
var Cmd = NewCommand()

// NewCommand returns a new why command instance.
func NewCommand() *cobra.Command {
	flags := &runopts.Flags{}
	format := formatText

	cmd := &cobra.Command{
		Use:   "why <module>",
		Short: "Show which files contribute imports of a module.",
		Long: `Show every normalized import line that targets the module or one of its
submodules, and the scripts and notebooks each line was found in.

Examples:
  importsmoke why pandas
  importsmoke why src.data_cleaning --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatJSON {
				return fmt.Errorf("unknown format: %s (valid options: %s, %s)", format, formatText, formatJSON)
			}

			opts, err := flags.Options()
			if err != nil {
				return err
			}

			origins, err := findOrigins(afero.NewOsFs(), opts, args[0])
			if err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), origins)
			}
			return writeText(cmd.OutOrStdout(), args[0], origins)
		},
	}

	flags.Register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", format, fmt.Sprintf("Output format (%s, %s)", formatText, formatJSON))

	return cmd
}

func findOrigins(fs afero.Fs, opts pipeline.Options, module string) ([]origin, error) {
	extraction, err := pipeline.Extract(fs, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to extract imports: %w", err)
	}

	lines, err := extraction.Provenance.LinesFor(strings.TrimSpace(module))
	if err != nil {
		return nil, err
	}

	origins := make([]origin, 0, len(lines))
	for _, line := range lines {
		files, err := extraction.Provenance.Sources(line)
		if err != nil {
			return nil, err
		}
		for i, file := range files {
			files[i] = runopts.Rel(opts.RepoRoot, file)
		}
		origins = append(origins, origin{Line: line, Files: files})
	}
	return origins, nil
}

func writeText(w io.Writer, module string, origins []origin) error {
	if len(origins) == 0 {
		_, err := fmt.Fprintf(w, "No imports of %s found\n", module)
		return err
	}

	var b strings.Builder
	for i, o := range origins {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(o.Line)
		b.WriteString("\n")
		for _, file := range o.Files {
			b.WriteString("  ")
			b.WriteString(file)
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, origins []origin) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(origins)
}
