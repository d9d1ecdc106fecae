package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/importsmoke/cmd/extract"
	"github.com/LegacyCodeHQ/importsmoke/cmd/generate"
	"github.com/LegacyCodeHQ/importsmoke/cmd/roots"
	"github.com/LegacyCodeHQ/importsmoke/cmd/watch"
	"github.com/LegacyCodeHQ/importsmoke/cmd/why"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// verbose enables debug logging on stderr
var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "importsmoke",
	Short: "Generate a smoke test that executes every import in a Python repository",
	Long: `importsmoke scans Python scripts and Jupyter notebooks for import
statements, writes a sorted, deduplicated list of them, and generates a
pytest module that executes each one. A missing dependency or a broken
module then fails a single fast test instead of a long-running job.

Use 'importsmoke --help' to see all available commands, or
'importsmoke <command> --help' for detailed information about a specific command.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(slog.New(newLogHandler(cmd.ErrOrStderr(), verbose)))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newLogHandler logs warnings and above unless verbose is set.
func newLogHandler(w io.Writer, verbose bool) slog.Handler {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

func init() {
	// Register subcommands
	rootCmd.AddCommand(generate.Cmd)
	rootCmd.AddCommand(extract.Cmd)
	rootCmd.AddCommand(roots.Cmd)
	rootCmd.AddCommand(why.Cmd)
	rootCmd.AddCommand(watch.Cmd)

	// Initialize annotations for version template
	if rootCmd.Annotations == nil {
		rootCmd.Annotations = make(map[string]string)
	}
	rootCmd.Annotations["buildDate"] = buildDate
	rootCmd.Annotations["commit"] = commit

	// Update version field dynamically (in case it was set via ldflags)
	rootCmd.Version = version

	// Customize version template to show additional build info
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress details to stderr")
}
