package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/importsmoke/cmd/generate"
	"github.com/LegacyCodeHQ/importsmoke/cmd/runopts"
	"github.com/LegacyCodeHQ/importsmoke/pipeline"
)

// Cmd represents the watch command.
var Cmd = NewCommand()

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	flags := &runopts.Flags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the import smoke test whenever scripts or notebooks change",
		Long: `Generate the import list and test module, then watch the repository and
regenerate both after Python scripts or notebooks change or HEAD moves.

The generated artifacts themselves never trigger a regeneration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.Options()
			if err != nil {
				return err
			}
			return runWatch(cmd, opts)
		},
	}

	flags.Register(cmd)

	return cmd
}

func runWatch(cmd *cobra.Command, opts pipeline.Options) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	regenerate := newRegenerator(afero.NewOsFs(), opts, cmd.OutOrStdout())
	if err := regenerate(); err != nil {
		return fmt.Errorf("initial generation failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", opts.RepoRoot)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	t := newTrigger(opts.Ignore, opts.ImportsFile(), opts.TestFile())
	return watchAndRegenerate(ctx, opts.RepoRoot, t, func() {
		if err := regenerate(); err != nil {
			slog.Error("regeneration failed", "error", err)
		}
	})
}

// newRegenerator returns a function that runs the pipeline and prints its
// summary. Calls are serialized.
func newRegenerator(fs afero.Fs, opts pipeline.Options, w io.Writer) func() error {
	var mu sync.Mutex
	return func() error {
		mu.Lock()
		defer mu.Unlock()

		result, err := pipeline.Run(fs, opts)
		if err != nil {
			return err
		}
		return generate.PrintSummary(w, opts.RepoRoot, result)
	}
}
