// Package runopts holds the flags shared by the commands that run the
// import pipeline and turns them into pipeline options.
package runopts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/importsmoke/coderoot"
	"github.com/LegacyCodeHQ/importsmoke/config"
	"github.com/LegacyCodeHQ/importsmoke/imports"
	"github.com/LegacyCodeHQ/importsmoke/imports/treesitter"
	"github.com/LegacyCodeHQ/importsmoke/pipeline"
	"github.com/LegacyCodeHQ/importsmoke/vcs/git"
)

// Flags are the command-line settings common to every pipeline command.
type Flags struct {
	RepoPath   string
	ConfigPath string
	ImportsOut string
	TestOut    string
	Parser     string
	Ignore     []string
}

// Register adds the shared flags to cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.RepoPath, "repo", "r", "", "Repository root (default: git top-level of the current directory)")
	cmd.Flags().StringVar(&f.ConfigPath, "config", "", "Config file (default: .importsmoke.yaml in the repository root or $HOME)")
	cmd.Flags().StringVar(&f.ImportsOut, "imports-out", "", "Path of the import list (default: "+config.DefaultImportsPath+")")
	cmd.Flags().StringVar(&f.TestOut, "test-out", "", "Path of the generated test module (default: "+config.DefaultTestPath+")")
	cmd.Flags().StringVar(&f.Parser, "parser", "", fmt.Sprintf("Import recognizer (%s, %s)", config.ParserScanner, config.ParserTreeSitter))
	cmd.Flags().StringSliceVar(&f.Ignore, "ignore", nil, "Additional directory names to skip (comma-separated)")
}

// Options resolves the repository root, loads configuration and applies
// flag overrides.
func (f *Flags) Options() (pipeline.Options, error) {
	repoRoot, err := f.repoRoot()
	if err != nil {
		return pipeline.Options{}, err
	}

	cfg, err := config.Load(f.ConfigPath, repoRoot)
	if err != nil {
		return pipeline.Options{}, err
	}
	if f.ImportsOut != "" {
		cfg.Output.Imports = f.ImportsOut
	}
	if f.TestOut != "" {
		cfg.Output.Test = f.TestOut
	}
	if f.Parser != "" {
		cfg.Parser = f.Parser
	}
	if err := cfg.Validate(); err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		RepoRoot:     repoRoot,
		ImportsPath:  cfg.Output.Imports,
		TestPath:     cfg.Output.Test,
		Ignore:       coderoot.DefaultIgnore().With(cfg.Discovery.Ignore...).With(f.Ignore...),
		SourcePrefix: cfg.Discovery.SourcePrefix,
		Recognizer:   NewRecognizer(cfg.Parser),
	}, nil
}

func (f *Flags) repoRoot() (string, error) {
	repoPath := f.RepoPath
	if repoPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		repoPath = cwd
		if root, err := git.GetRepositoryRoot(cwd); err == nil {
			repoPath = root
		}
	}

	absRepoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve repo path: %w", err)
	}
	info, err := os.Stat(absRepoPath)
	if err != nil {
		return "", fmt.Errorf("repository path does not exist: %s", repoPath)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("repository path is not a directory: %s", repoPath)
	}
	return absRepoPath, nil
}

// NewRecognizer returns the recognizer for a validated parser name.
func NewRecognizer(parser string) imports.Recognizer {
	if parser == config.ParserTreeSitter {
		return treesitter.New()
	}
	return imports.ScannerRecognizer{}
}

// Rel renders path relative to the repository root when possible.
func Rel(repoRoot, path string) string {
	if rel, err := filepath.Rel(repoRoot, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
