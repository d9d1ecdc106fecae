// Package pipeline wires extraction, discovery and generation into one run.
package pipeline

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/LegacyCodeHQ/importsmoke/artifact"
	"github.com/LegacyCodeHQ/importsmoke/coderoot"
	"github.com/LegacyCodeHQ/importsmoke/generator"
	"github.com/LegacyCodeHQ/importsmoke/imports"
	"github.com/LegacyCodeHQ/importsmoke/provenance"
	"github.com/LegacyCodeHQ/importsmoke/source"
	"github.com/LegacyCodeHQ/importsmoke/starimport"
)

// Options configures a run. RepoRoot must be absolute; ImportsPath and
// TestPath are resolved against it when relative.
type Options struct {
	RepoRoot     string
	ImportsPath  string
	TestPath     string
	Ignore       coderoot.IgnoreSet
	SourcePrefix string
	Recognizer   imports.Recognizer
}

// ImportsFile returns the absolute path of the import list.
func (o Options) ImportsFile() string {
	return o.resolve(o.ImportsPath)
}

// TestFile returns the absolute path of the generated test module.
func (o Options) TestFile() string {
	return o.resolve(o.TestPath)
}

func (o Options) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(o.RepoRoot, path)
}

func (o Options) recognizer() imports.Recognizer {
	if o.Recognizer == nil {
		return imports.ScannerRecognizer{}
	}
	return o.Recognizer
}

// Extraction is the outcome of scanning the repository for imports.
type Extraction struct {
	Imports    []string
	Files      int
	Provenance *provenance.Graph
}

// StarImport pairs a star import line with its local resolution.
type StarImport struct {
	Line       string
	Resolution starimport.Resolution
}

// Result summarizes a full run.
type Result struct {
	Extraction
	Roots       []coderoot.Root
	Stars       []StarImport
	ImportsFile string
	TestFile    string
}

// Extract scans every source file below the repository root and returns the
// deduplicated, sorted import lines. The tool's own artifacts are skipped so
// repeated runs see the same input.
func Extract(fs afero.Fs, opts Options) (*Extraction, error) {
	provider := source.NewProvider(fs, opts.RepoRoot, opts.Ignore, opts.ImportsFile(), opts.TestFile())
	paths, err := provider.Paths()
	if err != nil {
		return nil, err
	}

	set := imports.NewSet()
	graph := provenance.New()
	files := 0
	rec := opts.recognizer()

	for file := range provider.Files(paths) {
		files++
		for line := range imports.Lines(rec, file.Text) {
			set.Add(line)
			if err := graph.Record(file.Path, line); err != nil {
				return nil, fmt.Errorf("failed to record provenance for %s: %w", file.Path, err)
			}
		}
	}

	return &Extraction{Imports: set.Sorted(), Files: files, Provenance: graph}, nil
}

// ResolveStars resolves every star import line against roots. Modules that
// are not found locally are logged; they are skipped by the generated test.
func ResolveStars(fs afero.Fs, lines []string, roots []coderoot.Root, prefix string) []StarImport {
	var stars []StarImport
	for _, line := range lines {
		ref, ok := starimport.ParseStar(line)
		if !ok {
			continue
		}
		res := starimport.Resolve(fs, ref, roots, prefix)
		if res.Outcome == starimport.NotLocal {
			slog.Info("star import has no local module; it will be skipped", "module", ref.Name)
		} else {
			slog.Debug("star import resolved locally", "module", res.Module, "path", res.Path)
		}
		stars = append(stars, StarImport{Line: line, Resolution: res})
	}
	return stars
}

// Run extracts imports, writes the import list, reads it back and writes
// the generated test module. Both artifacts are rewritten in full.
func Run(fs afero.Fs, opts Options) (*Result, error) {
	extraction, err := Extract(fs, opts)
	if err != nil {
		return nil, err
	}

	importsFile := opts.ImportsFile()
	if err := artifact.WriteImports(fs, importsFile, extraction.Imports); err != nil {
		return nil, err
	}
	lines, err := artifact.ReadImports(fs, importsFile)
	if err != nil {
		return nil, err
	}
	slog.Debug("wrote import list", "path", importsFile, "imports", len(lines))

	roots := coderoot.Discover(fs, opts.RepoRoot, opts.Ignore)
	stars := ResolveStars(fs, lines, roots, opts.SourcePrefix)

	testFile := opts.TestFile()
	repoRootRel, err := filepath.Rel(filepath.Dir(testFile), opts.RepoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to relate %s to repository root: %w", testFile, err)
	}

	var buf bytes.Buffer
	err = generator.Generate(&buf, generator.Input{
		Imports:      lines,
		RepoRootRel:  filepath.ToSlash(repoRootRel),
		Ignore:       opts.Ignore.Names(),
		SourcePrefix: opts.SourcePrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate test module: %w", err)
	}
	if err := artifact.Write(fs, testFile, buf.Bytes()); err != nil {
		return nil, err
	}
	slog.Debug("wrote test module", "path", testFile)

	return &Result{
		Extraction:  Extraction{Imports: lines, Files: extraction.Files, Provenance: extraction.Provenance},
		Roots:       roots,
		Stars:       stars,
		ImportsFile: importsFile,
		TestFile:    testFile,
	}, nil
}
