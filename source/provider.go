// Package source walks a repository and hands over the text of every Python
// script and notebook it contains.
package source

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/LegacyCodeHQ/importsmoke/coderoot"
	"github.com/LegacyCodeHQ/importsmoke/vcs"
)

// NotebookExt is the extension of Jupyter notebook documents.
const NotebookExt = ".ipynb"

const utf8BOM = "\ufeff"

var errNotUTF8 = errors.New("content is not valid UTF-8")

// Kind distinguishes plain scripts from notebooks.
type Kind int

const (
	KindScript Kind = iota
	KindNotebook
)

func (k Kind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindNotebook:
		return "notebook"
	default:
		return "unknown"
	}
}

// KindOf classifies a path by extension.
func KindOf(path string) (Kind, bool) {
	switch filepath.Ext(path) {
	case coderoot.ScriptExt:
		return KindScript, true
	case NotebookExt:
		return KindNotebook, true
	}
	return 0, false
}

// File is one source document. For notebooks Text is the code cells joined
// in document order.
type File struct {
	Path string
	Kind Kind
	Text string
}

// Provider yields the source files below a repository root.
type Provider struct {
	fs      afero.Fs
	root    string
	ignore  coderoot.IgnoreSet
	exclude map[string]bool
	read    vcs.ContentReader
}

// NewProvider creates a Provider. Paths in exclude (typically the tool's own
// generated artifacts) are never yielded.
func NewProvider(fs afero.Fs, root string, ignore coderoot.IgnoreSet, exclude ...string) *Provider {
	excluded := make(map[string]bool, len(exclude))
	for _, path := range exclude {
		excluded[filepath.Clean(path)] = true
	}
	return &Provider{
		fs:      fs,
		root:    root,
		ignore:  ignore,
		exclude: excluded,
		read:    vcs.FilesystemContentReader(fs),
	}
}

// Paths returns the script and notebook paths below the root in lexical
// order, skipping ignored directories.
func (p *Provider) Paths() ([]string, error) {
	var paths []string
	err := afero.Walk(p.fs, p.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == p.root {
				return err
			}
			slog.Debug("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if info.IsDir() {
			if path != p.root && p.ignore.Ignored(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := KindOf(path); ok && !p.exclude[filepath.Clean(path)] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", p.root, err)
	}
	return paths, nil
}

// Files yields every readable source file. Files that cannot be read or
// decoded are logged and skipped.
func (p *Provider) Files(paths []string) iter.Seq[File] {
	return func(yield func(File) bool) {
		for _, path := range paths {
			file, err := p.load(path)
			if err != nil {
				slog.Warn("skipping source file", "path", path, "error", err)
				continue
			}
			if !yield(file) {
				return
			}
		}
	}
}

func (p *Provider) load(path string) (File, error) {
	kind, ok := KindOf(path)
	if !ok {
		return File{}, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	content, err := p.read(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var text string
	switch kind {
	case KindNotebook:
		text, err = NotebookCode(content)
		if err != nil {
			return File{}, fmt.Errorf("failed to decode notebook %s: %w", path, err)
		}
	default:
		if !utf8.Valid(content) {
			return File{}, errNotUTF8
		}
		text = strings.TrimPrefix(string(content), utf8BOM)
	}

	return File{Path: path, Kind: kind, Text: text}, nil
}
