// Package starimport decides whether the module of a `from X import *`
// statement is part of the project's own code.
package starimport

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/LegacyCodeHQ/importsmoke/coderoot"
)

// DefaultSourcePrefix is the conventional source-layout package segment.
const DefaultSourcePrefix = "src"

const packageInit = "__init__.py"

// ModuleRef is the dotted module name targeted by a star import.
type ModuleRef struct {
	Name string
}

// ParseStar extracts the module of a normalized `from X import *` line.
func ParseStar(line string) (ModuleRef, bool) {
	fields := strings.Fields(line)
	if len(fields) != 4 || fields[0] != "from" || fields[2] != "import" || fields[3] != "*" {
		return ModuleRef{}, false
	}
	return ModuleRef{Name: fields[1]}, true
}

// IsRelative reports whether the module is addressed relative to its package.
func (m ModuleRef) IsRelative() bool {
	return strings.HasPrefix(m.Name, ".")
}

// Candidates returns the literal name followed by the name with the source
// prefix removed when present, or added when absent. Relative modules have
// no candidates.
func (m ModuleRef) Candidates(prefix string) []string {
	if m.Name == "" || m.IsRelative() {
		return nil
	}
	if prefix == "" || m.Name == prefix {
		return []string{m.Name}
	}
	if rest, ok := strings.CutPrefix(m.Name, prefix+"."); ok {
		return []string{m.Name, rest}
	}
	return []string{m.Name, prefix + "." + m.Name}
}

// Outcome tags a Resolution.
type Outcome int

const (
	// NotLocal means no candidate exists under any code root.
	NotLocal Outcome = iota
	// Found means Module is importable from Root.
	Found
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NotLocal:
		return "not-local"
	default:
		return "unknown"
	}
}

// Resolution is the result of looking a star-imported module up locally.
type Resolution struct {
	Outcome Outcome
	Module  string
	Root    coderoot.Root
	Path    string
}

// Resolve checks every candidate spelling of ref under every root, in that
// order, and returns the first module, package or namespace directory that
// exists.
func Resolve(fs afero.Fs, ref ModuleRef, roots []coderoot.Root, prefix string) Resolution {
	for _, candidate := range ref.Candidates(prefix) {
		rel := filepath.Join(strings.Split(candidate, ".")...)
		for _, root := range roots {
			if path, ok := locate(fs, filepath.Join(root.Path, rel)); ok {
				return Resolution{Outcome: Found, Module: candidate, Root: root, Path: path}
			}
		}
	}
	return Resolution{Outcome: NotLocal, Module: ref.Name}
}

func locate(fs afero.Fs, base string) (string, bool) {
	if isFile(fs, base+coderoot.ScriptExt) {
		return base + coderoot.ScriptExt, true
	}
	if init := filepath.Join(base, packageInit); isFile(fs, init) {
		return init, true
	}
	if ok, err := afero.IsDir(fs, base); err == nil && ok {
		return base, true
	}
	return "", false
}

func isFile(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && !info.IsDir()
}
