package coderoot

import (
	"maps"
	"slices"
	"strings"
)

// reservedMarker prefixes names that are always ignored (dot-directories).
const reservedMarker = "."

// eggInfoSuffix marks setuptools metadata directories.
const eggInfoSuffix = ".egg-info"

var defaultIgnoredDirs = []string{
	// version control and CI metadata
	".git", ".hg", ".svn", ".github", ".gitlab", ".circleci",
	// editor metadata
	".idea", ".vscode",
	// caches
	"__pycache__", ".pytest_cache", ".mypy_cache", ".ruff_cache", ".ipynb_checkpoints",
	".tox", ".nox",
	// build output
	"build", "dist", "site",
	// dependencies and environments
	"node_modules", "venv", ".venv", "env", ".env", "site-packages",
	// data and docs
	"data", "docs",
}

// IgnoreSet decides which directory names are pruned from every walk.
type IgnoreSet struct {
	names map[string]bool
}

// DefaultIgnore returns the built-in ignore set.
func DefaultIgnore() IgnoreSet {
	return NewIgnoreSet(defaultIgnoredDirs...)
}

func NewIgnoreSet(names ...string) IgnoreSet {
	s := IgnoreSet{names: make(map[string]bool, len(names))}
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			s.names[name] = true
		}
	}
	return s
}

// With returns a copy of s that also ignores names.
func (s IgnoreSet) With(names ...string) IgnoreSet {
	merged := NewIgnoreSet(names...)
	for name := range s.names {
		merged.names[name] = true
	}
	return merged
}

// Ignored reports whether a directory with the given base name is pruned.
func (s IgnoreSet) Ignored(name string) bool {
	return s.names[name] ||
		strings.HasPrefix(name, reservedMarker) ||
		strings.HasSuffix(name, eggInfoSuffix)
}

// Names returns the explicit names in sorted order.
func (s IgnoreSet) Names() []string {
	return slices.Sorted(maps.Keys(s.names))
}
