// Package coderoot locates the first-level directories of a repository that
// hold importable Python code.
package coderoot

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ScriptExt is the extension of Python script files.
const ScriptExt = ".py"

var errFound = errors.New("script found")

// Root is a first-level repository directory that contains Python code.
type Root struct {
	Path string
}

// Name returns the directory name of the root.
func (r Root) Name() string {
	return filepath.Base(r.Path)
}

// Discover returns, in name order, every direct child directory of repoRoot
// that is not ignored and contains a script file somewhere in its pruned
// subtree. Symlinked children count when they point at a directory.
// Filesystem errors are not fatal: unreadable entries are skipped and the
// roots found so far are returned.
func Discover(fs afero.Fs, repoRoot string, ignore IgnoreSet) []Root {
	entries, err := afero.ReadDir(fs, repoRoot)
	if err != nil {
		return nil
	}

	var roots []Root
	for _, entry := range entries {
		if ignore.Ignored(entry.Name()) {
			continue
		}
		dir := filepath.Join(repoRoot, entry.Name())
		if isDir, err := afero.IsDir(fs, dir); err != nil || !isDir {
			continue
		}
		if ContainsScript(fs, dir, ignore) {
			roots = append(roots, Root{Path: dir})
		}
	}
	return roots
}

// ContainsScript reports whether dir holds a script file below any
// directory that is not ignored. dir itself may be a symlink; links below it
// are not followed.
func ContainsScript(fs afero.Fs, dir string, ignore IgnoreSet) bool {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return false
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !entry.IsDir() {
			if filepath.Ext(path) == ScriptExt {
				return true
			}
			continue
		}
		if ignore.Ignored(entry.Name()) {
			continue
		}
		if subtreeContainsScript(fs, path, ignore) {
			return true
		}
	}
	return false
}

func subtreeContainsScript(fs afero.Fs, dir string, ignore IgnoreSet) bool {
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil {
			return nil
		}
		if info.IsDir() {
			if path != dir && ignore.Ignored(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ScriptExt {
			return errFound
		}
		return nil
	})
	return errors.Is(err, errFound)
}
