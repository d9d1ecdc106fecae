package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/LegacyCodeHQ/importsmoke/coderoot"
	"github.com/LegacyCodeHQ/importsmoke/source"
	"github.com/LegacyCodeHQ/importsmoke/vcs/git"
)

const debounceInterval = 300 * time.Millisecond
const gitStatePollInterval = 500 * time.Millisecond

// trigger decides which filesystem events cause a regeneration.
type trigger struct {
	ignore    coderoot.IgnoreSet
	artifacts map[string]bool
}

func newTrigger(ignore coderoot.IgnoreSet, artifacts ...string) trigger {
	t := trigger{ignore: ignore, artifacts: make(map[string]bool, len(artifacts))}
	for _, path := range artifacts {
		t.artifacts[filepath.Clean(path)] = true
	}
	return t
}

func (t trigger) isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if t.artifacts[filepath.Clean(event.Name)] {
		return false
	}
	_, ok := source.KindOf(event.Name)
	return ok
}

// watchAndRegenerate calls regenerate after relevant source changes settle
// and whenever HEAD moves. It returns when ctx is done.
func watchAndRegenerate(ctx context.Context, repoPath string, t trigger, regenerate func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, repoPath, t.ignore); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}

	var debounceTimer *time.Timer

	// Outside a git repository there is no HEAD to poll.
	var gitStateTick <-chan time.Time
	lastHead, err := git.GetHEADSignature(repoPath)
	if err != nil {
		slog.Debug("not polling git state", "error", err)
	} else {
		gitStateTicker := time.NewTicker(gitStatePollInterval)
		defer gitStateTicker.Stop()
		gitStateTick = gitStateTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name, t.ignore)
			}

			if !t.isRelevantChange(event) {
				continue
			}
			slog.Debug("source changed", "path", event.Name, "op", event.Op.String())

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, regenerate)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)

		case <-gitStateTick:
			head, err := git.GetHEADSignature(repoPath)
			if err != nil {
				slog.Warn("git state read error", "error", err)
				continue
			}
			if head == lastHead {
				continue
			}

			lastHead = head
			regenerate()
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string, ignore coderoot.IgnoreSet) error {
	return addWatchDirsWithAdder(root, ignore, watcher.Add)
}

// addWatchDirsWithAdder registers root and every directory below it that is
// not ignored. Directories that vanish during the walk are skipped.
func addWatchDirsWithAdder(root string, ignore coderoot.IgnoreSet, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && ignore.Ignored(d.Name()) {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string, ignore coderoot.IgnoreSet) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || ignore.Ignored(info.Name()) {
		return
	}
	_ = addWatchDirs(watcher, path, ignore)
}
