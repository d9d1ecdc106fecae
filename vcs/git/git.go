package git

import (
	"path/filepath"
	"strings"
)

const unbornHeadSignature = "(unborn)"

// GetRepositoryRoot returns the absolute path to the repository root
func GetRepositoryRoot(repoPath string) (string, error) {
	out, stderr, err := runGitCommand(repoPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", gitCommandError(err, stderr)
	}
	return filepath.Clean(strings.TrimSpace(string(out))), nil
}

// GetHEADSignature returns the commit HEAD points at, or a fixed marker for a
// repository without commits. Callers compare signatures to notice checkouts.
func GetHEADSignature(repoPath string) (string, error) {
	head, stderr, err := runGitCommand(repoPath, "rev-parse", "--verify", "HEAD")
	if err == nil {
		return strings.TrimSpace(string(head)), nil
	}

	if strings.Contains(strings.ToLower(stderr), "needed a single revision") {
		return unbornHeadSignature, nil
	}

	return "", gitCommandError(err, stderr)
}
