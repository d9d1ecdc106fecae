// Package artifact persists the import list and the generated test module.
package artifact

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteImports writes one import line per row, each terminated by a newline.
func WriteImports(fs afero.Fs, path string, lines []string) error {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return Write(fs, path, buf.Bytes())
}

// ReadImports reads an import list written by WriteImports. Blank lines are
// skipped.
func ReadImports(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import list: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read import list: %w", err)
	}
	return lines, nil
}

// Write replaces the file at path with data, creating parent directories.
func Write(fs afero.Fs, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
