package source

import (
	"encoding/json"
	"fmt"
	"strings"
)

const codeCell = "code"

type notebook struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string     `json:"cell_type"`
	Source   cellSource `json:"source"`
}

// cellSource accepts both encodings nbformat allows: a single string or a
// list of line strings that already carry their newlines.
type cellSource string

func (c *cellSource) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = cellSource(single)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("cell source must be a string or list of strings: %w", err)
	}
	*c = cellSource(strings.Join(lines, ""))
	return nil
}

// NotebookCode returns the source of every code cell, in document order,
// separated by newlines so statements never run across cell boundaries.
func NotebookCode(content []byte) (string, error) {
	var nb notebook
	if err := json.Unmarshal(content, &nb); err != nil {
		return "", err
	}

	cells := make([]string, 0, len(nb.Cells))
	for _, cell := range nb.Cells {
		if cell.CellType != codeCell {
			continue
		}
		cells = append(cells, strings.TrimSuffix(string(cell.Source), "\n"))
	}
	if len(cells) == 0 {
		return "", nil
	}
	return strings.Join(cells, "\n") + "\n", nil
}
