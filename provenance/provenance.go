// Package provenance records which source files contributed each import line.
package provenance

import (
	"errors"
	"slices"
	"strings"

	graphlib "github.com/dominikbraun/graph"

	"github.com/LegacyCodeHQ/importsmoke/imports"
)

const (
	fileVertexPrefix   = "file:"
	importVertexPrefix = "import:"
)

// Graph is a directed file -> import line graph.
type Graph struct {
	g graphlib.Graph[string, string]
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{g: graphlib.New(graphlib.StringHash, graphlib.Directed())}
}

// Record notes that file contains line.
func (p *Graph) Record(file, line string) error {
	from := fileVertexPrefix + file
	to := importVertexPrefix + line

	for _, v := range []string{from, to} {
		if err := p.g.AddVertex(v); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
			return err
		}
	}
	if err := p.g.AddEdge(from, to); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
		return err
	}
	return nil
}

// Sources returns the files that contain line, sorted.
func (p *Graph) Sources(line string) ([]string, error) {
	predecessors, err := p.g.PredecessorMap()
	if err != nil {
		return nil, err
	}

	var files []string
	for from := range predecessors[importVertexPrefix+line] {
		files = append(files, strings.TrimPrefix(from, fileVertexPrefix))
	}
	slices.Sort(files)
	return files, nil
}

// LinesFor returns the recorded import lines whose target is module or one
// of its submodules, sorted.
func (p *Graph) LinesFor(module string) ([]string, error) {
	adjacency, err := p.g.AdjacencyMap()
	if err != nil {
		return nil, err
	}

	var lines []string
	for vertex := range adjacency {
		line, ok := strings.CutPrefix(vertex, importVertexPrefix)
		if !ok {
			continue
		}
		for _, target := range imports.Targets(line) {
			if target == module || strings.HasPrefix(target, module+".") {
				lines = append(lines, line)
				break
			}
		}
	}
	slices.Sort(lines)
	return lines, nil
}
