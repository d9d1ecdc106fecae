package imports

import (
	"maps"
	"slices"
)

// Set is a deduplicated collection of normalized import lines.
type Set struct {
	lines map[string]struct{}
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{lines: make(map[string]struct{})}
}

// Add inserts line and reports whether it was not already present.
func (s *Set) Add(line string) bool {
	if _, ok := s.lines[line]; ok {
		return false
	}
	s.lines[line] = struct{}{}
	return true
}

func (s *Set) Len() int {
	return len(s.lines)
}

// Sorted returns the lines in ascending lexicographic order.
func (s *Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s.lines))
}
