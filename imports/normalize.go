package imports

import (
	"iter"
	"strings"
)

// Normalize folds a raw import span into one canonical line: comments and
// backslash continuations are dropped, physical lines are joined, and
// whitespace is collapsed. It
// reports false when the result is not an import statement.
func Normalize(raw string) (string, bool) {
	physical := strings.Split(raw, "\n")
	parts := make([]string, 0, len(physical))
	for _, line := range physical {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimSuffix(line, `\`))
		if line != "" {
			parts = append(parts, line)
		}
	}

	line := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	line = strings.ReplaceAll(line, "( ", "(")
	line = strings.ReplaceAll(line, " )", ")")

	if !strings.HasPrefix(line, "import ") && !strings.HasPrefix(line, "from ") {
		return "", false
	}
	return line, true
}

// Lines yields the normalized import lines recognized in text.
func Lines(rec Recognizer, text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for m := range rec.Recognize(text) {
			line, ok := Normalize(m.Text)
			if !ok {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

// Targets returns the dotted module names an import line refers to. For
// from-imports this is the source module, relative dots included.
func Targets(line string) []string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil
	}

	switch fields[0] {
	case "from":
		return []string{fields[1]}
	case "import":
		var targets []string
		for _, part := range strings.Split(strings.TrimPrefix(line, "import "), ",") {
			name := strings.Fields(part)
			if len(name) > 0 {
				targets = append(targets, name[0])
			}
		}
		return targets
	}
	return nil
}
