// Package generator renders the pytest module that executes every
// discovered import.
package generator

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LegacyCodeHQ/importsmoke/starimport"
)

// TestFunction is the name of the generated test.
const TestFunction = "test_all_imports"

const (
	futurePrefix = "from __future__ import "
	indent       = "        "
)

// Input is everything the generated module depends on.
type Input struct {
	// Imports are normalized import lines in the order they are emitted.
	Imports []string
	// RepoRootRel is the slash-separated path from the directory of the
	// generated module to the repository root.
	RepoRootRel string
	// Ignore holds the directory names pruned during code root discovery.
	Ignore []string
	// SourcePrefix is the package segment toggled when resolving star imports.
	SourcePrefix string
}

// Statement is one emitted line of the test body.
type Statement struct {
	Source string
	Star   bool
}

// Plan splits the import lines into hoisted __future__ imports and the
// statements of the test body. Star imports become resolver calls because
// Python only allows them at module level.
func Plan(lines []string) (futures []string, body []Statement) {
	for _, line := range lines {
		if strings.HasPrefix(line, futurePrefix) {
			futures = append(futures, line)
			continue
		}
		if ref, ok := starimport.ParseStar(line); ok {
			body = append(body, Statement{Source: fmt.Sprintf("_import_star_if_local(%s)", pyQuote(ref.Name)), Star: true})
			continue
		}
		body = append(body, Statement{Source: line})
	}
	return futures, body
}

// Generate writes the verification module for in to w.
func Generate(w io.Writer, in Input) error {
	futures, body := Plan(in.Imports)

	var b strings.Builder
	b.WriteString("# Code generated by importsmoke. DO NOT EDIT.\n")
	b.WriteString("#\n")
	b.WriteString("# Executes every import statement found in the repository's scripts and\n")
	b.WriteString("# notebooks. Regenerate with `importsmoke generate`.\n")
	for _, line := range futures {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("\nimport importlib\nimport os\nimport sys\n\n")

	repoRootRel := in.RepoRootRel
	if repoRootRel == "" {
		repoRootRel = "."
	}
	fmt.Fprintf(&b, "REPO_ROOT = os.path.normpath(os.path.join(os.path.dirname(os.path.abspath(__file__)), %s))\n", pyQuote(repoRootRel))
	fmt.Fprintf(&b, "SOURCE_PREFIX = %s\n", pyQuote(in.SourcePrefix))
	writeIgnoredDirs(&b, in.Ignore)
	b.WriteString(runtime)

	fmt.Fprintf(&b, "\n\ndef %s():\n", TestFunction)
	if len(body) == 0 {
		b.WriteString("    pass\n")
	} else {
		b.WriteString("    try:\n")
		for _, stmt := range body {
			b.WriteString(indent)
			b.WriteString(stmt.Source)
			b.WriteByte('\n')
		}
		b.WriteString("    except Exception as exc:\n")
		b.WriteString("        raise AssertionError(f\"Import failed: {exc!r}\") from exc\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeIgnoredDirs(b *strings.Builder, names []string) {
	if len(names) == 0 {
		b.WriteString("IGNORED_DIRS = frozenset()\n")
		return
	}
	b.WriteString("IGNORED_DIRS = frozenset(\n    [\n")
	for _, name := range names {
		fmt.Fprintf(b, "%s%s,\n", indent, pyQuote(name))
	}
	b.WriteString("    ]\n)\n")
}

// pyQuote renders s as a double-quoted Python string literal.
func pyQuote(s string) string {
	return strconv.Quote(s)
}
