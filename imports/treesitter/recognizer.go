// Package treesitter recognizes Python import statements from a tree-sitter
// syntax tree instead of the line scanner.
package treesitter

import (
	"context"
	"iter"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/LegacyCodeHQ/importsmoke/imports"
)

var importNodeTypes = map[string]bool{
	"import_statement":        true,
	"import_from_statement":   true,
	"future_import_statement": true,
}

// Recognizer yields the source span of every import node in the tree.
// Statements nested in functions, conditionals and try blocks are included.
type Recognizer struct{}

func New() *Recognizer {
	return &Recognizer{}
}

func (r *Recognizer) Recognize(text string) iter.Seq[imports.RawMatch] {
	return func(yield func(imports.RawMatch) bool) {
		source := []byte(text)

		parser := sitter.NewParser()
		parser.SetLanguage(python.GetLanguage())

		tree, err := parser.ParseCtx(context.Background(), nil, source)
		if err != nil {
			slog.Debug("tree-sitter parse failed; no imports recognized", "error", err)
			return
		}
		defer tree.Close()

		walk(tree.RootNode(), source, yield)
	}
}

// walk visits nodes depth-first in document order and stops as soon as
// yield returns false.
func walk(n *sitter.Node, source []byte, yield func(imports.RawMatch) bool) bool {
	if n == nil {
		return true
	}

	if importNodeTypes[n.Type()] {
		return yield(imports.RawMatch{
			Text: n.Content(source),
			Line: int(n.StartPoint().Row) + 1,
		})
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		if !walk(n.Child(i), source, yield) {
			return false
		}
	}
	return true
}
