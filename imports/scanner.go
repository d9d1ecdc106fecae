package imports

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RawMatch is the source span of a single import statement. A parenthesized
// from-import may cover several physical lines.
type RawMatch struct {
	Text string
	Line int
}

// Recognizer finds import statements in Python source text.
type Recognizer interface {
	Recognize(text string) iter.Seq[RawMatch]
}

// ScannerRecognizer is the default Recognizer backed by Scan.
type ScannerRecognizer struct{}

func (ScannerRecognizer) Recognize(text string) iter.Seq[RawMatch] {
	return Scan(text)
}

// Scan yields every import statement in text in document order.
//
// A statement must start a line (indentation is allowed) and must end the
// physical line it finishes on, optionally followed by a comment. Anything
// else is skipped, so import-like text in the middle of an expression does
// not match.
func Scan(text string) iter.Seq[RawMatch] {
	return func(yield func(RawMatch) bool) {
		s := &scanner{src: text, line: 1}
		for s.pos < len(s.src) {
			lineStart := s.pos
			s.skipHorizontalSpace()
			start := s.pos
			if s.statement() {
				span := s.src[start:s.pos]
				if !yield(RawMatch{Text: span, Line: s.line}) {
					return
				}
				s.line += strings.Count(span, "\n")
			} else {
				s.pos = lineStart
			}
			s.skipLine()
		}
	}
}

type scanner struct {
	src  string
	pos  int
	line int
}

func (s *scanner) statement() bool {
	switch {
	case s.keyword("import"):
		return s.importTargets() && s.lineEnd()
	case s.keyword("from"):
		return s.fromStatement() && s.lineEnd()
	}
	return false
}

// importTargets parses `a.b [as c], d [as e]` after the import keyword.
func (s *scanner) importTargets() bool {
	if !s.requireHorizontalSpace() {
		return false
	}
	for {
		if !s.dottedName() {
			return false
		}
		s.optionalAlias()
		mark := s.pos
		s.skipHorizontalSpace()
		if !s.consume(",") {
			s.pos = mark
			return true
		}
		s.skipHorizontalSpace()
	}
}

func (s *scanner) fromStatement() bool {
	if !s.requireHorizontalSpace() {
		return false
	}

	dots := 0
	for s.consume(".") {
		dots++
	}
	hasName := s.dottedName()
	if dots == 0 && !hasName {
		return false
	}

	s.skipHorizontalSpace()
	if !s.keyword("import") {
		return false
	}
	s.skipHorizontalSpace()

	switch {
	case s.consume("*"):
		return true
	case s.consume("("):
		return s.parenthesizedNames()
	default:
		return s.nameList()
	}
}

// nameList parses `x [as y], z` on a single line.
func (s *scanner) nameList() bool {
	for {
		if !s.identifier() {
			return false
		}
		s.optionalAlias()
		mark := s.pos
		s.skipHorizontalSpace()
		if !s.consume(",") {
			s.pos = mark
			return true
		}
		s.skipHorizontalSpace()
	}
}

// parenthesizedNames parses the body of `( x, y as z, )` which may span
// several lines and carry comments.
func (s *scanner) parenthesizedNames() bool {
	names := 0
	for {
		s.skipBlockSpace()
		if s.consume(")") {
			return names > 0
		}
		if !s.identifier() {
			return false
		}
		names++
		s.skipBlockSpace()
		if s.keyword("as") {
			s.skipBlockSpace()
			if !s.identifier() {
				return false
			}
			s.skipBlockSpace()
		}
		if s.consume(")") {
			return true
		}
		if !s.consume(",") {
			return false
		}
	}
}

func (s *scanner) optionalAlias() {
	mark := s.pos
	if !s.requireHorizontalSpace() || !s.keyword("as") || !s.requireHorizontalSpace() || !s.identifier() {
		s.pos = mark
	}
}

func (s *scanner) dottedName() bool {
	if !s.identifier() {
		return false
	}
	for {
		mark := s.pos
		if !s.consume(".") || !s.identifier() {
			s.pos = mark
			return true
		}
	}
}

func (s *scanner) identifier() bool {
	start := s.pos
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !isIdentRune(r, s.pos == start) {
			break
		}
		s.pos += size
	}
	return s.pos > start
}

// keyword consumes kw when it is not immediately followed by an identifier
// character.
func (s *scanner) keyword(kw string) bool {
	if !strings.HasPrefix(s.src[s.pos:], kw) {
		return false
	}
	end := s.pos + len(kw)
	if end < len(s.src) {
		r, _ := utf8.DecodeRuneInString(s.src[end:])
		if isIdentRune(r, false) {
			return false
		}
	}
	s.pos = end
	return true
}

// lineEnd accepts optional whitespace and a comment before the end of the
// physical line. The newline itself is left unconsumed.
func (s *scanner) lineEnd() bool {
	s.skipHorizontalSpace()
	if s.consume("#") {
		s.skipToNewline()
	}
	if s.pos >= len(s.src) {
		return true
	}
	switch s.src[s.pos] {
	case '\n':
		return true
	case '\r':
		return s.pos+1 == len(s.src) || s.src[s.pos+1] == '\n'
	}
	return false
}

func (s *scanner) consume(tok string) bool {
	if strings.HasPrefix(s.src[s.pos:], tok) {
		s.pos += len(tok)
		return true
	}
	return false
}

func (s *scanner) requireHorizontalSpace() bool {
	start := s.pos
	s.skipHorizontalSpace()
	return s.pos > start
}

func (s *scanner) skipHorizontalSpace() {
	for s.pos < len(s.src) && isHorizontalSpace(s.src[s.pos]) {
		s.pos++
	}
}

// skipBlockSpace skips whitespace, newlines and comments inside parentheses.
func (s *scanner) skipBlockSpace() {
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; {
		case isHorizontalSpace(c) || c == '\n' || c == '\r':
			s.pos++
		case c == '#':
			s.skipToNewline()
		default:
			return
		}
	}
}

func (s *scanner) skipToNewline() {
	if i := strings.IndexByte(s.src[s.pos:], '\n'); i >= 0 {
		s.pos += i
		if i > 0 && s.src[s.pos-1] == '\r' {
			s.pos--
		}
		return
	}
	s.pos = len(s.src)
}

func (s *scanner) skipLine() {
	if i := strings.IndexByte(s.src[s.pos:], '\n'); i >= 0 {
		s.pos += i + 1
		s.line++
		return
	}
	s.pos = len(s.src)
}

func isHorizontalSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f'
}

func isIdentRune(r rune, first bool) bool {
	if r == '_' || unicode.IsLetter(r) {
		return true
	}
	return !first && unicode.IsDigit(r)
}
