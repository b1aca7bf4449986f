package expression

import (
	"strings"
)

// Expression is either a literal object path such as "/root/geo/mesh" or a
// regular expression over object paths such as "/root/.*/mesh\d+".
// An Expression is immutable once built.
type Expression struct {
	text string

	// nil for literal paths
	pattern Pattern

	// No path shorter than minLength can match.
	minLength int

	// text with bracketed groups and special characters removed
	literalPrefix string
}

// New classifies text and compiles it when it contains any of SpecialChars.
func New(text string) (*Expression, error) {
	if text == "" {
		return nil, ErrEmptyExpression
	}

	e := &Expression{
		text:      text,
		minLength: len(text),
	}

	if !strings.ContainsAny(text, SpecialChars) {
		return e, nil
	}

	p, err := Compile(text)
	if err != nil {
		return nil, err
	}
	e.pattern = p
	e.literalPrefix = stripPattern(text)
	e.minLength = len(e.literalPrefix)

	return e, nil
}

// MustNew is like New but panics on error. Intended for tests and constants.
func MustNew(text string) *Expression {
	e, err := New(text)
	if err != nil {
		panic(err)
	}
	return e
}

// Text returns the original expression string.
func (e *Expression) Text() string { return e.text }

// IsPattern reports whether the expression is a regular expression.
func (e *Expression) IsPattern() bool { return e.pattern != nil }

// LiteralPrefix returns the text left after removing bracketed groups and
// special characters. It is empty for literal paths.
func (e *Expression) LiteralPrefix() string { return e.literalPrefix }

// MinLength returns the length, in bytes, below which a path is rejected
// without running the pattern. For patterns it is a heuristic filter: sides
// of an alternation and escaped letters such as the d of \d* are counted, so
// some paths the pattern itself would match are rejected.
func (e *Expression) MinLength() int { return e.minLength }

func (e *Expression) String() string { return e.text }

// IsParentOf reports whether the literal expression is an ancestor of path.
// isSelf is set when path is the expression itself. Patterns are never
// parents.
func (e *Expression) IsParentOf(path string) (isParent, isSelf bool) {
	if e.IsPattern() || len(path) < e.minLength {
		return false, false
	}

	if !strings.HasPrefix(path, e.text) {
		return false, false
	}

	if len(path) == e.minLength {
		return true, true
	}

	// "/Hello" is not a parent of "/HelloWorld".
	return path[e.minLength] == '/', false
}

// MatchesPath reports whether the pattern matches the whole path. Literal
// expressions never match here, use IsParentOf.
func (e *Expression) MatchesPath(path string) bool {
	if !e.IsPattern() || len(path) < e.minLength {
		return false
	}

	return e.pattern.MatchString(path)
}

// MatchesExpression reports whether the pattern could match the objects
// addressed by other. A literal other is matched as a path. A pattern other
// is approximated by its literal prefix.
func (e *Expression) MatchesExpression(other *Expression) bool {
	if !e.IsPattern() {
		return false
	}

	if !other.IsPattern() {
		return e.MatchesPath(other.text)
	}

	return e.MatchesPath(other.literalPrefix)
}

// Compare orders expressions by text.
func (e *Expression) Compare(other *Expression) int {
	return strings.Compare(e.text, other.text)
}

// Less reports whether e sorts before other.
func (e *Expression) Less(other *Expression) bool {
	return e.text < other.text
}

// Equal reports whether both expressions have the same text.
func (e *Expression) Equal(other *Expression) bool {
	return e.text == other.text
}

// stripPattern removes bracketed groups, then every special character.
// It works on bytes so the result is never longer than text.
func stripPattern(text string) string {
	s := eraseBrackets(text, '[', ']')
	s = eraseBrackets(s, '(', ')')
	s = eraseBrackets(s, '{', '}')

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(SpecialChars, s[i]) < 0 {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// eraseBrackets erases every span from an open bracket to the first close
// bracket after it. An open bracket without a close stops the scan.
func eraseBrackets(s string, open, close byte) string {
	for {
		start := strings.IndexByte(s, open)
		if start < 0 {
			return s
		}

		end := strings.IndexByte(s[start:], close)
		if end < 0 {
			return s
		}

		s = s[:start] + s[start+end+1:]
	}
}
