package expression

import (
	"errors"
	"fmt"
)

// SpecialChars lists the characters that turn an expression into a pattern.
const SpecialChars = `.*+|<>&-[](){}?$^\`

// ErrEmptyExpression is returned when an expression is built from an empty string.
var ErrEmptyExpression = errors.New("empty expression")

// Pattern is a compiled regular expression that must match the whole input.
type Pattern interface {
	MatchString(s string) bool
	String() string
}

// PatternError reports an expression whose pattern failed to compile.
type PatternError struct {
	Expression string
	Err        error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Expression, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
