package expression

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// regexPattern anchors a regexp2 expression to the whole input.
type regexPattern struct {
	source string
	re     *regexp2.Regexp
}

func (p *regexPattern) MatchString(s string) bool {
	ok, err := p.re.MatchString(s)
	return err == nil && ok
}

func (p *regexPattern) String() string {
	return p.source
}

// Compile compiles pattern so that it only matches complete strings.
func Compile(pattern string) (Pattern, error) {
	// Validate the pattern on its own so the anchoring group can't hide
	// unbalanced parentheses.
	if _, err := regexp2.Compile(pattern, regexp2.None); err != nil {
		return nil, &PatternError{Expression: pattern, Err: err}
	}

	re, err := regexp2.Compile(`\A(?:`+pattern+`)\z`, regexp2.None)
	if err != nil {
		return nil, &PatternError{Expression: pattern, Err: err}
	}

	return &regexPattern{source: pattern, re: re}, nil
}

// MatchPattern reports whether pattern matches the whole of s.
func MatchPattern(s, pattern string) (bool, error) {
	p, err := Compile(pattern)
	if err != nil {
		return false, err
	}
	return p.MatchString(s), nil
}

// ConvertRegex replaces the \d \D \w \W shorthands with explicit classes so
// the pattern survives conversions that swap slashes and backslashes.
func ConvertRegex(pattern string) string {
	s := strings.ReplaceAll(pattern, `\d`, `[0-9]`)
	s = strings.ReplaceAll(s, `\D`, `[^0-9]`)
	s = strings.ReplaceAll(s, `\w`, `[a-zA-Z0-9_]`)
	return strings.ReplaceAll(s, `\W`, `[^a-zA-Z0-9_]`)
}

// Mangle replaces '/' with '\' for stores that don't accept slashes in
// property names.
func Mangle(s string) string {
	return strings.ReplaceAll(s, "/", `\`)
}

// Demangle replaces '\' with '/'.
func Demangle(s string) string {
	return strings.ReplaceAll(s, `\`, "/")
}
