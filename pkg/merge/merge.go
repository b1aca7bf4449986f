// Package merge builds the expression that matches several object names,
// used to turn a selection of objects into a single assignment.
package merge

import "strings"

// wildcard replaces every run of characters the names don't share.
const wildcard = ".*"

// Expressions merges two names into the tightest expression matching both.
// The names are aligned on their longest common subsequence; every gap
// becomes ".*".
func Expressions(first, second string) string {
	m := newMerger([]rune(first), []rune(second))
	return m.diff(len(m.first), len(m.second))
}

// All folds Expressions over names. It returns "" for no names.
func All(names ...string) string {
	if len(names) == 0 {
		return ""
	}

	result := names[0]
	for _, name := range names[1:] {
		result = Expressions(result, name)
	}
	return result
}

type merger struct {
	first  []rune
	second []rune

	// table[i][j] is the LCS length of first[:i] and second[:j].
	table [][]int
}

func newMerger(first, second []rune) *merger {
	table := make([][]int, len(first)+1)
	for i := range table {
		table[i] = make([]int, len(second)+1)
	}

	for i := 1; i <= len(first); i++ {
		for j := 1; j <= len(second); j++ {
			if first[i-1] == second[j-1] {
				table[i][j] = table[i-1][j-1] + 1
			} else {
				table[i][j] = max(table[i][j-1], table[i-1][j])
			}
		}
	}

	return &merger{first: first, second: second, table: table}
}

// diff returns the expression matching first[:i] and second[:j].
func (m *merger) diff(i, j int) string {
	if i > 0 && j > 0 && m.first[i-1] == m.second[j-1] {
		return m.diff(i-1, j-1) + string(m.first[i-1])
	}

	var expr string
	switch {
	case j > 0 && (i == 0 || m.table[i][j-1] >= m.table[i-1][j]):
		expr = m.diff(i, j-1)
	case i > 0 && (j == 0 || m.table[i][j-1] < m.table[i-1][j]):
		expr = m.diff(i-1, j)
	default:
		return ""
	}

	// Avoid several stars in a row.
	if !strings.HasSuffix(expr, "*") {
		expr += wildcard
	}
	return expr
}
