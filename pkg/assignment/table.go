package assignment

import (
	"iter"
	"slices"
	"strings"

	"walter/pkg/expression"
)

type entry[V any] struct {
	expr  *expression.Expression
	value V
}

// Table maps expressions to values, ordered by expression text.
// A Table is filled by a single writer and then shared read-only; it must not
// be modified while Resolve runs on it.
type Table[V any] struct {
	entries []entry[V]
}

// NewTable creates an empty table.
func NewTable[V any]() *Table[V] {
	return &Table[V]{}
}

// Insert adds the value for e. If the table already holds an expression with
// the same text the table is left as is and Insert returns false.
func (t *Table[V]) Insert(e *expression.Expression, value V) bool {
	idx, found := t.search(e.Text())
	if found {
		return false
	}
	t.entries = slices.Insert(t.entries, idx, entry[V]{expr: e, value: value})
	return true
}

// Get returns the value stored for the exact expression text.
func (t *Table[V]) Get(text string) (V, bool) {
	if t != nil {
		if idx, found := t.search(text); found {
			return t.entries[idx].value, true
		}
	}
	var zero V
	return zero, false
}

// Len returns the number of expressions in the table.
func (t *Table[V]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// All iterates the table in ascending expression order.
func (t *Table[V]) All() iter.Seq2[*expression.Expression, V] {
	return func(yield func(*expression.Expression, V) bool) {
		if t == nil {
			return
		}
		for _, en := range t.entries {
			if !yield(en.expr, en.value) {
				return
			}
		}
	}
}

// Backward iterates the table in descending expression order.
func (t *Table[V]) Backward() iter.Seq2[*expression.Expression, V] {
	return func(yield func(*expression.Expression, V) bool) {
		if t == nil {
			return
		}
		for i := len(t.entries) - 1; i >= 0; i-- {
			if !yield(t.entries[i].expr, t.entries[i].value) {
				return
			}
		}
	}
}

func (t *Table[V]) search(text string) (int, bool) {
	return slices.BinarySearchFunc(t.entries, text, func(en entry[V], text string) int {
		return strings.Compare(en.expr.Text(), text)
	})
}
