package document

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"walter/pkg/assignment"
	"walter/pkg/expression"
)

// Options tunes Build.
type Options struct {
	// Layer is the render layer used when an expression has several.
	// Defaults to DefaultRenderLayer.
	Layer string

	Logger *slog.Logger
}

// Assignments holds one assignment table per target. It is read-only once
// Build returns and may be shared between goroutines.
type Assignments struct {
	tables map[Target]*assignment.Table[string]
	groups map[string]string
}

// Build compiles the document into per-target assignment tables.
//
// An expression whose pattern fails to compile is skipped and reported; the
// remaining expressions are still built. The returned Assignments is usable
// even when the error is not nil.
func Build(doc *Document, opts Options) (*Assignments, error) {
	if opts.Layer == "" {
		opts.Layer = DefaultRenderLayer
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &Assignments{
		tables: make(map[Target]*assignment.Table[string]),
		groups: make(map[string]string),
	}

	var errs []error
	for i, entry := range doc.Expressions {
		if entry == nil || entry.Expression == "" {
			continue
		}

		text := entry.Expression
		if doc.Mangled {
			text = expression.Demangle(text)
		}

		targets, ok := selectLayer(entry.Layers, opts.Layer)
		if !ok {
			logger.Debug("No usable layer, skipping expression.", "expression", text, "layer", opts.Layer)
			continue
		}

		expr, err := expression.New(text)
		if err != nil {
			logger.Warn("Skipping bad expression.", "expression", text, "error", err)
			errs = append(errs, fmt.Errorf("expression %d: %w", i, err))
			continue
		}

		if entry.Group != "" {
			a.groups[text] = entry.Group
		}

		for target, value := range targets {
			if value == "" {
				continue
			}

			table, ok := a.tables[target]
			if !ok {
				table = assignment.NewTable[string]()
				a.tables[target] = table
			}

			if !table.Insert(expr, value) {
				logger.Debug("Duplicate expression ignored.", "expression", text, "target", target)
			}
		}
	}

	return a, errors.Join(errs...)
}

// selectLayer returns the only layer, or the preferred one when there are
// several.
func selectLayer(layers map[string]map[Target]string, preferred string) (map[Target]string, bool) {
	if len(layers) == 1 {
		for _, targets := range layers {
			return targets, true
		}
	}

	targets, ok := layers[preferred]
	return targets, ok
}

// Table returns the table of a target, nil if nothing is assigned to it.
func (a *Assignments) Table(target Target) *assignment.Table[string] {
	return a.tables[target]
}

// Targets returns the targets that have at least one assignment.
func (a *Assignments) Targets() []Target {
	var targets []Target
	for _, t := range Targets {
		if a.tables[t].Len() > 0 {
			targets = append(targets, t)
		}
	}
	return targets
}

// Group returns the group an expression belongs to.
func (a *Assignments) Group(text string) (string, bool) {
	g, ok := a.groups[text]
	return g, ok
}

// Groups maps every group name to its sorted expressions.
func (a *Assignments) Groups() map[string][]string {
	groups := make(map[string][]string)
	for text, g := range a.groups {
		groups[g] = append(groups[g], text)
	}
	for _, texts := range groups {
		sort.Strings(texts)
	}
	return groups
}
