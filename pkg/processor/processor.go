package processor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"walter/pkg/document"
	"walter/pkg/resolver"
)

// Options configures a Processor.
type Options struct {
	// Layer is the render layer picked for expressions with several layers.
	Layer string
	// Workers bounds concurrent resolutions. Defaults to GOMAXPROCS.
	Workers int
	// Strict fails on expressions that don't compile instead of skipping them.
	Strict bool

	Logger *slog.Logger
}

// Result holds what every requested target resolved to for one object.
// Targets with no assignment are absent from Values.
type Result struct {
	Object string                     `yaml:"object"`
	Values map[document.Target]string `yaml:"values,omitempty"`
}

// Processor resolves batches of objects against one assignment document.
type Processor struct {
	assignments *document.Assignments
	resolver    *resolver.Resolver
	workers     int
	logger      *slog.Logger
}

// NewProcessor loads and builds the document at documentPath.
func NewProcessor(documentPath string, opts Options) (*Processor, error) {
	doc, err := document.LoadFromFile(documentPath)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	return New(doc, opts)
}

// New builds a processor from a parsed document.
func New(doc *document.Document, opts Options) (*Processor, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a, err := document.Build(doc, document.Options{Layer: opts.Layer, Logger: logger})
	if err != nil {
		if opts.Strict {
			return nil, fmt.Errorf("build assignments: %w", err)
		}
		logger.Warn("Document has unusable expressions.", "error", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Processor{
		assignments: a,
		resolver:    resolver.New(a),
		workers:     workers,
		logger:      logger,
	}, nil
}

// Assignments returns the built assignment tables.
func (p *Processor) Assignments() *document.Assignments {
	return p.assignments
}

// Resolver returns the memoizing resolver shared by every batch.
func (p *Processor) Resolver() *resolver.Resolver {
	return p.resolver
}

// ResolveAll resolves targets for every object. When targets is empty every
// target with assignments is resolved. Results keep the order of objects.
func (p *Processor) ResolveAll(ctx context.Context, objects []string, targets []document.Target) ([]Result, error) {
	if len(targets) == 0 {
		targets = p.assignments.Targets()
	}
	for _, t := range targets {
		if !t.Valid() {
			return nil, fmt.Errorf("unknown target: %s", t)
		}
	}

	p.logger.Debug("Resolving objects.", "objects", len(objects), "targets", len(targets), "workers", p.workers)

	results := make([]Result, len(objects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, object := range objects {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res := Result{Object: object}
			for _, t := range targets {
				value, ok := p.resolver.Resolve(t, object)
				if !ok {
					continue
				}
				if res.Values == nil {
					res.Values = make(map[document.Target]string)
				}
				res.Values[t] = value
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve objects: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve objects: %w", err)
	}

	return results, nil
}

// ReadObjects reads one object path per line. Blank lines and lines starting
// with '#' are skipped.
func ReadObjects(r io.Reader) ([]string, error) {
	var objects []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		objects = append(objects, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read objects: %w", err)
	}

	return objects, nil
}
