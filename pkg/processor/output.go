package processor

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"

	"walter/pkg/document"
	"walter/pkg/resolver"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	OutputYAML OutputFormat = "yaml"
	OutputJSON OutputFormat = "json"
	OutputText OutputFormat = "text"
)

// ParseOutputFormat validates a format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case OutputYAML, OutputJSON, OutputText:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

// Writer writes results in one format.
type Writer struct {
	format OutputFormat

	object  *color.Color
	target  *color.Color
	value   *color.Color
	missing *color.Color
}

// NewWriter creates a writer. Colors only apply to the text format.
func NewWriter(format OutputFormat, colorize bool) *Writer {
	w := &Writer{
		format:  format,
		object:  color.New(color.FgCyan, color.Bold),
		target:  color.New(color.FgBlue),
		value:   color.New(color.FgGreen),
		missing: color.New(color.Faint),
	}

	for _, c := range []*color.Color{w.object, w.target, w.value, w.missing} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return w
}

// WriteResults writes resolved objects.
func (w *Writer) WriteResults(out io.Writer, results []Result, targets []document.Target) error {
	switch w.format {
	case OutputYAML:
		return writeYAML(out, map[string][]Result{"results": results})
	case OutputJSON:
		return writeJSON(out, "results", len(results), func(i int) (string, error) {
			return resultJSON(results[i])
		})
	default:
		return w.writeResultsText(out, results, targets)
	}
}

// WriteShaderSets writes surface and displacement combinations.
func (w *Writer) WriteShaderSets(out io.Writer, sets []resolver.ShaderSet) error {
	switch w.format {
	case OutputYAML:
		return writeYAML(out, map[string][]resolver.ShaderSet{"sets": sets})
	case OutputJSON:
		return writeJSON(out, "sets", len(sets), func(i int) (string, error) {
			obj, err := sjson.Set("{}", "surface", sets[i].Surface)
			if err != nil {
				return "", err
			}
			return sjson.Set(obj, "displacement", sets[i].Displacement)
		})
	default:
		for _, s := range sets {
			if _, err := fmt.Fprintf(out, "%s %s\n", w.value.Sprint(s.Surface), w.target.Sprint(s.Displacement)); err != nil {
				return err
			}
		}
		return nil
	}
}

func (w *Writer) writeResultsText(out io.Writer, results []Result, targets []document.Target) error {
	for _, r := range results {
		var b strings.Builder
		b.WriteString(w.object.Sprint(r.Object))

		for _, t := range resultTargets(r, targets) {
			b.WriteString(" ")
			b.WriteString(w.target.Sprint(string(t)))
			b.WriteString("=")
			if v, ok := r.Values[t]; ok {
				b.WriteString(w.value.Sprint(v))
			} else {
				b.WriteString(w.missing.Sprint("-"))
			}
		}

		if _, err := fmt.Fprintln(out, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// resultTargets returns the requested targets, or the ones present in r
// sorted by name.
func resultTargets(r Result, targets []document.Target) []document.Target {
	if len(targets) > 0 {
		return targets
	}

	present := make([]document.Target, 0, len(r.Values))
	for t := range r.Values {
		present = append(present, t)
	}
	sort.Slice(present, func(i, j int) bool { return present[i] < present[j] })
	return present
}

func resultJSON(r Result) (string, error) {
	obj, err := sjson.Set("{}", "object", r.Object)
	if err != nil {
		return "", err
	}

	values := "{}"
	for _, t := range resultTargets(r, nil) {
		values, err = sjson.Set(values, string(t), r.Values[t])
		if err != nil {
			return "", err
		}
	}

	return sjson.SetRaw(obj, "values", values)
}

func writeJSON(out io.Writer, key string, n int, item func(i int) (string, error)) error {
	doc, err := sjson.SetRaw("{}", key, "[]")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	for i := 0; i < n; i++ {
		obj, err := item(i)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		doc, err = sjson.SetRaw(doc, key+".-1", obj)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	}

	_, err = out.Write(pretty.Pretty([]byte(doc)))
	return err
}

func writeYAML(out io.Writer, v any) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	return encoder.Close()
}
