package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for files that are neither YAML nor JSON.
var ErrUnknownFormat = errors.New("unknown document format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadFromFile reads, parses and validates a document.
func LoadFromFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return Parse(data, format)
}

// Parse decodes and validates a document.
func Parse(data []byte, format Format) (*Document, error) {
	var (
		doc *Document
		err error
	)

	switch format {
	case FormatYAML:
		doc, err = parseYAML(data)
	case FormatJSON:
		doc, err = parseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func parseYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	return &doc, nil
}

func parseJSON(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("unmarshal json: invalid json")
	}

	root := gjson.ParseBytes(data)
	doc := &Document{Mangled: root.Get("mangled").Bool()}

	root.Get("expressions").ForEach(func(_, item gjson.Result) bool {
		entry := &Entry{
			Expression: item.Get("expression").String(),
			Group:      item.Get("group").String(),
			Layers:     map[string]map[Target]string{},
		}

		item.Get("layers").ForEach(func(layer, targets gjson.Result) bool {
			values := map[Target]string{}
			targets.ForEach(func(target, value gjson.Result) bool {
				values[Target(target.String())] = value.String()
				return true
			})
			entry.Layers[layer.String()] = values
			return true
		})

		doc.Expressions = append(doc.Expressions, entry)
		return true
	})

	return doc, nil
}

// Validate checks that every entry has an expression and only known targets.
func Validate(doc *Document) error {
	for i, entry := range doc.Expressions {
		if entry == nil || entry.Expression == "" {
			return fmt.Errorf("expression %d: expression is required", i)
		}

		for layer, targets := range entry.Layers {
			for target := range targets {
				if !target.Valid() {
					return fmt.Errorf("expression %d: layer %s: unknown target: %s", i, layer, target)
				}
			}
		}
	}

	return nil
}
