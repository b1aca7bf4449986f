package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"walter/pkg/document"
	"walter/pkg/expression"
	"walter/pkg/merge"
	"walter/pkg/processor"
)

type documentFlags struct {
	document string
	layer    string
	format   string
}

func (f *documentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.document, "document", "d", "", "Assignment document, YAML or JSON (required)")
	cmd.Flags().StringVarP(&f.layer, "layer", "l", document.DefaultRenderLayer, "Render layer used when an expression has several")
	cmd.MarkFlagRequired("document")
}

func (f *documentFlags) registerFormat(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "text", "Output format: text, yaml or json")
}

func (f *documentFlags) writer(cmd *cobra.Command) (*processor.Writer, error) {
	format, err := processor.ParseOutputFormat(f.format)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return processor.NewWriter(format, isTerminal(cmd.OutOrStdout())), nil
}

func newResolveCmd() *cobra.Command {
	var (
		docFlags documentFlags
		targets  []string
		input    string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "resolve [objects...]",
		Short: "Resolve the assignments of object paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			writer, err := docFlags.writer(cmd)
			if err != nil {
				return err
			}

			proc, err := processor.NewProcessor(docFlags.document, processor.Options{
				Layer:   docFlags.layer,
				Workers: workers,
			})
			if err != nil {
				return fmt.Errorf("create processor: %w", err)
			}

			objects := args
			if input != "" {
				objects, err = readObjectsFile(input)
				if err != nil {
					return err
				}
				objects = append(objects, args...)
			}
			if len(objects) == 0 {
				return &ExitError{Code: 2, Message: "no objects to resolve"}
			}

			var ts []document.Target
			for _, t := range targets {
				ts = append(ts, document.Target(t))
			}

			results, err := proc.ResolveAll(cmd.Context(), objects, ts)
			if err != nil {
				return err
			}

			if len(ts) == 0 {
				ts = proc.Assignments().Targets()
			}
			return writer.WriteResults(cmd.OutOrStdout(), results, ts)
		},
	}

	docFlags.register(cmd)
	docFlags.registerFormat(cmd)
	cmd.Flags().StringSliceVarP(&targets, "target", "t", nil, "Targets to resolve: shader, displacement, attribute (default all)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "File with one object path per line")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Concurrent resolutions (default GOMAXPROCS)")

	return cmd
}

func readObjectsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	return processor.ReadObjects(f)
}

func newSetsCmd() *cobra.Command {
	var docFlags documentFlags

	cmd := &cobra.Command{
		Use:   "sets",
		Short: "List surface and displacement shaders that can share an object",
		RunE: func(cmd *cobra.Command, args []string) error {
			writer, err := docFlags.writer(cmd)
			if err != nil {
				return err
			}

			proc, err := processor.NewProcessor(docFlags.document, processor.Options{Layer: docFlags.layer})
			if err != nil {
				return fmt.Errorf("create processor: %w", err)
			}

			return writer.WriteShaderSets(cmd.OutOrStdout(), proc.Resolver().ShaderSets())
		},
	}

	docFlags.register(cmd)
	docFlags.registerFormat(cmd)
	return cmd
}

func newCheckCmd() *cobra.Command {
	var docFlags documentFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a document and report expressions that don't compile",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.LoadFromFile(docFlags.document)
			if err != nil {
				return fmt.Errorf("load document: %w", err)
			}

			a, buildErr := document.Build(doc, document.Options{Layer: docFlags.layer})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "expressions: %d\n", len(doc.Expressions))
			for _, t := range a.Targets() {
				fmt.Fprintf(out, "%s: %d\n", t, a.Table(t).Len())
			}

			groups := a.Groups()
			names := make([]string, 0, len(groups))
			for name := range groups {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "group %s: %d\n", name, len(groups[name]))
			}

			if buildErr != nil {
				return &ExitError{Code: 1, Message: buildErr.Error()}
			}
			return nil
		},
	}

	docFlags.register(cmd)
	return cmd
}

func newMatchCmd() *cobra.Command {
	var convert bool

	cmd := &cobra.Command{
		Use:   "match <pattern> <path>...",
		Short: "Print the paths a pattern matches entirely",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]
			if convert {
				pattern = expression.ConvertRegex(pattern)
			}

			p, err := expression.Compile(pattern)
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}

			matched := 0
			for _, path := range args[1:] {
				if p.MatchString(path) {
					matched++
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
			}

			if matched == 0 {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&convert, "convert", false, `Replace \d \D \w \W with explicit classes first`)
	return cmd
}

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <name> <name>...",
		Short: "Print the expression matching all the given object names",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), merge.All(args...))
			return nil
		},
	}
}

func newMangleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mangle <string>",
		Short: `Replace '/' with '\'`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), expression.Mangle(args[0]))
			return nil
		},
	}
}

func newDemangleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demangle <string>",
		Short: `Replace '\' with '/'`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), expression.Demangle(args[0]))
			return nil
		},
	}
}
