package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"salesforce-metadata-parser/internal/diagnostic"
	"salesforce-metadata-parser/internal/schema"
	"salesforce-metadata-parser/node"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Check and export YAML schema declarations",
	}

	cmd.AddCommand(newSchemaCheckCmd(a), newSchemaExportCmd(a))

	return cmd
}

func newSchemaCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate schema files against the built-in and configured types",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0

			var total diagnostic.Diagnostics

			for _, path := range args {
				f, err := schema.LoadFile(path)
				if err != nil {
					return err
				}

				res := a.registry.Add(f)
				total.Merge(*res)

				for _, d := range append(res.Errors, res.Warnings...) {
					fmt.Fprintf(out, "%s: %s: %s\n", path, d.Severity, d)
				}

				if res.HasErrors() {
					failed++
					continue
				}

				fmt.Fprintf(out, "%s: ok (%d types)\n", path, len(f.Types))
			}

			fmt.Fprintf(out, "%d files: %d errors, %d warnings\n", len(args), len(total.Errors), len(total.Warnings))

			if failed > 0 {
				return fmt.Errorf("%d of %d schema files have errors", failed, len(args))
			}

			return nil
		},
	}
}

func newSchemaExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [type]...",
		Short: "Write types as a schema file",
		Long: `The export command writes registered types, and every type they nest, as a
YAML schema file. Without arguments it exports every document type.

Example:
  sfmeta schema export GenAiPromptTemplate -o genai.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var types []*node.Type

			if len(args) == 0 {
				for _, t := range a.registry.Types() {
					if t.RootTag() != "" {
						types = append(types, t)
					}
				}
			}

			for _, name := range args {
				t, ok := a.registry.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown type %q", name)
				}

				types = append(types, t)
			}

			f := schema.Export(types...)

			if output != "" {
				return schema.WriteFile(f, output)
			}

			data, err := schema.Marshal(f)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}
