package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"salesforce-metadata-parser/internal/document"
	"salesforce-metadata-parser/node"
)

func newMetadataCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Read and write any metadata file",
	}

	cmd.AddCommand(
		newParseCmd(a),
		newDumpCmd(a),
		newFormatCmd(a),
		newGetCmd(a),
		newSetCmd(a),
	)

	return cmd
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a metadata file and report what was decoded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := document.LoadResult(args[0], a.registry.Roots(), a.codecOptions()...)
			if err != nil {
				return err
			}

			doc := res.Document
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Parsing metadata file: %s\n", args[0])
			fmt.Fprintf(out, "  root: %s (%s)\n", doc.TypeName, doc.Type().Name())
			fmt.Fprintf(out, "  namespace: %s\n", doc.DefaultNamespaceURI())
			fmt.Fprintf(out, "  fields: %d\n", len(doc.Fields()))

			for _, w := range res.Diagnostics.Warnings {
				fmt.Fprintf(out, "  warning: %s\n", w)
			}

			for _, i := range res.Diagnostics.Infos {
				fmt.Fprintf(out, "  info: %s\n", i)
			}

			return nil
		},
	}
}

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the decoded object graph of a metadata file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Load(args[0], a.registry.Roots(), a.codecOptions()...)
			if err != nil {
				return err
			}

			dumper := spew.ConfigState{
				Indent:                  "  ",
				DisablePointerAddresses: true,
				DisableCapacities:       true,
				SortKeys:                true,
			}
			dumper.Fdump(cmd.OutOrStdout(), doc)

			return nil
		},
	}
}

func newFormatCmd(a *app) *cobra.Command {
	var (
		output  string
		inPlace bool
	)

	cmd := &cobra.Command{
		Use:   "format <file>",
		Short: "Rewrite a metadata file in canonical form",
		Long: `The format command decodes a metadata file and encodes it again: fields in
declaration order, four-space indentation, entities escaped once.

Example:
  sfmeta metadata format my.genAiPromptTemplate-meta.xml
  sfmeta metadata format my.genAiPromptTemplate-meta.xml --in-place`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Load(args[0], a.registry.Roots(), a.codecOptions()...)
			if err != nil {
				return err
			}

			if inPlace {
				output = args[0]
			}

			return a.write(cmd.OutOrStdout(), doc, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "Overwrite the input file")

	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print a field of a metadata file",
		Long: `The get command prints the value at a field path. Text prints as is; nested
elements print one "path=text" line per text field below them.

Example:
  sfmeta metadata get my.genAiPromptTemplate-meta.xml developerName
  sfmeta metadata get my.genAiPromptTemplate-meta.xml "templateVersions[-1].status"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := node.ParsePath(args[1])
			if err != nil {
				return err
			}

			doc, err := document.Load(args[0], a.registry.Roots(), a.codecOptions()...)
			if err != nil {
				return err
			}

			v, err := node.Lookup(doc.Node, p)
			if err != nil {
				return err
			}

			if t, ok := v.(node.Text); ok {
				fmt.Fprintln(cmd.OutOrStdout(), string(t))
				return nil
			}

			printValue(cmd.OutOrStdout(), p.String(), v)

			return nil
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "set <file> <path> <text>",
		Short: "Set a text field of a metadata file",
		Long: `The set command assigns text at a field path and writes the file back, or
to --output when given. An empty text removes the field.

Example:
  sfmeta metadata set my.genAiPromptTemplate-meta.xml "templateVersions[0].status" Published`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := node.ParsePath(args[1])
			if err != nil {
				return err
			}

			doc, err := document.Load(args[0], a.registry.Roots(), a.codecOptions()...)
			if err != nil {
				return err
			}

			if err := node.SetPath(doc.Node, p, args[2]); err != nil {
				return err
			}

			if output == "" {
				output = args[0]
			}

			return a.write(cmd.OutOrStdout(), doc, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of the input file")

	return cmd
}

// write saves doc to path, or prints it when path is empty.
func (a *app) write(out io.Writer, doc *node.Document, path string) error {
	if path != "" {
		return document.Save(doc, path, a.codecOptions()...)
	}

	data, err := document.Marshal(doc, a.codecOptions()...)
	if err != nil {
		return err
	}

	_, err = out.Write(data)

	return err
}

// printValue prints every text below v as "path=text".
func printValue(w io.Writer, path string, v node.Value) {
	switch v := v.(type) {
	case node.Text:
		fmt.Fprintf(w, "%s=%s\n", path, string(v))
	case *node.Node:
		for _, f := range v.Fields() {
			printValue(w, joinPath(path, f), v.Get(f))
		}
	case node.List:
		for i, item := range v {
			printValue(w, fmt.Sprintf("%s[%d]", path, i), item)
		}
	}
}

func joinPath(prefix, field string) string {
	if prefix == "" {
		return field
	}

	return prefix + "." + field
}
