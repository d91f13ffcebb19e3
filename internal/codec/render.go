package codec

import (
	"fmt"
	"strings"

	"salesforce-metadata-parser/node"
)

// DefaultIndent is the indent unit of rendered documents.
const DefaultIndent = "    "

// Render serializes an Element tree to indented text with an XML
// declaration built from decl.
//
// The tree is first written compactly, parsed back and written again with
// indentation. Text escaped by the encoder is escaped a second time along
// the way; CollapseDoubleEscapes undoes that before returning.
func Render(root *Element, decl node.Declaration) (string, error) {
	return RenderIndent(root, decl, DefaultIndent)
}

// RenderIndent is Render with a custom indent unit.
func RenderIndent(root *Element, decl node.Declaration, indent string) (string, error) {
	if root == nil {
		return "", ErrNoRoot
	}

	var rough strings.Builder

	rough.WriteString(`<?xml version="1.0"?>`)
	writeCompact(&rough, root, rootPrefixes(root))

	reparsed, _, err := ParseString(rough.String())
	if err != nil {
		return "", fmt.Errorf("reparse rendered document: %w", err)
	}

	var pretty strings.Builder

	writeDeclaration(&pretty, decl)
	writePretty(&pretty, reparsed, 0, indent, rootPrefixes(reparsed))

	return CollapseDoubleEscapes(pretty.String()), nil
}

func writeDeclaration(b *strings.Builder, decl node.Declaration) {
	version := decl.Version
	if version == "" {
		version = node.DefaultDeclaration.Version
	}

	b.WriteString(`<?xml version="` + version + `"`)

	if decl.Encoding != "" {
		b.WriteString(` encoding="` + decl.Encoding + `"`)
	}

	if decl.Standalone != "" {
		b.WriteString(` standalone="` + decl.Standalone + `"`)
	}

	b.WriteString("?>\n")
}

func writeCompact(b *strings.Builder, el *Element, prefixes map[string]string) {
	name := LocalName(el.Tag)

	b.WriteString("<" + name)
	writeAttrs(b, el, prefixes)

	if el.Text == "" && len(el.Children) == 0 {
		b.WriteString(" />")
		return
	}

	b.WriteString(">")
	b.WriteString(escapeText(el.Text))

	for _, c := range el.Children {
		writeCompact(b, c, prefixes)
	}

	b.WriteString("</" + name + ">")
}

func writePretty(b *strings.Builder, el *Element, depth int, indent string, prefixes map[string]string) {
	pad := strings.Repeat(indent, depth)
	name := LocalName(el.Tag)

	b.WriteString(pad + "<" + name)
	writeAttrs(b, el, prefixes)

	if len(el.Children) == 0 {
		if el.Text == "" {
			b.WriteString("/>\n")
			return
		}

		b.WriteString(">" + escapeText(el.Text) + "</" + name + ">\n")

		return
	}

	b.WriteString(">\n")

	if !isBlank(el.Text) {
		b.WriteString(pad + indent + escapeText(el.Text) + "\n")
	}

	for _, c := range el.Children {
		writePretty(b, c, depth+1, indent, prefixes)
	}

	b.WriteString(pad + "</" + name + ">\n")
}

func writeAttrs(b *strings.Builder, el *Element, prefixes map[string]string) {
	for _, a := range el.Attr {
		name := a.Name.Local

		switch {
		case a.Name.Space == "xmlns":
			name = "xmlns:" + a.Name.Local
		case a.Name.Space != "":
			if p, ok := prefixes[a.Name.Space]; ok {
				name = p + ":" + a.Name.Local
			}
		}

		b.WriteString(" " + name + `="` + escapeAttr(a.Value) + `"`)
	}
}

// rootPrefixes maps namespace URIs declared with a prefix on the root
// element back to that prefix.
func rootPrefixes(root *Element) map[string]string {
	out := make(map[string]string)

	for _, a := range root.Attr {
		if a.Name.Space == "xmlns" {
			out[a.Value] = a.Name.Local
		}
	}

	return out
}
