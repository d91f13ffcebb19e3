package codec

import (
	"bytes"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"salesforce-metadata-parser/internal/diagnostic"
	"salesforce-metadata-parser/internal/match"
	"salesforce-metadata-parser/node"
)

// RootTable maps a document's root tag to the schema type representing it.
type RootTable map[string]*node.Type

// Option configures a Decoder or Encoder.
type Option func(*settings)

type settings struct {
	log      logrus.FieldLogger
	fallback *node.Type
	source   string
	indent   string
}

func newSettings(opts []Option) settings {
	s := settings{
		log:      logrus.StandardLogger(),
		fallback: node.Generic,
		indent:   DefaultIndent,
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// LoggerOf returns the logger selected by opts.
func LoggerOf(opts ...Option) logrus.FieldLogger {
	return newSettings(opts).log
}

// WithLogger sets the logger used for tree walking events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}

// WithFallback sets the document type used for root tags missing from the
// RootTable. It defaults to node.Generic.
func WithFallback(t *node.Type) Option {
	return func(s *settings) {
		if t != nil {
			s.fallback = t
		}
	}
}

// WithSource names the file being decoded in errors and log entries.
func WithSource(name string) Option {
	return func(s *settings) {
		s.source = name
	}
}

// WithIndent sets the indent unit used when rendering.
func WithIndent(indent string) Option {
	return func(s *settings) {
		s.indent = indent
	}
}

// Decoder walks Element trees into node trees.
type Decoder struct {
	roots    RootTable
	log      logrus.FieldLogger
	fallback *node.Type
	source   string
	subject  string

	// Diagnostics collects the degradations absorbed while decoding.
	Diagnostics diagnostic.Diagnostics
}

// NewDecoder creates a decoder resolving root tags through roots.
func NewDecoder(roots RootTable, opts ...Option) *Decoder {
	s := newSettings(opts)

	return &Decoder{
		roots:    roots,
		log:      s.log,
		fallback: s.fallback,
		source:   s.source,
	}
}

// DecodeDocument parses a whole document and decodes it into a new Document
// of the type registered for its root tag.
func (d *Decoder) DecodeDocument(r io.Reader) (*node.Document, error) {
	root, decl, err := ParseElement(r)
	if err != nil {
		return nil, newParseError(d.source, err)
	}

	tag := LocalName(root.Tag)

	t, ok := d.roots[tag]
	if !ok || t == nil {
		t = d.fallback
		d.log.WithField("tag", tag).Debug("root tag not registered, using fallback document type")
	}

	d.log.WithFields(logrus.Fields{"tag": tag, "type": t.Name()}).Debug("decoding document")

	doc := node.NewDocument(t)
	doc.TypeName = tag
	doc.Declaration = decl
	doc.Namespaces = namespaces(root)

	d.subject = tag
	d.Decode(root, doc.Node)

	return doc, nil
}

// DecodeString is DecodeDocument over a string.
func (d *Decoder) DecodeString(s string) (*node.Document, error) {
	return d.DecodeDocument(strings.NewReader(s))
}

// DecodeBytes is DecodeDocument over a byte slice.
func (d *Decoder) DecodeBytes(b []byte) (*node.Document, error) {
	return d.DecodeDocument(bytes.NewReader(b))
}

// Decode populates target from the children of el, in document order.
func (d *Decoder) Decode(el *Element, target *node.Node) {
	d.decode(el, target, nil)
}

func (d *Decoder) decode(el *Element, target *node.Node, path *ElementPath) {
	for _, child := range el.Children {
		field := LocalName(child.Tag)

		if len(child.Attr) > 0 {
			d.Diagnostics.AddWarning(diagnostic.CodeAttributeDropped,
				"attributes of <"+field+"> are not kept", d.subject, path.Field(field).String())
			d.log.WithField("field", field).Warn("dropping element attributes")
		}

		if !isBlank(child.Tail) {
			d.Diagnostics.AddWarning(diagnostic.CodeMixedContent,
				"text after <"+field+"> is not kept", d.subject, path.Field(field).String())
			d.log.WithField("field", field).Warn("dropping mixed content")
		}

		if !isBlank(child.Text) {
			d.decodeText(target, field, child, path)
			continue
		}

		if child.Text != "" && len(child.Children) == 0 {
			d.Diagnostics.AddInfo(diagnostic.CodeBlankText,
				"whitespace-only text of <"+field+"> decoded as an empty element", d.subject, path.Field(field).String())
		}

		n := d.instantiate(target, field, path)
		target.Append(field, n)

		d.log.WithFields(logrus.Fields{
			"field": field,
			"type":  n.Type().Name(),
		}).Debug("decoding nested element")

		d.decode(child, n, path.Child(field, len(target.List(field))-1))
	}
}

func (d *Decoder) decodeText(target *node.Node, field string, child *Element, path *ElementPath) {
	if len(child.Children) > 0 {
		d.Diagnostics.AddWarning(diagnostic.CodeMixedContent,
			"children of <"+field+"> are not kept, it carries text", d.subject, path.Field(field).String())
	}

	if target.Type().Policy(field) == node.PolicyAppend {
		target.Append(field, node.Text(child.Text))
	} else {
		target.SetText(field, child.Text)
	}

	d.log.WithFields(logrus.Fields{"field": field, "text": preview(child.Text)}).Debug("decoded text")
}

// instantiate creates the node for a structural occurrence of field, falling
// back to a generic node when the parent type has no registry entry.
func (d *Decoder) instantiate(parent *node.Node, field string, path *ElementPath) *node.Node {
	if f := parent.Resolve(field); f != nil {
		return f.New()
	}

	d.Diagnostics.AddWarning(diagnostic.CodeUnresolvedType,
		"no type registered for <"+field+">, decoded as "+node.Generic.Name(),
		d.subject, path.Field(field).String(), suggestNested(parent.Type(), field)...)
	d.log.WithField("field", field).Debug("no type registered, using generic node")

	return node.New()
}

// suggestNested proposes declared nested fields resembling an unknown field,
// which usually points at a typo in the document or the schema.
func suggestNested(t *node.Type, field string) []string {
	var nested []string

	for _, f := range t.Fields() {
		if f.Kind == node.FieldNested && f.Name != field {
			nested = append(nested, f.Name)
		}
	}

	return match.Suggest(field, nested, 1, match.DefaultMinScore)
}

// namespaces collects the namespace declarations of the root element.
func namespaces(root *Element) map[string]string {
	ns := make(map[string]string)

	for _, a := range root.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			ns[node.DefaultNamespace] = a.Value
		case a.Name.Space == "xmlns":
			ns[a.Name.Local] = a.Value
		}
	}

	if _, ok := ns[node.DefaultNamespace]; !ok {
		if uri := Namespace(root.Tag); uri != "" {
			ns[node.DefaultNamespace] = uri
		}
	}

	return ns
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func preview(s string) string {
	const limit = 40

	if r := []rune(s); len(r) > limit {
		return string(r[:limit]) + "..."
	}

	return s
}
