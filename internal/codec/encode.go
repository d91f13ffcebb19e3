package codec

import (
	"encoding/xml"

	"github.com/sirupsen/logrus"

	"salesforce-metadata-parser/node"
)

// Encoder walks node trees into Element trees.
type Encoder struct {
	log    logrus.FieldLogger
	indent string
}

// NewEncoder creates an encoder.
func NewEncoder(opts ...Option) *Encoder {
	s := newSettings(opts)

	return &Encoder{log: s.log, indent: s.indent}
}

// Marshal encodes and renders a document to text.
func (e *Encoder) Marshal(doc *node.Document) (string, error) {
	root, err := e.EncodeDocument(doc)
	if err != nil {
		return "", err
	}

	return RenderIndent(root, doc.Declaration, e.indent)
}

// EncodeDocument builds the Element tree of a document: a root element
// named after the document's type name carrying only the default namespace,
// followed by every visible field.
func (e *Encoder) EncodeDocument(doc *node.Document) (*Element, error) {
	tag := doc.TypeName
	if tag == "" {
		tag = doc.Type().RootTag()
	}

	if tag == "" {
		return nil, ErrMissingTypeName
	}

	root := &Element{Tag: tag}

	if ns := doc.DefaultNamespaceURI(); ns != "" {
		root.Attr = append(root.Attr, xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: ns})
	}

	if err := e.encodeFields(root, doc.Node); err != nil {
		return nil, err
	}

	return root, nil
}

// Encode writes one field value below parent:
//   - absent or blank text: nothing
//   - text: one element holding the escaped text
//   - node: one element holding the node's fields
//   - list: the same procedure per item, producing same-named siblings
func (e *Encoder) Encode(parent *Element, field string, v node.Value) error {
	switch v := v.(type) {
	case nil:
		e.log.WithField("field", field).Debug("value not set")
		return nil

	case node.Text:
		if v.IsBlank() {
			e.log.WithField("field", field).Debug("blank text omitted")
			return nil
		}

		el := parent.SubElement(field)
		el.Text = EscapeEntities(string(v))

		return nil

	case *node.Node:
		if v == nil {
			return nil
		}

		el := parent.SubElement(field)
		e.log.WithFields(logrus.Fields{"parent": parent.Tag, "field": field}).Debug("adding object node")

		return e.encodeFields(el, v)

	case node.List:
		for _, item := range v {
			if err := e.Encode(parent, field, item); err != nil {
				return err
			}
		}

		return nil

	default:
		return &UnsupportedValueError{Field: field, Value: v}
	}
}

func (e *Encoder) encodeFields(el *Element, n *node.Node) error {
	for _, name := range n.Fields() {
		if err := e.Encode(el, name, n.Get(name)); err != nil {
			return err
		}
	}

	return nil
}
