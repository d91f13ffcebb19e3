package node

import "maps"

// DefaultNamespace is the namespace table key of the default (unprefixed)
// namespace.
const DefaultNamespace = ""

// Declaration holds the parameters of the XML declaration.
type Declaration struct {
	Version    string
	Encoding   string
	Standalone string
}

// DefaultDeclaration is used when a document has no prolog.
var DefaultDeclaration = Declaration{Version: "1.0", Encoding: "UTF-8"}

// Document is the top-level element of a metadata file. Besides its visible
// fields it carries conventions that are never serialized: the root tag
// name, the namespace table, the XML declaration, and the directory and
// suffix used to derive default file paths.
type Document struct {
	*Node

	TypeName    string
	Namespaces  map[string]string
	Declaration Declaration
	Directory   string
	Suffix      string
}

// NewDocument creates an empty document of type t, seeded with the type's
// root tag and file conventions.
func NewDocument(t *Type) *Document {
	if t == nil {
		t = Generic
	}

	return &Document{
		Node:        t.New(),
		TypeName:    t.RootTag(),
		Namespaces:  make(map[string]string),
		Declaration: DefaultDeclaration,
		Directory:   t.Directory(),
		Suffix:      t.Suffix(),
	}
}

// DefaultNamespaceURI returns the default namespace, or "" when unset.
func (d *Document) DefaultNamespaceURI() string {
	return d.Namespaces[DefaultNamespace]
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := *d
	c.Node = d.Node.Clone()
	c.Namespaces = maps.Clone(d.Namespaces)

	return &c
}
