// Package metadata declares the Salesforce metadata schema types known to the
// tool and a typed accessor layer over decoded documents.
//
// Types are plain node.Type declarations: the codec needs nothing else from
// them, and documents of undeclared types decode into Metadata.
package metadata

import "salesforce-metadata-parser/node"

// SFDCNamespace is the default namespace of Metadata API documents.
const SFDCNamespace = "http://soap.sforce.com/2006/04/metadata"

// XSINamespace is the XML Schema instance namespace.
const XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"

// Metadata is the base of every metadata type and the fallback type of
// documents whose root tag is not registered.
var Metadata = node.Define("Metadata").
	Text("fullName").
	Build()

// Roots returns the root tag table of the built-in metadata types. Files
// retrieved from an org name the root after the type ("GenAiPromptTemplate"),
// so both spellings resolve.
func Roots() map[string]*node.Type {
	roots := map[string]*node.Type{}

	for _, t := range []*node.Type{GenAiPromptTemplate} {
		roots[t.RootTag()] = t
		roots[t.Name()] = t
	}

	return roots
}

// NewDocument creates an empty document of type t in the Metadata API
// namespace.
func NewDocument(t *node.Type) *node.Document {
	doc := node.NewDocument(t)
	doc.Namespaces[node.DefaultNamespace] = SFDCNamespace

	return doc
}
