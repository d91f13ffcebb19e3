package node

import (
	"fmt"
	"slices"
)

// Policy decides what happens when a simple-text child repeats.
type Policy int

const (
	// PolicyOverwrite keeps the last occurrence (last write wins).
	PolicyOverwrite Policy = iota
	// PolicyAppend accumulates every occurrence into a List of Text.
	PolicyAppend
)

// String returns the policy name used in schema declaration files.
func (p Policy) String() string {
	switch p {
	case PolicyOverwrite:
		return "overwrite"
	case PolicyAppend:
		return "append"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses a policy name. The empty string means PolicyOverwrite.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "overwrite":
		return PolicyOverwrite, nil
	case "append":
		return PolicyAppend, nil
	default:
		return PolicyOverwrite, fmt.Errorf("unknown field policy %q (expected overwrite or append)", s)
	}
}

// FieldKind is the declared shape of a schema field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldEnum
	FieldNested
)

// Field is one declared field of a schema type.
type Field struct {
	Name   string
	Kind   FieldKind
	Policy Policy
	// Elem is the type instantiated for nested occurrences of the field.
	Elem *Type
	// Values is the closed value set of an enumerated field. The codec never
	// checks it; accessors do.
	Values []string
}

// Factory creates fresh nodes. *Type is the Factory used by schema
// declarations; the decoder only depends on this interface.
type Factory interface {
	New() *Node
}

// Type is a statically declared node shape: ordered fields plus the
// sub-registry mapping field names to the type of their nested elements.
// A Type is immutable once built and safe for concurrent use.
type Type struct {
	name   string
	fields []Field
	index  map[string]int

	rootTag   string
	directory string
	suffix    string
}

// Generic is the type of nodes created for elements with no registry entry.
var Generic = Define("XmlNode").Build()

// Name returns the schema type name.
func (t *Type) Name() string { return t.name }

// New implements Factory.
func (t *Type) New() *Node {
	return &Node{typ: t, values: make(map[string]Value)}
}

// Fields returns the declared fields in declaration order.
func (t *Type) Fields() []Field {
	return slices.Clone(t.fields)
}

// Field looks up a declared field by name.
func (t *Type) Field(name string) (Field, bool) {
	i, ok := t.index[name]
	if !ok {
		return Field{}, false
	}

	return t.fields[i], true
}

// Resolve returns the factory for nested elements of the named field, or
// nil when the field has no registry entry.
func (t *Type) Resolve(field string) Factory {
	f, ok := t.Field(field)
	if !ok || f.Kind != FieldNested || f.Elem == nil {
		return nil
	}

	return f.Elem
}

// Policy returns the text policy of the named field.
func (t *Type) Policy(field string) Policy {
	f, ok := t.Field(field)
	if !ok {
		return PolicyOverwrite
	}

	return f.Policy
}

// RootTag is the element name of documents of this type, if it is a root type.
func (t *Type) RootTag() string { return t.rootTag }

// Directory is the default directory segment for files of this type.
func (t *Type) Directory() string { return t.directory }

// Suffix is the default file-suffix segment for files of this type.
func (t *Type) Suffix() string { return t.suffix }

// Builder declares a Type field by field.
type Builder struct {
	t *Type
}

// Define starts the declaration of a schema type.
func Define(name string) *Builder {
	return &Builder{t: &Type{name: name, index: make(map[string]int)}}
}

// Extends copies the fields and file conventions of base; fields declared
// afterwards come after the inherited ones. The root tag is not inherited: a
// derived type is a document root only when it declares its own Root.
func (b *Builder) Extends(base *Type) *Builder {
	for _, f := range base.fields {
		b.add(f)
	}

	b.t.directory = base.directory
	b.t.suffix = base.suffix

	return b
}

// Text declares a scalar field.
func (b *Builder) Text(name string, policy ...Policy) *Builder {
	f := Field{Name: name, Kind: FieldText}
	if len(policy) > 0 {
		f.Policy = policy[0]
	}

	return b.add(f)
}

// Enum declares a scalar field with a closed value set.
func (b *Builder) Enum(name string, values ...string) *Builder {
	return b.add(Field{Name: name, Kind: FieldEnum, Values: values})
}

// Nested declares a field whose occurrences are instances of elem.
func (b *Builder) Nested(name string, elem *Type) *Builder {
	if elem == nil {
		panic(fmt.Sprintf("node: nested field %s.%s declared without a type", b.t.name, name))
	}

	return b.add(Field{Name: name, Kind: FieldNested, Elem: elem})
}

// Declare adds a fully described field, such as one read from a schema
// declaration file.
func (b *Builder) Declare(f Field) *Builder {
	if f.Kind == FieldNested && f.Elem == nil {
		panic(fmt.Sprintf("node: nested field %s.%s declared without a type", b.t.name, f.Name))
	}

	f.Values = slices.Clone(f.Values)

	return b.add(f)
}

// Root marks the type as a document root with its file conventions.
func (b *Builder) Root(tag, directory, suffix string) *Builder {
	b.t.rootTag = tag
	b.t.directory = directory
	b.t.suffix = suffix

	return b
}

// Build finishes the declaration. The builder must not be used afterwards.
func (b *Builder) Build() *Type {
	t := b.t
	b.t = nil

	return t
}

// add declares f, replacing an inherited field of the same name in place.
func (b *Builder) add(f Field) *Builder {
	if i, ok := b.t.index[f.Name]; ok {
		b.t.fields[i] = f
		return b
	}

	b.t.index[f.Name] = len(b.t.fields)
	b.t.fields = append(b.t.fields, f)

	return b
}
