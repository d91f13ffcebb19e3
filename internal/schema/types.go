package schema

// File represents the root of a YAML schema declaration file.
type File struct {
	// Version of the schema format (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Types lists the declared metadata types.
	Types []TypeDecl `yaml:"types"`
}

// TypeDecl declares one schema type.
type TypeDecl struct {
	// Name of the type, unique across the file and the built-in types.
	Name string `yaml:"name"`

	// Extends names a type whose fields and file conventions are inherited.
	Extends string `yaml:"extends,omitempty"`

	// Root makes the type a document type.
	Root *RootDecl `yaml:"root,omitempty"`

	// Fields in emission order, after the inherited ones.
	Fields []FieldDecl `yaml:"fields,omitempty"`
}

// RootDecl holds the document conventions of a root type.
type RootDecl struct {
	// Tag is the local name of the document's root element.
	Tag string `yaml:"tag"`

	// Directory holding documents of this type in a project tree.
	Directory string `yaml:"directory,omitempty"`

	// Suffix of "<name>.<suffix>-meta.xml" file names.
	Suffix string `yaml:"suffix,omitempty"`
}

// Field type keywords. Any other field type names a schema type.
const (
	TypeText = "text"
	TypeEnum = "enum"
)

// FieldDecl declares one field of a type.
type FieldDecl struct {
	Name string `yaml:"name"`

	// Type is "text", "enum" or the name of a nested type.
	Type string `yaml:"type,omitempty"`

	// Values of an enum field. Accepts a single string or a list.
	Values StringOrArray `yaml:"values,omitempty"`

	// Policy for repeated text children: "overwrite" or "append".
	Policy string `yaml:"policy,omitempty"`
}

// IsScalar reports whether the field holds text.
func (f FieldDecl) IsScalar() bool {
	return f.Type == TypeText || f.Type == TypeEnum
}

// StringOrArray represents a YAML value that can be either a single string
// or an array of strings.
type StringOrArray []string
