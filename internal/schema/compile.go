package schema

import (
	"maps"
	"slices"

	"salesforce-metadata-parser/internal/codec"
	"salesforce-metadata-parser/internal/diagnostic"
	"salesforce-metadata-parser/node"
)

// Registry holds the types compiled from schema files, together with the
// built-in types they were compiled against.
type Registry struct {
	types map[string]*node.Type
}

// NewRegistry creates a registry seeded with builtins and every type
// reachable from them through nested fields.
func NewRegistry(builtins ...*node.Type) *Registry {
	return &Registry{types: Collect(builtins...)}
}

// Lookup returns the type with the given name.
func (r *Registry) Lookup(name string) (*node.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Types returns every registered type, sorted by name.
func (r *Registry) Types() []*node.Type {
	out := make([]*node.Type, 0, len(r.types))
	for _, name := range slices.Sorted(maps.Keys(r.types)) {
		out = append(out, r.types[name])
	}

	return out
}

// Roots returns the root tag table of every registered document type.
// Document types also resolve by type name unless another type claims that
// name as its root tag.
func (r *Registry) Roots() codec.RootTable {
	roots := codec.RootTable{}
	names := slices.Sorted(maps.Keys(r.types))

	for _, name := range names {
		if t := r.types[name]; t.RootTag() != "" {
			roots[t.RootTag()] = t
		}
	}

	for _, name := range names {
		t := r.types[name]
		if _, taken := roots[t.Name()]; t.RootTag() != "" && !taken {
			roots[t.Name()] = t
		}
	}

	return roots
}

// Add validates f against the registered types and, when it is valid,
// compiles and registers its types. Nothing is registered when the
// returned diagnostics hold errors.
func (r *Registry) Add(f *File) *diagnostic.Diagnostics {
	res := Validate(f, r.types)
	if res.HasErrors() {
		return res
	}

	declared := map[string]int{}
	for i, td := range f.Types {
		declared[td.Name] = i
	}

	order, err := buildOrder(f, declared)
	if err != nil {
		res.AddError(diagnostic.CodeTypeCycle, err.Error(), "", "")
		return res
	}

	compiled := map[string]*node.Type{}

	lookup := func(name string) *node.Type {
		if t, ok := compiled[name]; ok {
			return t
		}

		return r.types[name]
	}

	for _, i := range order {
		td := f.Types[i]
		compiled[td.Name] = compileType(td, lookup)
	}

	maps.Copy(r.types, compiled)

	return res
}

// Compile builds the types of f on top of builtins.
func Compile(f *File, builtins ...*node.Type) (*Registry, *diagnostic.Diagnostics) {
	r := NewRegistry(builtins...)

	res := r.Add(f)
	if res.HasErrors() {
		return nil, res
	}

	return r, res
}

func compileType(td TypeDecl, lookup func(string) *node.Type) *node.Type {
	b := node.Define(td.Name)

	if td.Extends != "" {
		b.Extends(lookup(td.Extends))
	}

	if td.Root != nil {
		b.Root(td.Root.Tag, td.Root.Directory, td.Root.Suffix)
	}

	for _, fd := range td.Fields {
		// Policies were checked by Validate.
		policy, _ := node.ParsePolicy(fd.Policy)

		f := node.Field{Name: fd.Name, Policy: policy}

		switch fd.Type {
		case TypeText:
			f.Kind = node.FieldText
		case TypeEnum:
			f.Kind = node.FieldEnum
			f.Values = fd.Values
		default:
			f.Kind = node.FieldNested
			f.Elem = lookup(fd.Type)
		}

		b.Declare(f)
	}

	return b.Build()
}

// Collect maps the names of types and of every type reachable from them
// through nested fields to the types themselves.
func Collect(types ...*node.Type) map[string]*node.Type {
	out := map[string]*node.Type{}

	var walk func(t *node.Type)
	walk = func(t *node.Type) {
		if t == nil {
			return
		}

		if _, ok := out[t.Name()]; ok {
			return
		}

		out[t.Name()] = t

		for _, f := range t.Fields() {
			if f.Kind == node.FieldNested {
				walk(f.Elem)
			}
		}
	}

	for _, t := range types {
		walk(t)
	}

	return out
}
