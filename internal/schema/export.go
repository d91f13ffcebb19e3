package schema

import (
	"salesforce-metadata-parser/node"
)

// Export describes types, and every type reachable from them, as a schema
// file. Nested types come before the types using them, so the result
// reads top-down from leaves to documents. Inheritance is not recorded:
// inherited fields are listed on each type.
func Export(types ...*node.Type) *File {
	f := &File{Version: "1"}
	seen := map[*node.Type]bool{}

	var visit func(t *node.Type)
	visit = func(t *node.Type) {
		if t == nil || seen[t] {
			return
		}

		seen[t] = true

		for _, fld := range t.Fields() {
			if fld.Kind == node.FieldNested {
				visit(fld.Elem)
			}
		}

		f.Types = append(f.Types, exportType(t))
	}

	for _, t := range types {
		visit(t)
	}

	return f
}

func exportType(t *node.Type) TypeDecl {
	td := TypeDecl{Name: t.Name()}

	if t.RootTag() != "" {
		td.Root = &RootDecl{Tag: t.RootTag(), Directory: t.Directory(), Suffix: t.Suffix()}
	}

	for _, fld := range t.Fields() {
		fd := FieldDecl{Name: fld.Name}

		switch fld.Kind {
		case node.FieldEnum:
			fd.Type = TypeEnum
			fd.Values = StringOrArray(fld.Values)
		case node.FieldNested:
			fd.Type = fld.Elem.Name()
		default:
			fd.Type = TypeText
		}

		if fld.Policy != node.PolicyOverwrite {
			fd.Policy = fld.Policy.String()
		}

		td.Fields = append(td.Fields, fd)
	}

	return td
}
