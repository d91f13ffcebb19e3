package schema

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"salesforce-metadata-parser/internal/diagnostic"
	"salesforce-metadata-parser/internal/match"
	"salesforce-metadata-parser/node"
)

// Validate checks a schema file against itself and the built-in types it may
// reference. It reports every problem it finds instead of stopping at the
// first one.
func Validate(f *File, builtins map[string]*node.Type) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(diagnostic.CodeMissingName, "schema file is nil", "", "")
		return res
	}

	declared := map[string]int{}

	for i, td := range f.Types {
		subject := typeSubject(td, i)

		if td.Name == "" {
			res.AddError(diagnostic.CodeMissingName, "type has no name", subject, "")
			continue
		}

		if _, ok := declared[td.Name]; ok {
			res.AddError(diagnostic.CodeDuplicateType, fmt.Sprintf("duplicate type %q", td.Name), subject, "")
			continue
		}

		if _, ok := builtins[td.Name]; ok {
			res.AddError(diagnostic.CodeDuplicateType,
				fmt.Sprintf("type %q is already built in", td.Name), subject, "")

			continue
		}

		declared[td.Name] = i
	}

	known := knownNames(declared, builtins)

	validateRoots(res, f, builtins)

	for i := range f.Types {
		validateType(res, &f.Types[i], typeSubject(f.Types[i], i), declared, builtins, known)
	}

	validateCycles(res, f, declared)

	return res
}

func validateType(
	res *diagnostic.Diagnostics,
	td *TypeDecl,
	subject string,
	declared map[string]int,
	builtins map[string]*node.Type,
	known []string,
) {
	if td.Extends != "" && !isKnown(td.Extends, declared, builtins) {
		res.AddError(diagnostic.CodeUnknownType,
			fmt.Sprintf("base type %q not found", td.Extends), subject, "extends",
			match.Suggest(td.Extends, known, 1, match.DefaultMinScore)...)
	}

	seen := map[string]struct{}{}

	for j := range td.Fields {
		fd := &td.Fields[j]
		path := fmt.Sprintf("fields[%d]", j)

		if fd.Name == "" {
			res.AddError(diagnostic.CodeMissingName, "field has no name", subject, path)
			continue
		}

		path = fd.Name

		if _, ok := seen[fd.Name]; ok {
			res.AddError(diagnostic.CodeDuplicateField, fmt.Sprintf("duplicate field %q", fd.Name), subject, path)
			continue
		}

		seen[fd.Name] = struct{}{}

		validateField(res, fd, subject, path, declared, builtins, known)
	}
}

func validateField(
	res *diagnostic.Diagnostics,
	fd *FieldDecl,
	subject, path string,
	declared map[string]int,
	builtins map[string]*node.Type,
	known []string,
) {
	switch {
	case fd.Type == TypeEnum && fd.Values.IsEmpty():
		res.AddError(diagnostic.CodeEmptyEnum, "enum field declares no values", subject, path)
	case fd.Type != TypeEnum && !fd.Values.IsEmpty():
		res.AddWarning(diagnostic.CodeEmptyEnum,
			fmt.Sprintf("values are ignored on a %s field", fd.Type), subject, path)
	}

	if !fd.IsScalar() && !isKnown(fd.Type, declared, builtins) {
		candidates := append([]string{TypeText, TypeEnum}, known...)
		res.AddError(diagnostic.CodeUnknownType,
			fmt.Sprintf("field type %q not found", fd.Type), subject, path,
			match.Suggest(fd.Type, candidates, 1, match.DefaultMinScore)...)
	}

	if _, err := node.ParsePolicy(fd.Policy); err != nil {
		res.AddError(diagnostic.CodeInvalidPolicy, err.Error(), subject, path)
	} else if fd.Policy != "" && !fd.IsScalar() {
		res.AddError(diagnostic.CodeInvalidPolicy, "policy applies to text and enum fields only", subject, path)
	}
}

func validateRoots(res *diagnostic.Diagnostics, f *File, builtins map[string]*node.Type) {
	owners := map[string]string{}

	for _, name := range slices.Sorted(maps.Keys(builtins)) {
		if tag := builtins[name].RootTag(); tag != "" {
			owners[tag] = name
		}
	}

	for i, td := range f.Types {
		if td.Root == nil {
			continue
		}

		subject := typeSubject(td, i)

		if td.Root.Tag == "" {
			res.AddError(diagnostic.CodeMissingName, "root declares no tag", subject, "root.tag")
			continue
		}

		if owner, ok := owners[td.Root.Tag]; ok {
			res.AddError(diagnostic.CodeDuplicateRoot,
				fmt.Sprintf("root tag %q is already used by %s", td.Root.Tag, owner), subject, "root.tag")

			continue
		}

		owners[td.Root.Tag] = td.Name
	}
}

func validateCycles(res *diagnostic.Diagnostics, f *File, declared map[string]int) {
	_, err := buildOrder(f, declared)

	var ce *cycleError
	if !errors.As(err, &ce) {
		return
	}

	names := make([]string, 0, len(ce.nodes))
	for _, i := range ce.nodes {
		names = append(names, f.Types[i].Name)
	}

	res.AddError(diagnostic.CodeTypeCycle,
		"types reference each other in a cycle: "+strings.Join(names, ", "), names[0], "")
}

// buildOrder orders declared types so that every type comes after its base
// and the types of its nested fields.
func buildOrder(f *File, declared map[string]int) ([]int, error) {
	return topoSort(len(f.Types), func(i int) []int {
		var deps []int

		td := f.Types[i]
		if j, ok := declared[td.Extends]; ok {
			deps = append(deps, j)
		}

		for _, fd := range td.Fields {
			if fd.IsScalar() {
				continue
			}

			if j, ok := declared[fd.Type]; ok && !slices.Contains(deps, j) {
				deps = append(deps, j)
			}
		}

		return deps
	})
}

func isKnown(name string, declared map[string]int, builtins map[string]*node.Type) bool {
	if _, ok := declared[name]; ok {
		return true
	}

	_, ok := builtins[name]

	return ok
}

func knownNames(declared map[string]int, builtins map[string]*node.Type) []string {
	names := slices.Collect(maps.Keys(declared))
	names = append(names, slices.Collect(maps.Keys(builtins))...)
	slices.Sort(names)

	return names
}

func typeSubject(td TypeDecl, i int) string {
	if td.Name != "" {
		return td.Name
	}

	return fmt.Sprintf("types[%d]", i)
}
