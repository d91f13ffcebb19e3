package codec

import (
	"strconv"
	"strings"
)

// ElementPath builds a readable location for diagnostics, in the field path
// syntax understood by node.ParsePath:
//   - "templateVersions[0]" for the first nested element of a field
//   - "templateVersions[0].inputs[2]" below it
type ElementPath struct {
	parts []string
}

// Child appends a nested element occurrence to the path.
func (p *ElementPath) Child(name string, index int) *ElementPath {
	return p.with(name + "[" + strconv.Itoa(index) + "]")
}

// Field appends a plain field name to the path.
func (p *ElementPath) Field(name string) *ElementPath {
	return p.with(name)
}

func (p *ElementPath) with(part string) *ElementPath {
	var parts []string
	if p != nil {
		parts = p.parts
	}

	return &ElementPath{parts: append(append([]string{}, parts...), part)}
}

// String returns the full path string.
func (p *ElementPath) String() string {
	if p == nil {
		return ""
	}

	return strings.Join(p.parts, ".")
}
