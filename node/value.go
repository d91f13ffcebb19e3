package node

import "strings"

// Value is the content stored under a field name: Text, *Node, or List.
// A nil Value means the field is absent.
type Value interface {
	Kind() Kind
}

// Text is a scalar field value.
type Text string

// Kind implements Value.
func (Text) Kind() Kind { return KindText }

// IsBlank reports whether the text is empty or whitespace only.
func (t Text) IsBlank() bool {
	return strings.TrimSpace(string(t)) == ""
}

// Kind implements Value.
func (*Node) Kind() Kind { return KindNode }

// List is an ordered sequence of values sharing one field name.
// Items are *Node for repeated structural elements, or Text when a field
// uses PolicyAppend.
type List []Value

// Kind implements Value.
func (List) Kind() Kind { return KindList }

// Nodes returns the *Node items of the list, skipping everything else.
func (l List) Nodes() []*Node {
	out := make([]*Node, 0, len(l))

	for _, v := range l {
		if n, ok := v.(*Node); ok {
			out = append(out, n)
		}
	}

	return out
}

// Texts returns the Text items of the list as strings.
func (l List) Texts() []string {
	out := make([]string, 0, len(l))

	for _, v := range l {
		if t, ok := v.(Text); ok {
			out = append(out, string(t))
		}
	}

	return out
}

// cloneValue deep-copies v.
func cloneValue(v Value) Value {
	switch v := v.(type) {
	case *Node:
		return v.Clone()
	case List:
		out := make(List, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}

		return out
	default:
		return v
	}
}
