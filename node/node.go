// Package node holds the in-memory object tree produced by decoding metadata
// XML: generic nodes, schema types with their sub-registries, and documents.
package node

import "slices"

// Node is one XML element. Its fields map a child tag name to a Value.
// Fields not declared by the node's Type are kept too, in first-set order,
// so unknown structure survives a round trip.
type Node struct {
	typ    *Type
	values map[string]Value
	extra  []string
}

// New returns an empty generic node.
func New() *Node {
	return Generic.New()
}

// Type returns the schema type of the node.
func (n *Node) Type() *Type {
	if n.typ == nil {
		return Generic
	}

	return n.typ
}

// Resolve looks up the sub-registry entry for a field. It returns nil when
// the field has none and a generic node should be used.
func (n *Node) Resolve(field string) Factory {
	return n.Type().Resolve(field)
}

// Get returns the value of a field, or nil when absent.
func (n *Node) Get(field string) Value {
	return n.values[field]
}

// Has reports whether a field holds a value.
func (n *Node) Has(field string) bool {
	return n.values[field] != nil
}

// Text returns the scalar text of a field. The second result is false when
// the field is absent or not scalar.
func (n *Node) Text(field string) (string, bool) {
	t, ok := n.values[field].(Text)
	return string(t), ok
}

// TextOr returns the scalar text of a field or def.
func (n *Node) TextOr(field, def string) string {
	if s, ok := n.Text(field); ok {
		return s
	}

	return def
}

// List returns the list stored under a field. A single nested node is
// returned as a one-item list; a missing field yields nil.
func (n *Node) List(field string) List {
	switch v := n.values[field].(type) {
	case List:
		return v
	case *Node:
		return List{v}
	default:
		return nil
	}
}

// Nodes returns the nested nodes stored under a field.
func (n *Node) Nodes(field string) []*Node {
	return n.List(field).Nodes()
}

// First returns the first nested node of a field, for fields modelled as
// "at most one".
func (n *Node) First(field string) *Node {
	nodes := n.Nodes(field)
	if len(nodes) == 0 {
		return nil
	}

	return nodes[0]
}

// Set stores v under field. A nil v clears the field.
func (n *Node) Set(field string, v Value) {
	if nn, ok := v.(*Node); v == nil || ok && nn == nil {
		n.Delete(field)
		return
	}

	if n.values == nil {
		n.values = make(map[string]Value)
	}

	if _, declared := n.Type().Field(field); !declared && !n.Has(field) {
		n.extra = append(n.extra, field)
	}

	n.values[field] = v
}

// SetText stores scalar text under field.
func (n *Node) SetText(field, s string) {
	n.Set(field, Text(s))
}

// Append adds v to the list stored under field, creating the list on first
// use. A non-list value already stored there is replaced.
func (n *Node) Append(field string, v Value) {
	l, _ := n.values[field].(List)
	n.Set(field, append(l, v))
}

// Delete clears a field.
func (n *Node) Delete(field string) {
	if _, ok := n.values[field]; !ok {
		return
	}

	delete(n.values, field)

	if i := slices.Index(n.extra, field); i >= 0 {
		n.extra = slices.Delete(n.extra, i, i+1)
	}
}

// Fields returns the names of the fields holding a value in emission order:
// declared fields in declaration order, then undeclared fields in the order
// they were first set.
func (n *Node) Fields() []string {
	out := make([]string, 0, len(n.values))

	for _, f := range n.Type().fields {
		if n.Has(f.Name) {
			out = append(out, f.Name)
		}
	}

	for _, name := range n.extra {
		if n.Has(name) {
			out = append(out, name)
		}
	}

	return out
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	c := &Node{
		typ:    n.typ,
		values: make(map[string]Value, len(n.values)),
		extra:  slices.Clone(n.extra),
	}

	for k, v := range n.values {
		c.values[k] = cloneValue(v)
	}

	return c
}
