// Package codec converts between metadata XML and node trees.
//
// Reading goes text → Element tree (ParseElement) → node tree (Decoder).
// Writing goes node tree → Element tree (Encoder) → indented text (Render).
//
// # Decoding
//
// Every child element becomes a field of its parent node, keyed by the
// child's local tag name:
//
//   - a child with non-whitespace text sets a Text value (or appends one when
//     the field uses node.PolicyAppend);
//   - any other child is a structural element: the parent's sub-registry picks
//     the type to instantiate (node.Generic when there is no entry) and the new
//     node is appended to the list stored under the field.
//
// Unknown elements never fail a decode; they are reported as UNRESOLVED_TYPE
// warnings on the Decoder.
//
// # Encoding
//
// Fields are written in schema declaration order. Absent and blank fields are
// omitted. Lists flatten into sibling elements sharing the field name. Text is
// escaped with a fixed entity table (quote, apostrophe, no-break space) and
// Render collapses the "&amp;name;" sequences produced when that escaped text
// goes through the generic serializer a second time.
package codec
