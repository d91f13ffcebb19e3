package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesforce-metadata-parser/node"
)

// bogusValue is a Value kind the encoder does not know.
type bogusValue struct{}

func (bogusValue) Kind() node.Kind { return node.Kind(node.KindTotal) }

func TestEncodeDocument(t *testing.T) {
	doc := node.NewDocument(bookType)
	doc.Namespaces[node.DefaultNamespace] = testNS
	doc.Namespaces["xsi"] = "http://www.w3.org/2001/XMLSchema-instance"

	doc.SetText("status", "Draft")
	doc.SetText("title", "Go")

	root, err := NewEncoder(WithLogger(quietLogger())).EncodeDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, "book", root.Tag)
	// only the default namespace is attached
	require.Len(t, root.Attr, 1)
	assert.Equal(t, "xmlns", root.Attr[0].Name.Local)
	assert.Equal(t, testNS, root.Attr[0].Value)

	// declaration order, not population order
	require.Len(t, root.Children, 2)
	assert.Equal(t, "title", root.Children[0].Tag)
	assert.Equal(t, "status", root.Children[1].Tag)
}

func TestEncodeListFlattening(t *testing.T) {
	doc := node.NewDocument(bookType)

	for _, name := range []string{"a", "b", "c"} {
		e := entryType.New()
		e.SetText("name", name)
		doc.Append("entries", e)
	}

	root, err := NewEncoder(WithLogger(quietLogger())).EncodeDocument(doc)
	require.NoError(t, err)

	entries := root.FindAll("entries")
	require.Len(t, entries, 3)

	for i, name := range []string{"a", "b", "c"} {
		require.Len(t, entries[i].Children, 1)
		assert.Equal(t, name, entries[i].Find("name").Text)
	}
}

func TestEncodeAppendedText(t *testing.T) {
	e := entryType.New()
	e.Append("aliases", node.Text("x"))
	e.Append("aliases", node.Text("y"))

	parent := &Element{Tag: "p"}
	require.NoError(t, NewEncoder(WithLogger(quietLogger())).Encode(parent, "entries", e))

	aliases := parent.Find("entries").FindAll("aliases")
	require.Len(t, aliases, 2)
	assert.Equal(t, "x", aliases[0].Text)
	assert.Equal(t, "y", aliases[1].Text)
}

func TestEncodeAbsentAndBlank(t *testing.T) {
	enc := NewEncoder(WithLogger(quietLogger()))
	parent := &Element{Tag: "p"}

	var nilNode *node.Node

	require.NoError(t, enc.Encode(parent, "a", nil))
	require.NoError(t, enc.Encode(parent, "b", node.Text("  \n ")))
	require.NoError(t, enc.Encode(parent, "c", nilNode))
	require.NoError(t, enc.Encode(parent, "d", node.List{}))

	assert.Empty(t, parent.Children)
}

func TestEncodeEscapesText(t *testing.T) {
	parent := &Element{Tag: "p"}
	require.NoError(t, NewEncoder(WithLogger(quietLogger())).Encode(parent, "t", node.Text("it's \"a\" <b> & c\u00a0d")))

	assert.Equal(t, "it&apos;s &quot;a&quot; &lt;b&gt; &amp; c d", parent.Find("t").Text)
}

func TestEncodeUnsupportedValue(t *testing.T) {
	doc := node.NewDocument(bookType)
	e := entryType.New()
	e.Set("name", bogusValue{})
	doc.Append("entries", e)

	_, err := NewEncoder(WithLogger(quietLogger())).EncodeDocument(doc)

	var uv *UnsupportedValueError
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, "name", uv.Field)
	assert.Contains(t, err.Error(), `field "name"`)
}

func TestEncodeMissingTypeName(t *testing.T) {
	doc := node.NewDocument(node.Generic)

	_, err := NewEncoder(WithLogger(quietLogger())).EncodeDocument(doc)
	require.ErrorIs(t, err, ErrMissingTypeName)

	doc.TypeName = "Anything"
	out := marshal(t, doc)
	assert.True(t, strings.HasSuffix(out, "<Anything/>\n"), out)
}

func TestEncodeAbsenceOmission(t *testing.T) {
	src := `<book><title>T</title><entries><name>n</name></entries></book>`
	doc, _ := decodeString(t, src)

	doc.Delete("title")
	doc.First("entries").Delete("name")

	out := marshal(t, doc)
	assert.NotContains(t, out, "title")
	assert.NotContains(t, out, "<name")
	assert.NotContains(t, out, "status")
	assert.Contains(t, out, "<entries/>")
}
