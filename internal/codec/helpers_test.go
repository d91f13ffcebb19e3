package codec

import (
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"salesforce-metadata-parser/node"
)

const testNS = "http://soap.sforce.com/2006/04/metadata"

var (
	tagType = node.Define("Tag").
		Text("name").
		Build()

	entryType = node.Define("Entry").
			Text("name").
			Text("aliases", node.PolicyAppend).
			Nested("tags", tagType).
			Build()

	bookType = node.Define("Book").
			Root("book", "books", "book").
			Text("title").
			Nested("entries", entryType).
			Text("status").
			Build()

	testRoots = RootTable{"book": bookType}
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

func newTestDecoder(opts ...Option) *Decoder {
	return NewDecoder(testRoots, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func decodeString(t *testing.T, src string) (*node.Document, *Decoder) {
	t.Helper()

	dec := newTestDecoder()

	doc, err := dec.DecodeString(src)
	require.NoError(t, err)

	return doc, dec
}

func marshal(t *testing.T, doc *node.Document) string {
	t.Helper()

	out, err := NewEncoder(WithLogger(quietLogger())).Marshal(doc)
	require.NoError(t, err)

	return out
}

func readTestdata(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)

	return string(data)
}
