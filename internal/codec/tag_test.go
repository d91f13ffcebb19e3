package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalName(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{tag: "{http://soap.sforce.com/2006/04/metadata}fullName", want: "fullName"},
		{tag: "fullName", want: "fullName"},
		{tag: "{}fullName", want: "fullName"},
		{tag: "{urn:x}my.field-name_2", want: "my.field-name_2"},
		// brace present but the local part is not a name
		{tag: "{urn:x}9lives", want: "9lives"},
		{tag: "{urn:x}{urn:y}inner", want: "inner"},
		// nothing to strip
		{tag: "not a tag", want: "not a tag"},
		{tag: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, LocalName(tt.tag))
		})
	}
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "urn:x", Namespace("{urn:x}a"))
	assert.Empty(t, Namespace("a"))
	assert.Empty(t, Namespace("{urn:x}9"))
}

func TestClarkName(t *testing.T) {
	assert.Equal(t, "{urn:x}a", ClarkName("urn:x", "a"))
	assert.Equal(t, "a", ClarkName("", "a"))
	assert.Equal(t, "a", LocalName(ClarkName("urn:x", "a")))
}
