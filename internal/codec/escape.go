package codec

import (
	"regexp"
	"strings"
)

// entityReplacer escapes text values before they enter the Element tree.
// Besides the markup characters it turns quotes and apostrophes into
// entities and no-break spaces into plain spaces.
var entityReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
	"\u00a0", " ",
)

// EscapeEntities applies the metadata entity table to s.
func EscapeEntities(s string) string {
	return entityReplacer.Replace(s)
}

// markupReplacer is the generic serializer escape for character data.
// encoding/xml.EscapeText is not used because it also escapes newlines,
// which would turn multi-line values into "&#xA;" runs.
var markupReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeText(s string) string {
	return markupReplacer.Replace(s)
}

func escapeAttr(s string) string {
	return attrReplacer.Replace(s)
}

var doubleEscapePattern = regexp.MustCompile(`&amp;(?P<entity>[a-z]+);`)

// CollapseDoubleEscapes turns "&amp;name;" back into "&name;". Text escaped by
// EscapeEntities is escaped again by the serializer; scanning left to right,
// an original "&" shows up as "&amp;amp;" and collapses to "&amp;", so the
// pass restores exactly one level of escaping.
func CollapseDoubleEscapes(s string) string {
	return doubleEscapePattern.ReplaceAllString(s, "&${entity};")
}
