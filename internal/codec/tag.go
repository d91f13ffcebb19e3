package codec

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`^(?:\{(?P<namespace>[^}]*)\})?(?P<tag>[A-Za-z_][\w.\-]*)$`)

// LocalName strips namespace decoration from an element tag. It accepts
// Clark notation ("{uri}local") or a bare name and never fails: a tag it
// cannot make sense of is returned unchanged.
func LocalName(tag string) string {
	if m := tagPattern.FindStringSubmatch(tag); m != nil {
		return m[tagPattern.SubexpIndex("tag")]
	}

	if i := strings.LastIndexByte(tag, '}'); i >= 0 {
		return tag[i+1:]
	}

	return tag
}

// Namespace returns the URI of a Clark-notation tag, or "".
func Namespace(tag string) string {
	if m := tagPattern.FindStringSubmatch(tag); m != nil {
		return m[tagPattern.SubexpIndex("namespace")]
	}

	return ""
}

// ClarkName builds "{space}local", or just local when space is empty.
func ClarkName(space, local string) string {
	if space == "" {
		return local
	}

	return "{" + space + "}" + local
}
