package prompt

import (
	"regexp"
	"strconv"
)

var versionPattern = regexp.MustCompile(`^(?P<id>.*)=_(?P<num>\d+)$`)

// VersionIdentifier is a parsed "<id>=_<n>" version identifier.
type VersionIdentifier struct {
	ID     string
	Number int
}

func (v VersionIdentifier) String() string {
	return v.ID + "=_" + strconv.Itoa(v.Number)
}

// ParseVersionIdentifier splits s into its id and number. The second result
// is false when s does not follow the pattern; the identifier is then s
// itself with number 0.
func ParseVersionIdentifier(s string) (VersionIdentifier, bool) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return VersionIdentifier{ID: s}, false
	}

	num, err := strconv.Atoi(m[versionPattern.SubexpIndex("num")])
	if err != nil {
		return VersionIdentifier{ID: s}, false
	}

	return VersionIdentifier{ID: m[versionPattern.SubexpIndex("id")], Number: num}, true
}

// IncrementVersionIdentifier returns the identifier of the version following s.
func IncrementVersionIdentifier(s string) string {
	v, _ := ParseVersionIdentifier(s)
	v.Number++

	return v.String()
}
