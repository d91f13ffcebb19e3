package metadata

import (
	"errors"
	"fmt"
	"slices"

	"salesforce-metadata-parser/node"
)

// ErrInvalidEnum is returned when a field holds text outside its declared
// value set.
var ErrInvalidEnum = errors.New("invalid enumerated value")

// EnumText returns the text of an enumerated field after checking it
// against the values declared on the node's type. ok is false when the
// field is absent. Fields declared without a value set accept any text.
func EnumText(n *node.Node, field string) (value string, ok bool, err error) {
	value, ok = n.Text(field)
	if !ok {
		return "", false, nil
	}

	f, declared := n.Type().Field(field)
	if !declared || len(f.Values) == 0 {
		return value, true, nil
	}

	if !slices.Contains(f.Values, value) {
		return value, true, fmt.Errorf("%w %q for %s.%s (expected one of %v)",
			ErrInvalidEnum, value, n.Type().Name(), field, f.Values)
	}

	return value, true, nil
}
