package node

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind tags the variant held by a Value.
type Kind int

const (
	KindAbsent Kind = iota // no value, the field is omitted on encode
	KindText
	KindNode
	KindList

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// KindOf reports the variant of v, treating a nil Value as KindAbsent.
func KindOf(v Value) Kind {
	if v == nil {
		return KindAbsent
	}

	return v.Kind()
}
