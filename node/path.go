package node

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath is returned for malformed field paths.
var ErrInvalidPath = errors.New("invalid field path")

// ErrNotFound is returned when a path does not address an existing value.
var ErrNotFound = errors.New("field not found")

// PathSegment is one step of a field path.
type PathSegment struct {
	Name string
	// Index selects one item of a list; negative values count from the end.
	// HasIndex is false when the segment carries no [n] suffix.
	Index    int
	HasIndex bool
}

// Path addresses a value inside a node tree.
type Path struct {
	Segments []PathSegment
}

// String renders the path back to its textual form.
func (p Path) String() string {
	parts := make([]string, len(p.Segments))

	for i, s := range p.Segments {
		parts[i] = s.Name
		if s.HasIndex {
			parts[i] += "[" + strconv.Itoa(s.Index) + "]"
		}
	}

	return strings.Join(parts, ".")
}

// ParsePath parses a field path string.
// Supports: "field", "nested.field", "list[0].field", "list[-1]".
func ParsePath(path string) (Path, error) {
	if path == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	var segments []PathSegment

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return Path{}, fmt.Errorf("%w %q: empty segment", ErrInvalidPath, path)
		}

		seg := PathSegment{Name: part}

		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") {
				return Path{}, fmt.Errorf("%w %q: unterminated index in %q", ErrInvalidPath, path, part)
			}

			idx, err := strconv.Atoi(part[open+1 : len(part)-1])
			if err != nil {
				return Path{}, fmt.Errorf("%w %q: bad index in %q", ErrInvalidPath, path, part)
			}

			seg.Name = part[:open]
			seg.Index = idx
			seg.HasIndex = true
		}

		if !isValidName(seg.Name) {
			return Path{}, fmt.Errorf("%w %q: invalid field name %q", ErrInvalidPath, path, seg.Name)
		}

		segments = append(segments, seg)
	}

	return Path{Segments: segments}, nil
}

// Lookup returns the value addressed by p below n.
func Lookup(n *Node, p Path) (Value, error) {
	cur := Value(n)

	for i, seg := range p.Segments {
		parent, ok := cur.(*Node)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a node", ErrNotFound, Path{Segments: p.Segments[:i]})
		}

		v := parent.Get(seg.Name)
		if v == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, Path{Segments: p.Segments[:i+1]})
		}

		if seg.HasIndex {
			item, err := index(v, seg.Index)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, Path{Segments: p.Segments[:i+1]}, err)
			}

			v = item
		} else if l, isList := v.(List); isList && i < len(p.Segments)-1 && len(l) > 0 {
			// intermediate list segments without an index mean the first item
			v = l[0]
		}

		cur = v
	}

	return cur, nil
}

// SetPath stores text at the field addressed by p below n. Every segment but
// the last must already exist. Empty text on an unindexed field deletes it.
func SetPath(n *Node, p Path, text string) error {
	if len(p.Segments) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	parent := n

	if len(p.Segments) > 1 {
		v, err := Lookup(n, Path{Segments: p.Segments[:len(p.Segments)-1]})
		if err != nil {
			return err
		}

		if l, ok := v.(List); ok && len(l) > 0 {
			v = l[0]
		}

		pn, ok := v.(*Node)
		if !ok {
			return fmt.Errorf("%w: %s is not a node", ErrNotFound, Path{Segments: p.Segments[:len(p.Segments)-1]})
		}

		parent = pn
	}

	last := p.Segments[len(p.Segments)-1]
	if !last.HasIndex {
		if text == "" {
			parent.Delete(last.Name)
		} else {
			parent.SetText(last.Name, text)
		}

		return nil
	}

	l, ok := parent.Get(last.Name).(List)
	if !ok {
		return fmt.Errorf("%w: %s is not a list", ErrNotFound, p)
	}

	i, err := normalizeIndex(len(l), last.Index)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, p, err)
	}

	l[i] = Text(text)

	return nil
}

func index(v Value, i int) (Value, error) {
	l, ok := v.(List)
	if !ok {
		if i == 0 || i == -1 {
			return v, nil
		}

		return nil, fmt.Errorf("index %d on a single value", i)
	}

	j, err := normalizeIndex(len(l), i)
	if err != nil {
		return nil, err
	}

	return l[j], nil
}

func normalizeIndex(n, i int) (int, error) {
	if i < 0 {
		i += n
	}

	if i < 0 || i >= n {
		return 0, fmt.Errorf("index out of range [0, %d)", n)
	}

	return i, nil
}

// isValidName checks that s looks like an XML local name.
func isValidName(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
		} else if !isLetter(r) && !isDigit(r) && r != '_' && r != '-' {
			return false
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
