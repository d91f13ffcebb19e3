package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"

	"salesforce-metadata-parser/node"
)

// Element is one XML element of a materialized document. Tags of parsed
// elements are in Clark notation ("{uri}local"); the encoder produces bare
// local names.
type Element struct {
	Tag  string
	Attr []xml.Attr
	// Text is the character data before the first child element.
	Text string
	// Tail is the character data following this element's end tag, up to the
	// next sibling or the parent's end tag.
	Tail     string
	Children []*Element
}

// SubElement appends a new child named tag and returns it.
func (e *Element) SubElement(tag string) *Element {
	child := &Element{Tag: tag}
	e.Children = append(e.Children, child)

	return child
}

// Find returns the first direct child whose local name is name.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if LocalName(c.Tag) == name {
			return c
		}
	}

	return nil
}

// FindAll returns every direct child whose local name is name.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element

	for _, c := range e.Children {
		if LocalName(c.Tag) == name {
			out = append(out, c)
		}
	}

	return out
}

var pseudoAttrPattern = regexp.MustCompile(`(\w+)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// parseDeclaration reads version, encoding and standalone from the body of an
// <?xml ...?> processing instruction. Missing parameters keep their
// defaults: a document without an encoding declaration is UTF-8.
func parseDeclaration(inst []byte) node.Declaration {
	decl := node.DefaultDeclaration

	for _, m := range pseudoAttrPattern.FindAllSubmatch(inst, -1) {
		value := string(m[2])
		if len(m[3]) > 0 {
			value = string(m[3])
		}

		switch string(m[1]) {
		case "version":
			decl.Version = value
		case "encoding":
			decl.Encoding = value
		case "standalone":
			decl.Standalone = value
		}
	}

	return decl
}

// LookupEncoding resolves a declared encoding by its IANA name, so that
// ISO-8859-1 means Latin-1 rather than the windows-1252 superset browsers
// substitute. Labels IANA does not know fall back to the WHATWG index.
func LookupEncoding(label string) (encoding.Encoding, error) {
	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc, nil
	}

	return htmlindex.Get(label)
}

// charsetReader lets the tokenizer read documents declaring a non-UTF-8
// encoding.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := LookupEncoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported document encoding %q: %w", label, err)
	}

	return enc.NewDecoder().Reader(input), nil
}

// ParseElement reads a whole document into an Element tree. The declaration
// defaults to node.DefaultDeclaration when the document has no prolog.
// Comments, processing instructions and directives are dropped.
func ParseElement(r io.Reader) (*Element, node.Declaration, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	decl := node.DefaultDeclaration

	var (
		root  *Element
		stack []*Element
		// last is the most recently closed element at the current depth;
		// character data goes to its Tail until a sibling starts.
		last *Element
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, decl, err
		}

		switch t := tok.(type) {
		case xml.ProcInst:
			if t.Target == "xml" && root == nil {
				decl = parseDeclaration(t.Inst)
			}

		case xml.StartElement:
			el := &Element{
				Tag:  ClarkName(t.Name.Space, t.Name.Local),
				Attr: append([]xml.Attr(nil), t.Attr...),
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, decl, fmt.Errorf("unexpected second root element <%s>", t.Name.Local)
				}

				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}

			stack = append(stack, el)
			last = nil

		case xml.EndElement:
			last = stack[len(stack)-1]
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}

			switch {
			case last != nil:
				last.Tail += string(t)
			default:
				cur := stack[len(stack)-1]
				cur.Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, decl, ErrNoRoot
	}

	return root, decl, nil
}

// ParseString is ParseElement over a string.
func ParseString(s string) (*Element, node.Declaration, error) {
	return ParseElement(strings.NewReader(s))
}

// ParseBytes is ParseElement over a byte slice.
func ParseBytes(b []byte) (*Element, node.Declaration, error) {
	return ParseElement(bytes.NewReader(b))
}
