package codec

import (
	"encoding/xml"
	"errors"
	"fmt"

	"salesforce-metadata-parser/node"
)

// ErrNoRoot is returned when a document holds no element at all.
var ErrNoRoot = errors.New("document has no root element")

// ErrMissingTypeName is returned when encoding a document without a root tag.
var ErrMissingTypeName = errors.New("document has no type name")

// ParseError reports input that is not well-formed XML.
type ParseError struct {
	// Source is the file the input came from, if known.
	Source string
	// Line is the 1-based line of the error, or 0 when unknown.
	Line int
	Err  error
}

func newParseError(source string, err error) *ParseError {
	pe := &ParseError{Source: source, Err: err}

	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		pe.Line = syn.Line
	}

	return pe
}

func (e *ParseError) Error() string {
	src := e.Source
	if src == "" {
		src = "<input>"
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", src, e.Line, e.Err)
	}

	return fmt.Sprintf("parse %s: %v", src, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnsupportedValueError reports a field value the encoder cannot represent.
type UnsupportedValueError struct {
	Field string
	Value node.Value
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("field %q: unsupported value of type %T", e.Field, e.Value)
}
