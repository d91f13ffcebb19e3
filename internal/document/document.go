package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"salesforce-metadata-parser/internal/codec"
	"salesforce-metadata-parser/internal/diagnostic"
	"salesforce-metadata-parser/node"
)

// MetaSuffix terminates every metadata file name.
const MetaSuffix = "-meta.xml"

// ErrNoSuffix is returned by DefaultPath when the document carries no suffix.
var ErrNoSuffix = errors.New("document has no file suffix")

var suffixPattern = regexp.MustCompile(`^.*\.(?P<suffix>.*)-meta\.xml$`)

// SuffixOf extracts the suffix from a "<name>.<suffix>-meta.xml" file name.
// The second result is false when the name does not follow the pattern.
func SuffixOf(path string) (string, bool) {
	m := suffixPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", false
	}

	return m[suffixPattern.SubexpIndex("suffix")], true
}

// Result is a loaded document together with what the decoder absorbed.
type Result struct {
	Document    *node.Document
	Diagnostics diagnostic.Diagnostics
}

// Load reads and decodes the file at path. Directory and suffix are derived
// from the path only when the schema type did not set them.
func Load(path string, roots codec.RootTable, opts ...codec.Option) (*node.Document, error) {
	res, err := LoadResult(path, roots, opts...)
	if err != nil {
		return nil, err
	}

	return res.Document, nil
}

// LoadResult is Load, also returning the decoder diagnostics.
func LoadResult(path string, roots codec.RootTable, opts ...codec.Option) (*Result, error) {
	log := codec.LoggerOf(opts...)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file %s: %w", path, err)
	}
	defer f.Close()

	log.WithField("path", path).Info("reading metadata")

	dec := codec.NewDecoder(roots, append([]codec.Option{codec.WithSource(path)}, opts...)...)

	doc, err := dec.DecodeDocument(f)
	if err != nil {
		return nil, err
	}

	if doc.Directory == "" {
		doc.Directory = filepath.Dir(path)
	}

	if doc.Suffix == "" {
		if suffix, ok := SuffixOf(path); ok {
			doc.Suffix = suffix
		}
	}

	return &Result{Document: doc, Diagnostics: dec.Diagnostics}, nil
}

// Marshal encodes and renders doc in its declared encoding.
func Marshal(doc *node.Document, opts ...codec.Option) ([]byte, error) {
	text, err := codec.NewEncoder(opts...).Marshal(doc)
	if err != nil {
		return nil, err
	}

	return transcode(text, doc.Declaration.Encoding)
}

// Save encodes doc and writes it to path, replacing any existing file.
func Save(doc *node.Document, path string, opts ...codec.Option) error {
	data, err := Marshal(doc, opts...)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	codec.LoggerOf(opts...).WithField("path", path).Info("writing metadata")

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file %s: %w", path, err)
	}

	return nil
}

// DefaultPath returns the conventional location of doc in a project tree.
// The variant is appended to the API name with a dash when not empty. A
// directory derived from an absolute load path is used as is.
func DefaultPath(projectDir string, doc *node.Document, apiName, variant string) (string, error) {
	if doc.Suffix == "" {
		return "", ErrNoSuffix
	}

	if filepath.IsAbs(doc.Directory) {
		projectDir = ""
	}

	return PathFor(projectDir, doc.Directory, doc.Suffix, apiName, variant), nil
}

// PathFor joins the parts of a conventional metadata file path.
func PathFor(projectDir, directory, suffix, apiName, variant string) string {
	name := apiName
	if variant != "" {
		name += "-" + variant
	}

	return filepath.Join(projectDir, directory, name+"."+strings.TrimPrefix(suffix, ".")+MetaSuffix)
}

// transcode converts UTF-8 text to the named encoding.
func transcode(text, encoding string) ([]byte, error) {
	if encoding == "" || strings.EqualFold(encoding, "utf-8") || strings.EqualFold(encoding, "utf8") {
		return []byte(text), nil
	}

	enc, err := codec.LookupEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("unsupported output encoding %q: %w", encoding, err)
	}

	// Characters the charset cannot hold become numeric character references.
	out, _, err := transform.String(xencoding.HTMLEscapeUnsupported(enc.NewEncoder()), text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output as %s: %w", encoding, err)
	}

	return []byte(out), nil
}
