// Package document loads and saves whole metadata files.
//
// Load decodes a file through the codec and fills in the two file-path
// conventions a schema type may leave unset: the directory holding the file
// and the suffix found in a "<name>.<suffix>-meta.xml" file name. Save
// encodes, renders and writes a document, transcoding the output when the
// document declares an encoding other than UTF-8.
//
// DefaultPath builds the conventional location of a component inside a
// project source tree:
//
//	<projectDir>/<directory>/<apiName>[-<variant>].<suffix>-meta.xml
package document
