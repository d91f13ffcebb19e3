// Package main provides the CLI entrypoint for sfmeta.
//
// sfmeta reads and writes Salesforce metadata XML files:
//   - Parses any metadata file into a typed tree and writes it back
//   - Reads and sets single fields by path
//   - Edits prompt templates through chained steps
//   - Declares extra metadata types in YAML schema files
package main

func main() {
	execute()
}
