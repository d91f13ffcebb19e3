// Package match provides name normalization, Levenshtein distance, and
// candidate ranking used to suggest the intended name when a field, tag, or
// schema type name is not recognized.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Rank: ranks known names against an unknown one
//   - Suggest: returns the best few names above a similarity threshold
package match
