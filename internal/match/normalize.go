package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent normalizes an identifier for fuzzy matching.
// The normalization pipeline:
// 1. Drop a "{namespace}" or "prefix:" qualification.
// 2. Tokenize CamelCase.
// 3. Case-fold to lower and strip separators (_, -, ., spaces).
func NormalizeIdent(s string) string {
	s = unqualify(s)

	joined := strings.Join(tokenizeCamelCase(s), "")

	return stripSeparators(strings.ToLower(joined))
}

// unqualify strips a Clark-notation namespace or a prefix from a tag name.
func unqualify(s string) string {
	if i := strings.LastIndexByte(s, '}'); i >= 0 {
		s = s[i+1:]
	}

	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}

	return s
}

// tokenizeCamelCase splits a CamelCase or camelCase string into tokens.
// Examples:
//   - "templateVersions" -> ["template", "Versions"]
//   - "GenAiPromptTemplate" -> ["Gen", "Ai", "Prompt", "Template"]
//   - "XMLNode" -> ["XML", "Node"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && shouldStartNewToken(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == ' '
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]

	if unicode.IsUpper(r) && !unicode.IsUpper(prev) && !isSeparator(prev) {
		return true
	}

	// end of an acronym: "XMLNode" splits before 'N'
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

	return unicode.IsUpper(r) && unicode.IsUpper(prev) && hasNextLower
}

func stripSeparators(s string) string {
	var result strings.Builder

	result.Grow(len(s))

	for _, r := range s {
		if !isSeparator(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}
