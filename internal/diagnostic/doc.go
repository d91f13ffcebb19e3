// Package diagnostic provides structured warnings and errors raised while
// decoding metadata documents and checking schema declarations.
//
// Key capabilities:
//   - Unresolved type warnings (an element decoded as a generic node)
//   - Dropped attribute and mixed content warnings
//   - Schema declaration errors with "did you mean" suggestions
package diagnostic
