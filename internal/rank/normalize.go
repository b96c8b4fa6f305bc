// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank filters, scores, and selects candidate papers. The pipeline
// is Exclusions -> Similarity -> Score -> Select; each stage is a pure
// function over the candidate list and the run's configuration snapshot.
package rank

import (
	"strings"
	"unicode"
)

// NormalizeAuthorName canonicalizes an author name for comparison:
// lowercased, punctuation replaced with spaces, whitespace collapsed.
// Idempotent. Used only for matching; stored names are never rewritten.
func NormalizeAuthorName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
