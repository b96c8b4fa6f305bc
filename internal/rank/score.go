// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"fmt"
	"strings"

	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

const (
	// keywordWeight is the score contribution of each distinct matched
	// keyword; keywordCap bounds the total so keyword stuffing cannot
	// dominate the composite score.
	keywordWeight = 0.2
	keywordCap    = 0.5

	// similarityReportFloor is the similarity below which the signal is
	// omitted from the reason trail. Reporting only; selection never
	// consults it.
	similarityReportFloor = 0.3
)

// fallbackReason labels papers retained without any scoring signal firing,
// i.e. papers that entered the pool through category fetch alone.
const fallbackReason = "Category match"

// authorMatch reports whether any paper author matches any target author.
// Names are compared in normalized form; a match is containment in either
// direction, so "J. Smith" matches "John Smith". Returns the original
// (unnormalized) paper author name that matched.
func authorMatch(paperAuthors, targetAuthors []string) (bool, string) {
	if len(targetAuthors) == 0 {
		return false, ""
	}

	targets := make([]string, 0, len(targetAuthors))
	for _, t := range targetAuthors {
		if n := NormalizeAuthorName(t); n != "" {
			targets = append(targets, n)
		}
	}

	for _, author := range paperAuthors {
		normalized := NormalizeAuthorName(author)
		if normalized == "" {
			continue
		}
		for _, target := range targets {
			if strings.Contains(normalized, target) || strings.Contains(target, normalized) {
				return true, author
			}
		}
	}
	return false, ""
}

// matchKeywords returns the distinct target keywords found in text
// (case-insensitive substring), in target order.
func matchKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// scorePaper computes the composite relevance score for one paper:
// the sum of the author, keyword, and similarity contributions, each
// non-negative and none exclusive of the others. The returned reason trail
// records which signals fired; authorMatched feeds the selector, where an
// author match survives threshold selection unconditionally.
func scorePaper(p types.Paper, cfg *types.Config, similarity float64) (score float64, authorMatched bool, reason string) {
	var reasons []string

	matched, name := authorMatch(p.Authors, cfg.Authors)
	if matched {
		score += cfg.Advanced.AuthorWeight
		reasons = append(reasons, "Author: "+name)
	}

	if keywords := matchKeywords(p.SearchText(), cfg.Keywords); len(keywords) > 0 {
		contribution := keywordWeight * float64(len(keywords))
		if contribution > keywordCap {
			contribution = keywordCap
		}
		score += contribution
		reasons = append(reasons, "Keywords: "+strings.Join(keywords, ", "))
	}

	if similarity > 0 {
		// Complementary weighting: author match and similarity split the
		// unit of relevance rather than double-counting it.
		score += similarity * (1 - cfg.Advanced.AuthorWeight)
	}
	if similarity > similarityReportFloor {
		reasons = append(reasons, fmt.Sprintf("Similarity: %.2f", similarity))
	}

	if len(reasons) == 0 {
		return score, matched, fallbackReason
	}
	return score, matched, strings.Join(reasons, "; ")
}
