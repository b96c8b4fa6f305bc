// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"strings"

	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

// ExclusionTally counts rejected papers per rule. A paper violating several
// rules is counted once, under the first rule in evaluation order
// (authors-max, authors-min, keywords, categories).
type ExclusionTally struct {
	MaxAuthors int `json:"max_authors"`
	MinAuthors int `json:"min_authors"`
	Keywords   int `json:"keywords"`
	Categories int `json:"categories"`
}

// Total returns the number of excluded papers.
func (t ExclusionTally) Total() int {
	return t.MaxAuthors + t.MinAuthors + t.Keywords + t.Categories
}

// ApplyExclusions returns the papers that pass every exclusion rule,
// preserving input order, together with the per-rule rejection tally.
// The rules are independent predicates: evaluation order affects only
// which tally bucket a multi-violation paper lands in, never the
// survivor set.
func ApplyExclusions(papers []types.Paper, rules types.ExclusionConfig) ([]types.Paper, ExclusionTally) {
	var tally ExclusionTally
	survivors := make([]types.Paper, 0, len(papers))

	for _, p := range papers {
		if rules.MaxAuthors > 0 && len(p.Authors) > rules.MaxAuthors {
			tally.MaxAuthors++
			continue
		}
		if rules.MinAuthors > 0 && len(p.Authors) < rules.MinAuthors {
			tally.MinAuthors++
			continue
		}
		if matchesBlockedKeyword(p, rules.ExcludeKeywords) {
			tally.Keywords++
			continue
		}
		if matchesBlockedCategory(p, rules.ExcludeCategories) {
			tally.Categories++
			continue
		}
		survivors = append(survivors, p)
	}

	return survivors, tally
}

func matchesBlockedKeyword(p types.Paper, blocked []string) bool {
	if len(blocked) == 0 {
		return false
	}
	text := strings.ToLower(p.SearchText())
	for _, kw := range blocked {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func matchesBlockedCategory(p types.Paper, prefixes []string) bool {
	for _, cat := range p.Categories {
		for _, prefix := range prefixes {
			if prefix != "" && strings.HasPrefix(cat, prefix) {
				return true
			}
		}
	}
	return false
}
