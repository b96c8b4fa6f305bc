// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"testing"

	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

func paperWithAuthors(id string, n int) types.Paper {
	authors := make([]string, n)
	for i := range authors {
		authors[i] = "Author Name"
	}
	return types.Paper{ID: id, Title: "title", Abstract: "abstract", Authors: authors}
}

func TestApplyExclusionsMaxAuthors(t *testing.T) {
	papers := []types.Paper{
		paperWithAuthors("a", 3),
		paperWithAuthors("b", 15),
		paperWithAuthors("c", 10),
	}
	survivors, tally := ApplyExclusions(papers, types.ExclusionConfig{MaxAuthors: 10})

	if len(survivors) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(survivors))
	}
	if survivors[0].ID != "a" || survivors[1].ID != "c" {
		t.Errorf("unexpected survivors: %q, %q", survivors[0].ID, survivors[1].ID)
	}
	if tally.MaxAuthors != 1 {
		t.Errorf("expected 1 max-authors exclusion, got %d", tally.MaxAuthors)
	}
	if tally.Total() != 1 {
		t.Errorf("expected total 1, got %d", tally.Total())
	}
}

func TestApplyExclusionsAtLimitSurvives(t *testing.T) {
	// Exactly max_authors is allowed; the rule rejects strictly more.
	survivors, tally := ApplyExclusions([]types.Paper{paperWithAuthors("a", 10)}, types.ExclusionConfig{MaxAuthors: 10})
	if len(survivors) != 1 || tally.Total() != 0 {
		t.Errorf("paper at the author limit should survive, got %d survivors, tally %d", len(survivors), tally.Total())
	}
}

func TestApplyExclusionsMinAuthors(t *testing.T) {
	papers := []types.Paper{
		paperWithAuthors("solo", 1),
		paperWithAuthors("pair", 2),
	}
	survivors, tally := ApplyExclusions(papers, types.ExclusionConfig{MinAuthors: 2})

	if len(survivors) != 1 || survivors[0].ID != "pair" {
		t.Fatalf("expected only the two-author paper to survive, got %d survivors", len(survivors))
	}
	if tally.MinAuthors != 1 {
		t.Errorf("expected 1 min-authors exclusion, got %d", tally.MinAuthors)
	}
}

func TestApplyExclusionsKeywords(t *testing.T) {
	papers := []types.Paper{
		{ID: "a", Title: "Dark matter halos", Abstract: "We study halos.", Authors: []string{"X"}},
		{ID: "b", Title: "A survey", Abstract: "This GRAVITATIONAL WAVE catalog...", Authors: []string{"X"}},
		{ID: "c", Title: "Gravitational wave detection", Abstract: "...", Authors: []string{"X"}},
	}
	survivors, tally := ApplyExclusions(papers, types.ExclusionConfig{ExcludeKeywords: []string{"gravitational wave"}})

	if len(survivors) != 1 || survivors[0].ID != "a" {
		t.Fatalf("keyword exclusion should be case-insensitive over title and abstract, got %d survivors", len(survivors))
	}
	if tally.Keywords != 2 {
		t.Errorf("expected 2 keyword exclusions, got %d", tally.Keywords)
	}
}

func TestApplyExclusionsCategoryPrefix(t *testing.T) {
	papers := []types.Paper{
		{ID: "a", Categories: []string{"astro-ph.GA"}, Authors: []string{"X"}},
		{ID: "b", Categories: []string{"hep-th", "astro-ph.CO"}, Authors: []string{"X"}},
		{ID: "c", Categories: []string{"cs.LG"}, Authors: []string{"X"}},
	}
	survivors, tally := ApplyExclusions(papers, types.ExclusionConfig{ExcludeCategories: []string{"hep-"}})

	if len(survivors) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(survivors))
	}
	if tally.Categories != 1 {
		t.Errorf("expected 1 category exclusion, got %d", tally.Categories)
	}
}

func TestApplyExclusionsTallyPriority(t *testing.T) {
	// A paper violating several rules counts once, under the first rule
	// in evaluation order.
	p := paperWithAuthors("multi", 20)
	p.Title = "blockchain for everything"
	survivors, tally := ApplyExclusions([]types.Paper{p}, types.ExclusionConfig{
		MaxAuthors:      10,
		ExcludeKeywords: []string{"blockchain"},
	})

	if len(survivors) != 0 {
		t.Fatalf("expected no survivors, got %d", len(survivors))
	}
	if tally.MaxAuthors != 1 || tally.Keywords != 0 {
		t.Errorf("multi-violation paper should land in the max-authors bucket, got %+v", tally)
	}
	if tally.Total() != 1 {
		t.Errorf("expected total 1, got %d", tally.Total())
	}
}

func TestApplyExclusionsNoRules(t *testing.T) {
	papers := []types.Paper{paperWithAuthors("a", 1), paperWithAuthors("b", 50)}
	survivors, tally := ApplyExclusions(papers, types.ExclusionConfig{})

	if len(survivors) != len(papers) {
		t.Errorf("zero-valued rules should pass everything, got %d of %d", len(survivors), len(papers))
	}
	if tally.Total() != 0 {
		t.Errorf("expected empty tally, got %+v", tally)
	}
}
