// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"io"
	"strings"
	"testing"

	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

func pipelineConfig() *types.Config {
	return &types.Config{
		Authors:            []string{"Jane Smith"},
		Keywords:           []string{"dark matter", "galaxy formation"},
		DaysBack:           7,
		MaxPapers:          10,
		MinSimilarityScore: 0.3,
		SelectionMode:      types.ModeThreshold,
		Advanced: types.AdvancedConfig{
			AuthorWeight: 0.6,
		},
	}
}

func TestFilterAndRankThresholdMode(t *testing.T) {
	cfg := pipelineConfig()
	papers := []types.Paper{
		{ID: "p1", Title: "Quenching in massive galaxies", Abstract: "...", Authors: []string{"Jane Smith", "Bob Lee"}},
		{ID: "p2", Title: "Dark matter constraints from galaxy formation models", Abstract: "...", Authors: []string{"Carol Wu"}},
		{ID: "p3", Title: "A new blockchain protocol", Abstract: "...", Authors: []string{"Dan Brown"}},
	}

	result := New(cfg).FilterAndRank(papers, nil, io.Discard)

	if result.EmptyReason != ReasonNone {
		t.Fatalf("unexpected empty reason %q", result.EmptyReason)
	}
	got := ids(result.Papers)
	if len(got) != 2 || got[0] != "p1" || got[1] != "p2" {
		t.Fatalf("expected [p1 p2], got %v", got)
	}

	// p1: author match alone, 0.6. p2: two keywords, 0.4.
	if result.Papers[0].Score <= result.Papers[1].Score {
		t.Errorf("author match (%g) should outscore keywords (%g)",
			result.Papers[0].Score, result.Papers[1].Score)
	}
	if !strings.Contains(result.Papers[0].MatchReason, "Author: Jane Smith") {
		t.Errorf("p1 reason %q missing author signal", result.Papers[0].MatchReason)
	}
	if !strings.Contains(result.Papers[1].MatchReason, "dark matter") {
		t.Errorf("p2 reason %q missing matched keyword", result.Papers[1].MatchReason)
	}
}

func TestFilterAndRankEmptyReferenceWithSimilarityEnabled(t *testing.T) {
	cfg := pipelineConfig()
	cfg.Advanced.UseSemanticSimilarity = true
	cfg.SelectionMode = types.ModeFill

	papers := []types.Paper{
		{ID: "p1", Title: "Some paper", Abstract: "...", Authors: []string{"Nobody"}},
	}

	// No reference corpus: similarity contributes zero everywhere and the
	// run completes normally.
	result := New(cfg).FilterAndRank(papers, nil, io.Discard)
	if result.EmptyReason != ReasonNone {
		t.Fatalf("unexpected empty reason %q", result.EmptyReason)
	}
	if result.Papers[0].Score != 0 {
		t.Errorf("expected zero score without any signal, got %g", result.Papers[0].Score)
	}
}

func TestFilterAndRankFillModeCap(t *testing.T) {
	cfg := pipelineConfig()
	cfg.SelectionMode = types.ModeFill
	cfg.MaxPapers = 3

	papers := []types.Paper{
		{ID: "p1", Title: "dark matter", Authors: []string{"A"}},
		{ID: "p2", Title: "nothing", Authors: []string{"B"}},
		{ID: "p3", Title: "nothing", Authors: []string{"C"}},
		{ID: "p4", Title: "nothing", Authors: []string{"D"}},
		{ID: "p5", Title: "galaxy formation and dark matter", Authors: []string{"E"}},
	}

	result := New(cfg).FilterAndRank(papers, nil, io.Discard)

	got := ids(result.Papers)
	if len(got) != 3 {
		t.Fatalf("expected 3 papers, got %v", got)
	}
	// p5 (0.4) > p1 (0.2) > zero-score papers in input order.
	if got[0] != "p5" || got[1] != "p1" || got[2] != "p2" {
		t.Errorf("expected [p5 p1 p2], got %v", got)
	}
}

func TestFilterAndRankNoCandidates(t *testing.T) {
	result := New(pipelineConfig()).FilterAndRank(nil, nil, io.Discard)
	if result.EmptyReason != ReasonNoCandidates {
		t.Errorf("expected %q, got %q", ReasonNoCandidates, result.EmptyReason)
	}
}

func TestFilterAndRankAllExcluded(t *testing.T) {
	cfg := pipelineConfig()
	cfg.Exclusions.MaxAuthors = 1

	papers := []types.Paper{
		{ID: "p1", Authors: []string{"A", "B"}},
		{ID: "p2", Authors: []string{"C", "D", "E"}},
	}
	result := New(cfg).FilterAndRank(papers, nil, io.Discard)

	if result.EmptyReason != ReasonAllExcluded {
		t.Errorf("expected %q, got %q", ReasonAllExcluded, result.EmptyReason)
	}
	if result.Excluded.MaxAuthors != 2 {
		t.Errorf("expected tally 2, got %+v", result.Excluded)
	}
}

func TestFilterAndRankNoneSelected(t *testing.T) {
	cfg := pipelineConfig()
	papers := []types.Paper{
		{ID: "p1", Title: "nothing relevant", Authors: []string{"Nobody"}},
	}
	result := New(cfg).FilterAndRank(papers, nil, io.Discard)

	if result.EmptyReason != ReasonNoneSelected {
		t.Errorf("expected %q, got %q", ReasonNoneSelected, result.EmptyReason)
	}
}

func TestFilterAndRankProgressOutput(t *testing.T) {
	cfg := pipelineConfig()
	cfg.Exclusions.ExcludeKeywords = []string{"blockchain"}

	papers := []types.Paper{
		{ID: "p1", Title: "dark matter and galaxy formation", Authors: []string{"A"}},
		{ID: "p2", Title: "blockchain survey", Authors: []string{"B"}},
	}

	var buf strings.Builder
	New(cfg).FilterAndRank(papers, nil, &buf)
	out := buf.String()

	for _, want := range []string{
		"Filtering and ranking 2 papers...",
		"Excluded 1 papers:",
		"1 papers after exclusions",
		"Selected 1 papers (mode: threshold, threshold: 0.3)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output missing %q:\n%s", want, out)
		}
	}
}

func TestGroupByCategory(t *testing.T) {
	papers := []types.RankedPaper{
		{Paper: types.Paper{ID: "a", PrimaryCategory: "astro-ph.GA"}, Score: 0.9},
		{Paper: types.Paper{ID: "b", PrimaryCategory: "astro-ph.CO"}, Score: 0.8},
		{Paper: types.Paper{ID: "c", PrimaryCategory: "astro-ph.GA"}, Score: 0.7},
	}
	grouped, keys := GroupByCategory(papers)

	if len(keys) != 2 || keys[0] != "astro-ph.CO" || keys[1] != "astro-ph.GA" {
		t.Fatalf("expected sorted category keys, got %v", keys)
	}
	ga := grouped["astro-ph.GA"]
	if len(ga) != 2 || ga[0].ID != "a" || ga[1].ID != "c" {
		t.Errorf("rank order not preserved within category: %v", ga)
	}
}

func TestStats(t *testing.T) {
	cfg := pipelineConfig()
	papers := []types.RankedPaper{
		{Paper: types.Paper{PrimaryCategory: "astro-ph.GA", Authors: []string{"Jane Smith"}}, Score: 0.6},
		{Paper: types.Paper{PrimaryCategory: "astro-ph.GA", Authors: []string{"Other"}}, Score: 0.4},
	}
	stats := New(cfg).Stats(papers)

	if stats.Total != 2 {
		t.Errorf("Total = %d, want 2", stats.Total)
	}
	if stats.AvgScore != 0.5 {
		t.Errorf("AvgScore = %g, want 0.5", stats.AvgScore)
	}
	if stats.Categories["astro-ph.GA"] != 2 {
		t.Errorf("category count = %d, want 2", stats.Categories["astro-ph.GA"])
	}
	if stats.Authors["Jane Smith"] != 1 {
		t.Errorf("author count = %d, want 1", stats.Authors["Jane Smith"])
	}
}
