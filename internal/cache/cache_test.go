// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testConfig() *types.Config {
	return &types.Config{
		Authors:    []string{"Jane Smith", "Bob Lee"},
		Categories: []string{"astro-ph.GA"},
		Keywords:   []string{"dark matter"},
		DaysBack:   7,
		Exclusions: types.ExclusionConfig{MaxAuthors: 10},
	}
}

func samplePaper(id string) types.Paper {
	return types.Paper{
		ID:              id,
		Title:           "Title " + id,
		Authors:         []string{"Jane Smith", "Bob Lee"},
		Abstract:        "An abstract.",
		Categories:      []string{"astro-ph.GA", "astro-ph.CO"},
		PrimaryCategory: "astro-ph.GA",
		Published:       time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		Updated:         time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC),
		PDFURL:          "https://arxiv.org/pdf/" + id,
		ArxivURL:        "https://arxiv.org/abs/" + id,
		ADSURL:          "https://ui.adsabs.harvard.edu/abs/arXiv:" + id,
	}
}

func TestSaveLoadPapers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := []types.Paper{samplePaper("2308.00002"), samplePaper("2308.00001")}
	if err := s.SavePapers(ctx, KindCandidates, in); err != nil {
		t.Fatalf("SavePapers: %v", err)
	}

	out, err := s.LoadPapers(ctx, KindCandidates)
	if err != nil {
		t.Fatalf("LoadPapers: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(out))
	}
	// Order is preserved, not re-sorted by ID.
	if out[0].ID != "2308.00002" || out[1].ID != "2308.00001" {
		t.Errorf("order not preserved: %q, %q", out[0].ID, out[1].ID)
	}
	if out[0].Title != in[0].Title || len(out[0].Authors) != 2 || len(out[0].Categories) != 2 {
		t.Errorf("round trip lost fields: %+v", out[0])
	}
	if !out[0].Published.Equal(in[0].Published) {
		t.Errorf("Published = %v, want %v", out[0].Published, in[0].Published)
	}
}

func TestSaveLoadRanked(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := []types.RankedPaper{
		{Paper: samplePaper("2308.00001"), Score: 0.85, MatchReason: "Author: Jane Smith"},
		{Paper: samplePaper("2308.00002"), Score: 0.4, MatchReason: "Keywords: dark matter"},
	}
	if err := s.SaveRanked(ctx, in); err != nil {
		t.Fatalf("SaveRanked: %v", err)
	}

	out, err := s.LoadRanked(ctx)
	if err != nil {
		t.Fatalf("LoadRanked: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(out))
	}
	if out[0].Score != 0.85 || out[0].MatchReason != "Author: Jane Smith" {
		t.Errorf("rank fields lost: score=%g reason=%q", out[0].Score, out[0].MatchReason)
	}
}

func TestSaveReplacesSet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SavePapers(ctx, KindCandidates, []types.Paper{samplePaper("a"), samplePaper("b")}); err != nil {
		t.Fatalf("SavePapers: %v", err)
	}
	if err := s.SavePapers(ctx, KindCandidates, []types.Paper{samplePaper("c")}); err != nil {
		t.Fatalf("SavePapers: %v", err)
	}

	out, err := s.LoadPapers(ctx, KindCandidates)
	if err != nil {
		t.Fatalf("LoadPapers: %v", err)
	}
	if len(out) != 1 || out[0].ID != "c" {
		t.Errorf("save should replace the whole set, got %d papers", len(out))
	}
}

func TestSetsAreIndependent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SavePapers(ctx, KindCandidates, []types.Paper{samplePaper("cand")}); err != nil {
		t.Fatalf("SavePapers: %v", err)
	}
	if err := s.SavePapers(ctx, KindReference, []types.Paper{samplePaper("ref1"), samplePaper("ref2")}); err != nil {
		t.Fatalf("SavePapers: %v", err)
	}

	refs, err := s.LoadPapers(ctx, KindReference)
	if err != nil {
		t.Fatalf("LoadPapers: %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("expected 2 reference papers, got %d", len(refs))
	}
}

func TestFingerprintOrderIndependent(t *testing.T) {
	a := testConfig()
	b := testConfig()
	b.Authors = []string{"Bob Lee", "Jane Smith"}
	b.Keywords = []string{"dark matter"}

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("reordering list fields should not change the fingerprint")
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := testConfig()

	changed := testConfig()
	changed.DaysBack = 14
	if Fingerprint(base) == Fingerprint(changed) {
		t.Error("days_back change should change the fingerprint")
	}

	changed = testConfig()
	changed.Exclusions.MaxAuthors = 5
	if Fingerprint(base) == Fingerprint(changed) {
		t.Error("max_authors change should change the fingerprint")
	}

	changed = testConfig()
	changed.Keywords = append(changed.Keywords, "quenching")
	if Fingerprint(base) == Fingerprint(changed) {
		t.Error("keyword change should change the fingerprint")
	}

	// Rendering knobs do not affect what is fetched.
	changed = testConfig()
	changed.Output.IncludeAbstracts = true
	if Fingerprint(base) != Fingerprint(changed) {
		t.Error("output settings should not change the fingerprint")
	}
}

func TestValid(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	cfg := testConfig()

	if s.Valid(ctx, cfg, 0) {
		t.Error("empty cache should not be valid")
	}

	if err := s.MarkSaved(ctx, cfg); err != nil {
		t.Fatalf("MarkSaved: %v", err)
	}
	if !s.Valid(ctx, cfg, 0) {
		t.Error("freshly stamped cache should be valid")
	}

	// A fetch-relevant config change invalidates the cache.
	other := testConfig()
	other.DaysBack = 30
	if s.Valid(ctx, other, 0) {
		t.Error("changed config should invalidate the cache")
	}

	// A tiny validity window expires immediately.
	time.Sleep(2 * time.Millisecond)
	if s.Valid(ctx, cfg, time.Millisecond) {
		t.Error("expired cache should not be valid")
	}
}

func TestClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	cfg := testConfig()

	if err := s.SavePapers(ctx, KindCandidates, []types.Paper{samplePaper("a")}); err != nil {
		t.Fatalf("SavePapers: %v", err)
	}
	if err := s.MarkSaved(ctx, cfg); err != nil {
		t.Fatalf("MarkSaved: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if s.Valid(ctx, cfg, 0) {
		t.Error("cleared cache should not be valid")
	}
	out, err := s.LoadPapers(ctx, KindCandidates)
	if err != nil {
		t.Fatalf("LoadPapers: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty cache, got %d papers", len(out))
	}
}

func TestInfo(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SavePapers(ctx, KindCandidates, []types.Paper{samplePaper("a"), samplePaper("b")}); err != nil {
		t.Fatalf("SavePapers: %v", err)
	}
	if err := s.SaveRanked(ctx, []types.RankedPaper{{Paper: samplePaper("a"), Score: 0.5}}); err != nil {
		t.Fatalf("SaveRanked: %v", err)
	}
	if err := s.MarkSaved(ctx, testConfig()); err != nil {
		t.Fatalf("MarkSaved: %v", err)
	}

	info, err := s.Info(ctx)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Candidates != 2 || info.Ranked != 1 || info.Reference != 0 {
		t.Errorf("unexpected counts: %+v", info)
	}
	if info.SavedAt.IsZero() {
		t.Error("SavedAt should be set after MarkSaved")
	}
}
