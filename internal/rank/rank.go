// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"fmt"
	"io"
	"sort"

	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

// EmptyReason distinguishes the ways a run can produce an empty newsletter.
// None of them is an error; each warrants different user-facing advice.
type EmptyReason string

const (
	// ReasonNone: the result is non-empty.
	ReasonNone EmptyReason = ""

	// ReasonNoCandidates: the fetch layer supplied no papers at all.
	ReasonNoCandidates EmptyReason = "no_candidates"

	// ReasonAllExcluded: candidates existed but the exclusion rules
	// rejected every one of them.
	ReasonAllExcluded EmptyReason = "all_excluded"

	// ReasonNoneSelected: papers survived exclusion but none passed
	// threshold selection.
	ReasonNoneSelected EmptyReason = "none_selected"
)

// Result is the outcome of one filter-and-rank run.
type Result struct {
	// Papers is the ranked, capped newsletter content, best first.
	Papers []types.RankedPaper

	// Excluded tallies exclusion-filter rejections per rule.
	Excluded ExclusionTally

	// EmptyReason is set when Papers is empty.
	EmptyReason EmptyReason
}

// Filter runs the ranking pipeline for one configuration snapshot.
type Filter struct {
	cfg *types.Config
}

// New returns a Filter over the given configuration. The configuration is
// treated as read-only for the lifetime of the Filter.
func New(cfg *types.Config) *Filter {
	return &Filter{cfg: cfg}
}

// FilterAndRank applies exclusions, computes similarity against the
// reference corpus when enabled, scores every surviving candidate, and
// selects the final ranked list. Progress lines go to w. The reference
// corpus is only ever read; reference papers are never scored or emitted.
func (f *Filter) FilterAndRank(papers, reference []types.Paper, w io.Writer) Result {
	if len(papers) == 0 {
		return Result{EmptyReason: ReasonNoCandidates}
	}

	fmt.Fprintf(w, "Filtering and ranking %d papers...\n", len(papers))

	survivors, tally := ApplyExclusions(papers, f.cfg.Exclusions)
	if tally.Total() > 0 {
		reportExclusions(w, tally)
	}
	if len(survivors) == 0 {
		fmt.Fprintln(w, "No papers remain after applying exclusion criteria")
		return Result{Excluded: tally, EmptyReason: ReasonAllExcluded}
	}
	fmt.Fprintf(w, "%d papers after exclusions\n", len(survivors))

	var similarities []float64
	if f.cfg.Advanced.UseSemanticSimilarity && len(reference) > 0 {
		fmt.Fprintln(w, "Computing semantic similarity scores...")
		similarities = SimilarityScores(survivors, reference, f.cfg.Advanced.MaxVocabulary)
	}

	scored := make([]scoredPaper, len(survivors))
	for i, p := range survivors {
		var sim float64
		if similarities != nil {
			sim = similarities[i]
		}
		score, matched, reason := scorePaper(p, f.cfg, sim)
		scored[i] = scoredPaper{
			paper:       types.RankedPaper{Paper: p, Score: score, MatchReason: reason},
			authorMatch: matched,
		}
	}

	selected := selectPapers(scored, f.cfg.SelectionMode, f.cfg.MinSimilarityScore, f.cfg.MaxPapers)
	fmt.Fprintf(w, "Selected %d papers (mode: %s, threshold: %g)\n",
		len(selected), f.cfg.SelectionMode, f.cfg.MinSimilarityScore)

	if len(selected) == 0 {
		return Result{Excluded: tally, EmptyReason: ReasonNoneSelected}
	}
	return Result{Papers: selected, Excluded: tally}
}

func reportExclusions(w io.Writer, tally ExclusionTally) {
	fmt.Fprintf(w, "Excluded %d papers:\n", tally.Total())
	if tally.MaxAuthors > 0 {
		fmt.Fprintf(w, "  - %d papers (too many authors)\n", tally.MaxAuthors)
	}
	if tally.MinAuthors > 0 {
		fmt.Fprintf(w, "  - %d papers (too few authors)\n", tally.MinAuthors)
	}
	if tally.Keywords > 0 {
		fmt.Fprintf(w, "  - %d papers (excluded keywords)\n", tally.Keywords)
	}
	if tally.Categories > 0 {
		fmt.Fprintf(w, "  - %d papers (excluded categories)\n", tally.Categories)
	}
}

// GroupByCategory buckets ranked papers by primary category, preserving
// rank order within each bucket. Category keys are returned sorted so the
// rendered sections come out in a stable order.
func GroupByCategory(papers []types.RankedPaper) (map[string][]types.RankedPaper, []string) {
	grouped := make(map[string][]types.RankedPaper)
	for _, p := range papers {
		grouped[p.PrimaryCategory] = append(grouped[p.PrimaryCategory], p)
	}

	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return grouped, keys
}

// Statistics summarizes a ranked list for the report footer.
type Statistics struct {
	Total      int
	AvgScore   float64
	Categories map[string]int
	Authors    map[string]int // per followed author, exact-name hits
}

// Stats computes summary statistics over the final ranked list.
func (f *Filter) Stats(papers []types.RankedPaper) Statistics {
	stats := Statistics{
		Total:      len(papers),
		Categories: make(map[string]int),
		Authors:    make(map[string]int),
	}
	if len(papers) == 0 {
		return stats
	}

	followed := make(map[string]struct{}, len(f.cfg.Authors))
	for _, a := range f.cfg.Authors {
		followed[a] = struct{}{}
	}

	var sum float64
	for _, p := range papers {
		sum += p.Score
		stats.Categories[p.PrimaryCategory]++
		for _, author := range p.Authors {
			if _, ok := followed[author]; ok {
				stats.Authors[author]++
			}
		}
	}
	stats.AvgScore = sum / float64(len(papers))
	return stats
}
