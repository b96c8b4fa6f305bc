// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"sort"

	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

// scoredPaper carries a ranked paper through selection together with the
// author-match flag, which threshold mode treats as an unconditional keep.
type scoredPaper struct {
	paper       types.RankedPaper
	authorMatch bool
}

// selectPapers applies the selection policy and the size cap.
//
// In threshold mode a paper survives when its score clears the threshold
// OR it carries an author match: following an author is an unconditional
// signal, not merely a scoring input. In fill mode every scored paper
// survives; exclusion already happened upstream and the cap does the rest.
//
// Survivors are sorted by score descending with a stable sort, so papers
// with equal scores keep their original (fetch) order, then truncated to
// maxPapers.
func selectPapers(papers []scoredPaper, mode types.SelectionMode, threshold float64, maxPapers int) []types.RankedPaper {
	survivors := make([]scoredPaper, 0, len(papers))
	for _, sp := range papers {
		if mode == types.ModeThreshold && sp.paper.Score < threshold && !sp.authorMatch {
			continue
		}
		survivors = append(survivors, sp)
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].paper.Score > survivors[j].paper.Score
	})

	if maxPapers > 0 && len(survivors) > maxPapers {
		survivors = survivors[:maxPapers]
	}

	out := make([]types.RankedPaper, len(survivors))
	for i, sp := range survivors {
		out[i] = sp.paper
	}
	return out
}
