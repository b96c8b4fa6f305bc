// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import "strings"

// stopWords holds common English stop words excluded from the TF-IDF
// vocabulary. Abstract prose is dominated by these; removing them keeps
// the capped vocabulary spent on informative terms.
var stopWords = buildStopWords()

func buildStopWords() map[string]struct{} {
	const words = `a about above after again against all also am an and any
	are as at be because been before being below between both but by can
	cannot could did do does doing down during each few for from further
	had has have having he her here hers herself him himself his how i if
	in into is it its itself just me more most my myself no nor not now of
	off on once only or other our ours ourselves out over own same she
	should so some such than that the their theirs them themselves then
	there these they this those through to too under until up very was we
	were what when where which while who whom why will with would you your
	yours yourself yourselves`

	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}
