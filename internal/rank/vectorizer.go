// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

// defaultMaxVocabulary caps the vector space at the top-N most frequent
// terms of the reference corpus.
const defaultMaxVocabulary = 1000

// vectorizer is a TF-IDF vector space fitted on one fixed corpus. The
// vocabulary and term weights derive solely from the reference corpus;
// query documents are transformed into that space without refitting. The
// asymmetry is deliberate: it measures "does this candidate resemble what
// the reader already follows", not general corpus structure.
type vectorizer struct {
	vocab map[string]int // term -> column index
	idf   []float64      // per-column inverse document frequency
}

// sparseVec is an L2-normalized TF-IDF document vector. With unit vectors
// cosine similarity reduces to the sparse dot product.
type sparseVec map[int]float64

// tokenize lowercases text, splits on non-alphanumeric runs, drops
// single-character tokens and stop words, and returns unigrams followed by
// bigrams of the surviving token stream.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	words := fields[:0]
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		words = append(words, f)
	}

	terms := make([]string, 0, 2*len(words))
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// fitVectorizer builds the vocabulary and IDF weights from the reference
// documents. Terms are ranked by total corpus frequency and capped at
// maxVocab. Returns an error when the corpus yields no terms at all
// (degenerate vocabulary); callers are expected to fail soft.
func fitVectorizer(docs []string, maxVocab int) (*vectorizer, error) {
	if maxVocab <= 0 {
		maxVocab = defaultMaxVocabulary
	}

	counts := make(map[string]int)    // total occurrences across the corpus
	docFreq := make(map[string]int)   // number of documents containing the term
	seen := make(map[string]struct{}) // per-document scratch

	for _, doc := range docs {
		clear(seen)
		for _, term := range tokenize(doc) {
			counts[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	if len(counts) == 0 {
		return nil, fmt.Errorf("empty vocabulary: reference corpus has no usable terms")
	}

	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxVocab {
		terms = terms[:maxVocab]
	}

	v := &vectorizer{
		vocab: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, t := range terms {
		v.vocab[t] = i
		// Smoothed IDF: every term behaves as if seen in one extra document,
		// so terms present in all documents still get a positive weight.
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}
	return v, nil
}

// transform maps a document into the fitted space and L2-normalizes it.
// Documents sharing no vocabulary with the reference corpus come out as
// the zero vector.
func (v *vectorizer) transform(doc string) sparseVec {
	vec := make(sparseVec)
	for _, term := range tokenize(doc) {
		if col, ok := v.vocab[term]; ok {
			vec[col] += v.idf[col]
		}
	}

	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col, w := range vec {
			vec[col] = w / norm
		}
	}
	return vec
}

// dot returns the cosine similarity of two unit vectors.
func dot(a, b sparseVec) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for col, w := range a {
		sum += w * b[col]
	}
	return sum
}

// SimilarityScores returns, for each candidate, the maximum cosine
// similarity between the candidate and any single reference paper, in
// [0, 1]. The vector space is fitted on the reference corpus only. An
// empty reference corpus, an empty candidate list, or a degenerate
// vocabulary all yield zero scores for every candidate; vectorization
// problems never abort the pipeline.
func SimilarityScores(papers, reference []types.Paper, maxVocab int) []float64 {
	scores := make([]float64, len(papers))
	if len(papers) == 0 || len(reference) == 0 {
		return scores
	}

	refDocs := make([]string, len(reference))
	for i, p := range reference {
		refDocs[i] = p.SearchText()
	}

	v, err := fitVectorizer(refDocs, maxVocab)
	if err != nil {
		return scores
	}

	refVecs := make([]sparseVec, len(refDocs))
	for i, doc := range refDocs {
		refVecs[i] = v.transform(doc)
	}

	for i, p := range papers {
		vec := v.transform(p.SearchText())
		if len(vec) == 0 {
			continue
		}
		var best float64
		for _, ref := range refVecs {
			if s := dot(vec, ref); s > best {
				best = s
			}
		}
		// Guard against float accumulation nudging past 1.
		scores[i] = math.Min(best, 1.0)
	}
	return scores
}
