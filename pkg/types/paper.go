// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the newsletter pipeline.
package types

import "time"

// Paper holds the metadata of a single arXiv paper. Papers are identified by
// their arXiv ID, which is stable across the fetch strategies (author,
// category, keyword); deduplication happens on ID before any scoring.
type Paper struct {
	// ID is the arXiv identifier (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title as returned by the API.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Categories lists every arXiv category the paper is filed under.
	Categories []string `json:"categories" yaml:"categories"`

	// PrimaryCategory is the paper's designated primary category.
	PrimaryCategory string `json:"primary_category" yaml:"primary_category"`

	// Published is the submission date of the first version.
	Published time.Time `json:"published" yaml:"published"`

	// Updated is the submission date of the latest version.
	Updated time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`

	// PDFURL links to the paper PDF.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// ArxivURL links to the paper's abstract page.
	ArxivURL string `json:"arxiv_url,omitempty" yaml:"arxiv_url,omitempty"`

	// ADSURL links to the paper's NASA ADS record.
	ADSURL string `json:"ads_url,omitempty" yaml:"ads_url,omitempty"`
}

// SearchText returns the text the filters and the vectorizer operate on.
func (p Paper) SearchText() string {
	return p.Title + " " + p.Abstract
}

// RankedPaper pairs a Paper with the score and reason the ranking stage
// assigned to it. Papers stay immutable through the pipeline; scoring
// produces these result records instead of mutating candidates in place.
type RankedPaper struct {
	Paper `yaml:",inline"`

	// Score is the composite relevance score. Contributions are each
	// non-negative; the sum is not clamped.
	Score float64 `json:"score" yaml:"score"`

	// MatchReason is a human-readable trail of why the paper was kept
	// (e.g. "Author: J. Smith; Keywords: cosmology").
	MatchReason string `json:"match_reason" yaml:"match_reason"`
}
