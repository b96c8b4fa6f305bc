// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// SelectionMode controls how the selector decides which scored papers make
// the newsletter.
type SelectionMode string

const (
	// ModeThreshold keeps a paper only when its score clears
	// min_similarity_score or it carries an author match.
	ModeThreshold SelectionMode = "threshold"

	// ModeFill keeps every paper that survived exclusion and lets the
	// max_papers cap do the cutting. Guarantees a non-empty newsletter
	// whenever anything survived the exclusion filter.
	ModeFill SelectionMode = "fill"
)

// HTTPConfig holds shared HTTP settings for the fetch stage.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with API requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// OutputConfig holds newsletter rendering settings.
type OutputConfig struct {
	// Directory is where generated newsletters are written.
	Directory string `json:"directory" yaml:"directory" mapstructure:"directory"`

	// Filename is the output filename pattern; "{date}" is replaced with
	// the generation date (YYYY-MM-DD).
	Filename string `json:"filename" yaml:"filename" mapstructure:"filename"`

	// IncludeAbstracts controls whether abstracts appear in the output.
	IncludeAbstracts bool `json:"include_abstracts" yaml:"include_abstracts" mapstructure:"include_abstracts"`

	// FullAbstracts disables abstract truncation.
	FullAbstracts bool `json:"full_abstracts" yaml:"full_abstracts" mapstructure:"full_abstracts"`

	// IncludeLinks controls whether arXiv and PDF links appear.
	IncludeLinks bool `json:"include_links" yaml:"include_links" mapstructure:"include_links"`

	// IncludeADSLinks controls whether NASA ADS links appear.
	IncludeADSLinks bool `json:"include_ads_links" yaml:"include_ads_links" mapstructure:"include_ads_links"`

	// GroupByCategory groups papers under their primary category.
	GroupByCategory bool `json:"group_by_category" yaml:"group_by_category" mapstructure:"group_by_category"`

	// LaTeXStyle emits a LaTeX document instead of Markdown.
	LaTeXStyle bool `json:"latex_style" yaml:"latex_style" mapstructure:"latex_style"`
}

// AdvancedConfig holds ranking knobs that most users never touch.
type AdvancedConfig struct {
	// UseSemanticSimilarity enables the TF-IDF similarity signal.
	UseSemanticSimilarity bool `json:"use_semantic_similarity" yaml:"use_semantic_similarity" mapstructure:"use_semantic_similarity"`

	// ReferencePapersLimit caps how many followed-author papers are
	// fetched to build the similarity space.
	ReferencePapersLimit int `json:"reference_papers_limit" yaml:"reference_papers_limit" mapstructure:"reference_papers_limit"`

	// AuthorWeight is the score contribution of an author match, in
	// [0, 1]. Similarity contributes at most (1 - AuthorWeight) so the
	// two signals never double-count.
	AuthorWeight float64 `json:"author_weight" yaml:"author_weight" mapstructure:"author_weight"`

	// MaxVocabulary caps the TF-IDF vocabulary at the top-N most frequent
	// terms of the reference corpus (default 1000).
	MaxVocabulary int `json:"max_vocabulary" yaml:"max_vocabulary" mapstructure:"max_vocabulary"`
}

// ExclusionConfig holds the hard pass/fail rules applied before scoring.
type ExclusionConfig struct {
	// MaxAuthors rejects papers with more authors than this. Zero disables.
	MaxAuthors int `json:"max_authors" yaml:"max_authors" mapstructure:"max_authors"`

	// MinAuthors rejects papers with fewer authors than this. Zero disables.
	MinAuthors int `json:"min_authors" yaml:"min_authors" mapstructure:"min_authors"`

	// ExcludeKeywords rejects papers whose title or abstract contains any
	// of these (case-insensitive substring).
	ExcludeKeywords []string `json:"exclude_keywords" yaml:"exclude_keywords" mapstructure:"exclude_keywords"`

	// ExcludeCategories rejects papers filed under any category starting
	// with one of these prefixes.
	ExcludeCategories []string `json:"exclude_categories" yaml:"exclude_categories" mapstructure:"exclude_categories"`
}

// Config is the full newsletter configuration, read-only during a run.
type Config struct {
	// Authors to follow. Author matches always survive threshold selection.
	Authors []string `json:"authors" yaml:"authors" mapstructure:"authors"`

	// Categories to scan for recent papers (e.g. "astro-ph.GA").
	Categories []string `json:"categories" yaml:"categories" mapstructure:"categories"`

	// Keywords to search and to score against.
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`

	// DaysBack is how many days of submissions to fetch.
	DaysBack int `json:"days_back" yaml:"days_back" mapstructure:"days_back"`

	// MaxPapers caps the newsletter size.
	MaxPapers int `json:"max_papers" yaml:"max_papers" mapstructure:"max_papers"`

	// MinSimilarityScore is the threshold-mode score cutoff, in [0, 1].
	MinSimilarityScore float64 `json:"min_similarity_score" yaml:"min_similarity_score" mapstructure:"min_similarity_score"`

	// SelectionMode is "threshold" or "fill".
	SelectionMode SelectionMode `json:"selection_mode" yaml:"selection_mode" mapstructure:"selection_mode"`

	Output     OutputConfig    `json:"output" yaml:"output" mapstructure:"output"`
	Advanced   AdvancedConfig  `json:"advanced" yaml:"advanced" mapstructure:"advanced"`
	Exclusions ExclusionConfig `json:"exclusions" yaml:"exclusions" mapstructure:"exclusions"`
	HTTP       HTTPConfig      `json:"http" yaml:"http" mapstructure:"http"`
}

// Validate checks the configuration invariants. A validation error is fatal:
// the pipeline must not run with an invalid configuration.
func (c *Config) Validate() error {
	if c.DaysBack < 1 {
		return fmt.Errorf("'days_back' must be at least 1, got %d", c.DaysBack)
	}
	if c.MaxPapers < 1 {
		return fmt.Errorf("'max_papers' must be at least 1, got %d", c.MaxPapers)
	}
	if c.MinSimilarityScore < 0 || c.MinSimilarityScore > 1 {
		return fmt.Errorf("'min_similarity_score' must be between 0 and 1, got %g", c.MinSimilarityScore)
	}
	if c.Advanced.AuthorWeight < 0 || c.Advanced.AuthorWeight > 1 {
		return fmt.Errorf("'author_weight' must be between 0 and 1, got %g", c.Advanced.AuthorWeight)
	}
	switch c.SelectionMode {
	case ModeThreshold, ModeFill:
	default:
		return fmt.Errorf("'selection_mode' must be %q or %q, got %q", ModeThreshold, ModeFill, c.SelectionMode)
	}
	return nil
}
