// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch queries the arXiv API and returns candidate and reference
// papers. Three strategies feed the candidate pool (followed authors,
// categories, keywords); results are merged with first-seen dedup by
// arXiv ID. A failing strategy warns and the run continues with the rest.
package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shivankhullar/personal-arXiv-newsletter/internal/httputil"
	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const (
	authorPageSize   = 100
	categoryPageSize = 200
	keywordPageSize  = 200
)

// Client fetches paper metadata from the arXiv API.
type Client struct {
	HTTP *http.Client
	cfg  types.HTTPConfig
}

// New returns a Client using the given HTTP settings.
func New(cfg types.HTTPConfig) *Client {
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
	}
}

// All fetches candidates with every configured strategy, deduplicates by
// arXiv ID (first occurrence wins), and returns them sorted by publication
// date, newest first. Individual strategy failures are reported to w and
// do not abort the remaining strategies.
func (c *Client) All(ctx context.Context, cfg *types.Config, w io.Writer) ([]types.Paper, error) {
	var all []types.Paper
	seen := make(map[string]struct{})

	add := func(papers []types.Paper) {
		for _, p := range papers {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			all = append(all, p)
		}
	}

	if len(cfg.Authors) > 0 {
		fmt.Fprintf(w, "Fetching papers by %d authors...\n", len(cfg.Authors))
		papers, err := c.ByAuthors(ctx, cfg.Authors, cfg.DaysBack)
		if err != nil {
			fmt.Fprintf(w, "warning: author fetch failed: %v\n", err)
		} else {
			add(papers)
		}
	}

	if len(cfg.Categories) > 0 {
		fmt.Fprintf(w, "Fetching papers from %d categories...\n", len(cfg.Categories))
		papers, err := c.ByCategories(ctx, cfg.Categories, cfg.DaysBack)
		if err != nil {
			fmt.Fprintf(w, "warning: category fetch failed: %v\n", err)
		} else {
			add(papers)
		}
	}

	if len(cfg.Keywords) > 0 {
		fmt.Fprintf(w, "Fetching papers matching %d keywords...\n", len(cfg.Keywords))
		papers, err := c.ByKeywords(ctx, cfg.Keywords, cfg.DaysBack)
		if err != nil {
			fmt.Fprintf(w, "warning: keyword fetch failed: %v\n", err)
		} else {
			add(papers)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Published.After(all[j].Published)
	})

	fmt.Fprintf(w, "Total unique papers found: %d\n", len(all))
	return all, nil
}

// ByAuthors fetches recent submissions by each followed author.
func (c *Client) ByAuthors(ctx context.Context, authors []string, daysBack int) ([]types.Paper, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysBack)

	var papers []types.Paper
	for _, author := range authors {
		query := fmt.Sprintf("au:%q", author)
		batch, err := c.query(ctx, query, authorPageSize, "submittedDate")
		if err != nil {
			return nil, fmt.Errorf("fetching papers for author %q: %w", author, err)
		}
		papers = append(papers, sinceCutoff(batch, cutoff)...)
	}
	return papers, nil
}

// ByCategories fetches recent submissions in each configured category.
func (c *Client) ByCategories(ctx context.Context, categories []string, daysBack int) ([]types.Paper, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysBack)

	var papers []types.Paper
	for _, category := range categories {
		batch, err := c.query(ctx, "cat:"+category, categoryPageSize, "submittedDate")
		if err != nil {
			return nil, fmt.Errorf("fetching papers for category %q: %w", category, err)
		}
		papers = append(papers, sinceCutoff(batch, cutoff)...)
	}
	return papers, nil
}

// ByKeywords fetches recent submissions whose title or abstract contains
// any configured keyword.
func (c *Client) ByKeywords(ctx context.Context, keywords []string, daysBack int) ([]types.Paper, error) {
	query := buildKeywordQuery(keywords)
	if query == "" {
		return nil, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -daysBack)

	batch, err := c.query(ctx, query, keywordPageSize, "submittedDate")
	if err != nil {
		return nil, fmt.Errorf("fetching papers by keywords: %w", err)
	}
	return sinceCutoff(batch, cutoff), nil
}

// ReferencePapers fetches followed-author history for the similarity space,
// sorted by relevance and capped at limit. The result is never emitted;
// it only calibrates similarity. Per-author failures skip to the next
// author so one bad query cannot empty the whole corpus.
func (c *Client) ReferencePapers(ctx context.Context, authors []string, limit int, w io.Writer) []types.Paper {
	if len(authors) == 0 || limit <= 0 {
		return nil
	}
	perAuthor := limit/len(authors) + 1

	var papers []types.Paper
	for _, author := range authors {
		query := fmt.Sprintf("au:%q", author)
		batch, err := c.query(ctx, query, perAuthor, "relevance")
		if err != nil {
			fmt.Fprintf(w, "warning: reference fetch for %q failed: %v\n", author, err)
			continue
		}
		papers = append(papers, batch...)
		if len(papers) >= limit {
			papers = papers[:limit]
			break
		}
	}

	fmt.Fprintf(w, "Fetched %d reference papers\n", len(papers))
	return papers
}

// buildKeywordQuery ORs together title and abstract matches for every
// keyword: (ti:"k1" OR abs:"k1") OR (ti:"k2" OR abs:"k2") ...
func buildKeywordQuery(keywords []string) string {
	var parts []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("(ti:%q OR abs:%q)", kw, kw))
	}
	return strings.Join(parts, " OR ")
}

// sinceCutoff keeps the prefix of a submittedDate-descending batch that was
// published on or after the cutoff.
func sinceCutoff(papers []types.Paper, cutoff time.Time) []types.Paper {
	for i, p := range papers {
		if p.Published.Before(cutoff) {
			return papers[:i]
		}
	}
	return papers
}

// query performs one arXiv API call and parses the Atom feed.
func (c *Client) query(ctx context.Context, searchQuery string, maxResults int, sortBy string) ([]types.Paper, error) {
	params := url.Values{
		"search_query": {searchQuery},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults)},
		"sortBy":       {sortBy},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	papers := make([]types.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		if p, ok := entry.toPaper(); ok {
			papers = append(papers, p)
		}
	}
	return papers, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID              string          `xml:"id"`
	Title           string          `xml:"title"`
	Summary         string          `xml:"summary"`
	Published       string          `xml:"published"`
	Updated         string          `xml:"updated"`
	Authors         []arxivAuthor   `xml:"author"`
	Categories      []arxivCategory `xml:"category"`
	PrimaryCategory arxivCategory   `xml:"primary_category"`
	Links           []arxivLink     `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
}

func (e arxivEntry) toPaper() (types.Paper, bool) {
	id := extractArxivID(e.ID)
	if id == "" {
		return types.Paper{}, false
	}

	p := types.Paper{
		ID:       id,
		Title:    collapseSpace(e.Title),
		Abstract: collapseSpace(e.Summary),
		ArxivURL: e.ID,
		// ADS records index arXiv submissions under arXiv:YYMM.NNNNN.
		ADSURL: "https://ui.adsabs.harvard.edu/abs/arXiv:" + id,
	}

	for _, a := range e.Authors {
		p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			p.Categories = append(p.Categories, c.Term)
		}
	}
	p.PrimaryCategory = e.PrimaryCategory.Term
	if p.PrimaryCategory == "" && len(p.Categories) > 0 {
		p.PrimaryCategory = p.Categories[0]
	}

	for _, l := range e.Links {
		if l.Title == "pdf" {
			p.PDFURL = l.Href
		}
	}
	if p.PDFURL == "" {
		p.PDFURL = "https://arxiv.org/pdf/" + id
	}

	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		p.Published = t
	}
	if t, err := time.Parse(time.RFC3339, e.Updated); err == nil {
		p.Updated = t
	}
	return p, true
}

// collapseSpace trims and collapses internal whitespace; arXiv titles and
// abstracts wrap with embedded newlines and leading spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// extractArxivID pulls the arXiv ID from an abstract-page URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
