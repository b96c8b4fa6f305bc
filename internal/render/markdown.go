// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render formats a ranked paper list as a Markdown, LaTeX, or HTML
// newsletter.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shivankhullar/personal-arXiv-newsletter/internal/rank"
	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

// abstractLimit is where truncated abstracts are cut, at the nearest word
// boundary before the limit.
const abstractLimit = 300

// OutputPath resolves the newsletter file path from the output settings,
// substituting "{date}" in the filename with the given date (YYYY-MM-DD).
func OutputPath(out types.OutputConfig, date time.Time) string {
	name := strings.ReplaceAll(out.Filename, "{date}", date.Format("2006-01-02"))
	return filepath.Join(out.Directory, name)
}

// WriteFile renders the newsletter in the format selected by the output
// settings and writes it to the resolved output path, creating the output
// directory if needed. Returns the written path.
func WriteFile(papers []types.RankedPaper, cfg *types.Config, date time.Time) (string, error) {
	path := OutputPath(cfg.Output, date)

	var content string
	if cfg.Output.LaTeXStyle {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".tex"
		content = LaTeX(papers, cfg, date)
	} else {
		content = Markdown(papers, cfg, date)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing newsletter: %w", err)
	}
	return path, nil
}

// Markdown renders the newsletter as a Markdown document.
func Markdown(papers []types.RankedPaper, cfg *types.Config, date time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# arXiv Newsletter - %s\n\n", date.Format("January 2, 2006"))
	fmt.Fprintf(&sb, "*%d papers selected from the last %d days*\n\n", len(papers), cfg.DaysBack)

	if len(papers) == 0 {
		sb.WriteString("No papers matched your criteria this period.\n")
		return sb.String()
	}

	if cfg.Output.GroupByCategory {
		grouped, keys := rank.GroupByCategory(papers)
		for _, key := range keys {
			fmt.Fprintf(&sb, "## %s\n\n", categoryLabel(key))
			for _, p := range grouped[key] {
				writeMarkdownPaper(&sb, p, cfg.Output)
			}
		}
	} else {
		for _, p := range papers {
			writeMarkdownPaper(&sb, p, cfg.Output)
		}
	}

	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "*Generated %s*\n", time.Now().Format("2006-01-02 15:04"))
	return sb.String()
}

func writeMarkdownPaper(sb *strings.Builder, p types.RankedPaper, out types.OutputConfig) {
	fmt.Fprintf(sb, "### %s\n\n", p.Title)
	fmt.Fprintf(sb, "**Authors:** %s\n\n", formatAuthors(p.Authors))
	fmt.Fprintf(sb, "**Score:** %.2f", p.Score)
	if p.MatchReason != "" {
		fmt.Fprintf(sb, " | **Match:** %s", p.MatchReason)
	}
	sb.WriteString("\n\n")

	if out.IncludeAbstracts && p.Abstract != "" {
		fmt.Fprintf(sb, "%s\n\n", abstract(p.Abstract, out.FullAbstracts))
	}

	var links []string
	if out.IncludeLinks {
		links = append(links, fmt.Sprintf("[arXiv](%s)", p.ArxivURL))
		links = append(links, fmt.Sprintf("[PDF](%s)", p.PDFURL))
	}
	if out.IncludeADSLinks && p.ADSURL != "" {
		links = append(links, fmt.Sprintf("[ADS](%s)", p.ADSURL))
	}
	if len(links) > 0 {
		fmt.Fprintf(sb, "%s\n\n", strings.Join(links, " | "))
	}
}

// formatAuthors joins author names, eliding long lists after the third.
func formatAuthors(authors []string) string {
	if len(authors) == 0 {
		return "Unknown"
	}
	if len(authors) <= 3 {
		return strings.Join(authors, ", ")
	}
	return fmt.Sprintf("%s, et al. (%d authors)",
		strings.Join(authors[:3], ", "), len(authors))
}

// abstract returns the abstract, truncated at a word boundary unless full
// output was requested.
func abstract(text string, full bool) string {
	if full || len(text) <= abstractLimit {
		return text
	}
	cut := text[:abstractLimit]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// categoryLabel maps common arXiv category codes to readable headings.
// Unknown codes pass through unchanged.
func categoryLabel(code string) string {
	labels := map[string]string{
		"astro-ph.GA": "Astrophysics of Galaxies",
		"astro-ph.CO": "Cosmology and Nongalactic Astrophysics",
		"astro-ph.EP": "Earth and Planetary Astrophysics",
		"astro-ph.HE": "High Energy Astrophysical Phenomena",
		"astro-ph.IM": "Instrumentation and Methods for Astrophysics",
		"astro-ph.SR": "Solar and Stellar Astrophysics",
		"cs.LG":       "Machine Learning",
		"cs.CL":       "Computation and Language",
		"gr-qc":       "General Relativity and Quantum Cosmology",
		"hep-ph":      "High Energy Physics - Phenomenology",
		"hep-th":      "High Energy Physics - Theory",
	}
	if label, ok := labels[code]; ok {
		return fmt.Sprintf("%s (%s)", label, code)
	}
	if code == "" {
		return "Uncategorized"
	}
	return code
}
