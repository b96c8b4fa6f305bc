// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/shivankhullar/personal-arXiv-newsletter/internal/rank"
	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

// LaTeX renders the newsletter as a standalone LaTeX document. Abstract
// text is escaped except for inline math segments, which pass through so
// that $z \sim 6$ and friends survive.
func LaTeX(papers []types.RankedPaper, cfg *types.Config, date time.Time) string {
	var sb strings.Builder

	sb.WriteString(`\documentclass[11pt]{article}
\usepackage[margin=1in]{geometry}
\usepackage{hyperref}
\usepackage{parskip}
\title{arXiv Newsletter}
`)
	fmt.Fprintf(&sb, "\\date{%s}\n", date.Format("January 2, 2006"))
	sb.WriteString("\\begin{document}\n\\maketitle\n\n")
	fmt.Fprintf(&sb, "\\noindent\\textit{%d papers selected from the last %d days}\n\n",
		len(papers), cfg.DaysBack)

	if cfg.Output.GroupByCategory {
		grouped, keys := rank.GroupByCategory(papers)
		for _, key := range keys {
			fmt.Fprintf(&sb, "\\section*{%s}\n\n", escapeLaTeX(categoryLabel(key)))
			for _, p := range grouped[key] {
				writeLaTeXPaper(&sb, p, cfg.Output)
			}
		}
	} else {
		for _, p := range papers {
			writeLaTeXPaper(&sb, p, cfg.Output)
		}
	}

	sb.WriteString("\\end{document}\n")
	return sb.String()
}

func writeLaTeXPaper(sb *strings.Builder, p types.RankedPaper, out types.OutputConfig) {
	fmt.Fprintf(sb, "\\subsection*{%s}\n", escapeMathAware(p.Title))
	fmt.Fprintf(sb, "\\textbf{Authors:} %s\\\\\n", escapeLaTeX(formatAuthors(p.Authors)))
	fmt.Fprintf(sb, "\\textbf{Score:} %.2f", p.Score)
	if p.MatchReason != "" {
		fmt.Fprintf(sb, " --- %s", escapeLaTeX(p.MatchReason))
	}
	sb.WriteString("\n\n")

	if out.IncludeAbstracts && p.Abstract != "" {
		fmt.Fprintf(sb, "%s\n\n", escapeMathAware(abstract(p.Abstract, out.FullAbstracts)))
	}
	if out.IncludeLinks {
		fmt.Fprintf(sb, "\\href{%s}{arXiv} \\quad \\href{%s}{PDF}", p.ArxivURL, p.PDFURL)
		if out.IncludeADSLinks && p.ADSURL != "" {
			fmt.Fprintf(sb, " \\quad \\href{%s}{ADS}", p.ADSURL)
		}
		sb.WriteString("\n\n")
	}
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// escapeLaTeX escapes every LaTeX special character.
func escapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}

// escapeMathAware escapes LaTeX specials outside $...$ segments and keeps
// the segments verbatim. An unpaired $ is treated as literal text.
func escapeMathAware(s string) string {
	parts := strings.Split(s, "$")
	if len(parts)%2 == 0 {
		// Odd number of $: no way to pair them, escape everything.
		return escapeLaTeX(s)
	}

	var sb strings.Builder
	for i, part := range parts {
		if i%2 == 1 {
			sb.WriteString("$" + part + "$")
		} else {
			sb.WriteString(escapeLaTeX(part))
		}
	}
	return sb.String()
}
