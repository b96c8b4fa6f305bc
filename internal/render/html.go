// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/shivankhullar/personal-arXiv-newsletter/internal/rank"
	"github.com/shivankhullar/personal-arXiv-newsletter/pkg/types"
)

// htmlTemplate renders the browser preview. Auto-escaping covers titles
// and abstracts, which regularly contain angle brackets.
var htmlTemplate = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>arXiv Newsletter - {{.Date}}</title>
<style>
body { font-family: Georgia, serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
h1 { border-bottom: 2px solid #b31b1b; padding-bottom: 0.3rem; }
h2 { color: #b31b1b; margin-top: 2rem; }
.paper { margin-bottom: 1.5rem; }
.meta { color: #666; font-size: 0.9rem; }
.score { background: #f4f4f4; border-radius: 3px; padding: 0.1rem 0.4rem; }
a { color: #b31b1b; }
</style>
</head>
<body>
<h1>arXiv Newsletter - {{.Date}}</h1>
<p class="meta">{{.Count}} papers selected from the last {{.DaysBack}} days</p>
{{range .Sections}}
<h2>{{.Label}}</h2>
{{range .Papers}}
<div class="paper">
<h3>{{.Title}}</h3>
<p class="meta">{{.Authors}} &middot; <span class="score">{{.Score}}</span>{{if .Reason}} &middot; {{.Reason}}{{end}}</p>
{{if .Abstract}}<p>{{.Abstract}}</p>{{end}}
{{if .Links}}<p class="meta">{{range $i, $l := .Links}}{{if $i}} | {{end}}<a href="{{$l.URL}}">{{$l.Label}}</a>{{end}}</p>{{end}}
</div>
{{end}}
{{end}}
</body>
</html>
`))

type htmlLink struct {
	Label string
	URL   string
}

type htmlPaper struct {
	Title    string
	Authors  string
	Score    string
	Reason   string
	Abstract string
	Links    []htmlLink
}

type htmlSection struct {
	Label  string
	Papers []htmlPaper
}

// HTML writes the newsletter as an HTML preview page.
func HTML(w io.Writer, papers []types.RankedPaper, cfg *types.Config, date time.Time) error {
	data := struct {
		Date     string
		Count    int
		DaysBack int
		Sections []htmlSection
	}{
		Date:     date.Format("January 2, 2006"),
		Count:    len(papers),
		DaysBack: cfg.DaysBack,
	}

	appendSection := func(label string, group []types.RankedPaper) {
		section := htmlSection{Label: label}
		for _, p := range group {
			hp := htmlPaper{
				Title:   p.Title,
				Authors: formatAuthors(p.Authors),
				Score:   fmt.Sprintf("%.2f", p.Score),
				Reason:  p.MatchReason,
			}
			if cfg.Output.IncludeAbstracts {
				hp.Abstract = abstract(p.Abstract, cfg.Output.FullAbstracts)
			}
			if cfg.Output.IncludeLinks {
				hp.Links = append(hp.Links,
					htmlLink{Label: "arXiv", URL: p.ArxivURL},
					htmlLink{Label: "PDF", URL: p.PDFURL},
				)
			}
			if cfg.Output.IncludeADSLinks && p.ADSURL != "" {
				hp.Links = append(hp.Links, htmlLink{Label: "ADS", URL: p.ADSURL})
			}
			section.Papers = append(section.Papers, hp)
		}
		data.Sections = append(data.Sections, section)
	}

	if cfg.Output.GroupByCategory {
		grouped, keys := rank.GroupByCategory(papers)
		for _, key := range keys {
			appendSection(categoryLabel(key), grouped[key])
		}
	} else {
		appendSection("Selected Papers", papers)
	}

	return htmlTemplate.Execute(w, data)
}
