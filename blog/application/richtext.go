package application

import (
	"fmt"
	"html"
	"html/template"
	"net/url"
	"strings"

	"github.com/dfryer1193/cmsblog/blog/domain"
	"github.com/rs/zerolog/log"
)

var headingClasses = map[int]string{
	1: "text-3xl font-semibold mb-4",
	2: "text-2xl font-semibold mb-4",
	3: "text-xl font-semibold mb-4",
	4: "text-md font-semibold mb-4",
	5: "text-base font-semibold mb-4",
	6: "text-sm font-semibold mb-4",
}

// RenderDocument maps a post body to markup. A nil document renders as nothing.
func RenderDocument(doc *domain.Document) template.HTML {
	if doc == nil {
		return ""
	}

	var sb strings.Builder
	for _, b := range doc.Blocks {
		renderBlock(&sb, b)
	}
	return template.HTML(sb.String())
}

func renderBlock(sb *strings.Builder, b domain.Block) {
	switch b := b.(type) {
	case domain.Heading:
		level := min(max(b.Level, 1), 6)
		fmt.Fprintf(sb, `<h%d class="%s">`, level, headingClasses[level])
		renderRuns(sb, b.Runs)
		fmt.Fprintf(sb, "</h%d>", level)
	case domain.Paragraph:
		sb.WriteString(`<p class="mb-8">`)
		renderRuns(sb, b.Runs)
		sb.WriteString("</p>")
	case domain.ImageBlock:
		src, ok := safeURL(b.Src)
		if !ok {
			log.Warn().Str("src", b.Src).Msg("Skipping image with unsupported URL")
			return
		}
		fmt.Fprintf(sb, `<img alt="%s" src="%s"`, html.EscapeString(b.Title), html.EscapeString(src))
		if b.Width > 0 {
			fmt.Fprintf(sb, ` width="%d"`, b.Width)
		}
		if b.Height > 0 {
			fmt.Fprintf(sb, ` height="%d"`, b.Height)
		}
		sb.WriteString(" />")
	case domain.UnknownBlock:
		log.Debug().Str("type", b.Type).Msg("Rendering unknown rich text block as plain runs")
		renderRuns(sb, b.Runs)
	}
}

// renderRuns writes consecutive runs. Emphasis nests as <b><em><u>, and runs sharing a
// link target are written inside a single anchor.
func renderRuns(sb *strings.Builder, runs []domain.TextRun) {
	for i := 0; i < len(runs); {
		href := runs[i].Href
		j := i
		for j < len(runs) && runs[j].Href == href {
			j++
		}

		target, ok := safeURL(href)
		if href != "" && ok {
			fmt.Fprintf(sb, `<a href="%s">`, html.EscapeString(target))
		}
		for _, r := range runs[i:j] {
			renderRun(sb, r)
		}
		if href != "" && ok {
			sb.WriteString("</a>")
		}
		i = j
	}
}

func renderRun(sb *strings.Builder, r domain.TextRun) {
	if r.Bold {
		sb.WriteString("<b>")
	}
	if r.Italic {
		sb.WriteString("<em>")
	}
	if r.Underline {
		sb.WriteString("<u>")
	}

	for k, line := range strings.Split(r.Text, "\n") {
		if k > 0 {
			sb.WriteString("<br />")
		}
		sb.WriteString(html.EscapeString(line))
	}

	if r.Underline {
		sb.WriteString("</u>")
	}
	if r.Italic {
		sb.WriteString("</em>")
	}
	if r.Bold {
		sb.WriteString("</b>")
	}
}

// safeURL accepts http, https and mailto URLs as well as relative references.
func safeURL(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return u.String(), true
	default:
		return "", false
	}
}

// PostSnippet is the short text shown on post cards: the excerpt, or a snippet of the body.
func PostSnippet(p *domain.Post) string {
	if p == nil {
		return ""
	}
	if strings.TrimSpace(p.Excerpt) != "" {
		return p.Excerpt
	}
	return Snippet(p.Content.PlainText(), DefaultSnippetLength)
}
