package application

import (
	"bytes"
	"html"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const DefaultSnippetLength = 200

// relativeLinkTransformer unwraps links in comments that do not point off-site.
// A commenter cannot link into the blog's own paths; the link text is kept.
type relativeLinkTransformer struct{}

func (t *relativeLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	var links []*ast.Link
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		link, ok := n.(*ast.Link)
		if ok && isRelativeLink(string(link.Destination)) {
			links = append(links, link)
		}
		return ast.WalkContinue, nil
	})

	// Unwrapping is done after the walk so the tree is not modified while it is traversed.
	for _, link := range links {
		parent := link.Parent()
		if parent == nil {
			continue
		}
		for child := link.FirstChild(); child != nil; {
			next := child.NextSibling()
			parent.InsertBefore(parent, link, child)
			child = next
		}
		parent.RemoveChild(parent, link)
	}
}

func isRelativeLink(dest string) bool {
	// Absolute path check
	if strings.HasPrefix(dest, "/") {
		if strings.HasPrefix(dest, "//") {
			return false
		}
		return true
	}

	if strings.HasPrefix(dest, "./") || strings.HasPrefix(dest, "../") {
		return true
	}

	if strings.Contains(dest, ":") {
		return false
	}

	return true
}

// CommentRenderer turns a free-text comment body into sanitized inline HTML.
type CommentRenderer interface {
	Render(body string) template.HTML
}

type CommentRendererImpl struct {
	renderer goldmark.Markdown
	policy   *bluemonday.Policy
}

func NewCommentRenderer() CommentRenderer {
	renderer := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Strikethrough,
			extension.Linkify,
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&relativeLinkTransformer{}, 100),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
			gmhtml.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &CommentRendererImpl{
		renderer: renderer,
		policy:   policy,
	}
}

// Render never fails. A body goldmark cannot convert is shown as escaped text.
func (r *CommentRendererImpl) Render(body string) template.HTML {
	var buf bytes.Buffer
	if err := r.renderer.Convert([]byte(body), &buf); err != nil {
		log.Warn().Err(err).Msg("Failed to convert comment markdown, rendering as text")
		buf.Reset()
		buf.WriteString("<p>" + html.EscapeString(body) + "</p>")
	}

	// Raw HTML passes through goldmark and is stripped by the policy.
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

// Snippet returns the first paragraph of text, cut at a word boundary to at most
// maxLength characters with an ellipsis appended when it was shortened.
func Snippet(body string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultSnippetLength
	}

	lines := strings.Split(body, "\n")
	var paragraphLines []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		paragraphLines = append(paragraphLines, trimmed)
	}

	if len(paragraphLines) == 0 {
		return ""
	}

	snippet := strings.Join(paragraphLines, " ")
	if utf8.RuneCountInString(snippet) <= maxLength {
		return snippet
	}

	snippet = string([]rune(snippet)[:maxLength])
	if lastSpace := strings.LastIndexAny(snippet, " \t"); lastSpace > 0 {
		snippet = snippet[:lastSpace]
	}
	return snippet + "..."
}
