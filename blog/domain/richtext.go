package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Document is the structured body of a post.
type Document struct {
	Blocks []Block
}

// Block is one top-level node of a Document. The set of implementations is closed:
// Heading, Paragraph, ImageBlock and UnknownBlock.
type Block interface {
	block()
}

// Heading is a heading of level 1 to 6.
type Heading struct {
	Level int
	Runs  []TextRun
}

type Paragraph struct {
	Runs []TextRun
}

// ImageBlock is an embedded image. Width and Height are zero when the CMS omits them.
type ImageBlock struct {
	Src    string
	Title  string
	Width  int
	Height int
}

// UnknownBlock keeps the text of a block type this renderer does not understand.
type UnknownBlock struct {
	Type string
	Runs []TextRun
}

func (Heading) block()      {}
func (Paragraph) block()    {}
func (ImageBlock) block()   {}
func (UnknownBlock) block() {}

// TextRun is a span of text with uniform emphasis. Href is set for runs inside a link.
type TextRun struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Href      string
}

var headingLevels = map[string]int{
	"heading-one":   1,
	"heading-two":   2,
	"heading-three": 3,
	"heading-four":  4,
	"heading-five":  5,
	"heading-six":   6,
}

// rawNode mirrors the loosely typed node tree the CMS stores in content.raw.
type rawNode struct {
	Type      string    `json:"type"`
	Children  []rawNode `json:"children"`
	Text      *string   `json:"text"`
	Bold      bool      `json:"bold"`
	Italic    bool      `json:"italic"`
	Underline bool      `json:"underline"`
	Href      string    `json:"href"`
	Src       string    `json:"src"`
	Title     string    `json:"title"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
}

// ParseDocument converts the raw rich-text tree into a Document.
// An empty or null payload yields a nil Document and no error.
func ParseDocument(raw json.RawMessage) (*Document, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var root rawNode
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("failed to decode rich text: %w", err)
	}

	doc := &Document{Blocks: make([]Block, 0, len(root.Children))}
	for _, n := range root.Children {
		doc.Blocks = append(doc.Blocks, toBlock(n))
	}
	return doc, nil
}

func toBlock(n rawNode) Block {
	if level, ok := headingLevels[n.Type]; ok {
		return Heading{Level: level, Runs: flattenRuns(n.Children, "")}
	}

	switch n.Type {
	case "paragraph":
		return Paragraph{Runs: flattenRuns(n.Children, "")}
	case "image":
		return ImageBlock{Src: n.Src, Title: n.Title, Width: n.Width, Height: n.Height}
	default:
		return UnknownBlock{Type: n.Type, Runs: flattenRuns(n.Children, "")}
	}
}

// flattenRuns collects the leaf text runs below nodes, carrying link targets down to their text.
func flattenRuns(nodes []rawNode, href string) []TextRun {
	var runs []TextRun
	for _, n := range nodes {
		if n.Text != nil {
			runs = append(runs, TextRun{
				Text:      *n.Text,
				Bold:      n.Bold,
				Italic:    n.Italic,
				Underline: n.Underline,
				Href:      href,
			})
			continue
		}

		childHref := href
		if n.Type == "link" && n.Href != "" {
			childHref = n.Href
		}
		runs = append(runs, flattenRuns(n.Children, childHref)...)
	}
	return runs
}

// PlainText returns the text of every paragraph in the document, one paragraph per line.
func (d *Document) PlainText() string {
	if d == nil {
		return ""
	}

	var lines []string
	for _, b := range d.Blocks {
		p, ok := b.(Paragraph)
		if !ok {
			continue
		}
		var sb strings.Builder
		for _, r := range p.Runs {
			sb.WriteString(r.Text)
		}
		if line := strings.TrimSpace(sb.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
