package application

import (
	"testing"

	"github.com/dfryer1193/cmsblog/blog/domain"
)

func TestRenderDocument(t *testing.T) {
	tests := []struct {
		name     string
		doc      *domain.Document
		expected string
	}{
		{
			name:     "Nil document",
			doc:      nil,
			expected: "",
		},
		{
			name: "Paragraph with nested emphasis",
			doc: &domain.Document{Blocks: []domain.Block{
				domain.Paragraph{Runs: []domain.TextRun{
					{Text: "plain "},
					{Text: "all", Bold: true, Italic: true, Underline: true},
				}},
			}},
			expected: `<p class="mb-8">plain <b><em><u>all</u></em></b></p>`,
		},
		{
			name: "Headings",
			doc: &domain.Document{Blocks: []domain.Block{
				domain.Heading{Level: 3, Runs: []domain.TextRun{{Text: "Three"}}},
				domain.Heading{Level: 4, Runs: []domain.TextRun{{Text: "Four"}}},
			}},
			expected: `<h3 class="text-xl font-semibold mb-4">Three</h3><h4 class="text-md font-semibold mb-4">Four</h4>`,
		},
		{
			name: "Out of range heading level is clamped",
			doc: &domain.Document{Blocks: []domain.Block{
				domain.Heading{Level: 9, Runs: []domain.TextRun{{Text: "Deep"}}},
			}},
			expected: `<h6 class="text-sm font-semibold mb-4">Deep</h6>`,
		},
		{
			name: "Text is escaped",
			doc: &domain.Document{Blocks: []domain.Block{
				domain.Paragraph{Runs: []domain.TextRun{{Text: "<script>x</script>"}}},
			}},
			expected: `<p class="mb-8">&lt;script&gt;x&lt;/script&gt;</p>`,
		},
		{
			name: "Line breaks inside a run",
			doc: &domain.Document{Blocks: []domain.Block{
				domain.Paragraph{Runs: []domain.TextRun{{Text: "a\nb"}}},
			}},
			expected: `<p class="mb-8">a<br />b</p>`,
		},
		{
			name: "Image",
			doc: &domain.Document{Blocks: []domain.Block{
				domain.ImageBlock{Src: "https://media.example.com/a.png", Title: "A \"cat\"", Width: 640, Height: 480},
			}},
			expected: `<img alt="A &#34;cat&#34;" src="https://media.example.com/a.png" width="640" height="480" />`,
		},
		{
			name: "Image with unsupported scheme is skipped",
			doc: &domain.Document{Blocks: []domain.Block{
				domain.ImageBlock{Src: "javascript:alert(1)"},
			}},
			expected: "",
		},
		{
			name: "Link groups consecutive runs",
			doc: &domain.Document{Blocks: []domain.Block{
				domain.Paragraph{Runs: []domain.TextRun{
					{Text: "see "},
					{Text: "the ", Href: "https://example.com"},
					{Text: "docs", Bold: true, Href: "https://example.com"},
				}},
			}},
			expected: `<p class="mb-8">see <a href="https://example.com">the <b>docs</b></a></p>`,
		},
		{
			name: "Unsafe link keeps its text",
			doc: &domain.Document{Blocks: []domain.Block{
				domain.Paragraph{Runs: []domain.TextRun{{Text: "click", Href: "javascript:alert(1)"}}},
			}},
			expected: `<p class="mb-8">click</p>`,
		},
		{
			name: "Unknown block renders its text without a wrapper",
			doc: &domain.Document{Blocks: []domain.Block{
				domain.UnknownBlock{Type: "block-quote", Runs: []domain.TextRun{{Text: "quoted"}}},
			}},
			expected: "quoted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := string(RenderDocument(tt.doc))
			if result != tt.expected {
				t.Errorf("RenderDocument() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestPostSnippet(t *testing.T) {
	body := &domain.Document{Blocks: []domain.Block{
		domain.Heading{Level: 1, Runs: []domain.TextRun{{Text: "Title"}}},
		domain.Paragraph{Runs: []domain.TextRun{{Text: "Body text."}}},
	}}

	tests := []struct {
		name     string
		post     *domain.Post
		expected string
	}{
		{
			name:     "Nil post",
			expected: "",
		},
		{
			name:     "Excerpt wins",
			post:     &domain.Post{Excerpt: "The excerpt", Content: body},
			expected: "The excerpt",
		},
		{
			name:     "Body text when there is no excerpt",
			post:     &domain.Post{Excerpt: "  ", Content: body},
			expected: "Body text.",
		},
		{
			name:     "Nothing to show",
			post:     &domain.Post{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PostSnippet(tt.post)
			if result != tt.expected {
				t.Errorf("PostSnippet() = %q, want %q", result, tt.expected)
			}
		})
	}
}
