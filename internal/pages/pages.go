package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/dfryer1193/cmsblog/blog/application"
	"github.com/dfryer1193/cmsblog/blog/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	dateLayout   = "Jan 02, 2006"
	siteTitle    = "CMS Blog"
	layoutName   = "layout"
	pageHome     = "home"
	pagePost     = "post"
	pageCategory = "category"
	pageNotFound = "notfound"
)

type ContentReader interface {
	Posts(ctx context.Context) []domain.Post
	Post(ctx context.Context, slug string) *domain.Post
	Categories(ctx context.Context) []domain.Category
	CategoryPosts(ctx context.Context, categorySlug string) []domain.Post
	FeaturedPosts(ctx context.Context) []domain.FeaturedPost
	RelatedPosts(ctx context.Context, post *domain.Post) []domain.PostSummary
	AdjacentPosts(ctx context.Context, createdAt time.Time, slug string) domain.AdjacentPosts
}

type CommentPipeline interface {
	Comments(ctx context.Context, slug string) application.CommentResolution
	Submit(ctx context.Context, sub domain.CommentSubmission) (*application.SubmitResult, error)
}

// Pages renders the HTML front-end. Each page has its own template set sharing the layout.
type Pages struct {
	content   ContentReader
	comments  CommentPipeline
	renderer  application.CommentRenderer
	observer  WidgetObserver
	templates map[string]*template.Template
}

func New(content ContentReader, comments CommentPipeline, renderer application.CommentRenderer, observer WidgetObserver) (*Pages, error) {
	if observer == nil {
		observer = noopObserver{}
	}
	if renderer == nil {
		renderer = application.NewCommentRenderer()
	}

	p := &Pages{
		content:  content,
		comments: comments,
		renderer: renderer,
		observer: observer,
	}

	templates, err := parseTemplates(p.funcs())
	if err != nil {
		return nil, err
	}
	p.templates = templates

	return p, nil
}

// Register mounts the pages on router. submitLimit runs in front of the comment form only.
func (p *Pages) Register(router *gin.Engine, submitLimit gin.HandlerFunc) {
	router.GET("/", p.Home)
	router.GET("/post/:slug", p.Post)
	router.GET("/category/:slug", p.Category)

	if submitLimit != nil {
		router.POST("/post/:slug/comments", submitLimit, p.SubmitComment)
	} else {
		router.POST("/post/:slug/comments", p.SubmitComment)
	}

	router.NoRoute(p.NotFound)
}

func (p *Pages) funcs() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(dateLayout)
		},
		"sized": func(img *domain.Image, width int) string {
			return img.Sized(width, 0)
		},
		"richtext": application.RenderDocument,
		"snippet": func(post domain.Post) string {
			return application.PostSnippet(&post)
		},
		"markdown": p.renderer.Render,
	}
}

func parseTemplates(funcs template.FuncMap) (map[string]*template.Template, error) {
	base, err := template.New(layoutName).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, page := range []string{pageHome, pagePost, pageCategory, pageNotFound} {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", page, err)
		}

		tmpl, err := clone.ParseFS(templateFS, "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		templates[page] = tmpl
	}

	return templates, nil
}

func (p *Pages) render(c *gin.Context, status int, page string, data any) {
	c.Render(status, render.HTML{
		Template: p.templates[page],
		Name:     layoutName,
		Data:     data,
	})
}
