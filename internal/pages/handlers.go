package pages

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/dfryer1193/cmsblog/api"
	"github.com/dfryer1193/cmsblog/blog/application"
	"github.com/dfryer1193/cmsblog/blog/domain"
	"github.com/dfryer1193/cmsblog/internal/middleware"
	"github.com/dfryer1193/cmsblog/internal/rest"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	noticeLinked   = "linked"
	noticeUnlinked = "unlinked"

	msgInvalidComment = "Please fill in your name, a valid email and a comment."
)

// Notice is a one-line status message shown above the comment form.
type Notice struct {
	Success bool
	Message string
}

type CommentView struct {
	Name      string
	CreatedAt time.Time
	Body      template.HTML
}

type CommentsView struct {
	Items             []CommentView
	MayIncludeForeign bool
}

// CommentForm carries the submitted values back into the form after a rejected submission.
type CommentForm struct {
	Name    string
	Email   string
	Comment string
}

type HomeView struct {
	Title      string
	Posts      Widget[[]domain.Post]
	Featured   Widget[[]domain.FeaturedPost]
	Related    Widget[[]domain.PostSummary]
	Categories Widget[[]domain.Category]
}

type PostView struct {
	Title      string
	Post       *domain.Post
	Notice     *Notice
	Form       CommentForm
	Related    Widget[[]domain.PostSummary]
	Categories Widget[[]domain.Category]
	Adjacent   Widget[domain.AdjacentPosts]
	Comments   Widget[CommentsView]
}

type CategoryView struct {
	Title      string
	Slug       string
	Posts      Widget[[]domain.Post]
	Categories Widget[[]domain.Category]
}

type NotFoundView struct {
	Title string
}

// Home handles GET /.
func (p *Pages) Home(c *gin.Context) {
	ctx := c.Request.Context()
	view := HomeView{Title: siteTitle}

	var g errgroup.Group
	load(ctx, &g, p.observer, "posts", &view.Posts, func(ctx context.Context) ([]domain.Post, error) {
		return p.content.Posts(ctx), nil
	}, emptySlice[domain.Post])
	load(ctx, &g, p.observer, "featured_posts", &view.Featured, func(ctx context.Context) ([]domain.FeaturedPost, error) {
		return p.content.FeaturedPosts(ctx), nil
	}, emptySlice[domain.FeaturedPost])
	load(ctx, &g, p.observer, "related_posts", &view.Related, func(ctx context.Context) ([]domain.PostSummary, error) {
		return p.content.RelatedPosts(ctx, nil), nil
	}, emptySlice[domain.PostSummary])
	p.loadCategories(ctx, &g, &view.Categories)
	_ = g.Wait()

	p.render(c, http.StatusOK, pageHome, view)
}

// Post handles GET /post/:slug.
func (p *Pages) Post(c *gin.Context) {
	var notice *Notice
	switch c.Query("notice") {
	case noticeLinked:
		notice = &Notice{Success: true, Message: application.MessageLinked}
	case noticeUnlinked:
		notice = &Notice{Success: true, Message: application.MessageUnlinked}
	}

	p.renderPost(c, http.StatusOK, notice, CommentForm{})
}

// Category handles GET /category/:slug.
func (p *Pages) Category(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")
	view := CategoryView{Title: slug, Slug: slug}

	var g errgroup.Group
	load(ctx, &g, p.observer, "category_posts", &view.Posts, func(ctx context.Context) ([]domain.Post, error) {
		return p.content.CategoryPosts(ctx, slug), nil
	}, emptySlice[domain.Post])
	p.loadCategories(ctx, &g, &view.Categories)
	_ = g.Wait()

	for _, category := range view.Categories.Data {
		if category.Slug == slug {
			view.Title = category.Name
			break
		}
	}

	p.render(c, http.StatusOK, pageCategory, view)
}

// NotFound renders the not-found page with a 404.
func (p *Pages) NotFound(c *gin.Context) {
	p.render(c, http.StatusNotFound, pageNotFound, NotFoundView{Title: "Not Found"})
}

// SubmitComment handles the form POST /post/:slug/comments. Accepted comments redirect back to the
// post; rejected ones re-render the post with the submitted values and the status of the outcome.
func (p *Pages) SubmitComment(c *gin.Context) {
	slug := c.Param("slug")

	req := &api.CommentRequest{Slug: slug}
	if err := c.ShouldBind(req); err != nil {
		form := CommentForm{Name: req.Name, Email: req.Email, Comment: req.Comment}
		p.renderPost(c, http.StatusBadRequest, &Notice{Message: msgInvalidComment}, form)
		return
	}
	req.Slug = slug

	res, err := p.comments.Submit(c.Request.Context(), req.ToDomain())
	status, message := rest.SubmitOutcome(res, err)
	if err != nil {
		if status == http.StatusNotFound {
			p.NotFound(c)
			return
		}

		log.Error().Err(err).
			Str("requestID", middleware.RequestID(c)).
			Str("slug", slug).
			Int("status", status).
			Msg("Comment form submission failed")
		form := CommentForm{Name: req.Name, Email: req.Email, Comment: req.Comment}
		p.renderPost(c, status, &Notice{Message: message}, form)
		return
	}

	notice := noticeLinked
	if !res.Linked {
		notice = noticeUnlinked
	}
	c.Redirect(http.StatusSeeOther, "/post/"+url.PathEscape(slug)+"?notice="+notice+"#comments")
}

func (p *Pages) renderPost(c *gin.Context, status int, notice *Notice, form CommentForm) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	post := p.content.Post(ctx, slug)
	if post == nil {
		p.NotFound(c)
		return
	}

	view := PostView{
		Title:  post.Title,
		Post:   post,
		Notice: notice,
		Form:   form,
	}

	var g errgroup.Group
	load(ctx, &g, p.observer, "related_posts", &view.Related, func(ctx context.Context) ([]domain.PostSummary, error) {
		return p.content.RelatedPosts(ctx, post), nil
	}, emptySlice[domain.PostSummary])
	load(ctx, &g, p.observer, "adjacent_posts", &view.Adjacent, func(ctx context.Context) (domain.AdjacentPosts, error) {
		return p.content.AdjacentPosts(ctx, post.CreatedAt, post.Slug), nil
	}, func(a domain.AdjacentPosts) bool {
		return a.Previous == nil && a.Next == nil
	})
	load(ctx, &g, p.observer, "comments", &view.Comments, p.fetchComments(post.Slug), func(v CommentsView) bool {
		return len(v.Items) == 0
	})
	p.loadCategories(ctx, &g, &view.Categories)
	_ = g.Wait()

	p.render(c, status, pagePost, view)
}

func (p *Pages) loadCategories(ctx context.Context, g *errgroup.Group, slot *Widget[[]domain.Category]) {
	load(ctx, g, p.observer, "categories", slot, func(ctx context.Context) ([]domain.Category, error) {
		return p.content.Categories(ctx), nil
	}, emptySlice[domain.Category])
}

// fetchComments treats a resolution without a strategy as a failed widget rather than an empty one.
func (p *Pages) fetchComments(slug string) func(context.Context) (CommentsView, error) {
	return func(ctx context.Context) (CommentsView, error) {
		res := p.comments.Comments(ctx, slug)
		if res.Strategy == "" {
			return CommentsView{}, errWidgetUnavailable
		}

		items := make([]CommentView, 0, len(res.Comments))
		for _, comment := range res.Comments {
			items = append(items, CommentView{
				Name:      comment.Name,
				CreatedAt: comment.CreatedAt,
				Body:      p.renderer.Render(comment.Body),
			})
		}

		return CommentsView{Items: items, MayIncludeForeign: res.MayIncludeForeign}, nil
	}
}
