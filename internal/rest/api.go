package rest

import (
	"context"

	"github.com/dfryer1193/cmsblog/blog/application"
	"github.com/dfryer1193/cmsblog/blog/domain"
	"github.com/gin-gonic/gin"
)

// Upstream reports which parts of the CMS client are configured. *graphql.Client satisfies it.
type Upstream interface {
	HasEndpoint() bool
	HasCredential() bool
}

type ContentReader interface {
	Posts(ctx context.Context) []domain.Post
	Post(ctx context.Context, slug string) *domain.Post
	Categories(ctx context.Context) []domain.Category
	CategoryPosts(ctx context.Context, categorySlug string) []domain.Post
}

type CommentPipeline interface {
	Comments(ctx context.Context, slug string) application.CommentResolution
	Submit(ctx context.Context, sub domain.CommentSubmission) (*application.SubmitResult, error)
}

type Handler struct {
	upstream Upstream
	content  ContentReader
	comments CommentPipeline
}

func NewHandler(upstream Upstream, content ContentReader, comments CommentPipeline) *Handler {
	return &Handler{
		upstream: upstream,
		content:  content,
		comments: comments,
	}
}

// NewApi registers the JSON API. submitLimit runs in front of comment submissions only.
func NewApi(router *gin.Engine, h *Handler, submitLimit gin.HandlerFunc) {
	api := router.Group("/api")
	{
		api.GET("/posts", h.GetPosts)
		api.GET("/posts/:slug", h.GetPost)
		api.GET("/categories", h.GetCategories)
		api.GET("/categories/:slug/posts", h.GetCategoryPosts)

		api.GET("/comments/:slug", h.GetComments)
		if submitLimit != nil {
			api.POST("/comments", submitLimit, h.PostComment)
		} else {
			api.POST("/comments", h.PostComment)
		}
	}
}
