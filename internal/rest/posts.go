package rest

import (
	"net/http"

	"github.com/dfryer1193/cmsblog/api"
	"github.com/dfryer1193/cmsblog/blog/application"
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetPosts(c *gin.Context) {
	c.JSON(http.StatusOK, api.NewPosts(h.content.Posts(c.Request.Context())))
}

// GetPost answers 404 both for an unknown slug and for a failed fetch.
func (h *Handler) GetPost(c *gin.Context) {
	post := h.content.Post(c.Request.Context(), c.Param("slug"))
	if post == nil {
		c.JSON(http.StatusNotFound, api.Response{Success: false, Message: "Post not found"})
		return
	}

	view := api.NewPost(*post)
	view.Content = string(application.RenderDocument(post.Content))
	c.JSON(http.StatusOK, view)
}

func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, api.NewCategories(h.content.Categories(c.Request.Context())))
}

func (h *Handler) GetCategoryPosts(c *gin.Context) {
	c.JSON(http.StatusOK, api.NewPosts(h.content.CategoryPosts(c.Request.Context(), c.Param("slug"))))
}
