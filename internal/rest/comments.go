package rest

import (
	"errors"
	"net/http"

	"github.com/dfryer1193/cmsblog/api"
	"github.com/dfryer1193/cmsblog/blog/application"
	"github.com/dfryer1193/cmsblog/blog/domain"
	"github.com/dfryer1193/cmsblog/internal/middleware"
	"github.com/dfryer1193/cmsblog/shared/graphql"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	msgMissingEndpoint = "Configuration error: Missing GraphCMS endpoint"
	msgUnavailable     = "Comments are currently unavailable. Please try again later."
	msgInvalidRequest  = "Invalid comment. Name, a valid email, comment and slug are required."
	msgPostNotFound    = "Post not found. Unable to add comment."
	msgAuthFailure     = "Comments are currently unavailable due to authentication issues."
	msgConfigFailure   = "Comments are temporarily disabled due to configuration issues."
	msgDisabled        = "Comments are currently disabled."
	msgTemporary       = "Comments are temporarily unavailable. Please try again later."
)

// SubmitOutcome maps the result of a submission to an HTTP status and a message for the user.
func SubmitOutcome(res *application.SubmitResult, err error) (int, string) {
	if err == nil {
		return http.StatusOK, res.Message
	}

	if errors.Is(err, domain.ErrPostNotFound) {
		return http.StatusNotFound, msgPostNotFound
	}
	if errors.Is(err, graphql.ErrMissingEndpoint) {
		return http.StatusInternalServerError, msgMissingEndpoint
	}
	if errors.Is(err, graphql.ErrMissingCredential) {
		return http.StatusServiceUnavailable, msgUnavailable
	}

	switch graphql.StatusCode(err) {
	case http.StatusUnauthorized:
		return http.StatusServiceUnavailable, msgAuthFailure
	case http.StatusBadRequest:
		return http.StatusServiceUnavailable, msgConfigFailure
	case http.StatusForbidden:
		return http.StatusServiceUnavailable, msgDisabled
	default:
		return http.StatusServiceUnavailable, msgTemporary
	}
}

// PostComment handles POST /api/comments. Configuration is checked before the body is read,
// so a server without a token answers 503 to any payload.
func (h *Handler) PostComment(c *gin.Context) {
	if !h.upstream.HasEndpoint() {
		log.Error().Str("requestID", middleware.RequestID(c)).Msg("Missing GraphCMS endpoint")
		c.JSON(http.StatusInternalServerError, api.Response{Success: false, Message: msgMissingEndpoint})
		return
	}
	if !h.upstream.HasCredential() {
		log.Error().Str("requestID", middleware.RequestID(c)).Msg("Missing GraphCMS token")
		c.JSON(http.StatusServiceUnavailable, api.Response{Success: false, Message: msgUnavailable})
		return
	}

	req := &api.CommentRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, api.Response{Success: false, Message: msgInvalidRequest})
		return
	}

	res, err := h.comments.Submit(c.Request.Context(), req.ToDomain())
	status, message := SubmitOutcome(res, err)
	if err != nil {
		if status != http.StatusNotFound {
			log.Error().Err(err).Str("slug", req.Slug).Int("status", status).Msg("All comment creation methods failed")
		}
		c.JSON(status, api.Response{Success: false, Message: message})
		return
	}

	c.JSON(status, api.Response{
		Success: true,
		Message: message,
		Data:    gin.H{"createComment": res.Comment},
	})
}

// GetComments handles GET /api/comments/:slug.
func (h *Handler) GetComments(c *gin.Context) {
	slug := c.Param("slug")
	res := h.comments.Comments(c.Request.Context(), slug)

	c.JSON(http.StatusOK, api.CommentList{
		Slug:              slug,
		Strategy:          res.Strategy,
		MayIncludeForeign: res.MayIncludeForeign,
		Comments:          api.NewComments(res.Comments),
	})
}
