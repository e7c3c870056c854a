package api

import (
	"time"

	"github.com/dfryer1193/cmsblog/blog/domain"
)

// CommentRequest is the body of POST /api/comments.
type CommentRequest struct {
	Name    string `json:"name" form:"name" binding:"required,notblank,max=100"`
	Email   string `json:"email" form:"email" binding:"required,email,max=254"`
	Comment string `json:"comment" form:"comment" binding:"required,notblank,max=5000"`
	Slug    string `json:"slug" form:"slug" binding:"required,notblank,max=200"`
}

func (r CommentRequest) ToDomain() domain.CommentSubmission {
	return domain.CommentSubmission{
		Name:  r.Name,
		Email: r.Email,
		Body:  r.Comment,
		Slug:  r.Slug,
	}
}

// Response is the envelope of every comment endpoint response.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type Comment struct {
	Name      string    `json:"name"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentList is the payload of GET /api/comments/:slug. MayIncludeForeign is set when the
// list came from the unfiltered fallback and can hold comments of other posts.
type CommentList struct {
	Slug              string    `json:"slug"`
	Strategy          string    `json:"strategy"`
	MayIncludeForeign bool      `json:"mayIncludeForeign"`
	Comments          []Comment `json:"comments"`
}

func NewComments(comments []domain.Comment) []Comment {
	out := make([]Comment, 0, len(comments))
	for _, c := range comments {
		out = append(out, Comment{Name: c.Name, Comment: c.Body, CreatedAt: c.CreatedAt})
	}
	return out
}
