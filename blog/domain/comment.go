package domain

import (
	"context"
	"errors"
	"time"
)

// ErrPostNotFound is returned when a comment targets a slug that no post has.
var ErrPostNotFound = errors.New("post not found")

// Comment is a comment as read back from the CMS.
// PostSlug is only populated by queries that ask for the post relation, and may be empty
// because the relation is not reliably set upstream.
type Comment struct {
	Name      string
	Body      string
	CreatedAt time.Time
	PostSlug  string
}

// CommentSubmission is an inbound comment. Email is write-only and never read back.
type CommentSubmission struct {
	Name  string
	Email string
	Body  string
	Slug  string
}

// PostRef identifies a post for linking a new comment to it.
type PostRef struct {
	ID    string
	Slug  string
	Title string
}

// CreatedComment is the record the CMS returns after a create.
// PostSlug is empty for comments created without a post relation.
type CreatedComment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Body     string `json:"comment,omitempty"`
	PostSlug string `json:"postSlug,omitempty"`
}

// CommentRepository is the raw comment surface of the CMS.
type CommentRepository interface {
	// CommentsByPost uses the upstream relation filter.
	CommentsByPost(ctx context.Context, slug string) ([]Comment, error)
	// CommentsWithPost returns every comment along with the slug of its related post, if any.
	CommentsWithPost(ctx context.Context) ([]Comment, error)
	// AllComments returns every comment with no post information.
	AllComments(ctx context.Context) ([]Comment, error)

	// FindPost returns nil, nil when no post has the slug.
	FindPost(ctx context.Context, slug string) (*PostRef, error)
	// CreateComment links the comment to postID, or creates it unlinked when postID is empty.
	CreateComment(ctx context.Context, c CommentSubmission, postID string) (*CreatedComment, error)
}

// UnlinkedComment is a comment that was created without its post relation and
// still needs to be linked by hand in the CMS.
type UnlinkedComment struct {
	CommentID string
	PostSlug  string
	Name      string
	CreatedAt time.Time
	LinkedAt  time.Time
}

// LinkLedger tracks unlinked comments until an operator links them.
type LinkLedger interface {
	RecordUnlinked(ctx context.Context, c *UnlinkedComment) error
	ListPending(ctx context.Context, limit int, offset int) ([]*UnlinkedComment, error)
	MarkLinked(ctx context.Context, commentID string) error
}
