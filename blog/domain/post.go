package domain

import (
	"context"
	"time"
)

// Post represents a blog post owned by the CMS.
// The slug is the natural key for every lookup and never changes once the post exists.
type Post struct {
	ID            string
	Slug          string
	Title         string
	Excerpt       string
	Content       *Document
	FeaturedImage *Image
	CreatedAt     time.Time
	Featured      bool
	Author        Author
	Categories    []Category
}

// CategorySlugs returns the slugs of the categories the post belongs to, in order.
func (p *Post) CategorySlugs() []string {
	slugs := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		slugs = append(slugs, c.Slug)
	}
	return slugs
}

// Author is the embedded author copy carried by a post.
type Author struct {
	ID    string
	Name  string
	Bio   string
	Photo *Image
}

type Category struct {
	Name string
	Slug string
}

// PostSummary is the reduced projection returned by the similar, recent and adjacent queries.
type PostSummary struct {
	Title         string
	Slug          string
	FeaturedImage *Image
	CreatedAt     time.Time
}

// FeaturedPost is a summary that also carries its author, for the featured carousel.
type FeaturedPost struct {
	PostSummary
	Author Author
}

// AdjacentPosts holds the neighbours of a post by creation time. Either side may be nil.
type AdjacentPosts struct {
	Previous *PostSummary
	Next     *PostSummary
}

// ContentRepository is the raw read surface of the CMS. Every method may fail with a transport error;
// callers that must not fail wrap it (see application.ContentService).
type ContentRepository interface {
	ListPosts(ctx context.Context) ([]Post, error)
	ListCategories(ctx context.Context) ([]Category, error)

	// GetPost returns nil, nil when no post has the slug.
	GetPost(ctx context.Context, slug string) (*Post, error)

	SimilarPosts(ctx context.Context, categorySlugs []string, slug string) ([]PostSummary, error)
	AdjacentPosts(ctx context.Context, createdAt time.Time, slug string) (AdjacentPosts, error)
	CategoryPosts(ctx context.Context, categorySlug string) ([]Post, error)
	FeaturedPosts(ctx context.Context) ([]FeaturedPost, error)
	RecentPosts(ctx context.Context) ([]PostSummary, error)
}
