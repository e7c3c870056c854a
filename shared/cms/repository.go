package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dfryer1193/cmsblog/blog/domain"
	"github.com/dfryer1193/cmsblog/shared/graphql"
	"github.com/rs/zerolog/log"
)

var (
	_ domain.ContentRepository = (*Repository)(nil)
	_ domain.CommentRepository = (*Repository)(nil)
)

// Executor runs a catalog operation. *graphql.Client satisfies it.
type Executor interface {
	Execute(ctx context.Context, op graphql.Operation, vars map[string]any, out any) error
}

// Repository implements the domain repositories on top of the CMS GraphQL API.
type Repository struct {
	exec Executor
}

func NewRepository(exec Executor) *Repository {
	return &Repository{exec: exec}
}

func (r *Repository) ListPosts(ctx context.Context) ([]domain.Post, error) {
	var result struct {
		Posts []postRow `json:"posts"`
	}
	if err := r.exec.Execute(ctx, listPostsOp, nil, &result); err != nil {
		return nil, err
	}
	return postsToDomain(result.Posts), nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var result struct {
		Categories []categoryRow `json:"categories"`
	}
	if err := r.exec.Execute(ctx, listCategoriesOp, nil, &result); err != nil {
		return nil, err
	}
	return categoriesToDomain(result.Categories), nil
}

func (r *Repository) GetPost(ctx context.Context, slug string) (*domain.Post, error) {
	var result struct {
		Post *postRow `json:"post"`
	}
	if err := r.exec.Execute(ctx, getPostOp, map[string]any{"slug": slug}, &result); err != nil {
		return nil, err
	}
	if result.Post == nil {
		return nil, nil
	}
	post := result.Post.toDomain()
	return &post, nil
}

func (r *Repository) SimilarPosts(ctx context.Context, categorySlugs []string, slug string) ([]domain.PostSummary, error) {
	if categorySlugs == nil {
		categorySlugs = []string{}
	}

	var result struct {
		Posts []summaryRow `json:"posts"`
	}
	vars := map[string]any{"slug": slug, "categories": categorySlugs}
	if err := r.exec.Execute(ctx, similarPostsOp, vars, &result); err != nil {
		return nil, err
	}
	return summariesToDomain(result.Posts), nil
}

func (r *Repository) AdjacentPosts(ctx context.Context, createdAt time.Time, slug string) (domain.AdjacentPosts, error) {
	var result struct {
		Next     []summaryRow `json:"next"`
		Previous []summaryRow `json:"previous"`
	}
	vars := map[string]any{"slug": slug, "createdAt": createdAt.UTC().Format(time.RFC3339Nano)}
	if err := r.exec.Execute(ctx, adjacentPostsOp, vars, &result); err != nil {
		return domain.AdjacentPosts{}, err
	}

	var adjacent domain.AdjacentPosts
	if len(result.Next) > 0 {
		next := result.Next[0].toDomain()
		adjacent.Next = &next
	}
	if len(result.Previous) > 0 {
		prev := result.Previous[0].toDomain()
		adjacent.Previous = &prev
	}
	return adjacent, nil
}

func (r *Repository) CategoryPosts(ctx context.Context, categorySlug string) ([]domain.Post, error) {
	var result struct {
		PostsConnection struct {
			Edges []struct {
				Cursor string  `json:"cursor"`
				Node   postRow `json:"node"`
			} `json:"edges"`
		} `json:"postsConnection"`
	}
	if err := r.exec.Execute(ctx, categoryPostsOp, map[string]any{"slug": categorySlug}, &result); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(result.PostsConnection.Edges))
	for _, edge := range result.PostsConnection.Edges {
		posts = append(posts, edge.Node.toDomain())
	}
	return posts, nil
}

func (r *Repository) FeaturedPosts(ctx context.Context) ([]domain.FeaturedPost, error) {
	var result struct {
		Posts []featuredRow `json:"posts"`
	}
	if err := r.exec.Execute(ctx, featuredPostsOp, nil, &result); err != nil {
		return nil, err
	}

	featured := make([]domain.FeaturedPost, 0, len(result.Posts))
	for _, row := range result.Posts {
		featured = append(featured, domain.FeaturedPost{
			PostSummary: row.summaryRow.toDomain(),
			Author:      row.Author.toDomain(),
		})
	}
	return featured, nil
}

func (r *Repository) RecentPosts(ctx context.Context) ([]domain.PostSummary, error) {
	var result struct {
		Posts []summaryRow `json:"posts"`
	}
	if err := r.exec.Execute(ctx, recentPostsOp, nil, &result); err != nil {
		return nil, err
	}
	return summariesToDomain(result.Posts), nil
}

func (r *Repository) CommentsByPost(ctx context.Context, slug string) ([]domain.Comment, error) {
	var result struct {
		Comments []commentRow `json:"comments"`
	}
	if err := r.exec.Execute(ctx, commentsByPostOp, map[string]any{"slug": slug}, &result); err != nil {
		return nil, err
	}
	return commentsToDomain(result.Comments), nil
}

func (r *Repository) CommentsWithPost(ctx context.Context) ([]domain.Comment, error) {
	var result struct {
		Comments []commentRow `json:"comments"`
	}
	if err := r.exec.Execute(ctx, commentsWithPostOp, nil, &result); err != nil {
		return nil, err
	}
	return commentsToDomain(result.Comments), nil
}

func (r *Repository) AllComments(ctx context.Context) ([]domain.Comment, error) {
	var result struct {
		Comments []commentRow `json:"comments"`
	}
	if err := r.exec.Execute(ctx, allCommentsOp, nil, &result); err != nil {
		return nil, err
	}
	return commentsToDomain(result.Comments), nil
}

func (r *Repository) FindPost(ctx context.Context, slug string) (*domain.PostRef, error) {
	var result struct {
		Post *struct {
			ID    string `json:"id"`
			Slug  string `json:"slug"`
			Title string `json:"title"`
		} `json:"post"`
	}
	if err := r.exec.Execute(ctx, findPostOp, map[string]any{"slug": slug}, &result); err != nil {
		return nil, err
	}
	if result.Post == nil {
		return nil, nil
	}
	return &domain.PostRef{ID: result.Post.ID, Slug: result.Post.Slug, Title: result.Post.Title}, nil
}

func (r *Repository) CreateComment(ctx context.Context, c domain.CommentSubmission, postID string) (*domain.CreatedComment, error) {
	vars := map[string]any{
		"name":    c.Name,
		"email":   c.Email,
		"comment": c.Body,
	}
	op := createUnlinkedCommentOp
	if postID != "" {
		op = createLinkedCommentOp
		vars["postId"] = postID
	}

	var result struct {
		CreateComment *struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Comment string `json:"comment"`
			Post    *struct {
				Slug string `json:"slug"`
			} `json:"post"`
		} `json:"createComment"`
	}
	if err := r.exec.Execute(ctx, op, vars, &result); err != nil {
		return nil, err
	}
	if result.CreateComment == nil {
		return nil, &graphql.TransportError{Operation: op.Name, Err: fmt.Errorf("createComment returned no record")}
	}

	created := &domain.CreatedComment{
		ID:   result.CreateComment.ID,
		Name: result.CreateComment.Name,
		Body: result.CreateComment.Comment,
	}
	if result.CreateComment.Post != nil {
		created.PostSlug = result.CreateComment.Post.Slug
	}
	return created, nil
}

// Wire rows. These mirror the selection sets above and are converted with toDomain.

type imageRow struct {
	URL string `json:"url"`
}

func (ir *imageRow) toDomain() *domain.Image {
	if ir == nil || ir.URL == "" {
		return nil
	}
	return &domain.Image{URL: ir.URL}
}

type authorRow struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Bio   string    `json:"bio"`
	Photo *imageRow `json:"photo"`
}

func (ar authorRow) toDomain() domain.Author {
	return domain.Author{
		ID:    ar.ID,
		Name:  ar.Name,
		Bio:   ar.Bio,
		Photo: ar.Photo.toDomain(),
	}
}

type categoryRow struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type postRow struct {
	ID            string        `json:"id"`
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	Excerpt       string        `json:"excerpt"`
	FeaturedPost  bool          `json:"featuredPost"`
	FeaturedImage *imageRow     `json:"featuredImage"`
	CreatedAt     time.Time     `json:"createdAt"`
	Author        authorRow     `json:"author"`
	Categories    []categoryRow `json:"categories"`
	Content       *struct {
		Raw json.RawMessage `json:"raw"`
	} `json:"content"`
}

// toDomain converts a postRow. A body that cannot be parsed is dropped so the
// post still renders with its excerpt.
func (pr postRow) toDomain() domain.Post {
	post := domain.Post{
		ID:            pr.ID,
		Slug:          pr.Slug,
		Title:         pr.Title,
		Excerpt:       pr.Excerpt,
		FeaturedImage: pr.FeaturedImage.toDomain(),
		CreatedAt:     pr.CreatedAt,
		Featured:      pr.FeaturedPost,
		Author:        pr.Author.toDomain(),
		Categories:    categoriesToDomain(pr.Categories),
	}

	if pr.Content != nil {
		doc, err := domain.ParseDocument(pr.Content.Raw)
		if err != nil {
			log.Warn().Err(err).Str("slug", pr.Slug).Msg("Dropping unreadable post body")
		}
		post.Content = doc
	}

	return post
}

type summaryRow struct {
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	FeaturedImage *imageRow `json:"featuredImage"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (sr summaryRow) toDomain() domain.PostSummary {
	return domain.PostSummary{
		Title:         sr.Title,
		Slug:          sr.Slug,
		FeaturedImage: sr.FeaturedImage.toDomain(),
		CreatedAt:     sr.CreatedAt,
	}
}

type featuredRow struct {
	summaryRow
	Author authorRow `json:"author"`
}

type commentRow struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Comment   string    `json:"comment"`
	Post      *struct {
		Slug  string `json:"slug"`
		Title string `json:"title"`
	} `json:"post"`
}

func (cr commentRow) toDomain() domain.Comment {
	c := domain.Comment{
		Name:      cr.Name,
		Body:      cr.Comment,
		CreatedAt: cr.CreatedAt,
	}
	if cr.Post != nil {
		c.PostSlug = cr.Post.Slug
	}
	return c
}

func postsToDomain(rows []postRow) []domain.Post {
	posts := make([]domain.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toDomain())
	}
	return posts
}

func categoriesToDomain(rows []categoryRow) []domain.Category {
	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, domain.Category{Name: row.Name, Slug: row.Slug})
	}
	return categories
}

func summariesToDomain(rows []summaryRow) []domain.PostSummary {
	summaries := make([]domain.PostSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.toDomain())
	}
	return summaries
}

func commentsToDomain(rows []commentRow) []domain.Comment {
	comments := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.toDomain())
	}
	return comments
}
