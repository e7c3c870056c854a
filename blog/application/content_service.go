package application

import (
	"context"
	"time"

	"github.com/dfryer1193/cmsblog/blog/domain"
	"github.com/rs/zerolog/log"
)

// Recorder receives the outcomes the application layer produces. observability.Metrics implements it.
type Recorder interface {
	ObserveFallback(op string)
	ObserveCommentStrategy(strategy string)
	ObserveCommentSubmission(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveFallback(string)          {}
func (noopRecorder) ObserveCommentStrategy(string)   {}
func (noopRecorder) ObserveCommentSubmission(string) {}

// ContentService is the read boundary between the CMS and the views.
// None of its methods fail: a failed fetch is logged and replaced with an empty result,
// so an empty result can mean either "no content" or "fetch failed".
type ContentService struct {
	repo     domain.ContentRepository
	recorder Recorder
}

func NewContentService(repo domain.ContentRepository, recorder Recorder) *ContentService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &ContentService{
		repo:     repo,
		recorder: recorder,
	}
}

// guard runs fetch and converts any error or panic into fallback.
func guard[T any](ctx context.Context, recorder Recorder, op string, fallback T, fetch func(context.Context) (T, error)) (result T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("op", op).Interface("panic", r).Msg("Recovered panic while fetching content")
			recorder.ObserveFallback(op)
			result = fallback
		}
	}()

	v, err := fetch(ctx)
	if err != nil {
		log.Error().Err(err).Str("op", op).Msg("Failed to fetch content, serving empty result")
		recorder.ObserveFallback(op)
		return fallback
	}
	return v
}

func (s *ContentService) Posts(ctx context.Context) []domain.Post {
	return nonNil(guard(ctx, s.recorder, "list_posts", []domain.Post{}, s.repo.ListPosts))
}

func (s *ContentService) Categories(ctx context.Context) []domain.Category {
	return nonNil(guard(ctx, s.recorder, "list_categories", []domain.Category{}, s.repo.ListCategories))
}

// Post returns nil both when the slug is unknown and when the fetch failed.
func (s *ContentService) Post(ctx context.Context, slug string) *domain.Post {
	if slug == "" {
		return nil
	}
	return guard(ctx, s.recorder, "get_post", (*domain.Post)(nil), func(ctx context.Context) (*domain.Post, error) {
		return s.repo.GetPost(ctx, slug)
	})
}

func (s *ContentService) SimilarPosts(ctx context.Context, categorySlugs []string, slug string) []domain.PostSummary {
	return nonNil(guard(ctx, s.recorder, "similar_posts", []domain.PostSummary{}, func(ctx context.Context) ([]domain.PostSummary, error) {
		return s.repo.SimilarPosts(ctx, categorySlugs, slug)
	}))
}

func (s *ContentService) RecentPosts(ctx context.Context) []domain.PostSummary {
	return nonNil(guard(ctx, s.recorder, "recent_posts", []domain.PostSummary{}, s.repo.RecentPosts))
}

// RelatedPosts returns posts similar to post, or the most recent posts when there is no post context.
func (s *ContentService) RelatedPosts(ctx context.Context, post *domain.Post) []domain.PostSummary {
	if post == nil || post.Slug == "" {
		return s.RecentPosts(ctx)
	}
	return s.SimilarPosts(ctx, post.CategorySlugs(), post.Slug)
}

func (s *ContentService) AdjacentPosts(ctx context.Context, createdAt time.Time, slug string) domain.AdjacentPosts {
	return guard(ctx, s.recorder, "adjacent_posts", domain.AdjacentPosts{}, func(ctx context.Context) (domain.AdjacentPosts, error) {
		return s.repo.AdjacentPosts(ctx, createdAt, slug)
	})
}

func (s *ContentService) CategoryPosts(ctx context.Context, categorySlug string) []domain.Post {
	return nonNil(guard(ctx, s.recorder, "category_posts", []domain.Post{}, func(ctx context.Context) ([]domain.Post, error) {
		return s.repo.CategoryPosts(ctx, categorySlug)
	}))
}

func (s *ContentService) FeaturedPosts(ctx context.Context) []domain.FeaturedPost {
	return nonNil(guard(ctx, s.recorder, "featured_posts", []domain.FeaturedPost{}, s.repo.FeaturedPosts))
}

// nonNil keeps "no content" as an empty slice so JSON callers see [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
