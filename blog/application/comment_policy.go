package application

import (
	"context"

	"github.com/dfryer1193/cmsblog/blog/domain"
	"github.com/rs/zerolog/log"
)

// CommentStrategy is one way of finding the comments of a post.
// Accept decides whether a successful fetch is good enough to stop the search.
type CommentStrategy struct {
	Name   string
	Fetch  func(ctx context.Context, slug string) ([]domain.Comment, error)
	Accept func(comments []domain.Comment) bool

	// MayIncludeForeign marks strategies whose result can contain comments of other posts.
	MayIncludeForeign bool
}

// CommentPolicy is an ordered list of strategies; the first accepted result wins.
type CommentPolicy []CommentStrategy

// CommentResolution is the outcome of running a policy. Strategy is empty when nothing was accepted.
type CommentResolution struct {
	Comments          []domain.Comment
	Strategy          string
	MayIncludeForeign bool
}

const (
	StrategyDirect      = "direct"
	StrategyFilterAll   = "filter_all"
	StrategyUnfiltered  = "unfiltered"
	strategyNoneMatched = "none"
)

// DefaultCommentPolicy tries the upstream relation first, then filters every comment by its
// related post, and finally returns every comment in the CMS. The last step exists because the
// comment/post relation is not set for every record upstream; it can show comments of other posts.
func DefaultCommentPolicy(repo domain.CommentRepository) CommentPolicy {
	return CommentPolicy{
		{
			Name:   StrategyDirect,
			Fetch:  repo.CommentsByPost,
			Accept: nonEmpty,
		},
		{
			Name: StrategyFilterAll,
			Fetch: func(ctx context.Context, slug string) ([]domain.Comment, error) {
				all, err := repo.CommentsWithPost(ctx)
				if err != nil {
					return nil, err
				}
				return filterByPost(all, slug), nil
			},
			Accept: nonEmpty,
		},
		{
			Name: StrategyUnfiltered,
			Fetch: func(ctx context.Context, _ string) ([]domain.Comment, error) {
				return repo.AllComments(ctx)
			},
			Accept:            func([]domain.Comment) bool { return true },
			MayIncludeForeign: true,
		},
	}
}

// Resolve runs the strategies in order. A failing strategy is logged and skipped.
// Resolve never fails; when no strategy is accepted the resolution holds no comments.
func (p CommentPolicy) Resolve(ctx context.Context, slug string) CommentResolution {
	for _, strategy := range p {
		comments, err := strategy.Fetch(ctx, slug)
		if err != nil {
			log.Error().Err(err).Str("slug", slug).Str("strategy", strategy.Name).Msg("Comment strategy failed")
			continue
		}

		if !strategy.Accept(comments) {
			log.Debug().Str("slug", slug).Str("strategy", strategy.Name).Msg("Comment strategy found nothing")
			continue
		}

		if strategy.MayIncludeForeign {
			log.Warn().Str("slug", slug).Str("strategy", strategy.Name).Int("count", len(comments)).
				Msg("Serving unfiltered comments; some may belong to other posts")
		}

		return CommentResolution{
			Comments:          nonNil(comments),
			Strategy:          strategy.Name,
			MayIncludeForeign: strategy.MayIncludeForeign,
		}
	}

	log.Warn().Str("slug", slug).Msg("No comment strategy succeeded")
	return CommentResolution{Comments: []domain.Comment{}}
}

func nonEmpty(comments []domain.Comment) bool {
	return len(comments) > 0
}

func filterByPost(comments []domain.Comment, slug string) []domain.Comment {
	var filtered []domain.Comment
	for _, c := range comments {
		if c.PostSlug != "" && c.PostSlug == slug {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
