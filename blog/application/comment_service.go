package application

import (
	"context"
	"fmt"
	"time"

	"github.com/dfryer1193/cmsblog/blog/domain"
	"github.com/rs/zerolog/log"
)

const (
	MessageLinked   = "Comment submitted successfully"
	MessageUnlinked = "Comment submitted successfully (will be manually linked to post)"
)

// SubmitResult describes a created comment. Linked is false when the comment was created
// without its post relation and has to be linked by hand.
type SubmitResult struct {
	Comment *domain.CreatedComment
	Linked  bool
	Message string
}

type CommentServiceOption func(*CommentService)

// WithCommentPolicy replaces the default read policy.
func WithCommentPolicy(p CommentPolicy) CommentServiceOption {
	return func(s *CommentService) {
		s.policy = p
	}
}

// WithLinkLedger records every unlinked comment in ledger.
func WithLinkLedger(ledger domain.LinkLedger) CommentServiceOption {
	return func(s *CommentService) {
		s.ledger = ledger
	}
}

func WithRecorder(r Recorder) CommentServiceOption {
	return func(s *CommentService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// CommentService reads comments through a CommentPolicy and creates new ones.
type CommentService struct {
	repo     domain.CommentRepository
	policy   CommentPolicy
	ledger   domain.LinkLedger
	recorder Recorder
	now      func() time.Time
}

func NewCommentService(repo domain.CommentRepository, opts ...CommentServiceOption) *CommentService {
	s := &CommentService{
		repo:     repo,
		policy:   DefaultCommentPolicy(repo),
		recorder: noopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Comments resolves the comments of a post. It never fails.
func (s *CommentService) Comments(ctx context.Context, slug string) (res CommentResolution) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("slug", slug).Interface("panic", r).Msg("Recovered panic while resolving comments")
			res = CommentResolution{Comments: []domain.Comment{}}
		}
		strategy := res.Strategy
		if strategy == "" {
			strategy = strategyNoneMatched
		}
		s.recorder.ObserveCommentStrategy(strategy)
	}()

	return s.policy.Resolve(ctx, slug)
}

// Submit creates a comment on the post with the submission's slug.
//
// The post is looked up first; an unknown slug fails with domain.ErrPostNotFound and nothing is
// created. The comment is then created linked to the post. If the lookup or the linked create
// fails, the comment is created without the relation instead. Only a failure of that last
// create is returned. Submissions are not deduplicated, so a retry after a failure that
// happened upstream of the response can create a second comment.
func (s *CommentService) Submit(ctx context.Context, sub domain.CommentSubmission) (*SubmitResult, error) {
	post, err := s.repo.FindPost(ctx, sub.Slug)
	switch {
	case err != nil:
		log.Error().Err(err).Str("slug", sub.Slug).Msg("Post lookup failed, creating comment without post relation")
	case post == nil:
		s.recorder.ObserveCommentSubmission("not_found")
		return nil, fmt.Errorf("%w: %s", domain.ErrPostNotFound, sub.Slug)
	default:
		created, err := s.repo.CreateComment(ctx, sub, post.ID)
		if err == nil {
			log.Info().Str("slug", sub.Slug).Str("commentID", created.ID).Msg("Comment created")
			s.recorder.ObserveCommentSubmission("linked")
			return &SubmitResult{Comment: created, Linked: true, Message: MessageLinked}, nil
		}
		log.Error().Err(err).Str("slug", sub.Slug).Str("postID", post.ID).Msg("Linked comment create failed, creating comment without post relation")
	}

	created, err := s.repo.CreateComment(ctx, sub, "")
	if err != nil {
		s.recorder.ObserveCommentSubmission("failed")
		return nil, fmt.Errorf("failed to create comment for %s: %w", sub.Slug, err)
	}

	log.Warn().Str("slug", sub.Slug).Str("commentID", created.ID).Msg("Comment created without post relation")
	s.recorder.ObserveCommentSubmission("unlinked")
	s.recordUnlinked(ctx, created, sub)

	return &SubmitResult{Comment: created, Linked: false, Message: MessageUnlinked}, nil
}

// recordUnlinked is best effort; the comment already exists upstream.
func (s *CommentService) recordUnlinked(ctx context.Context, created *domain.CreatedComment, sub domain.CommentSubmission) {
	if s.ledger == nil {
		return
	}

	err := s.ledger.RecordUnlinked(ctx, &domain.UnlinkedComment{
		CommentID: created.ID,
		PostSlug:  sub.Slug,
		Name:      sub.Name,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("commentID", created.ID).Str("slug", sub.Slug).Msg("Failed to record unlinked comment")
	}
}
