package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dfryer1193/cmsblog/blog/domain"
)

var errUpstream = errors.New("upstream unavailable")

type fakeCommentRepo struct {
	mu sync.Mutex

	byPost      []domain.Comment
	byPostErr   error
	withPost    []domain.Comment
	withPostErr error
	all         []domain.Comment
	allErr      error

	post    *domain.PostRef
	findErr error

	linkedErr   error
	unlinkedErr error

	calls   []string
	creates []string
}

func (f *fakeCommentRepo) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeCommentRepo) CommentsByPost(_ context.Context, _ string) ([]domain.Comment, error) {
	f.record("by_post")
	return f.byPost, f.byPostErr
}

func (f *fakeCommentRepo) CommentsWithPost(_ context.Context) ([]domain.Comment, error) {
	f.record("with_post")
	return f.withPost, f.withPostErr
}

func (f *fakeCommentRepo) AllComments(_ context.Context) ([]domain.Comment, error) {
	f.record("all")
	return f.all, f.allErr
}

func (f *fakeCommentRepo) FindPost(_ context.Context, _ string) (*domain.PostRef, error) {
	f.record("find_post")
	return f.post, f.findErr
}

func (f *fakeCommentRepo) CreateComment(_ context.Context, c domain.CommentSubmission, postID string) (*domain.CreatedComment, error) {
	f.mu.Lock()
	f.creates = append(f.creates, postID)
	f.mu.Unlock()

	if postID != "" {
		if f.linkedErr != nil {
			return nil, f.linkedErr
		}
		return &domain.CreatedComment{ID: "c-linked", Name: c.Name, Body: c.Body, PostSlug: c.Slug}, nil
	}
	if f.unlinkedErr != nil {
		return nil, f.unlinkedErr
	}
	return &domain.CreatedComment{ID: "c-unlinked", Name: c.Name}, nil
}

type fakeLedger struct {
	recorded []*domain.UnlinkedComment
	err      error
}

func (f *fakeLedger) RecordUnlinked(_ context.Context, c *domain.UnlinkedComment) error {
	f.recorded = append(f.recorded, c)
	return f.err
}

func (f *fakeLedger) ListPending(_ context.Context, _ int, _ int) ([]*domain.UnlinkedComment, error) {
	return f.recorded, nil
}

func (f *fakeLedger) MarkLinked(_ context.Context, _ string) error {
	return nil
}

type fakeRecorder struct {
	mu          sync.Mutex
	fallbacks   []string
	strategies  []string
	submissions []string
}

func (f *fakeRecorder) ObserveFallback(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallbacks = append(f.fallbacks, op)
}

func (f *fakeRecorder) ObserveCommentStrategy(strategy string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.strategies = append(f.strategies, strategy)
}

func (f *fakeRecorder) ObserveCommentSubmission(outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, outcome)
}

type fakeContentRepo struct {
	err   error
	panic bool

	posts    []domain.Post
	post     *domain.Post
	recent   []domain.PostSummary
	similar  []domain.PostSummary
	adjacent domain.AdjacentPosts

	similarArgs []string
}

func (f *fakeContentRepo) fail() error {
	if f.panic {
		panic("boom")
	}
	return f.err
}

func (f *fakeContentRepo) ListPosts(context.Context) ([]domain.Post, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.posts, nil
}

func (f *fakeContentRepo) ListCategories(context.Context) ([]domain.Category, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeContentRepo) GetPost(context.Context, string) (*domain.Post, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.post, nil
}

func (f *fakeContentRepo) SimilarPosts(_ context.Context, categorySlugs []string, _ string) ([]domain.PostSummary, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	f.similarArgs = categorySlugs
	return f.similar, nil
}

func (f *fakeContentRepo) AdjacentPosts(context.Context, time.Time, string) (domain.AdjacentPosts, error) {
	if err := f.fail(); err != nil {
		return domain.AdjacentPosts{}, err
	}
	return f.adjacent, nil
}

func (f *fakeContentRepo) CategoryPosts(context.Context, string) ([]domain.Post, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.posts, nil
}

func (f *fakeContentRepo) FeaturedPosts(context.Context) ([]domain.FeaturedPost, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeContentRepo) RecentPosts(context.Context) ([]domain.PostSummary, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.recent, nil
}
