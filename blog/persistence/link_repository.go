package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dfryer1193/cmsblog/blog/domain"
	"github.com/dfryer1193/cmsblog/shared/db"
)

var _ domain.LinkLedger = (*SQLiteLinkRepository)(nil)

// ErrCommentNotTracked is returned by MarkLinked for a comment the ledger has never seen.
var ErrCommentNotTracked = errors.New("comment is not tracked")

const defaultPendingLimit = 50

// SQLiteLinkRepository implements domain.LinkLedger using SQLite
type SQLiteLinkRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewLinkRepository(db *sql.DB) *SQLiteLinkRepository {
	return &SQLiteLinkRepository{
		db:  db,
		now: time.Now,
	}
}

const recordUnlinkedQuery = `
	INSERT INTO unlinked_comments (comment_id, post_slug, name, created_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(comment_id) DO NOTHING
`

// RecordUnlinked stores c. Recording the same comment twice keeps the first record.
func (r *SQLiteLinkRepository) RecordUnlinked(ctx context.Context, c *domain.UnlinkedComment) error {
	if c == nil {
		return fmt.Errorf("comment cannot be nil")
	}

	if c.CommentID == "" {
		return fmt.Errorf("comment ID cannot be empty")
	}

	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}

	executor := db.GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, recordUnlinkedQuery, c.CommentID, c.PostSlug, c.Name, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record unlinked comment: %w", err)
	}

	return nil
}

const listPendingQuery = `
	SELECT comment_id, post_slug, name, created_at, linked_at
	FROM unlinked_comments
	WHERE linked_at IS NULL
	ORDER BY created_at ASC, comment_id ASC
	LIMIT ? OFFSET ?
`

// ListPending returns comments still waiting to be linked, oldest first.
func (r *SQLiteLinkRepository) ListPending(ctx context.Context, limit int, offset int) ([]*domain.UnlinkedComment, error) {
	if limit <= 0 {
		limit = defaultPendingLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := db.GetExecutor(ctx, r.db).QueryContext(ctx, listPendingQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending comments: %w", err)
	}
	defer rows.Close()

	pending := make([]*domain.UnlinkedComment, 0)
	for rows.Next() {
		var row unlinkedRow
		err := rows.Scan(
			&row.CommentID,
			&row.PostSlug,
			&row.Name,
			&row.CreatedAt,
			&row.LinkedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unlinked comment row: %w", err)
		}
		pending = append(pending, row.toDomain())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unlinked comment rows: %w", err)
	}

	return pending, nil
}

const getLinkedAtQuery = `
	SELECT linked_at FROM unlinked_comments WHERE comment_id = ?
`

const markLinkedQuery = `
	UPDATE unlinked_comments
	SET linked_at = ?
	WHERE comment_id = ? AND linked_at IS NULL
`

// MarkLinked records that an operator linked the comment in the CMS. Marking a comment twice
// keeps the first timestamp.
func (r *SQLiteLinkRepository) MarkLinked(ctx context.Context, commentID string) error {
	if commentID == "" {
		return fmt.Errorf("comment ID cannot be empty")
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)

		var linkedAt sql.NullTime
		err := executor.QueryRowContext(txCtx, getLinkedAtQuery, commentID).Scan(&linkedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrCommentNotTracked, commentID)
		}
		if err != nil {
			return fmt.Errorf("failed to look up comment %s: %w", commentID, err)
		}

		if linkedAt.Valid {
			return nil
		}

		if _, err := executor.ExecContext(txCtx, markLinkedQuery, r.now().UTC(), commentID); err != nil {
			return fmt.Errorf("failed to mark comment %s as linked: %w", commentID, err)
		}
		return nil
	})
}

// unlinkedRow is used to scan database rows with a nullable linked_at
type unlinkedRow struct {
	CommentID string       `db:"comment_id"`
	PostSlug  string       `db:"post_slug"`
	Name      string       `db:"name"`
	CreatedAt time.Time    `db:"created_at"`
	LinkedAt  sql.NullTime `db:"linked_at"`
}

func (ur *unlinkedRow) toDomain() *domain.UnlinkedComment {
	c := &domain.UnlinkedComment{
		CommentID: ur.CommentID,
		PostSlug:  ur.PostSlug,
		Name:      ur.Name,
		CreatedAt: ur.CreatedAt,
	}
	if ur.LinkedAt.Valid {
		c.LinkedAt = ur.LinkedAt.Time
	}
	return c
}
