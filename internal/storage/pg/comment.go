package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/bloghub-dev/bloghub/shared/domain"
	internal_errors "github.com/bloghub-dev/bloghub/shared/errors"
	"github.com/bloghub-dev/bloghub/shared/messages"
)

// =========================================================================
// Public Methods (satisfy the service.CommentStorage interface)
// =========================================================================

// CreateComment persists the comment, including its moderation verdict, and
// fills in the generated id and created_at. A missing post or parent comment
// surfaces as not found via the FK violation.
func (s *Storage) CreateComment(comment *domain.Comment) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.createComment(tx, comment)
	})
}

// GetComment fetches a single comment scoped to its author.
func (s *Storage) GetComment(id domain.CommentId, authorId domain.UserId) (domain.Comment, error) {
	return s.getComment(s.db, id, authorId)
}

// CommentById fetches a comment without ownership scoping. The auto-reply
// task uses this to re-check the comment still exists after its delay.
func (s *Storage) CommentById(id domain.CommentId) (domain.Comment, error) {
	return s.commentById(s.db, id)
}

// GetCommentsByPost returns the author's comments on the given post, oldest first.
func (s *Storage) GetCommentsByPost(postId domain.PostId, authorId domain.UserId) ([]domain.Comment, error) {
	return s.getCommentsByPost(s.db, postId, authorId)
}

// GetCommentByPost fetches one comment scoped to both its post and its author.
func (s *Storage) GetCommentByPost(postId domain.PostId, id domain.CommentId, authorId domain.UserId) (domain.Comment, error) {
	return s.getCommentByPost(s.db, postId, id, authorId)
}

// UpdateComment overwrites the description of a comment scoped to its author.
// The caller re-runs the moderation check before calling this, so a blocked
// update never reaches the database.
func (s *Storage) UpdateComment(comment *domain.Comment) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateComment(tx, comment)
	})
}

// DeleteComment removes a comment scoped to its author.
func (s *Storage) DeleteComment(id domain.CommentId, authorId domain.UserId) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteComment(tx, id, authorId)
	})
}

// CommentsDailyBreakdown groups the author's comments by calendar date within
// the inclusive [dateFrom, dateTo] range, ascending. An empty range yields an
// empty slice.
func (s *Storage) CommentsDailyBreakdown(authorId domain.UserId, dateFrom, dateTo time.Time) ([]domain.DailyBreakdownRow, error) {
	return s.commentsDailyBreakdown(s.db, authorId, dateFrom, dateTo)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) createComment(q Querier, comment *domain.Comment) error {
	createdTs := time.Now().UTC().Round(time.Microsecond) // database anyway rounds to microsecond
	err := q.QueryRow(`
	INSERT INTO comments(post_id, author_id, parent_comment_id, description, is_blocked, created_at)
	VALUES($1, $2, $3, $4, $5, $6)
	RETURNING id`,
		comment.PostId, comment.AuthorId, comment.ParentId, comment.Description, comment.IsBlocked, createdTs).Scan(&comment.Id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			if strings.Contains(pqErr.Constraint, "parent_comment") {
				parentId := domain.CommentId(0)
				if comment.ParentId != nil {
					parentId = *comment.ParentId
				}
				return &internal_errors.ErrorWithStatusCode{Message: messages.CommentNotFound(parentId), StatusCode: http.StatusNotFound}
			}
			return &internal_errors.ErrorWithStatusCode{Message: messages.PostNotFound(comment.PostId), StatusCode: http.StatusNotFound}
		}
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	comment.CreatedAt = createdTs
	return nil
}

func (s *Storage) getComment(q Querier, id domain.CommentId, authorId domain.UserId) (domain.Comment, error) {
	comment, err := s.scanComment(q.QueryRow(`
	SELECT id, post_id, author_id, parent_comment_id, description, is_blocked, created_at
	FROM comments
	WHERE id = $1 AND author_id = $2`, id, authorId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Comment{}, &internal_errors.ErrorWithStatusCode{Message: messages.CommentNotFound(id), StatusCode: http.StatusNotFound}
		}
		return domain.Comment{}, fmt.Errorf("failed to query comment: %w", err)
	}
	return comment, nil
}

func (s *Storage) commentById(q Querier, id domain.CommentId) (domain.Comment, error) {
	comment, err := s.scanComment(q.QueryRow(`
	SELECT id, post_id, author_id, parent_comment_id, description, is_blocked, created_at
	FROM comments
	WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Comment{}, &internal_errors.ErrorWithStatusCode{Message: messages.CommentNotFound(id), StatusCode: http.StatusNotFound}
		}
		return domain.Comment{}, fmt.Errorf("failed to query comment by id: %w", err)
	}
	return comment, nil
}

func (s *Storage) getCommentsByPost(q Querier, postId domain.PostId, authorId domain.UserId) ([]domain.Comment, error) {
	rows, err := q.Query(`
	SELECT id, post_id, author_id, parent_comment_id, description, is_blocked, created_at
	FROM comments
	WHERE post_id = $1 AND author_id = $2
	ORDER BY created_at, id`, postId, authorId)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		var parentId sql.NullInt64
		if err := rows.Scan(&comment.Id, &comment.PostId, &comment.AuthorId, &parentId, &comment.Description, &comment.IsBlocked, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		if parentId.Valid {
			comment.ParentId = &parentId.Int64
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Storage) getCommentByPost(q Querier, postId domain.PostId, id domain.CommentId, authorId domain.UserId) (domain.Comment, error) {
	comment, err := s.scanComment(q.QueryRow(`
	SELECT id, post_id, author_id, parent_comment_id, description, is_blocked, created_at
	FROM comments
	WHERE id = $1 AND post_id = $2 AND author_id = $3`, id, postId, authorId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Comment{}, &internal_errors.ErrorWithStatusCode{Message: messages.NoCommentFoundForPost(id, postId), StatusCode: http.StatusNotFound}
		}
		return domain.Comment{}, fmt.Errorf("failed to query comment: %w", err)
	}
	return comment, nil
}

func (s *Storage) updateComment(q Querier, comment *domain.Comment) error {
	result, err := q.Exec(`
	UPDATE comments SET
		description = $1
	WHERE id = $2 AND author_id = $3`,
		comment.Description, comment.Id, comment.AuthorId)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: messages.CommentNotFound(comment.Id), StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) deleteComment(q Querier, id domain.CommentId, authorId domain.UserId) error {
	result, err := q.Exec(`DELETE FROM comments WHERE id = $1 AND author_id = $2`, id, authorId)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: messages.CommentNotFound(id), StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) commentsDailyBreakdown(q Querier, authorId domain.UserId, dateFrom, dateTo time.Time) ([]domain.DailyBreakdownRow, error) {
	rows, err := q.Query(`
	SELECT
		created_at::date AS date,
		COUNT(*) AS total_comments,
		COUNT(*) FILTER (WHERE is_blocked) AS blocked_comments
	FROM comments
	WHERE author_id = $1 AND created_at::date BETWEEN $2 AND $3
	GROUP BY created_at::date
	ORDER BY created_at::date`, authorId, dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily breakdown: %w", err)
	}
	defer rows.Close()

	var breakdown []domain.DailyBreakdownRow
	for rows.Next() {
		var row domain.DailyBreakdownRow
		if err := rows.Scan(&row.Date, &row.TotalComments, &row.BlockedComments); err != nil {
			return nil, fmt.Errorf("failed to scan breakdown row: %w", err)
		}
		breakdown = append(breakdown, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return breakdown, nil
}

// scanComment scans a single comment row, normalizing the nullable parent id.
func (s *Storage) scanComment(row *sql.Row) (domain.Comment, error) {
	var comment domain.Comment
	var parentId sql.NullInt64
	err := row.Scan(&comment.Id, &comment.PostId, &comment.AuthorId, &parentId, &comment.Description, &comment.IsBlocked, &comment.CreatedAt)
	if err != nil {
		return domain.Comment{}, err
	}
	if parentId.Valid {
		comment.ParentId = &parentId.Int64
	}
	return comment, nil
}
