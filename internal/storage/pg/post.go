package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bloghub-dev/bloghub/shared/domain"
	internal_errors "github.com/bloghub-dev/bloghub/shared/errors"
	"github.com/bloghub-dev/bloghub/shared/messages"
)

// =========================================================================
// Public Methods (satisfy the service.PostStorage interface)
// =========================================================================

// CreatePost persists the post, including its moderation verdict, and fills
// in the generated id and created_at. Blocked posts are stored too so they
// stay available for moderation review.
func (s *Storage) CreatePost(post *domain.Post) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.createPost(tx, post)
	})
}

// GetPost fetches a single post scoped to its author. A post that exists but
// belongs to someone else is reported as not found.
func (s *Storage) GetPost(id domain.PostId, authorId domain.UserId) (domain.Post, error) {
	return s.getPost(s.db, id, authorId)
}

// PostById fetches a post without ownership scoping. The auto-reply task uses
// this to re-check the post still exists after its delay elapses.
func (s *Storage) PostById(id domain.PostId) (domain.Post, error) {
	return s.postById(s.db, id)
}

// GetPosts returns the author's posts, newest first.
func (s *Storage) GetPosts(authorId domain.UserId, limit, offset int) ([]domain.Post, error) {
	return s.getPosts(s.db, authorId, limit, offset)
}

// UpdatePost overwrites title/content/completed of a post scoped to its
// author. The caller re-runs the moderation check before calling this, so a
// blocked update never reaches the database.
func (s *Storage) UpdatePost(post *domain.Post) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updatePost(tx, post)
	})
}

// DeletePost removes a post scoped to its author. The comments FK cascade
// removes the post's comments with it.
func (s *Storage) DeletePost(id domain.PostId, authorId domain.UserId) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deletePost(tx, id, authorId)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) createPost(q Querier, post *domain.Post) error {
	createdTs := time.Now().UTC().Round(time.Microsecond) // database anyway rounds to microsecond
	err := q.QueryRow(`
	INSERT INTO posts(author_id, title, content, completed, is_blocked, created_at)
	VALUES($1, $2, $3, $4, $5, $6)
	RETURNING id`,
		post.AuthorId, post.Title, post.Content, post.Completed, post.IsBlocked, createdTs).Scan(&post.Id)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	post.CreatedAt = createdTs
	return nil
}

func (s *Storage) getPost(q Querier, id domain.PostId, authorId domain.UserId) (domain.Post, error) {
	var post domain.Post
	err := q.QueryRow(`
	SELECT id, author_id, title, content, completed, is_blocked, created_at
	FROM posts
	WHERE id = $1 AND author_id = $2`, id, authorId).
		Scan(&post.Id, &post.AuthorId, &post.Title, &post.Content, &post.Completed, &post.IsBlocked, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, &internal_errors.ErrorWithStatusCode{Message: messages.PostNotFound(id), StatusCode: http.StatusNotFound}
		}
		return domain.Post{}, fmt.Errorf("failed to query post: %w", err)
	}
	return post, nil
}

func (s *Storage) postById(q Querier, id domain.PostId) (domain.Post, error) {
	var post domain.Post
	err := q.QueryRow(`
	SELECT id, author_id, title, content, completed, is_blocked, created_at
	FROM posts
	WHERE id = $1`, id).
		Scan(&post.Id, &post.AuthorId, &post.Title, &post.Content, &post.Completed, &post.IsBlocked, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, &internal_errors.ErrorWithStatusCode{Message: messages.PostNotFound(id), StatusCode: http.StatusNotFound}
		}
		return domain.Post{}, fmt.Errorf("failed to query post by id: %w", err)
	}
	return post, nil
}

func (s *Storage) getPosts(q Querier, authorId domain.UserId, limit, offset int) ([]domain.Post, error) {
	rows, err := q.Query(`
	SELECT id, author_id, title, content, completed, is_blocked, created_at
	FROM posts
	WHERE author_id = $1
	ORDER BY created_at DESC, id DESC
	LIMIT $2 OFFSET $3`, authorId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(&post.Id, &post.AuthorId, &post.Title, &post.Content, &post.Completed, &post.IsBlocked, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Storage) updatePost(q Querier, post *domain.Post) error {
	result, err := q.Exec(`
	UPDATE posts SET
		title = $1,
		content = $2,
		completed = $3
	WHERE id = $4 AND author_id = $5`,
		post.Title, post.Content, post.Completed, post.Id, post.AuthorId)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: messages.PostNotFound(post.Id), StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) deletePost(q Querier, id domain.PostId, authorId domain.UserId) error {
	result, err := q.Exec(`DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorId)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: messages.PostNotFound(id), StatusCode: http.StatusNotFound}
	}
	return nil
}
