package service

import (
	"context"
	"net/http"

	"github.com/bloghub-dev/bloghub/shared/domain"
	"github.com/bloghub-dev/bloghub/shared/errors"
	"github.com/bloghub-dev/bloghub/shared/messages"
)

type PostService interface {
	Create(ctx context.Context, authorId domain.UserId, content domain.PostContent) (domain.Post, error)
	Get(id domain.PostId, authorId domain.UserId) (domain.Post, error)
	GetAll(authorId domain.UserId, limit, offset int) ([]domain.Post, error)
	Update(ctx context.Context, id domain.PostId, authorId domain.UserId, content domain.PostContent) (domain.Post, error)
	Delete(id domain.PostId, authorId domain.UserId) error
}

// ModerationChecker is the moderation verdict the write paths gate on.
// Implementations fail open: an unavailable moderation backend reports false.
type ModerationChecker interface {
	Check(ctx context.Context, content, title string) bool
}

type Post struct {
	storage    PostStorage
	moderation ModerationChecker
}

type PostStorage interface {
	CreatePost(post *domain.Post) error
	GetPost(id domain.PostId, authorId domain.UserId) (domain.Post, error)
	GetPosts(authorId domain.UserId, limit, offset int) ([]domain.Post, error)
	UpdatePost(post *domain.Post) error
	DeletePost(id domain.PostId, authorId domain.UserId) error
}

func NewPost(storage PostStorage, moderation ModerationChecker) PostService {
	return &Post{storage, moderation}
}

// Create builds the candidate post, runs the moderation gate and persists.
// Blocked posts are persisted too, flagged is_blocked, and the caller still
// gets a rejection error: the row is retained for moderation review instead
// of being dropped.
func (p *Post) Create(ctx context.Context, authorId domain.UserId, content domain.PostContent) (domain.Post, error) {
	post := domain.Post{
		AuthorId:  authorId,
		Title:     content.Title,
		Content:   content.Content,
		Completed: content.Completed,
	}

	if p.moderation.Check(ctx, post.Content, post.Title) {
		post.IsBlocked = true
		if err := p.storage.CreatePost(&post); err != nil {
			return domain.Post{}, err
		}
		return post, &errors.ErrorWithStatusCode{Message: messages.PostContainsForbidden, StatusCode: http.StatusBadRequest}
	}

	if err := p.storage.CreatePost(&post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (p *Post) Get(id domain.PostId, authorId domain.UserId) (domain.Post, error) {
	return p.storage.GetPost(id, authorId)
}

func (p *Post) GetAll(authorId domain.UserId, limit, offset int) ([]domain.Post, error) {
	return p.storage.GetPosts(authorId, limit, offset)
}

// Update applies the new field values in memory and re-runs the moderation
// gate before touching the database. On a blocked verdict nothing is written,
// so the stored post keeps its pre-update values.
func (p *Post) Update(ctx context.Context, id domain.PostId, authorId domain.UserId, content domain.PostContent) (domain.Post, error) {
	post, err := p.storage.GetPost(id, authorId)
	if err != nil {
		return domain.Post{}, err
	}

	post.Title = content.Title
	post.Content = content.Content
	post.Completed = content.Completed

	if p.moderation.Check(ctx, post.Content, post.Title) {
		return domain.Post{}, &errors.ErrorWithStatusCode{Message: messages.PostContainsForbidden, StatusCode: http.StatusBadRequest}
	}

	if err := p.storage.UpdatePost(&post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (p *Post) Delete(id domain.PostId, authorId domain.UserId) error {
	return p.storage.DeletePost(id, authorId)
}
