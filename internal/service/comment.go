package service

import (
	"context"
	"net/http"
	"time"

	"github.com/bloghub-dev/bloghub/shared/domain"
	"github.com/bloghub-dev/bloghub/shared/errors"
	"github.com/bloghub-dev/bloghub/shared/logger"
	"github.com/bloghub-dev/bloghub/shared/messages"
)

type CommentService interface {
	Create(ctx context.Context, postId domain.PostId, authorId domain.UserId, description string, parentId *domain.CommentId) (domain.Comment, error)
	Get(id domain.CommentId, authorId domain.UserId) (domain.Comment, error)
	GetByPost(postId domain.PostId, authorId domain.UserId) ([]domain.Comment, error)
	GetOneByPost(postId domain.PostId, id domain.CommentId, authorId domain.UserId) (domain.Comment, error)
	Update(ctx context.Context, id domain.CommentId, authorId domain.UserId, description string) (domain.Comment, error)
	Delete(id domain.CommentId, authorId domain.UserId) error
	DailyBreakdown(authorId domain.UserId, dateFrom, dateTo time.Time) ([]domain.DailyBreakdownRow, error)
}

// ReplyScheduler schedules the delayed auto-reply. Fire-and-forget: the
// comment-creation response never waits on it.
type ReplyScheduler interface {
	Schedule(postId domain.PostId, commentId domain.CommentId, authorId domain.UserId, delay time.Duration) error
}

type Comment struct {
	storage    CommentStorage
	moderation ModerationChecker
	scheduler  ReplyScheduler
}

type CommentStorage interface {
	CreateComment(comment *domain.Comment) error
	GetComment(id domain.CommentId, authorId domain.UserId) (domain.Comment, error)
	GetCommentsByPost(postId domain.PostId, authorId domain.UserId) ([]domain.Comment, error)
	GetCommentByPost(postId domain.PostId, id domain.CommentId, authorId domain.UserId) (domain.Comment, error)
	UpdateComment(comment *domain.Comment) error
	DeleteComment(id domain.CommentId, authorId domain.UserId) error
	CommentsDailyBreakdown(authorId domain.UserId, dateFrom, dateTo time.Time) ([]domain.DailyBreakdownRow, error)
	UserById(id domain.UserId) (domain.User, error)
}

func NewComment(storage CommentStorage, moderation ModerationChecker, scheduler ReplyScheduler) CommentService {
	return &Comment{storage, moderation, scheduler}
}

// Create runs the moderation gate and persists the comment. Blocked comments
// are persisted flagged is_blocked and the caller still gets a rejection
// error (same audit-retention policy as posts). A clean create schedules the
// author's auto-reply if they have it enabled.
func (c *Comment) Create(ctx context.Context, postId domain.PostId, authorId domain.UserId, description string, parentId *domain.CommentId) (domain.Comment, error) {
	comment := domain.Comment{
		PostId:      postId,
		AuthorId:    authorId,
		ParentId:    parentId,
		Description: description,
	}

	if c.moderation.Check(ctx, comment.Description, "") {
		comment.IsBlocked = true
		if err := c.storage.CreateComment(&comment); err != nil {
			return domain.Comment{}, err
		}
		return comment, &errors.ErrorWithStatusCode{Message: messages.CommentContainsForbidden, StatusCode: http.StatusBadRequest}
	}

	if err := c.storage.CreateComment(&comment); err != nil {
		return domain.Comment{}, err
	}

	c.scheduleAutoReply(comment)
	return comment, nil
}

// scheduleAutoReply fires the delayed reply for authors that opted in.
// Any failure here is logged and swallowed: it must never fail the create.
func (c *Comment) scheduleAutoReply(comment domain.Comment) {
	user, err := c.storage.UserById(comment.AuthorId)
	if err != nil {
		logger.Log.Warn("auto-reply settings lookup failed", "user_id", comment.AuthorId, "error", err)
		return
	}
	if !user.AutoReplyEnabled {
		return
	}

	delay := time.Duration(user.ReplyDelayMinutes) * time.Minute
	if err := c.scheduler.Schedule(comment.PostId, comment.Id, comment.AuthorId, delay); err != nil {
		logger.Log.Error("failed to schedule auto-reply", "comment_id", comment.Id, "error", err)
	}
}

func (c *Comment) Get(id domain.CommentId, authorId domain.UserId) (domain.Comment, error) {
	return c.storage.GetComment(id, authorId)
}

func (c *Comment) GetByPost(postId domain.PostId, authorId domain.UserId) ([]domain.Comment, error) {
	return c.storage.GetCommentsByPost(postId, authorId)
}

func (c *Comment) GetOneByPost(postId domain.PostId, id domain.CommentId, authorId domain.UserId) (domain.Comment, error) {
	return c.storage.GetCommentByPost(postId, id, authorId)
}

// Update applies the new description in memory and re-runs the moderation
// gate before touching the database, mirroring the post update path.
func (c *Comment) Update(ctx context.Context, id domain.CommentId, authorId domain.UserId, description string) (domain.Comment, error) {
	comment, err := c.storage.GetComment(id, authorId)
	if err != nil {
		return domain.Comment{}, err
	}

	comment.Description = description

	if c.moderation.Check(ctx, comment.Description, "") {
		return domain.Comment{}, &errors.ErrorWithStatusCode{Message: messages.CommentContainsForbidden, StatusCode: http.StatusBadRequest}
	}

	if err := c.storage.UpdateComment(&comment); err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

func (c *Comment) Delete(id domain.CommentId, authorId domain.UserId) error {
	return c.storage.DeleteComment(id, authorId)
}

// DailyBreakdown relies on the handler to have validated dateFrom <= dateTo.
func (c *Comment) DailyBreakdown(authorId domain.UserId, dateFrom, dateTo time.Time) ([]domain.DailyBreakdownRow, error) {
	return c.storage.CommentsDailyBreakdown(authorId, dateFrom, dateTo)
}
