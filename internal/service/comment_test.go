package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloghub-dev/bloghub/shared/domain"
	internal_errors "github.com/bloghub-dev/bloghub/shared/errors"
	"github.com/bloghub-dev/bloghub/shared/messages"
)

// Mock structs
type MockCommentStorage struct {
	CreateCommentFunc          func(comment *domain.Comment) error
	GetCommentFunc             func(id domain.CommentId, authorId domain.UserId) (domain.Comment, error)
	GetCommentsByPostFunc      func(postId domain.PostId, authorId domain.UserId) ([]domain.Comment, error)
	GetCommentByPostFunc       func(postId domain.PostId, id domain.CommentId, authorId domain.UserId) (domain.Comment, error)
	UpdateCommentFunc          func(comment *domain.Comment) error
	DeleteCommentFunc          func(id domain.CommentId, authorId domain.UserId) error
	CommentsDailyBreakdownFunc func(authorId domain.UserId, dateFrom, dateTo time.Time) ([]domain.DailyBreakdownRow, error)
	UserByIdFunc               func(id domain.UserId) (domain.User, error)
}

func (m *MockCommentStorage) CreateComment(comment *domain.Comment) error {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(comment)
	}
	comment.Id = 1
	return nil
}

func (m *MockCommentStorage) GetComment(id domain.CommentId, authorId domain.UserId) (domain.Comment, error) {
	if m.GetCommentFunc != nil {
		return m.GetCommentFunc(id, authorId)
	}
	return domain.Comment{Id: id, AuthorId: authorId}, nil
}

func (m *MockCommentStorage) GetCommentsByPost(postId domain.PostId, authorId domain.UserId) ([]domain.Comment, error) {
	if m.GetCommentsByPostFunc != nil {
		return m.GetCommentsByPostFunc(postId, authorId)
	}
	return nil, nil
}

func (m *MockCommentStorage) GetCommentByPost(postId domain.PostId, id domain.CommentId, authorId domain.UserId) (domain.Comment, error) {
	if m.GetCommentByPostFunc != nil {
		return m.GetCommentByPostFunc(postId, id, authorId)
	}
	return domain.Comment{Id: id, PostId: postId}, nil
}

func (m *MockCommentStorage) UpdateComment(comment *domain.Comment) error {
	if m.UpdateCommentFunc != nil {
		return m.UpdateCommentFunc(comment)
	}
	return nil
}

func (m *MockCommentStorage) DeleteComment(id domain.CommentId, authorId domain.UserId) error {
	if m.DeleteCommentFunc != nil {
		return m.DeleteCommentFunc(id, authorId)
	}
	return nil
}

func (m *MockCommentStorage) CommentsDailyBreakdown(authorId domain.UserId, dateFrom, dateTo time.Time) ([]domain.DailyBreakdownRow, error) {
	if m.CommentsDailyBreakdownFunc != nil {
		return m.CommentsDailyBreakdownFunc(authorId, dateFrom, dateTo)
	}
	return nil, nil
}

func (m *MockCommentStorage) UserById(id domain.UserId) (domain.User, error) {
	if m.UserByIdFunc != nil {
		return m.UserByIdFunc(id)
	}
	return domain.User{Id: id}, nil
}

type MockReplyScheduler struct {
	ScheduleFunc func(postId domain.PostId, commentId domain.CommentId, authorId domain.UserId, delay time.Duration) error
}

func (m *MockReplyScheduler) Schedule(postId domain.PostId, commentId domain.CommentId, authorId domain.UserId, delay time.Duration) error {
	if m.ScheduleFunc != nil {
		return m.ScheduleFunc(postId, commentId, authorId, delay)
	}
	return nil
}

func TestCommentCreate(t *testing.T) {
	authorId := uuid.New()
	postId := domain.PostId(5)

	t.Run("clean comment schedules auto-reply for opted-in author", func(t *testing.T) {
		scheduled := false
		storage := &MockCommentStorage{
			CreateCommentFunc: func(comment *domain.Comment) error {
				comment.Id = 11
				return nil
			},
			UserByIdFunc: func(id domain.UserId) (domain.User, error) {
				return domain.User{Id: id, AutoReplyEnabled: true, ReplyDelayMinutes: 3}, nil
			},
		}
		scheduler := &MockReplyScheduler{
			ScheduleFunc: func(pid domain.PostId, cid domain.CommentId, aid domain.UserId, delay time.Duration) error {
				scheduled = true
				assert.Equal(t, postId, pid)
				assert.Equal(t, domain.CommentId(11), cid)
				assert.Equal(t, authorId, aid)
				assert.Equal(t, 3*time.Minute, delay)
				return nil
			},
		}
		service := NewComment(storage, &MockModerationChecker{}, scheduler)

		comment, err := service.Create(context.Background(), postId, authorId, "nice post", nil)
		require.NoError(t, err)
		assert.Equal(t, domain.CommentId(11), comment.Id)
		assert.True(t, scheduled)
	})

	t.Run("no auto-reply when author opted out", func(t *testing.T) {
		storage := &MockCommentStorage{
			UserByIdFunc: func(id domain.UserId) (domain.User, error) {
				return domain.User{Id: id, AutoReplyEnabled: false}, nil
			},
		}
		scheduler := &MockReplyScheduler{
			ScheduleFunc: func(pid domain.PostId, cid domain.CommentId, aid domain.UserId, delay time.Duration) error {
				t.Error("Schedule must not be called for opted-out authors")
				return nil
			},
		}
		service := NewComment(storage, &MockModerationChecker{}, scheduler)

		_, err := service.Create(context.Background(), postId, authorId, "nice post", nil)
		require.NoError(t, err)
	})

	t.Run("blocked comment is persisted flagged, rejected and not scheduled", func(t *testing.T) {
		var persisted *domain.Comment
		storage := &MockCommentStorage{
			CreateCommentFunc: func(comment *domain.Comment) error {
				persisted = comment
				comment.Id = 12
				return nil
			},
		}
		scheduler := &MockReplyScheduler{
			ScheduleFunc: func(pid domain.PostId, cid domain.CommentId, aid domain.UserId, delay time.Duration) error {
				t.Error("Schedule must not be called for blocked comments")
				return nil
			},
		}
		moderation := &MockModerationChecker{
			CheckFunc: func(ctx context.Context, content, title string) bool {
				assert.Equal(t, "awful text", content)
				assert.Empty(t, title)
				return true
			},
		}
		service := NewComment(storage, moderation, scheduler)

		_, err := service.Create(context.Background(), postId, authorId, "awful text", nil)
		require.Error(t, err)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
		assert.Equal(t, messages.CommentContainsForbidden, statusErr.Message)

		require.NotNil(t, persisted, "blocked comment must still be written")
		assert.True(t, persisted.IsBlocked)
	})

	t.Run("parent id is forwarded to storage", func(t *testing.T) {
		parentId := domain.CommentId(9)
		storage := &MockCommentStorage{
			CreateCommentFunc: func(comment *domain.Comment) error {
				require.NotNil(t, comment.ParentId)
				assert.Equal(t, parentId, *comment.ParentId)
				comment.Id = 13
				return nil
			},
		}
		service := NewComment(storage, &MockModerationChecker{}, &MockReplyScheduler{})

		_, err := service.Create(context.Background(), postId, authorId, "reply", &parentId)
		require.NoError(t, err)
	})

	t.Run("scheduler failure does not fail the create", func(t *testing.T) {
		storage := &MockCommentStorage{
			UserByIdFunc: func(id domain.UserId) (domain.User, error) {
				return domain.User{Id: id, AutoReplyEnabled: true, ReplyDelayMinutes: 1}, nil
			},
		}
		scheduler := &MockReplyScheduler{
			ScheduleFunc: func(pid domain.PostId, cid domain.CommentId, aid domain.UserId, delay time.Duration) error {
				return assert.AnError
			},
		}
		service := NewComment(storage, &MockModerationChecker{}, scheduler)

		_, err := service.Create(context.Background(), postId, authorId, "nice post", nil)
		assert.NoError(t, err)
	})
}

func TestCommentUpdate(t *testing.T) {
	authorId := uuid.New()
	commentId := domain.CommentId(8)
	stored := domain.Comment{Id: commentId, PostId: 5, AuthorId: authorId, Description: "old text"}

	t.Run("clean update persists new description", func(t *testing.T) {
		storage := &MockCommentStorage{
			GetCommentFunc: func(id domain.CommentId, aid domain.UserId) (domain.Comment, error) {
				return stored, nil
			},
			UpdateCommentFunc: func(comment *domain.Comment) error {
				assert.Equal(t, "new text", comment.Description)
				return nil
			},
		}
		service := NewComment(storage, &MockModerationChecker{}, &MockReplyScheduler{})

		comment, err := service.Update(context.Background(), commentId, authorId, "new text")
		require.NoError(t, err)
		assert.Equal(t, "new text", comment.Description)
	})

	t.Run("blocked update is rejected without persisting", func(t *testing.T) {
		updateCalled := false
		storage := &MockCommentStorage{
			GetCommentFunc: func(id domain.CommentId, aid domain.UserId) (domain.Comment, error) {
				return stored, nil
			},
			UpdateCommentFunc: func(comment *domain.Comment) error {
				updateCalled = true
				return nil
			},
		}
		moderation := &MockModerationChecker{
			CheckFunc: func(ctx context.Context, content, title string) bool { return true },
		}
		service := NewComment(storage, moderation, &MockReplyScheduler{})

		_, err := service.Update(context.Background(), commentId, authorId, "awful text")
		require.Error(t, err)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
		assert.False(t, updateCalled, "blocked update must not reach storage")
	})
}

func TestCommentDailyBreakdown(t *testing.T) {
	authorId := uuid.New()
	dateFrom := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	dateTo := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	expected := []domain.DailyBreakdownRow{
		{Date: dateFrom, TotalComments: 4, BlockedComments: 1},
	}

	storage := &MockCommentStorage{
		CommentsDailyBreakdownFunc: func(aid domain.UserId, from, to time.Time) ([]domain.DailyBreakdownRow, error) {
			assert.Equal(t, authorId, aid)
			assert.Equal(t, dateFrom, from)
			assert.Equal(t, dateTo, to)
			return expected, nil
		},
	}
	service := NewComment(storage, &MockModerationChecker{}, &MockReplyScheduler{})

	rows, err := service.DailyBreakdown(authorId, dateFrom, dateTo)
	require.NoError(t, err)
	assert.Equal(t, expected, rows)
}
