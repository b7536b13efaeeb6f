package service

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bloghub-dev/bloghub/shared/domain"
	"github.com/bloghub-dev/bloghub/shared/errors"
	"github.com/bloghub-dev/bloghub/shared/logger"
)

// autoReplyText is the fixed reply body. It is system-generated, so it does
// not go through the moderation gate.
const autoReplyText = "Thanks for the comment"

var (
	autoRepliesScheduled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auto_replies_scheduled_total",
		Help: "Total number of auto-replies scheduled",
	})
	autoRepliesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auto_replies_sent_total",
		Help: "Total number of auto-reply comments created",
	})
	autoRepliesAborted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auto_replies_aborted_total",
		Help: "Total number of auto-replies aborted (prerequisites gone or shutdown)",
	})
)

// AutoReplyStorage defines the database operations the auto-reply task needs.
// Lookups are unscoped by design: the task re-checks raw existence, not
// ownership.
type AutoReplyStorage interface {
	UserById(id domain.UserId) (domain.User, error)
	CommentById(id domain.CommentId) (domain.Comment, error)
	PostById(id domain.PostId) (domain.Post, error)
	CreateComment(comment *domain.Comment) error
}

// AutoReplyScheduler runs delayed auto-reply tasks as detached goroutines.
// Each task outlives the request that scheduled it and talks to the database
// on fresh pool connections, never through the originating request's
// transaction. Delivery is at-most-once: process shutdown before the delay
// elapses simply drops the reply.
type AutoReplyScheduler struct {
	storage AutoReplyStorage
	ctx     context.Context
	wg      sync.WaitGroup
}

// NewAutoReplyScheduler creates a scheduler bound to the process lifetime
// context. Cancelling ctx aborts all pending (still waiting) replies.
func NewAutoReplyScheduler(ctx context.Context, storage AutoReplyStorage) *AutoReplyScheduler {
	return &AutoReplyScheduler{storage: storage, ctx: ctx}
}

// Schedule queues one delayed auto-reply. It never blocks the caller and
// produces at most one reply per invocation; deduplication of duplicate
// scheduling is the caller's responsibility (the create path fires at most
// once per comment).
func (s *AutoReplyScheduler) Schedule(postId domain.PostId, commentId domain.CommentId, authorId domain.UserId, delay time.Duration) error {
	autoRepliesScheduled.Inc()
	logger.Log.Info("auto-reply scheduled", "comment_id", commentId, "delay", delay)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			autoRepliesAborted.Inc()
			logger.Log.Info("auto-reply dropped on shutdown", "comment_id", commentId)
			return
		}

		if err := s.sendReply(postId, commentId, authorId); err != nil {
			logger.Log.Error("auto-reply failed", "comment_id", commentId, "error", err)
		}
	}()
	return nil
}

// sendReply re-fetches the user, comment and post by id on a fresh session.
// If any of them vanished while waiting, it aborts silently: no reply row,
// no error surfaced. Otherwise it inserts the fixed-text reply on behalf of
// the original author, parented to the original comment.
func (s *AutoReplyScheduler) sendReply(postId domain.PostId, commentId domain.CommentId, authorId domain.UserId) error {
	user, err := s.storage.UserById(authorId)
	if err != nil {
		return s.abortOrErr(err, "user", commentId)
	}
	comment, err := s.storage.CommentById(commentId)
	if err != nil {
		return s.abortOrErr(err, "comment", commentId)
	}
	post, err := s.storage.PostById(postId)
	if err != nil {
		return s.abortOrErr(err, "post", commentId)
	}

	reply := domain.Comment{
		PostId:      post.Id,
		AuthorId:    user.Id,
		ParentId:    &comment.Id,
		Description: autoReplyText,
	}
	if err := s.storage.CreateComment(&reply); err != nil {
		return err
	}

	autoRepliesSent.Inc()
	logger.Log.Info("auto-reply comment created", "reply_id", reply.Id, "parent_comment_id", comment.Id)
	return nil
}

// abortOrErr swallows not-found errors (prerequisite deleted while waiting)
// and passes everything else through.
func (s *AutoReplyScheduler) abortOrErr(err error, entity string, commentId domain.CommentId) error {
	if errors.IsNotFound(err) {
		autoRepliesAborted.Inc()
		logger.Log.Debug("auto-reply aborted, prerequisite gone", "entity", entity, "comment_id", commentId)
		return nil
	}
	return err
}

// Wait blocks until all in-flight tasks finish. Used by tests and shutdown.
func (s *AutoReplyScheduler) Wait() {
	s.wg.Wait()
}
