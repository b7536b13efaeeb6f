package api

import "github.com/bloghub-dev/bloghub/shared/domain"

// Request DTOs

type RegisterRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=8"`
	AutoReplyEnabled  bool   `json:"auto_reply_enabled"`
	ReplyDelayMinutes int    `json:"reply_delay_minutes" validate:"gte=0"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserSettingsRequest struct {
	AutoReplyEnabled  bool `json:"auto_reply_enabled"`
	ReplyDelayMinutes int  `json:"reply_delay_minutes" validate:"gte=0"`
}

type CreatePostRequest struct {
	Title     string `json:"title" validate:"required,max=65"`
	Content   string `json:"content" validate:"required,max=255"`
	Completed bool   `json:"completed"`
}

type UpdatePostRequest struct {
	Title     string `json:"title" validate:"required,max=65"`
	Content   string `json:"content" validate:"required,max=255"`
	Completed bool   `json:"completed"`
}

type CreateCommentRequest struct {
	Description     string            `json:"description" validate:"required,max=255"`
	ParentCommentId *domain.CommentId `json:"parent_comment_id,omitempty"`
}

type UpdateCommentRequest struct {
	Description string `json:"description" validate:"required,max=255"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type PostResponse struct {
	domain.Post
	ContentHTML string `json:"content_html,omitempty"`
}

type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
}

type CommentResponse struct {
	domain.Comment
	DescriptionHTML string `json:"description_html,omitempty"`
}

type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
}

// DailyBreakdownRow is one day of GET /comments/daily-breakdown.
type DailyBreakdownRow struct {
	Date            string `json:"date"` // YYYY-MM-DD
	TotalComments   int64  `json:"total_comments"`
	BlockedComments int64  `json:"blocked_comments"`
}

type DailyBreakdownResponse struct {
	Days []DailyBreakdownRow `json:"days"`
}

// MessageResponse carries informational messages like the empty
// daily-breakdown period notice.
type MessageResponse struct {
	Message string `json:"message"`
}
