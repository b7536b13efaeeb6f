package domain

import "time"

type Comment struct {
	Id          CommentId  `json:"id"`
	PostId      PostId     `json:"post_id"`
	AuthorId    UserId     `json:"author_id"`
	ParentId    *CommentId `json:"parent_comment_id,omitempty"` // reply tree back-reference, nil for top-level comments
	Description string     `json:"description"`
	IsBlocked   bool       `json:"is_blocked"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DailyBreakdownRow is one calendar day of the comments daily breakdown.
type DailyBreakdownRow struct {
	Date            time.Time
	TotalComments   int64
	BlockedComments int64
}
