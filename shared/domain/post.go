package domain

import "time"

type Post struct {
	Id        PostId    `json:"id"`
	AuthorId  UserId    `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Completed bool      `json:"completed"`
	IsBlocked bool      `json:"is_blocked"`
	CreatedAt time.Time `json:"created_at"`
}

// PostContent is the user-editable part of a post.
// Create and update paths both run it through the moderation gate.
type PostContent struct {
	Title     string
	Content   string
	Completed bool
}
