package domain

import "github.com/google/uuid"

type (
	Email    = string
	Password = string
	UserId   = uuid.UUID

	PostId    = int64
	CommentId = int64
)
