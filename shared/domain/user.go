package domain

import "time"

type User struct {
	Id                UserId    `json:"id"`
	Email             Email     `json:"email"`
	PassHash          string    `json:"-"`
	AutoReplyEnabled  bool      `json:"auto_reply_enabled"`
	ReplyDelayMinutes int       `json:"reply_delay_minutes"`
	CreatedAt         time.Time `json:"created_at"`
}

type Credentials struct {
	Email    Email
	Password Password
}

// UserSettings are the per-user fields a user may change themselves.
type UserSettings struct {
	AutoReplyEnabled  bool
	ReplyDelayMinutes int
}
