package domain

import "time"

type Like struct {
	ID        string
	UserID    string
	PostID    string
	CreatedAt time.Time
}

// Event describes the state of a (user, post) pair right after a toggle.
type Event struct {
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Liked     bool      `json:"liked"`
	LikeCount int64     `json:"like_count"`
	At        time.Time `json:"at"`
}
