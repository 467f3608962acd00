package domain

import "time"

// Post is immutable once created. TextContent is empty when the author
// left no caption.
type Post struct {
	ID          string
	UserID      string
	ImageURL    string
	TextContent string
	CreatedAt   time.Time
}
