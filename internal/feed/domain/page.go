package domain

import "time"

// PageSpec is a zero-based page index and a page size.
type PageSpec struct {
	Page int
	Size int
}

func (p PageSpec) Offset() int {
	return p.Page * p.Size
}

// PastEnd reports whether the page starts at or after the last of total
// elements. It compares page indexes, so a huge Page cannot overflow.
func (p PageSpec) PastEnd(total int64) bool {
	return int64(p.Page) >= TotalPages(total, p.Size)
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int64 `json:"total_pages"`
}

// NewPage never returns a nil Content slice.
func NewPage[T any](content []T, spec PageSpec, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		Page:          spec.Page,
		Size:          spec.Size,
		TotalElements: total,
		TotalPages:    TotalPages(total, spec.Size),
	}
}

func TotalPages(total int64, size int) int64 {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}

type PostView struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	AuthorName  string    `json:"author_name"`
	ImageURL    string    `json:"image_url"`
	TextContent string    `json:"text_content,omitempty"`
	LikeCount   int64     `json:"like_count"`
	CreatedAt   time.Time `json:"created_at"`
}
