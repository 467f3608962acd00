package repository

import (
	"context"
	"errors"

	"github.com/AlibekovAA/puppies-api/internal/post/domain"
)

// Repository lists are ordered newest first with id as the tie-break, so
// paging is stable when posts share a timestamp.
type Repository interface {
	Create(ctx context.Context, post domain.Post) error
	FindByID(ctx context.Context, id string) (domain.Post, error)
	Exists(ctx context.Context, id string) (bool, error)

	CountAll(ctx context.Context) (int64, error)
	FindPage(ctx context.Context, limit, offset int) ([]domain.Post, error)

	CountByUser(ctx context.Context, userID string) (int64, error)
	FindPageByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Post, error)

	// Liked lists follow the like's timestamp, not the post's.
	CountLikedBy(ctx context.Context, userID string) (int64, error)
	FindPageLikedBy(ctx context.Context, userID string, limit, offset int) ([]domain.Post, error)
}

var ErrPostNotFound = errors.New("post not found")
