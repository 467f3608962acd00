package repository

import (
	"context"

	"github.com/AlibekovAA/puppies-api/internal/like/domain"
)

type Repository interface {
	// Insert adds the like unless the pair already has one. It reports
	// false, with no error, when the uniqueness constraint swallowed it.
	Insert(ctx context.Context, like domain.Like) (bool, error)
	// Delete removes the pair's like and reports whether one existed.
	Delete(ctx context.Context, userID, postID string) (bool, error)
	Exists(ctx context.Context, userID, postID string) (bool, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	// FindByPostIDs returns every like on any of the posts in one query.
	FindByPostIDs(ctx context.Context, postIDs []string) ([]domain.Like, error)
}
