package store

import (
	"context"

	"github.com/AlibekovAA/puppies-api/internal/session/domain"
)

// Store maps session tokens to user ids. Each user has at most one live
// token: Issue retires whatever the user held before.
type Store interface {
	Issue(ctx context.Context, userID string) (domain.Credential, error)
	Resolve(ctx context.Context, token string) (string, bool)
	Revoke(ctx context.Context, token string)
	Close() error
}
