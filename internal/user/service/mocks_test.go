package service_test

import (
	"context"
	"fmt"

	"github.com/AlibekovAA/puppies-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/puppies-api/internal/user/repository"
)

type mockUserRepo struct {
	createFunc      func(ctx context.Context, user domain.User) error
	findByIDFunc    func(ctx context.Context, id string) (domain.User, error)
	findByEmailFunc func(ctx context.Context, email string) (domain.User, error)
	findByIDsFunc   func(ctx context.Context, ids []string) ([]domain.User, error)
	existsFunc      func(ctx context.Context, id string) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if m.findByIDsFunc != nil {
		return m.findByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, id)
	}
	return false, nil
}

type mockCounter struct {
	countByUserFunc func(ctx context.Context, userID string) (int64, error)
}

func (m *mockCounter) CountByUser(ctx context.Context, userID string) (int64, error) {
	if m.countByUserFunc != nil {
		return m.countByUserFunc(ctx, userID)
	}
	return 0, nil
}

type mockHasher struct{}

func (m *mockHasher) Hash(password string) (string, error) {
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if hash != "hashed_"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

type mockIDGenerator struct {
	id string
}

func (m *mockIDGenerator) NewID() (string, error) {
	return m.id, nil
}
