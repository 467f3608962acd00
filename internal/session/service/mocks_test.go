package service_test

import (
	"context"

	commoncrypto "github.com/AlibekovAA/puppies-api/internal/common/crypto"
	userdomain "github.com/AlibekovAA/puppies-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/puppies-api/internal/user/repository"
)

type mockUsers struct {
	findByEmailFunc func(ctx context.Context, email string) (userdomain.User, error)
}

func (m *mockUsers) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed_"+password {
		return commoncrypto.ErrMismatchedPassword
	}
	return nil
}
