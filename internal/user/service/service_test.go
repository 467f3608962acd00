package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlibekovAA/puppies-api/internal/common/clock"
	commonerrors "github.com/AlibekovAA/puppies-api/internal/common/errors"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/puppies-api/internal/user/repository"
	"github.com/AlibekovAA/puppies-api/internal/user/service"
)

func setupUserService(t *testing.T) (*service.UserService, *mockUserRepo, *mockCounter, *mockCounter, *clock.MockClock) {
	_ = t
	repo := &mockUserRepo{}
	posts := &mockCounter{}
	likes := &mockCounter{}
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	log, _ := logger.New("", "test", "info")

	svc := service.NewUserService(repo, posts, likes, &mockHasher{}, &mockIDGenerator{id: "user-1"}, mockClock, nil, log)
	return svc, repo, posts, likes, mockClock
}

func TestUserService_Register_Success(t *testing.T) {
	svc, repo, _, _, mockClock := setupUserService(t)

	var stored domain.User
	repo.createFunc = func(ctx context.Context, user domain.User) error {
		stored = user
		return nil
	}

	user, err := svc.Register(context.Background(), service.RegisterInput{
		Name:     "  Alice ",
		Email:    "  Alice@Example.COM ",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.ID != "user-1" || user.Name != "Alice" || user.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if stored.PasswordHash != "hashed_password123" {
		t.Errorf("expected hashed password to be stored, got %q", stored.PasswordHash)
	}
	if !stored.CreatedAt.Equal(mockClock.Now()) {
		t.Errorf("expected created_at from clock, got %v", stored.CreatedAt)
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc, repo, _, _, _ := setupUserService(t)

	repo.createFunc = func(ctx context.Context, user domain.User) error {
		return userrepo.ErrEmailAlreadyExists
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if !errors.Is(err, commonerrors.ErrAlreadyExists) {
		t.Fatalf("expected ALREADY_EXISTS, got %v", err)
	}
	domainErr, _ := commonerrors.AsDomainError(err)
	if domainErr.Details()["key"] != "alice@example.com" {
		t.Errorf("expected conflicting email in details, got %v", domainErr.Details())
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	svc, repo, _, _, _ := setupUserService(t)

	repo.createFunc = func(ctx context.Context, user domain.User) error {
		t.Error("create must not be called for invalid input")
		return nil
	}

	cases := []struct {
		name  string
		input service.RegisterInput
	}{
		{"missing name", service.RegisterInput{Name: " ", Email: "a@x.com", Password: "password123"}},
		{"bad email", service.RegisterInput{Name: "A", Email: "not-an-email", Password: "password123"}},
		{"short password", service.RegisterInput{Name: "A", Email: "a@x.com", Password: "short"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			if !errors.Is(err, commonerrors.ErrInvalidArgument) {
				t.Errorf("expected INVALID_ARGUMENT, got %v", err)
			}
		})
	}
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	svc, _, _, _, _ := setupUserService(t)

	_, err := svc.GetUser(context.Background(), "user-9")
	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok || domainErr.Code() != commonerrors.ErrNotFound.Code() {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if domainErr.Details()["entity"] != "user" || domainErr.Details()["id"] != "user-9" {
		t.Errorf("unexpected details: %v", domainErr.Details())
	}

	if _, err := svc.GetUser(context.Background(), ""); !errors.Is(err, commonerrors.ErrInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT for blank id, got %v", err)
	}
}

func TestUserService_GetProfile(t *testing.T) {
	svc, repo, posts, likes, _ := setupUserService(t)

	repo.findByIDFunc = func(ctx context.Context, id string) (domain.User, error) {
		return domain.User{ID: id, Name: "Alice", Email: "a@x.com"}, nil
	}
	posts.countByUserFunc = func(ctx context.Context, userID string) (int64, error) {
		return 4, nil
	}
	likes.countByUserFunc = func(ctx context.Context, userID string) (int64, error) {
		return 7, nil
	}

	profile, err := svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if profile.Name != "Alice" || profile.PostCount != 4 || profile.LikedCount != 7 {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestUserService_GetProfile_CountFailure(t *testing.T) {
	svc, repo, posts, _, _ := setupUserService(t)

	repo.findByIDFunc = func(ctx context.Context, id string) (domain.User, error) {
		return domain.User{ID: id}, nil
	}
	posts.countByUserFunc = func(ctx context.Context, userID string) (int64, error) {
		return 0, errors.New("db down")
	}

	_, err := svc.GetProfile(context.Background(), "user-1")
	if !errors.Is(err, commonerrors.ErrDatabaseError) {
		t.Fatalf("expected DATABASE_ERROR, got %v", err)
	}
}
