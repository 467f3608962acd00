package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlibekovAA/puppies-api/internal/common/clock"
	commonerrors "github.com/AlibekovAA/puppies-api/internal/common/errors"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/session/service"
	"github.com/AlibekovAA/puppies-api/internal/session/store"
	userdomain "github.com/AlibekovAA/puppies-api/internal/user/domain"
)

func setupAuthService(t *testing.T) (*service.AuthService, *mockUsers, *mockHasher, *store.OpaqueStore) {
	_ = t
	users := &mockUsers{}
	hasher := &mockHasher{}
	log, _ := logger.New("", "test", "info")
	sessions := store.NewOpaqueStore(clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)), log)

	users.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		if email != "a@x.com" {
			return userdomain.User{}, errors.New("unexpected email " + email)
		}
		return userdomain.User{ID: "user-1", Email: email, Name: "Alice", PasswordHash: "hashed_pw"}, nil
	}

	return service.NewAuthService(users, hasher, sessions, nil, log), users, hasher, sessions
}

func TestAuthService_Login_RetiresPreviousToken(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, "a@x.com", "pw")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := svc.Login(ctx, "a@x.com", "pw")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first.Credential.Value == second.Credential.Value {
		t.Fatal("expected distinct tokens")
	}
	if _, ok := svc.GetUserIDFromToken(ctx, first.Credential.Value); ok {
		t.Error("expected first token to be retired")
	}
	userID, ok := svc.GetUserIDFromToken(ctx, second.Credential.Value)
	if !ok || userID != "user-1" {
		t.Errorf("expected second token to resolve to user-1, got %q, %v", userID, ok)
	}
	if second.User.Name != "Alice" {
		t.Errorf("expected user name Alice, got %q", second.User.Name)
	}
}

func TestAuthService_Login_NormalizesEmail(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	result, err := svc.Login(context.Background(), "  A@X.COM ", "pw")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.User.ID != "user-1" {
		t.Errorf("expected user-1, got %q", result.User.ID)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, users, _, sessions := setupAuthService(t)

	users.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		if email == "a@x.com" {
			return userdomain.User{ID: "user-1", Email: email, PasswordHash: "hashed_pw"}, nil
		}
		return userdomain.User{}, errors.New("should not be reached")
	}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "a@x.com", "nope"},
		{"blank email", "  ", "pw"},
		{"blank password", "a@x.com", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, commonerrors.ErrAuthenticationFailed) {
				t.Errorf("expected AUTHENTICATION_FAILED, got %v", err)
			}
		})
	}

	if sessions.Len() != 0 {
		t.Errorf("expected no sessions issued, got %d", sessions.Len())
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, users, _, _ := setupAuthService(t)
	users.findByEmailFunc = nil

	_, err := svc.Login(context.Background(), "ghost@x.com", "pw")
	if !errors.Is(err, commonerrors.ErrAuthenticationFailed) {
		t.Fatalf("expected AUTHENTICATION_FAILED, got %v", err)
	}
}

func TestAuthService_Login_StorageError(t *testing.T) {
	svc, users, _, _ := setupAuthService(t)
	users.findByEmailFunc = func(ctx context.Context, email string) (userdomain.User, error) {
		return userdomain.User{}, errors.New("db down")
	}

	_, err := svc.Login(context.Background(), "a@x.com", "pw")
	if !errors.Is(err, commonerrors.ErrDatabaseError) {
		t.Fatalf("expected DATABASE_ERROR, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, _, sessions := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "a@x.com", "pw")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	svc.Logout(ctx, result.Credential.Value)
	if _, ok := svc.GetUserIDFromToken(ctx, result.Credential.Value); ok {
		t.Error("expected token to be gone after logout")
	}

	svc.Logout(ctx, result.Credential.Value)
	svc.Logout(ctx, "")
	svc.Logout(ctx, "unknown")

	if sessions.Len() != 0 {
		t.Errorf("expected no live sessions, got %d", sessions.Len())
	}
	if _, ok := svc.GetUserIDFromToken(ctx, "   "); ok {
		t.Error("expected blank token to resolve to nothing")
	}
}
