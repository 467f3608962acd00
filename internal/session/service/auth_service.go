package service

import (
	"context"
	"errors"
	"strings"

	commoncrypto "github.com/AlibekovAA/puppies-api/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/puppies-api/internal/common/errors"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/common/resilience"
	"github.com/AlibekovAA/puppies-api/internal/observability/metrics"
	"github.com/AlibekovAA/puppies-api/internal/session/domain"
	"github.com/AlibekovAA/puppies-api/internal/session/store"
	userdomain "github.com/AlibekovAA/puppies-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/puppies-api/internal/user/repository"
)

// CredentialLookup finds the account a login names.
type CredentialLookup interface {
	FindByEmail(ctx context.Context, email string) (userdomain.User, error)
}

type LoginResult struct {
	Credential domain.Credential
	User       userdomain.User
}

type AuthService struct {
	users   CredentialLookup
	hasher  commoncrypto.PasswordHasher
	store   store.Store
	breaker resilience.Breaker
	log     *logger.Logger
}

func NewAuthService(
	users CredentialLookup,
	hasher commoncrypto.PasswordHasher,
	sessions store.Store,
	breaker resilience.Breaker,
	log *logger.Logger,
) *AuthService {
	if breaker == nil {
		breaker = resilience.Passthrough{}
	}
	return &AuthService{
		users:   users,
		hasher:  hasher,
		store:   sessions,
		breaker: breaker,
		log:     log,
	}
}

// Login verifies the password for the normalized email and issues a new
// session, retiring any session the user already had. Unknown email and
// wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	normalized := userdomain.NormalizeEmail(email)

	s.log.WithFields(ctx, logger.Fields{
		"email":  normalized,
		"action": "login_attempt",
	}).Debug("login attempt")

	if normalized == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return LoginResult{}, commonerrors.AuthenticationFailed()
	}

	var user userdomain.User
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var findErr error
		user, findErr = s.users.FindByEmail(ctx, normalized)
		return findErr
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("unknown_user").Inc()
			s.log.WithFields(ctx, logger.Fields{
				"email":  normalized,
				"action": "login_user_not_found",
			}).Warn("login failed: user not found")
			return LoginResult{}, commonerrors.AuthenticationFailed()
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  normalized,
			"action": "login_lookup_failed",
		}).Errorf("login failed: %v", err)
		return LoginResult{}, commonerrors.FromStorage(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("bad_password").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": user.ID,
			"action":  "login_password_mismatch",
		}).Warn("login failed: password mismatch")
		return LoginResult{}, commonerrors.AuthenticationFailed()
	}

	cred, err := s.store.Issue(ctx, user.ID)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": user.ID,
			"action":  "login_issue_failed",
		}).Errorf("login failed: issue session: %v", err)
		return LoginResult{}, commonerrors.Internal(err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":      user.ID,
		"session_kind": string(cred.Kind),
		"action":       "login_success",
	}).Info("login successful")

	return LoginResult{Credential: cred, User: user}, nil
}

func (s *AuthService) GetUserIDFromToken(ctx context.Context, token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return s.store.Resolve(ctx, token)
}

// Logout is a no-op for blank or unknown tokens.
func (s *AuthService) Logout(ctx context.Context, token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	s.store.Revoke(ctx, token)
}
