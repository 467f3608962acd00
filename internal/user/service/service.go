package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AlibekovAA/puppies-api/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/puppies-api/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/puppies-api/internal/common/errors"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/common/resilience"
	"github.com/AlibekovAA/puppies-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/puppies-api/internal/user/repository"
)

// Counter reports how many rows a user owns in another store.
type Counter interface {
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type RegisterInput struct {
	Name     string `validate:"required,min=1,max=100"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,max=72"`
}

type UserService struct {
	repo        userrepo.Repository
	posts       Counter
	likes       Counter
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	breaker     resilience.Breaker
	validate    *validator.Validate
	log         *logger.Logger
}

func NewUserService(
	repo userrepo.Repository,
	posts Counter,
	likes Counter,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	breaker resilience.Breaker,
	log *logger.Logger,
) *UserService {
	if breaker == nil {
		breaker = resilience.Passthrough{}
	}
	return &UserService{
		repo:        repo,
		posts:       posts,
		likes:       likes,
		hasher:      hasher,
		idGenerator: idGenerator,
		clock:       clk,
		breaker:     breaker,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		log:         log,
	}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = domain.NormalizeEmail(input.Email)

	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	if err := s.validateInput(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return domain.User{}, commonerrors.Internal(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		return domain.User{}, commonerrors.Internal(err)
	}

	user := domain.User{
		ID:           id,
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "register_email_exists",
			}).Warn("register failed: email already exists")
			return domain.User{}, commonerrors.AlreadyExists("user", input.Email)
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		return domain.User{}, commonerrors.FromStorage(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": user.ID,
		"action":  "user_registered",
	}).Info("user registered")
	return user, nil
}

func (s *UserService) validateInput(input RegisterInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return commonerrors.InvalidArgument(strings.ToLower(fe.Field()), "failed "+fe.Tag()+" validation")
	}
	return commonerrors.ErrInvalidArgument.WithCause(err)
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, commonerrors.InvalidArgument("user_id", "is required")
	}

	var user domain.User
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var findErr error
		user, findErr = s.repo.FindByID(ctx, id)
		return findErr
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return domain.User{}, commonerrors.NotFound("user", id)
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": id,
			"action":  "get_user_failed",
		}).Errorf("get user failed: %v", err)
		return domain.User{}, commonerrors.FromStorage(err)
	}
	return user, nil
}

// GetProfile returns the user with the number of posts they authored and
// the number of posts they like.
func (s *UserService) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}

	var postCount, likedCount int64
	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		var countErr error
		if postCount, countErr = s.posts.CountByUser(ctx, user.ID); countErr != nil {
			return countErr
		}
		likedCount, countErr = s.likes.CountByUser(ctx, user.ID)
		return countErr
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": user.ID,
			"action":  "get_profile_counts_failed",
		}).Errorf("get profile failed: %v", err)
		return domain.Profile{}, commonerrors.FromStorage(err)
	}

	return domain.Profile{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		PostCount:  postCount,
		LikedCount: likedCount,
		CreatedAt:  user.CreatedAt,
	}, nil
}
