package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/AlibekovAA/puppies-api/internal/common/clock"
	"github.com/AlibekovAA/puppies-api/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/puppies-api/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/puppies-api/internal/common/errors"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/common/resilience"
	"github.com/AlibekovAA/puppies-api/internal/post/domain"
	postrepo "github.com/AlibekovAA/puppies-api/internal/post/repository"
)

// UserChecker confirms an author exists before a post references it.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type CreatePostInput struct {
	UserID      string
	ImageURL    string
	TextContent string
}

type PostService struct {
	repo        postrepo.Repository
	users       UserChecker
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	breaker     resilience.Breaker
	log         *logger.Logger
}

func NewPostService(
	repo postrepo.Repository,
	users UserChecker,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	breaker resilience.Breaker,
	log *logger.Logger,
) *PostService {
	if breaker == nil {
		breaker = resilience.Passthrough{}
	}
	return &PostService{
		repo:        repo,
		users:       users,
		idGenerator: idGenerator,
		clock:       clk,
		breaker:     breaker,
		log:         log,
	}
}

func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (domain.Post, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	input.TextContent = strings.TrimSpace(input.TextContent)

	if err := validateCreatePost(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": input.UserID,
			"action":  "create_post_validation_failed",
		}).Warnf("create post validation failed: %v", err)
		return domain.Post{}, err
	}

	var exists bool
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var existsErr error
		exists, existsErr = s.users.Exists(ctx, input.UserID)
		return existsErr
	})
	if err != nil {
		return domain.Post{}, commonerrors.FromStorage(err)
	}
	if !exists {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": input.UserID,
			"action":  "create_post_author_not_found",
		}).Warn("create post failed: author not found")
		return domain.Post{}, commonerrors.NotFound("user", input.UserID)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Post{}, commonerrors.Internal(err)
	}

	post := domain.Post{
		ID:          id,
		UserID:      input.UserID,
		ImageURL:    input.ImageURL,
		TextContent: input.TextContent,
		CreatedAt:   s.clock.Now(),
	}

	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, post)
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": input.UserID,
			"action":  "create_post_failed",
		}).Errorf("create post failed: %v", err)
		return domain.Post{}, commonerrors.FromStorage(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": post.UserID,
		"post_id": post.ID,
		"action":  "post_created",
	}).Info("post created")
	return post, nil
}

func validateCreatePost(input CreatePostInput) error {
	if input.UserID == "" {
		return commonerrors.InvalidArgument("user_id", "is required")
	}
	if input.ImageURL == "" {
		return commonerrors.InvalidArgument("image_url", "is required")
	}
	if len(input.ImageURL) > constants.ImageURLMaxLength {
		return commonerrors.InvalidArgument("image_url", "is too long")
	}
	if u, err := url.Parse(input.ImageURL); err != nil || u.Scheme == "" || u.Host == "" {
		return commonerrors.InvalidArgument("image_url", "must be an absolute url")
	}
	if len(input.TextContent) > constants.TextMaxLength {
		return commonerrors.InvalidArgument("text_content", "is too long")
	}
	return nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (domain.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Post{}, commonerrors.InvalidArgument("post_id", "is required")
	}

	var post domain.Post
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var findErr error
		post, findErr = s.repo.FindByID(ctx, id)
		return findErr
	})
	if err != nil {
		if errors.Is(err, postrepo.ErrPostNotFound) {
			return domain.Post{}, commonerrors.NotFound("post", id)
		}
		s.log.WithFields(ctx, logger.Fields{
			"post_id": id,
			"action":  "get_post_failed",
		}).Errorf("get post failed: %v", err)
		return domain.Post{}, commonerrors.FromStorage(err)
	}
	return post, nil
}
