package service

import (
	"context"
	"strings"

	"github.com/AlibekovAA/puppies-api/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/puppies-api/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/puppies-api/internal/common/errors"
	"github.com/AlibekovAA/puppies-api/internal/common/keylock"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/common/resilience"
	"github.com/AlibekovAA/puppies-api/internal/like/domain"
	likerepo "github.com/AlibekovAA/puppies-api/internal/like/repository"
	"github.com/AlibekovAA/puppies-api/internal/observability/metrics"
)

type Existence interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// EventPublisher receives every completed toggle. Publish must not block.
type EventPublisher interface {
	Publish(event domain.Event)
}

type LikeService struct {
	repo        likerepo.Repository
	users       Existence
	posts       Existence
	locks       *keylock.KeyedMutex
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	breaker     resilience.Breaker
	publisher   EventPublisher
	log         *logger.Logger
}

func NewLikeService(
	repo likerepo.Repository,
	users Existence,
	posts Existence,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	breaker resilience.Breaker,
	publisher EventPublisher,
	log *logger.Logger,
) *LikeService {
	if breaker == nil {
		breaker = resilience.Passthrough{}
	}
	return &LikeService{
		repo:        repo,
		users:       users,
		posts:       posts,
		locks:       keylock.New(),
		idGenerator: idGenerator,
		clock:       clk,
		breaker:     breaker,
		publisher:   publisher,
		log:         log,
	}
}

// ToggleLike flips the like state of the pair and returns the new state.
// Toggles of the same pair are serialized; different pairs never wait on
// each other. If the insert loses a race the unique constraint absorbs it
// and the pair is treated as already liked, so the like is removed.
func (s *LikeService) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	postID = strings.TrimSpace(postID)
	if userID == "" {
		return false, commonerrors.InvalidArgument("user_id", "is required")
	}
	if postID == "" {
		return false, commonerrors.InvalidArgument("post_id", "is required")
	}

	if err := s.requireExists(ctx, s.users, "user", userID); err != nil {
		return false, err
	}
	if err := s.requireExists(ctx, s.posts, "post", postID); err != nil {
		return false, err
	}

	liked, err := s.toggleLocked(ctx, userID, postID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"post_id": postID,
			"action":  "toggle_like_failed",
		}).Errorf("toggle like failed: %v", err)
		return false, commonerrors.FromStorage(err)
	}

	result := "unliked"
	if liked {
		result = "liked"
	}
	metrics.LikeTogglesTotal.WithLabelValues(result).Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"post_id": postID,
		"liked":   liked,
		"action":  "like_toggled",
	}).Info("like toggled")

	s.publish(ctx, userID, postID, liked)
	return liked, nil
}

func (s *LikeService) toggleLocked(ctx context.Context, userID, postID string) (bool, error) {
	unlock := s.locks.Lock(keylock.PairKey(userID, postID))
	defer unlock()

	var exists bool
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var existsErr error
		exists, existsErr = s.repo.Exists(ctx, userID, postID)
		return existsErr
	})
	if err != nil {
		return false, err
	}

	if !exists {
		id, err := s.idGenerator.NewID()
		if err != nil {
			return false, err
		}
		like := domain.Like{
			ID:        id,
			UserID:    userID,
			PostID:    postID,
			CreatedAt: s.clock.Now(),
		}

		var inserted bool
		err = s.breaker.Call(ctx, func(ctx context.Context) error {
			var insertErr error
			inserted, insertErr = s.repo.Insert(ctx, like)
			return insertErr
		})
		if err != nil {
			return false, err
		}
		if inserted {
			return true, nil
		}
		metrics.LikeToggleConflicts.Inc()
	}

	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		_, deleteErr := s.repo.Delete(ctx, userID, postID)
		return deleteErr
	})
	if err != nil {
		return false, err
	}
	return false, nil
}

func (s *LikeService) requireExists(ctx context.Context, checker Existence, entity, id string) error {
	var exists bool
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var existsErr error
		exists, existsErr = checker.Exists(ctx, id)
		return existsErr
	})
	if err != nil {
		return commonerrors.FromStorage(err)
	}
	if !exists {
		s.log.WithFields(ctx, logger.Fields{
			"entity": entity,
			"id":     id,
			"action": "toggle_like_target_not_found",
		}).Warnf("toggle like failed: %s not found", entity)
		return commonerrors.NotFound(entity, id)
	}
	return nil
}

func (s *LikeService) publish(ctx context.Context, userID, postID string, liked bool) {
	if s.publisher == nil {
		return
	}
	count, err := s.GetLikeCount(ctx, postID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"post_id": postID,
			"action":  "like_event_count_failed",
		}).Warnf("like event skipped: %v", err)
		return
	}
	s.publisher.Publish(domain.Event{
		PostID:    postID,
		UserID:    userID,
		Liked:     liked,
		LikeCount: count,
		At:        s.clock.Now(),
	})
}

// GetLikeCount is the live number of likes on the post. Unknown posts
// count zero.
func (s *LikeService) GetLikeCount(ctx context.Context, postID string) (int64, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return 0, commonerrors.InvalidArgument("post_id", "is required")
	}

	var count int64
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var countErr error
		count, countErr = s.repo.CountByPost(ctx, postID)
		return countErr
	})
	if err != nil {
		return 0, commonerrors.FromStorage(err)
	}
	return count, nil
}

func (s *LikeService) CountByUser(ctx context.Context, userID string) (int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, commonerrors.InvalidArgument("user_id", "is required")
	}

	var count int64
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var countErr error
		count, countErr = s.repo.CountByUser(ctx, userID)
		return countErr
	})
	if err != nil {
		return 0, commonerrors.FromStorage(err)
	}
	return count, nil
}
