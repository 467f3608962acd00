package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/AlibekovAA/puppies-api/internal/common/clock"
	"github.com/AlibekovAA/puppies-api/internal/common/constants"
	commonerrors "github.com/AlibekovAA/puppies-api/internal/common/errors"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/common/resilience"
	"github.com/AlibekovAA/puppies-api/internal/feed/domain"
	likedomain "github.com/AlibekovAA/puppies-api/internal/like/domain"
	"github.com/AlibekovAA/puppies-api/internal/observability/metrics"
	postdomain "github.com/AlibekovAA/puppies-api/internal/post/domain"
	postrepo "github.com/AlibekovAA/puppies-api/internal/post/repository"
	userdomain "github.com/AlibekovAA/puppies-api/internal/user/domain"
)

type PostReader interface {
	FindByID(ctx context.Context, id string) (postdomain.Post, error)
	CountAll(ctx context.Context) (int64, error)
	FindPage(ctx context.Context, limit, offset int) ([]postdomain.Post, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	FindPageByUser(ctx context.Context, userID string, limit, offset int) ([]postdomain.Post, error)
	CountLikedBy(ctx context.Context, userID string) (int64, error)
	FindPageLikedBy(ctx context.Context, userID string, limit, offset int) ([]postdomain.Post, error)
}

type AuthorReader interface {
	FindByIDs(ctx context.Context, ids []string) ([]userdomain.User, error)
}

type LikeReader interface {
	FindByPostIDs(ctx context.Context, postIDs []string) ([]likedomain.Like, error)
}

const (
	viewFeed   = "feed"
	viewUser   = "user_posts"
	viewLiked  = "liked_posts"
	viewSingle = "post"
)

// FeedService assembles paginated post views. Each page costs a fixed
// number of queries: the total, the page itself, one batch of authors and
// one batch of likes.
type FeedService struct {
	posts       PostReader
	authors     AuthorReader
	likes       LikeReader
	clock       clock.Clock
	breaker     resilience.Breaker
	maxPageSize int
	log         *logger.Logger
}

func NewFeedService(
	posts PostReader,
	authors AuthorReader,
	likes LikeReader,
	clk clock.Clock,
	breaker resilience.Breaker,
	maxPageSize int,
	log *logger.Logger,
) *FeedService {
	if breaker == nil {
		breaker = resilience.Passthrough{}
	}
	if maxPageSize < 1 {
		maxPageSize = constants.MaxPageSize
	}
	return &FeedService{
		posts:       posts,
		authors:     authors,
		likes:       likes,
		clock:       clk,
		breaker:     breaker,
		maxPageSize: maxPageSize,
		log:         log,
	}
}

// GetFeed lists every post, newest first.
func (s *FeedService) GetFeed(ctx context.Context, spec *domain.PageSpec) (domain.Page[domain.PostView], error) {
	return s.page(ctx, viewFeed, spec,
		s.posts.CountAll,
		func(ctx context.Context, limit, offset int) ([]postdomain.Post, error) {
			return s.posts.FindPage(ctx, limit, offset)
		},
	)
}

// GetUserPosts lists the posts authored by userID, newest first. An unknown
// user has an empty page.
func (s *FeedService) GetUserPosts(ctx context.Context, userID string, spec *domain.PageSpec) (domain.Page[domain.PostView], error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Page[domain.PostView]{}, commonerrors.InvalidArgument("user_id", "is required")
	}
	return s.page(ctx, viewUser, spec,
		func(ctx context.Context) (int64, error) {
			return s.posts.CountByUser(ctx, userID)
		},
		func(ctx context.Context, limit, offset int) ([]postdomain.Post, error) {
			return s.posts.FindPageByUser(ctx, userID, limit, offset)
		},
	)
}

// GetLikedPosts lists the posts userID likes, most recently liked first.
func (s *FeedService) GetLikedPosts(ctx context.Context, userID string, spec *domain.PageSpec) (domain.Page[domain.PostView], error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Page[domain.PostView]{}, commonerrors.InvalidArgument("user_id", "is required")
	}
	return s.page(ctx, viewLiked, spec,
		func(ctx context.Context) (int64, error) {
			return s.posts.CountLikedBy(ctx, userID)
		},
		func(ctx context.Context, limit, offset int) ([]postdomain.Post, error) {
			return s.posts.FindPageLikedBy(ctx, userID, limit, offset)
		},
	)
}

func (s *FeedService) GetPost(ctx context.Context, postID string) (domain.PostView, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return domain.PostView{}, commonerrors.InvalidArgument("post_id", "is required")
	}

	start := s.clock.Now()
	defer func() {
		metrics.FeedPageDurationSeconds.WithLabelValues(viewSingle).Observe(s.clock.Since(start).Seconds())
	}()

	var post postdomain.Post
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var findErr error
		post, findErr = s.posts.FindByID(ctx, postID)
		return findErr
	})
	if err != nil {
		if errors.Is(err, postrepo.ErrPostNotFound) {
			return domain.PostView{}, commonerrors.NotFound("post", postID)
		}
		s.logFailure(ctx, viewSingle, err)
		return domain.PostView{}, commonerrors.FromStorage(err)
	}

	views, err := s.assemble(ctx, []postdomain.Post{post})
	if err != nil {
		s.logFailure(ctx, viewSingle, err)
		return domain.PostView{}, commonerrors.FromStorage(err)
	}
	return views[0], nil
}

func (s *FeedService) page(
	ctx context.Context,
	view string,
	spec *domain.PageSpec,
	count func(ctx context.Context) (int64, error),
	find func(ctx context.Context, limit, offset int) ([]postdomain.Post, error),
) (domain.Page[domain.PostView], error) {
	if err := s.validateSpec(spec); err != nil {
		return domain.Page[domain.PostView]{}, err
	}

	start := s.clock.Now()
	defer func() {
		metrics.FeedPageDurationSeconds.WithLabelValues(view).Observe(s.clock.Since(start).Seconds())
	}()

	var total int64
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var countErr error
		total, countErr = count(ctx)
		return countErr
	})
	if err != nil {
		s.logFailure(ctx, view, err)
		return domain.Page[domain.PostView]{}, commonerrors.FromStorage(err)
	}

	// Past the end there is nothing to fetch.
	if spec.PastEnd(total) {
		metrics.FeedPageSize.WithLabelValues(view).Observe(0)
		return domain.NewPage[domain.PostView](nil, *spec, total), nil
	}

	var posts []postdomain.Post
	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		var findErr error
		posts, findErr = find(ctx, spec.Size, spec.Offset())
		return findErr
	})
	if err != nil {
		s.logFailure(ctx, view, err)
		return domain.Page[domain.PostView]{}, commonerrors.FromStorage(err)
	}

	views, err := s.assemble(ctx, posts)
	if err != nil {
		s.logFailure(ctx, view, err)
		return domain.Page[domain.PostView]{}, commonerrors.FromStorage(err)
	}

	metrics.FeedPageSize.WithLabelValues(view).Observe(float64(len(views)))
	if s.log.ShouldLog(logger.DEBUG) {
		s.log.WithFields(ctx, logger.Fields{
			"view":     view,
			"page":     spec.Page,
			"size":     spec.Size,
			"returned": len(views),
			"total":    total,
			"action":   "feed_page_assembled",
		}).Debug("feed page assembled")
	}
	return domain.NewPage(views, *spec, total), nil
}

func (s *FeedService) validateSpec(spec *domain.PageSpec) error {
	if spec == nil {
		return commonerrors.InvalidArgument("page_spec", "is required")
	}
	if spec.Page < 0 {
		return commonerrors.InvalidArgument("page", "must be zero or greater")
	}
	if spec.Size < 1 {
		return commonerrors.InvalidArgument("size", "must be at least 1")
	}
	if spec.Size > s.maxPageSize {
		return commonerrors.InvalidArgument("size", "must be at most "+strconv.Itoa(s.maxPageSize))
	}
	return nil
}

// assemble attaches author names and like counts to posts with one batched
// lookup each, keeping the input order.
func (s *FeedService) assemble(ctx context.Context, posts []postdomain.Post) ([]domain.PostView, error) {
	if len(posts) == 0 {
		return []domain.PostView{}, nil
	}

	postIDs := make([]string, 0, len(posts))
	authorIDs := make([]string, 0, len(posts))
	seenAuthors := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if _, ok := seenAuthors[p.UserID]; !ok {
			seenAuthors[p.UserID] = struct{}{}
			authorIDs = append(authorIDs, p.UserID)
		}
	}

	var authors []userdomain.User
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var findErr error
		authors, findErr = s.authors.FindByIDs(ctx, authorIDs)
		return findErr
	})
	if err != nil {
		return nil, err
	}

	var likes []likedomain.Like
	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		var findErr error
		likes, findErr = s.likes.FindByPostIDs(ctx, postIDs)
		return findErr
	})
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(authors))
	for _, u := range authors {
		names[u.ID] = u.Name
	}
	counts := CountByPost(likes)

	views := make([]domain.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, domain.PostView{
			ID:          p.ID,
			UserID:      p.UserID,
			AuthorName:  names[p.UserID],
			ImageURL:    p.ImageURL,
			TextContent: p.TextContent,
			LikeCount:   counts[p.ID],
			CreatedAt:   p.CreatedAt,
		})
	}
	return views, nil
}

// CountByPost groups likes by post id. Posts without likes are absent and
// read as zero.
func CountByPost(likes []likedomain.Like) map[string]int64 {
	counts := make(map[string]int64, len(likes))
	for _, l := range likes {
		counts[l.PostID]++
	}
	return counts
}

func (s *FeedService) logFailure(ctx context.Context, view string, err error) {
	s.log.WithFields(ctx, logger.Fields{
		"view":   view,
		"action": "feed_assembly_failed",
	}).Errorf("feed assembly failed: %v", err)
}
