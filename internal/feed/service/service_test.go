package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/AlibekovAA/puppies-api/internal/common/clock"
	commonerrors "github.com/AlibekovAA/puppies-api/internal/common/errors"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/feed/domain"
	"github.com/AlibekovAA/puppies-api/internal/feed/service"
	likedomain "github.com/AlibekovAA/puppies-api/internal/like/domain"
	postdomain "github.com/AlibekovAA/puppies-api/internal/post/domain"
	userdomain "github.com/AlibekovAA/puppies-api/internal/user/domain"
)

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func setupFeedService(t *testing.T, posts *memPosts, authors *mockAuthors, likes *mockLikes) *service.FeedService {
	_ = t
	log, _ := logger.New("", "test", "info")
	return service.NewFeedService(posts, authors, likes, clock.NewMockClock(baseTime), nil, 100, log)
}

func threePosts() *memPosts {
	return &memPosts{
		posts: []postdomain.Post{
			{ID: "p-old", UserID: "u1", ImageURL: "https://img/1", CreatedAt: baseTime.Add(-2 * time.Hour)},
			{ID: "p-mid", UserID: "u2", ImageURL: "https://img/2", CreatedAt: baseTime.Add(-1 * time.Hour)},
			{ID: "p-new", UserID: "u1", ImageURL: "https://img/3", CreatedAt: baseTime},
		},
	}
}

func defaultAuthors() *mockAuthors {
	return &mockAuthors{users: []userdomain.User{
		{ID: "u1", Name: "Alice"},
		{ID: "u2", Name: "Bob"},
	}}
}

func ids(views []domain.PostView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFeedService_GetFeed_PagesNewestFirst(t *testing.T) {
	svc := setupFeedService(t, threePosts(), defaultAuthors(), &mockLikes{})
	ctx := context.Background()

	first, err := svc.GetFeed(ctx, &domain.PageSpec{Page: 0, Size: 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := ids(first.Content); !equalIDs(got, []string{"p-new", "p-mid"}) {
		t.Errorf("unexpected first page: %v", got)
	}
	if first.TotalElements != 3 || first.TotalPages != 2 {
		t.Errorf("unexpected metadata: total=%d pages=%d", first.TotalElements, first.TotalPages)
	}

	second, err := svc.GetFeed(ctx, &domain.PageSpec{Page: 1, Size: 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := ids(second.Content); !equalIDs(got, []string{"p-old"}) {
		t.Errorf("unexpected second page: %v", got)
	}
	if second.TotalElements != 3 || second.TotalPages != 2 || second.Page != 1 || second.Size != 2 {
		t.Errorf("unexpected metadata: %+v", second)
	}
}

func TestFeedService_GetFeed_TiesBrokenByIDDescending(t *testing.T) {
	posts := &memPosts{posts: []postdomain.Post{
		{ID: "a", UserID: "u1", CreatedAt: baseTime},
		{ID: "c", UserID: "u1", CreatedAt: baseTime},
		{ID: "b", UserID: "u1", CreatedAt: baseTime},
	}}
	svc := setupFeedService(t, posts, defaultAuthors(), &mockLikes{})

	page, err := svc.GetFeed(context.Background(), &domain.PageSpec{Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := ids(page.Content); !equalIDs(got, []string{"c", "b", "a"}) {
		t.Errorf("expected id descending on equal timestamps, got %v", got)
	}
	for i := 0; i+1 < len(page.Content); i++ {
		if page.Content[i].CreatedAt.Before(page.Content[i+1].CreatedAt) {
			t.Errorf("item %d older than item %d", i, i+1)
		}
	}
}

func TestFeedService_GetFeed_BeyondLastPage(t *testing.T) {
	posts := threePosts()
	findCalled := false
	posts.findPageFunc = func(ctx context.Context, limit, offset int) ([]postdomain.Post, error) {
		findCalled = true
		return nil, nil
	}
	svc := setupFeedService(t, posts, defaultAuthors(), &mockLikes{})

	page, err := svc.GetFeed(context.Background(), &domain.PageSpec{Page: 5, Size: 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.Content == nil || len(page.Content) != 0 {
		t.Errorf("expected empty non-nil content, got %v", page.Content)
	}
	if page.TotalElements != 3 || page.TotalPages != 2 {
		t.Errorf("unexpected metadata: %+v", page)
	}
	if findCalled {
		t.Error("expected no page query past the end")
	}
}

func TestFeedService_GetFeed_HugePageIsPastTheEnd(t *testing.T) {
	posts := threePosts()
	posts.findPageFunc = func(ctx context.Context, limit, offset int) ([]postdomain.Post, error) {
		t.Errorf("unexpected page query with offset %d", offset)
		return nil, nil
	}
	svc := setupFeedService(t, posts, defaultAuthors(), &mockLikes{})

	for _, pageIndex := range []int{math.MaxInt/2 + 1, math.MaxInt} {
		page, err := svc.GetFeed(context.Background(), &domain.PageSpec{Page: pageIndex, Size: 2})
		if err != nil {
			t.Fatalf("page %d: expected no error, got %v", pageIndex, err)
		}
		if page.Content == nil || len(page.Content) != 0 {
			t.Errorf("page %d: expected empty content, got %d posts", pageIndex, len(page.Content))
		}
		if page.TotalElements != 3 || page.TotalPages != 2 {
			t.Errorf("page %d: unexpected metadata: %+v", pageIndex, page)
		}
	}
}

func TestFeedService_GetFeed_Empty(t *testing.T) {
	svc := setupFeedService(t, &memPosts{}, defaultAuthors(), &mockLikes{})

	page, err := svc.GetFeed(context.Background(), &domain.PageSpec{Page: 0, Size: 20})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.Content == nil || len(page.Content) != 0 || page.TotalElements != 0 || page.TotalPages != 0 {
		t.Errorf("unexpected empty page: %+v", page)
	}
}

func TestFeedService_GetFeed_InvalidPageSpec(t *testing.T) {
	svc := setupFeedService(t, threePosts(), defaultAuthors(), &mockLikes{})

	cases := []struct {
		name string
		spec *domain.PageSpec
	}{
		{"nil spec", nil},
		{"negative page", &domain.PageSpec{Page: -1, Size: 10}},
		{"zero size", &domain.PageSpec{Page: 0, Size: 0}},
		{"size above max", &domain.PageSpec{Page: 0, Size: 101}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GetFeed(context.Background(), tc.spec)
			if !errors.Is(err, commonerrors.ErrInvalidArgument) {
				t.Errorf("expected INVALID_ARGUMENT, got %v", err)
			}
		})
	}
}

func TestFeedService_AttachesCountsWithOneBatchedQuery(t *testing.T) {
	likes := &mockLikes{likes: []likedomain.Like{
		{ID: "l1", UserID: "u1", PostID: "p-new"},
		{ID: "l2", UserID: "u2", PostID: "p-new"},
		{ID: "l3", UserID: "u2", PostID: "p-old"},
	}}
	authors := defaultAuthors()
	svc := setupFeedService(t, threePosts(), authors, likes)

	page, err := svc.GetFeed(context.Background(), &domain.PageSpec{Page: 0, Size: 3})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := map[string]int64{"p-new": 2, "p-mid": 0, "p-old": 1}
	for _, v := range page.Content {
		if v.LikeCount != want[v.ID] {
			t.Errorf("post %s: expected %d likes, got %d", v.ID, want[v.ID], v.LikeCount)
		}
	}
	if likes.calls != 1 {
		t.Errorf("expected one like query per page, got %d", likes.calls)
	}
	if authors.calls != 1 {
		t.Errorf("expected one author query per page, got %d", authors.calls)
	}
	if page.Content[0].AuthorName != "Alice" || page.Content[1].AuthorName != "Bob" {
		t.Errorf("unexpected author names: %q, %q", page.Content[0].AuthorName, page.Content[1].AuthorName)
	}
}

func TestFeedService_GetUserPosts(t *testing.T) {
	svc := setupFeedService(t, threePosts(), defaultAuthors(), &mockLikes{})
	ctx := context.Background()

	page, err := svc.GetUserPosts(ctx, "u1", &domain.PageSpec{Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := ids(page.Content); !equalIDs(got, []string{"p-new", "p-old"}) {
		t.Errorf("unexpected user posts: %v", got)
	}
	if page.TotalElements != 2 || page.TotalPages != 1 {
		t.Errorf("unexpected metadata: %+v", page)
	}

	page, err = svc.GetUserPosts(ctx, "nobody", &domain.PageSpec{Page: 0, Size: 10})
	if err != nil || len(page.Content) != 0 || page.TotalElements != 0 {
		t.Errorf("expected empty page for unknown user, got %+v (%v)", page, err)
	}

	if _, err := svc.GetUserPosts(ctx, " ", &domain.PageSpec{Page: 0, Size: 10}); !errors.Is(err, commonerrors.ErrInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT for blank user, got %v", err)
	}
}

func TestFeedService_GetLikedPosts_OrderedByLikeRecency(t *testing.T) {
	posts := threePosts()
	// u2 liked p-new first and p-old most recently.
	posts.likedBy = map[string][]string{"u2": {"p-old", "p-new"}}
	svc := setupFeedService(t, posts, defaultAuthors(), &mockLikes{})

	page, err := svc.GetLikedPosts(context.Background(), "u2", &domain.PageSpec{Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := ids(page.Content); !equalIDs(got, []string{"p-old", "p-new"}) {
		t.Errorf("expected like recency order, got %v", got)
	}
}

func TestFeedService_GetPost(t *testing.T) {
	likes := &mockLikes{likes: []likedomain.Like{{ID: "l1", UserID: "u2", PostID: "p-mid"}}}
	svc := setupFeedService(t, threePosts(), defaultAuthors(), likes)
	ctx := context.Background()

	view, err := svc.GetPost(ctx, "p-mid")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if view.AuthorName != "Bob" || view.LikeCount != 1 {
		t.Errorf("unexpected view: %+v", view)
	}

	_, err = svc.GetPost(ctx, "missing")
	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok || domainErr.Code() != commonerrors.ErrNotFound.Code() || domainErr.Details()["entity"] != "post" {
		t.Errorf("expected post NOT_FOUND, got %v", err)
	}
}

func TestFeedService_StorageFailure(t *testing.T) {
	posts := threePosts()
	posts.countAllFunc = func(ctx context.Context) (int64, error) {
		return 0, errors.New("db down")
	}
	svc := setupFeedService(t, posts, defaultAuthors(), &mockLikes{})

	_, err := svc.GetFeed(context.Background(), &domain.PageSpec{Page: 0, Size: 2})
	if !errors.Is(err, commonerrors.ErrDatabaseError) {
		t.Errorf("expected DATABASE_ERROR, got %v", err)
	}
}

func TestCountByPost(t *testing.T) {
	counts := service.CountByPost([]likedomain.Like{
		{PostID: "a"}, {PostID: "b"}, {PostID: "a"},
	})
	if counts["a"] != 2 || counts["b"] != 1 || counts["c"] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
