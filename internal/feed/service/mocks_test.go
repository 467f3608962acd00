package service_test

import (
	"context"
	"sort"

	likedomain "github.com/AlibekovAA/puppies-api/internal/like/domain"
	postdomain "github.com/AlibekovAA/puppies-api/internal/post/domain"
	postrepo "github.com/AlibekovAA/puppies-api/internal/post/repository"
	userdomain "github.com/AlibekovAA/puppies-api/internal/user/domain"
)

// memPosts orders the way the SQL repositories do: created_at DESC, id DESC.
type memPosts struct {
	posts []postdomain.Post
	// likedBy holds each user's liked post ids, most recent first.
	likedBy map[string][]string

	countAllFunc func(ctx context.Context) (int64, error)
	findPageFunc func(ctx context.Context, limit, offset int) ([]postdomain.Post, error)
}

func (m *memPosts) sorted(filter func(postdomain.Post) bool) []postdomain.Post {
	out := make([]postdomain.Post, 0, len(m.posts))
	for _, p := range m.posts {
		if filter == nil || filter(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func slice[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (m *memPosts) FindByID(ctx context.Context, id string) (postdomain.Post, error) {
	for _, p := range m.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return postdomain.Post{}, postrepo.ErrPostNotFound
}

func (m *memPosts) CountAll(ctx context.Context) (int64, error) {
	if m.countAllFunc != nil {
		return m.countAllFunc(ctx)
	}
	return int64(len(m.posts)), nil
}

func (m *memPosts) FindPage(ctx context.Context, limit, offset int) ([]postdomain.Post, error) {
	if m.findPageFunc != nil {
		return m.findPageFunc(ctx, limit, offset)
	}
	return slice(m.sorted(nil), limit, offset), nil
}

func (m *memPosts) CountByUser(ctx context.Context, userID string) (int64, error) {
	return int64(len(m.sorted(func(p postdomain.Post) bool { return p.UserID == userID }))), nil
}

func (m *memPosts) FindPageByUser(ctx context.Context, userID string, limit, offset int) ([]postdomain.Post, error) {
	return slice(m.sorted(func(p postdomain.Post) bool { return p.UserID == userID }), limit, offset), nil
}

func (m *memPosts) CountLikedBy(ctx context.Context, userID string) (int64, error) {
	return int64(len(m.likedBy[userID])), nil
}

func (m *memPosts) FindPageLikedBy(ctx context.Context, userID string, limit, offset int) ([]postdomain.Post, error) {
	var out []postdomain.Post
	for _, id := range slice(m.likedBy[userID], limit, offset) {
		p, err := m.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

type mockAuthors struct {
	users []userdomain.User
	calls int
}

func (m *mockAuthors) FindByIDs(ctx context.Context, ids []string) ([]userdomain.User, error) {
	m.calls++
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var out []userdomain.User
	for _, u := range m.users {
		if _, ok := wanted[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type mockLikes struct {
	likes             []likedomain.Like
	calls             int
	findByPostIDsFunc func(ctx context.Context, postIDs []string) ([]likedomain.Like, error)
}

func (m *mockLikes) FindByPostIDs(ctx context.Context, postIDs []string) ([]likedomain.Like, error) {
	m.calls++
	if m.findByPostIDsFunc != nil {
		return m.findByPostIDsFunc(ctx, postIDs)
	}
	wanted := make(map[string]struct{}, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = struct{}{}
	}
	var out []likedomain.Like
	for _, l := range m.likes {
		if _, ok := wanted[l.PostID]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}
