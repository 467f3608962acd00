package service_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlibekovAA/puppies-api/internal/like/domain"
)

type mockExistence struct {
	existsFunc func(ctx context.Context, id string) (bool, error)
}

func (m *mockExistence) Exists(ctx context.Context, id string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, id)
	}
	return true, nil
}

// memLikeRepo keeps likes in a map and enforces one like per pair the way
// the storage constraint does.
type memLikeRepo struct {
	mu    sync.Mutex
	likes map[string]domain.Like

	existsFunc func(ctx context.Context, userID, postID string) (bool, error)
	insertFunc func(ctx context.Context, like domain.Like) (bool, error)
	deleteFunc func(ctx context.Context, userID, postID string) (bool, error)

	inserts int
	deletes int
}

func newMemLikeRepo() *memLikeRepo {
	return &memLikeRepo{likes: make(map[string]domain.Like)}
}

func pairKey(userID, postID string) string {
	return userID + "|" + postID
}

func (m *memLikeRepo) Insert(ctx context.Context, like domain.Like) (bool, error) {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, like)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	key := pairKey(like.UserID, like.PostID)
	if _, ok := m.likes[key]; ok {
		return false, nil
	}
	m.likes[key] = like
	return true, nil
}

func (m *memLikeRepo) Delete(ctx context.Context, userID, postID string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, postID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	key := pairKey(userID, postID)
	_, ok := m.likes[key]
	delete(m.likes, key)
	return ok, nil
}

func (m *memLikeRepo) Exists(ctx context.Context, userID, postID string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, userID, postID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.likes[pairKey(userID, postID)]
	return ok, nil
}

func (m *memLikeRepo) CountByPost(ctx context.Context, postID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, l := range m.likes {
		if l.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (m *memLikeRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, l := range m.likes {
		if l.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memLikeRepo) FindByPostIDs(ctx context.Context, postIDs []string) ([]domain.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[string]struct{}, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = struct{}{}
	}
	var out []domain.Like
	for _, l := range m.likes {
		if _, ok := wanted[l.PostID]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLikeRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.likes)
}

type mockIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (m *mockIDGenerator) NewID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("like-%d", m.n), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(event domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Event, len(p.events))
	copy(out, p.events)
	return out
}
