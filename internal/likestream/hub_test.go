package likestream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/like/domain"
)

func newTestClient(hub *Hub, userID string, buf int) *Client {
	return &Client{
		hub:    hub,
		userID: userID,
		send:   make(chan []byte, buf),
		ctx:    context.Background(),
		log:    hub.log,
	}
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	log, _ := logger.New("", "test", "info")
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})
	return hub, cancel
}

func waitForClients(t *testing.T, hub *Hub, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_FansOutToEveryClient(t *testing.T) {
	hub, _ := startHub(t)

	a := newTestClient(hub, "user-a", 4)
	b := newTestClient(hub, "user-b", 4)
	hub.Register(a)
	hub.Register(b)
	waitForClients(t, hub, 2)

	hub.Publish(domain.Event{PostID: "post-1", UserID: "user-c", Liked: true, LikeCount: 3})

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.send:
			var msg Message
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if msg.Type != TypeLikeToggled || msg.Payload.PostID != "post-1" || msg.Payload.LikeCount != 3 {
				t.Errorf("unexpected message for %s: %+v", c.userID, msg)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("client %s received nothing", c.userID)
		}
	}
}

func TestHub_DisconnectsSlowClient(t *testing.T) {
	hub, _ := startHub(t)

	slow := newTestClient(hub, "slow", 1)
	hub.Register(slow)
	waitForClients(t, hub, 1)

	hub.Publish(domain.Event{PostID: "post-1"})
	hub.Publish(domain.Event{PostID: "post-2"})

	waitForClients(t, hub, 0)

	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Error("expected send channel to be closed after disconnect")
	}
}

func TestHub_ShutdownReleasesClients(t *testing.T) {
	hub, cancel := startHub(t)

	c := newTestClient(hub, "user-a", 1)
	hub.Register(c)
	waitForClients(t, hub, 1)

	cancel()
	select {
	case <-hub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	if _, ok := <-c.send; ok {
		t.Error("expected client to be released on shutdown")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("expected no clients, have %d", hub.ClientCount())
	}

	hub.Publish(domain.Event{PostID: "after-stop"})

	late := newTestClient(hub, "late", 1)
	hub.Register(late)
	if _, ok := <-late.send; ok {
		t.Error("expected late client to be refused")
	}
}
