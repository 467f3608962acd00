package likestream

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/AlibekovAA/puppies-api/internal/common/constants"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/like/domain"
	"github.com/AlibekovAA/puppies-api/internal/observability/metrics"
)

const broadcastBufSize = 256

// Message is the frame written to subscribers.
type Message struct {
	Type    string       `json:"type"`
	Payload domain.Event `json:"payload"`
}

const TypeLikeToggled = "like_toggled"

// Hub fans like events out to every connected subscriber. A subscriber
// that cannot keep up is disconnected instead of slowing the others.
type Hub struct {
	clients     map[*Client]struct{}
	mu          sync.RWMutex
	register    chan *Client
	unregister  chan *Client
	broadcast   chan []byte
	clientCount atomic.Int64
	sendBufSize int
	done        chan struct{}
	log         *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]struct{}),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan []byte, broadcastBufSize),
		sendBufSize: constants.LikeStreamSendBufSize,
		done:        make(chan struct{}),
		log:         log,
	}
}

// Publish never blocks the caller. When the broadcast queue is full the
// event is dropped.
func (h *Hub) Publish(event domain.Event) {
	payload, err := json.Marshal(Message{Type: TypeLikeToggled, Payload: event})
	if err != nil {
		h.log.WithFields(context.Background(), logger.Fields{
			"post_id": event.PostID,
			"action":  "like_stream_marshal_failed",
		}).Errorf("like stream marshal failed: %v", err)
		return
	}

	select {
	case <-h.done:
		return
	default:
	}

	select {
	case h.broadcast <- payload:
	default:
		metrics.LikeStreamDropped.WithLabelValues("hub_busy").Inc()
		h.log.WithFields(context.Background(), logger.Fields{
			"post_id": event.PostID,
			"action":  "like_stream_event_dropped",
		}).Warn("like stream event dropped: broadcast queue full")
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int64 {
	return h.clientCount.Load()
}

// Done is closed once Run has returned and every client was released.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			total := h.clientCount.Add(1)
			metrics.LikeStreamConnectionsActive.Inc()
			h.log.WithFields(client.ctx, logger.Fields{
				"user_id": client.userID,
				"total":   total,
				"action":  "like_stream_register",
			}).Info("like stream client registered")

		case client := <-h.unregister:
			h.remove(client, "closed")

		case payload := <-h.broadcast:
			h.fanOut(payload)
		}
	}
}

func (h *Hub) fanOut(payload []byte) {
	metrics.LikeStreamEventsTotal.Inc()

	h.mu.RLock()
	slow := make([]*Client, 0)
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		metrics.LikeStreamDropped.WithLabelValues("slow_client").Inc()
		h.log.WithFields(client.ctx, logger.Fields{
			"user_id": client.userID,
			"action":  "like_stream_slow_client",
		}).Warn("like stream client too slow, disconnecting")
		h.remove(client, "slow_client")
	}
}

func (h *Hub) remove(client *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	close(client.send)
	total := h.clientCount.Add(-1)
	metrics.LikeStreamConnectionsActive.Dec()
	metrics.LikeStreamDisconnections.WithLabelValues(reason).Inc()
	h.log.WithFields(client.ctx, logger.Fields{
		"user_id": client.userID,
		"reason":  reason,
		"total":   total,
		"action":  "like_stream_unregister",
	}).Info("like stream client unregistered")
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		h.remove(client, "shutdown")
	}

	h.log.WithFields(ctx, logger.Fields{
		"clients": len(clients),
		"action":  "like_stream_hub_shutdown",
	}).Info("like stream hub shutdown completed")
}
