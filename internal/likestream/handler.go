package likestream

import (
	"context"
	"net/http"
	"strings"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/AlibekovAA/puppies-api/internal/common/constants"
	commonhttp "github.com/AlibekovAA/puppies-api/internal/common/http"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	sessionhttp "github.com/AlibekovAA/puppies-api/internal/session/http"
)

type TokenResolver interface {
	GetUserIDFromToken(ctx context.Context, token string) (string, bool)
}

type Handler struct {
	hub      *Hub
	resolver TokenResolver
	upgrader gorillaWS.Upgrader
	log      *logger.Logger
}

func NewHandler(hub *Hub, resolver TokenResolver, log *logger.Logger) *Handler {
	return &Handler{
		hub:      hub,
		resolver: resolver,
		upgrader: gorillaWS.Upgrader{
			ReadBufferSize:  constants.WebSocketReadBufferSize,
			WriteBufferSize: constants.WebSocketWriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				host := r.Host
				if host == "" {
					host = r.URL.Host
				}
				return origin == "http://"+host || origin == "https://"+host
			},
		},
		log: log,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/likes", h.subscribe)
}

// subscribe accepts the session token from the Authorization header or,
// for browsers that cannot set headers on a websocket, from ?token=. The
// stream closes once that token stops resolving to the same user.
func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := sessionhttp.BearerToken(r)
	if !ok {
		token = strings.TrimSpace(r.URL.Query().Get("token"))
	}

	userID, ok := h.resolver.GetUserIDFromToken(ctx, token)
	if !ok {
		h.log.WithFields(ctx, logger.Fields{
			"action": "like_stream_unauthorized",
		}).Warn("like stream rejected: invalid token")
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", nil, commonhttp.TraceIDFromContext(ctx))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "like_stream_upgrade_failed",
		}).Errorf("like stream upgrade failed: %v", err)
		return
	}

	// The request context ends when this handler returns.
	clientCtx := context.WithValue(context.Background(), constants.TraceIDKey, commonhttp.TraceIDFromContext(ctx))
	session := func(ctx context.Context) bool {
		current, ok := h.resolver.GetUserIDFromToken(ctx, token)
		return ok && current == userID
	}
	client := NewClient(clientCtx, h.hub, conn, userID, session, h.log)
	h.hub.Register(client)
	client.Start()
}
