package http

import (
	"net/http"
	"time"

	commonerrors "github.com/AlibekovAA/puppies-api/internal/common/errors"
	commonhttp "github.com/AlibekovAA/puppies-api/internal/common/http"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/like/service"
	sessionhttp "github.com/AlibekovAA/puppies-api/internal/session/http"
)

type toggleResponse struct {
	PostID    string `json:"post_id"`
	Liked     bool   `json:"liked"`
	LikeCount int64  `json:"like_count"`
}

type countResponse struct {
	PostID    string `json:"post_id"`
	LikeCount int64  `json:"like_count"`
}

type Handler struct {
	likes   *service.LikeService
	errors  *commonhttp.ErrorHandler
	timeout time.Duration
	log     *logger.Logger
}

func NewHandler(likes *service.LikeService, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		likes:   likes,
		errors:  commonhttp.NewErrorHandler(log),
		timeout: timeout,
		log:     log,
	}
}

func (h *Handler) Register(mux *http.ServeMux, requireSession func(http.Handler) http.Handler) {
	withTimeout := commonhttp.WithTimeout(h.timeout)
	mux.Handle("POST /api/posts/{id}/likes", requireSession(withTimeout(h.toggle)))
	mux.Handle("GET /api/posts/{id}/likes", requireSession(withTimeout(h.count)))
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionhttp.UserIDFromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, commonerrors.ErrInvalidToken)
		return
	}

	postID, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	liked, err := h.likes.ToggleLike(r.Context(), userID, postID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	count, err := h.likes.GetLikeCount(r.Context(), postID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	status := http.StatusOK
	if liked {
		status = http.StatusCreated
	}
	commonhttp.WriteJSON(w, status, toggleResponse{PostID: postID, Liked: liked, LikeCount: count})
}

func (h *Handler) count(w http.ResponseWriter, r *http.Request) {
	postID, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	count, err := h.likes.GetLikeCount(r.Context(), postID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, countResponse{PostID: postID, LikeCount: count})
}
