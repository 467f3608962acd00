package http

import (
	"net/http"
	"time"

	commonerrors "github.com/AlibekovAA/puppies-api/internal/common/errors"
	commonhttp "github.com/AlibekovAA/puppies-api/internal/common/http"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/post/domain"
	"github.com/AlibekovAA/puppies-api/internal/post/service"
	sessionhttp "github.com/AlibekovAA/puppies-api/internal/session/http"
)

type createPostRequest struct {
	ImageURL    string `json:"image_url" validate:"required,url,max=2048"`
	TextContent string `json:"text_content" validate:"max=4000"`
}

type postResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ImageURL    string    `json:"image_url"`
	TextContent string    `json:"text_content,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Handler struct {
	posts   *service.PostService
	errors  *commonhttp.ErrorHandler
	timeout time.Duration
	log     *logger.Logger
}

func NewHandler(posts *service.PostService, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		posts:   posts,
		errors:  commonhttp.NewErrorHandler(log),
		timeout: timeout,
		log:     log,
	}
}

func (h *Handler) Register(mux *http.ServeMux, requireSession func(http.Handler) http.Handler) {
	withTimeout := commonhttp.WithTimeout(h.timeout)
	mux.Handle("POST /api/posts", requireSession(withTimeout(h.create)))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionhttp.UserIDFromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, commonerrors.ErrInvalidToken)
		return
	}

	var req createPostRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"user_id": userID,
			"action":  "create_post_invalid_json",
		}).Warnf("create post failed: invalid json: %v", err)
		commonhttp.WriteInvalidJSON(w, r, err)
		return
	}
	if err := commonhttp.ValidateRequest(req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	post, err := h.posts.CreatePost(r.Context(), service.CreatePostInput{
		UserID:      userID,
		ImageURL:    req.ImageURL,
		TextContent: req.TextContent,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toPostResponse(post))
}

func toPostResponse(p domain.Post) postResponse {
	return postResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		ImageURL:    p.ImageURL,
		TextContent: p.TextContent,
		CreatedAt:   p.CreatedAt,
	}
}
