package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AlibekovAA/puppies-api/internal/common/constants"
	commonerrors "github.com/AlibekovAA/puppies-api/internal/common/errors"
	commonhttp "github.com/AlibekovAA/puppies-api/internal/common/http"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/feed/domain"
	"github.com/AlibekovAA/puppies-api/internal/feed/service"
)

type Handler struct {
	feed    *service.FeedService
	errors  *commonhttp.ErrorHandler
	timeout time.Duration
	log     *logger.Logger
}

func NewHandler(feed *service.FeedService, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		feed:    feed,
		errors:  commonhttp.NewErrorHandler(log),
		timeout: timeout,
		log:     log,
	}
}

func (h *Handler) Register(mux *http.ServeMux, requireSession func(http.Handler) http.Handler) {
	withTimeout := commonhttp.WithTimeout(h.timeout)
	mux.Handle("GET /api/posts/feed", requireSession(withTimeout(h.getFeed)))
	mux.Handle("GET /api/posts/{id}", requireSession(withTimeout(h.getPost)))
	mux.Handle("GET /api/users/{id}/posts", requireSession(withTimeout(h.getUserPosts)))
	mux.Handle("GET /api/users/{id}/likes", requireSession(withTimeout(h.getLikedPosts)))
}

func (h *Handler) getFeed(w http.ResponseWriter, r *http.Request) {
	spec, err := pageSpecFromQuery(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	page, err := h.feed.GetFeed(r.Context(), &spec)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	postID, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	view, err := h.feed.GetPost(r.Context(), postID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) getUserPosts(w http.ResponseWriter, r *http.Request) {
	userID, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	spec, err := pageSpecFromQuery(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	page, err := h.feed.GetUserPosts(r.Context(), userID, &spec)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) getLikedPosts(w http.ResponseWriter, r *http.Request) {
	userID, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	spec, err := pageSpecFromQuery(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	page, err := h.feed.GetLikedPosts(r.Context(), userID, &spec)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, page)
}

// pageSpecFromQuery reads ?page= and ?size=, defaulting to the first page.
// Range checks belong to the feed service.
func pageSpecFromQuery(r *http.Request) (domain.PageSpec, error) {
	spec := domain.PageSpec{Page: 0, Size: constants.DefaultPageSize}
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return domain.PageSpec{}, commonerrors.InvalidArgument("page", "must be an integer")
		}
		spec.Page = page
	}
	if raw := strings.TrimSpace(q.Get("size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return domain.PageSpec{}, commonerrors.InvalidArgument("size", "must be an integer")
		}
		spec.Size = size
	}
	return spec, nil
}
