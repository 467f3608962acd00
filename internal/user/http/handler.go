package http

import (
	"net/http"
	"time"

	commonhttp "github.com/AlibekovAA/puppies-api/internal/common/http"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/user/service"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type profileResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	PostCount  int64     `json:"post_count"`
	LikedCount int64     `json:"liked_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type Handler struct {
	users   *service.UserService
	errors  *commonhttp.ErrorHandler
	timeout time.Duration
	log     *logger.Logger
}

func NewHandler(users *service.UserService, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		users:   users,
		errors:  commonhttp.NewErrorHandler(log),
		timeout: timeout,
		log:     log,
	}
}

func (h *Handler) Register(mux *http.ServeMux, requireSession func(http.Handler) http.Handler) {
	withTimeout := commonhttp.WithTimeout(h.timeout)
	mux.HandleFunc("POST /api/users", withTimeout(h.register))
	mux.Handle("GET /api/users/{id}", requireSession(withTimeout(h.getProfile)))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "register_invalid_json",
		}).Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteInvalidJSON(w, r, err)
		return
	}
	if err := commonhttp.ValidateRequest(req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	profile, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profileResponse{
		ID:         profile.ID,
		Name:       profile.Name,
		Email:      profile.Email,
		PostCount:  profile.PostCount,
		LikedCount: profile.LikedCount,
		CreatedAt:  profile.CreatedAt,
	})
}
