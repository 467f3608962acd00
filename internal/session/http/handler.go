package http

import (
	"net/http"
	"time"

	commonhttp "github.com/AlibekovAA/puppies-api/internal/common/http"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
	"github.com/AlibekovAA/puppies-api/internal/session/service"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type Handler struct {
	auth    *service.AuthService
	errors  *commonhttp.ErrorHandler
	timeout time.Duration
	log     *logger.Logger
}

func NewHandler(auth *service.AuthService, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		auth:    auth,
		errors:  commonhttp.NewErrorHandler(log),
		timeout: timeout,
		log:     log,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	withTimeout := commonhttp.WithTimeout(h.timeout)
	mux.HandleFunc("POST /api/auth/login", withTimeout(h.login))
	mux.HandleFunc("POST /api/auth/logout", withTimeout(h.logout))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "login_invalid_json",
		}).Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteInvalidJSON(w, r, err)
		return
	}
	if err := commonhttp.ValidateRequest(req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	resp := loginResponse{
		Token:     result.Credential.Value,
		TokenType: "Bearer",
		UserID:    result.User.ID,
		Name:      result.User.Name,
	}
	if result.Credential.HasExpiry() {
		expiresAt := result.Credential.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}
	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := BearerToken(r); ok {
		h.auth.Logout(r.Context(), token)
	}
	w.WriteHeader(http.StatusNoContent)
}
