package authhandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/auth"
	"hrrecords/internal/domain/core"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Service: service}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if h.Service == nil {
		api.Fail(w, http.StatusNotFound, "auth_disabled", "authentication is disabled", requestID)
		return
	}

	var payload loginRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FromError(w, err, requestID)
		return
	}
	if strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
		api.FromError(w, core.Invalid("email", "and password are required"), requestID)
		return
	}

	token, expires, err := h.Service.Login(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Warn("operator login rejected", "ip", shared.ClientIP(r), "request_id", requestID)
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
			return
		}
		api.FromError(w, err, requestID)
		return
	}
	api.Success(w, loginResponse{Token: token, ExpiresAt: expires})
}
