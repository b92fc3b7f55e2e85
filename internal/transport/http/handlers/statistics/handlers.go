package statisticshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/statistics"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
)

type Handler struct {
	Service *statistics.Service
}

func NewHandler(service *statistics.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/statistics", h.handleSnapshot)
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Service.Snapshot(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, snap)
}
