package audithandler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit-events", func(r chi.Router) {
		r.Get("/", h.handleListEvents)
		r.Get("/export", h.handleExportEvents)
	})
}

func filterFrom(r *http.Request) audit.Filter {
	q := r.URL.Query()
	return audit.Filter{Action: q.Get("action"), EntityType: q.Get("entity_type"), Actor: q.Get("actor")}
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	page, err := shared.ParsePage(r, 100, 500)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	includeDetails := r.URL.Query().Get("include_details") == "true"
	filter := filterFrom(r)

	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		slog.Warn("audit count failed", "err", err)
	}
	events, err := h.Service.List(r.Context(), filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, events)
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.ListExport(r.Context(), filterFrom(r))
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-events.csv")
	if err := audit.WriteCSV(w, events); err != nil {
		slog.Warn("audit export failed", "err", err)
	}
}
