package attendancehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/attendance"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
}

func NewHandler(service *attendance.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{employeeID}", h.handleListForEmployee)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.List(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records)
}

func (h *Handler) handleListForEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := shared.ParseID(r, "employeeID")
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	records, err := h.Service.ListForEmployee(r.Context(), employeeID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload attendance.Input
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	record, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, record)
}
