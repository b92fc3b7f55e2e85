package leavehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/leave"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
}

func NewHandler(service *leave.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave-management", func(r chi.Router) {
		r.Get("/", h.handleListBalances)
		r.Post("/", h.handleCreateBalance)
		r.Get("/{employeeID}", h.handleGetBalance)
	})
	r.Route("/leave-requests", func(r chi.Router) {
		r.Get("/", h.handleListRequests)
		r.Post("/", h.handleCreateRequest)
		r.Patch("/{requestID}", h.handleUpdateRequestStatus)
	})
}

func (h *Handler) handleListBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.Service.ListBalances(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if balances == nil {
		balances = []leave.Balance{}
	}
	api.Success(w, balances)
}

func (h *Handler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID, err := shared.ParseID(r, "employeeID")
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	balance, err := h.Service.GetBalance(r.Context(), employeeID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, balance)
}

func (h *Handler) handleCreateBalance(w http.ResponseWriter, r *http.Request) {
	var payload leave.BalanceInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	balance, err := h.Service.CreateBalance(r.Context(), payload)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, balance)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.ListRequests(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if requests == nil {
		requests = []leave.Request{}
	}
	api.Success(w, requests)
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var payload leave.RequestInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	request, err := h.Service.CreateRequest(r.Context(), payload)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, request)
}

func (h *Handler) handleUpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	requestID, err := shared.ParseID(r, "requestID")
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	var payload leave.StatusInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	request, err := h.Service.UpdateRequestStatus(r.Context(), requestID, payload)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, request)
}
