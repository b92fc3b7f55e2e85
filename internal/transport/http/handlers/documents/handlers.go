package documentshandler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/documents"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

type Handler struct {
	Service *documents.Service
}

func NewHandler(service *documents.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{documentID}", h.handleGet)
		r.Get("/{documentID}/pdf", h.handlePDF)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Service.List(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if docs == nil {
		docs = []documents.Document{}
	}
	api.Success(w, docs)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "documentID")
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	doc, err := h.Service.Get(r.Context(), id)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, doc)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload documents.Input
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	doc, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, doc)
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "documentID")
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	doc, data, err := h.Service.RenderPDF(r.Context(), id)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=document_"+strconv.FormatInt(doc.ID, 10)+".pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Warn("document pdf write failed", "err", err)
	}
}
