package spreadsheethandler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/core"
	"hrrecords/internal/domain/spreadsheet"
	"hrrecords/internal/platform/metrics"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

// Handler serves workbook export and import of employee records.
type Handler struct {
	Employees      *core.Service
	Importer       *spreadsheet.Importer
	Audit          audit.Recorder
	Metrics        *metrics.Collector
	MaxUploadBytes int64
	Now            func() time.Time
}

func NewHandler(employees *core.Service, importer *spreadsheet.Importer, recorder audit.Recorder, collector *metrics.Collector, maxUploadBytes int64) *Handler {
	return &Handler{
		Employees:      employees,
		Importer:       importer,
		Audit:          recorder,
		Metrics:        collector,
		MaxUploadBytes: maxUploadBytes,
		Now:            time.Now,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees/export", h.handleExport)
	r.Post("/employees/import", h.handleImport)
	r.Get("/export_excel", h.handleExport)
	r.Post("/import_excel", h.handleImport)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Employees.ListEmployees(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.Export(&buf, employees); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.Metrics.RecordExport()

	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+spreadsheet.Filename(h.Now()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("export write failed", "err", err)
	}
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.FromError(w, err, requestID)
			return
		}
		api.FromError(w, core.Invalid("file", "is required"), requestID)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		api.FromError(w, core.Invalid("file", "is required"), requestID)
		return
	}
	defer file.Close()
	if header.Filename == "" {
		api.FromError(w, core.Invalid("file", "is required"), requestID)
		return
	}

	rows, err := spreadsheet.Read(file, header.Filename)
	if err != nil {
		api.FromError(w, err, requestID)
		return
	}
	result, err := h.Importer.Import(r.Context(), rows)
	if err != nil {
		api.FromError(w, err, requestID)
		return
	}
	h.Metrics.RecordImport(result.ImportedCount, result.UpdatedCount, result.ErrorsCount)

	if h.Audit != nil {
		entry := audit.Entry{
			Actor:      middleware.Actor(r.Context()),
			Action:     "employee.import",
			EntityType: "employee_batch",
			EntityID:   header.Filename,
			RequestID:  requestID,
			IP:         shared.ClientIP(r),
			After:      result,
		}
		if err := h.Audit.Record(r.Context(), entry); err != nil {
			slog.Warn("audit employee.import failed", "err", err)
		}
	}
	api.Success(w, result)
}
