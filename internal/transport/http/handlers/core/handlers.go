package corehandler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/core"
	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/middleware"
	"hrrecords/internal/transport/http/shared"
)

type Handler struct {
	Service *core.Service
	Audit   audit.Recorder
}

func NewHandler(service *core.Service, recorder audit.Recorder) *Handler {
	return &Handler{Service: service, Audit: recorder}
}

// RegisterRoutes uses flat patterns so other handlers can add static
// /employees/... routes on the same router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.handleListEmployees)
	r.Post("/employees", h.handleCreateEmployee)
	r.Get("/employees/search", h.handleSearchEmployees)
	r.Get("/employees/{employeeID}", h.handleGetEmployee)
	r.Put("/employees/{employeeID}", h.handleUpdateEmployee)
	r.Delete("/employees/{employeeID}", h.handleDeleteEmployee)
	r.Get("/employees_by_department/{name}", h.handleEmployeesByDepartment)
	r.Get("/departments", h.handleListDepartments)
	r.Post("/departments", h.handleCreateDepartment)
	r.Get("/departments_list", h.handleDepartmentNames)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, nonNil(employees))
}

func (h *Handler) handleSearchEmployees(w http.ResponseWriter, r *http.Request) {
	filter := core.SearchFilter{
		Query:      strings.TrimSpace(r.URL.Query().Get("q")),
		Department: strings.TrimSpace(r.URL.Query().Get("department")),
	}
	employees, err := h.Service.SearchEmployees(r.Context(), filter)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, nonNil(employees))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := shared.ParseID(r, "employeeID")
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	emp, err := h.Service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	fields, err := shared.DecodeFields(r)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	emp, err := h.Service.CreateEmployee(r.Context(), fields)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, "employee.create", emp.EmployeeID, nil, emp)
	api.Created(w, emp)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := shared.ParseID(r, "employeeID")
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	fields, err := shared.DecodeFields(r)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	change, err := h.Service.UpdateEmployee(r.Context(), employeeID, fields)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, "employee.update", employeeID, change.Before, change.After)
	api.Success(w, change.After)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := shared.ParseID(r, "employeeID")
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	deleted, err := h.Service.DeleteEmployee(r.Context(), employeeID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, "employee.delete", employeeID, deleted, nil)
	api.Success(w, deleted)
}

func (h *Handler) handleEmployeesByDepartment(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	summaries, err := h.Service.EmployeesByDepartment(r.Context(), name)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, nonNil(summaries))
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.ListDepartments(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, nonNil(departments))
}

func (h *Handler) handleDepartmentNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.Service.DepartmentNames(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, nonNil(names))
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var payload core.Department
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	dep, err := h.Service.CreateDepartment(r.Context(), payload)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, dep)
}

func (h *Handler) record(r *http.Request, action string, employeeID int64, before, after *core.Employee) {
	if h.Audit == nil {
		return
	}
	entry := audit.Entry{
		Actor:      middleware.Actor(r.Context()),
		Action:     action,
		EntityType: "employee",
		EntityID:   strconv.FormatInt(employeeID, 10),
		RequestID:  middleware.GetRequestID(r.Context()),
		IP:         shared.ClientIP(r),
		Before:     auditPayload(before),
		After:      auditPayload(after),
	}
	if err := h.Audit.Record(r.Context(), entry); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}

func auditPayload(emp *core.Employee) any {
	if emp == nil {
		return nil
	}
	return emp.AuditMap()
}

// nonNil keeps empty collections rendering as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
