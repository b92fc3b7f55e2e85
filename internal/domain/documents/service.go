package documents

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"hrrecords/internal/domain/core"
)

// EmployeeLookup resolves the subject of a document for rendering.
type EmployeeLookup interface {
	GetEmployee(ctx context.Context, employeeID int64) (*core.Employee, error)
}

type Service struct {
	Store     StoreAPI
	Employees EmployeeLookup
	Renderer  Renderer
}

func NewService(store StoreAPI, employees EmployeeLookup, renderer Renderer) *Service {
	return &Service{Store: store, Employees: employees, Renderer: renderer}
}

func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.Store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Document, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*Document, error) {
	doc := Document{
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
		DocumentType:   strings.TrimSpace(in.DocumentType),
		EmployeeID:     in.EmployeeID,
		Subject:        strings.TrimSpace(in.Subject),
		Content:        in.Content,
		Recipient:      strings.TrimSpace(in.Recipient),
		CreatedBy:      in.CreatedBy,
		FilePath:       strings.TrimSpace(in.FilePath),
	}
	if doc.DocumentNumber == "" {
		return nil, core.Invalid("document_number", "is required")
	}
	if doc.DocumentType == "" {
		return nil, core.Invalid("document_type", "is required")
	}
	return s.Store.Create(ctx, doc)
}

// RenderPDF returns the document and its PDF rendering. A subject employee
// that no longer exists is left off the page.
func (s *Service) RenderPDF(ctx context.Context, id int64) (*Document, []byte, error) {
	doc, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	var employeeName string
	if doc.EmployeeID != nil && s.Employees != nil {
		emp, err := s.Employees.GetEmployee(ctx, *doc.EmployeeID)
		switch {
		case err == nil:
			employeeName = emp.FullName
		case !errors.Is(err, core.ErrNotFound):
			slog.Warn("document employee lookup failed", "err", err, "document_id", id)
		}
	}
	data, err := s.Renderer.Render(*doc, employeeName)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}
