package documentshandler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/core"
	"hrrecords/internal/domain/core/coretest"
	"hrrecords/internal/domain/documents"
)

type memoryStore struct {
	docs []documents.Document
}

func (m *memoryStore) List(context.Context) ([]documents.Document, error) { return m.docs, nil }

func (m *memoryStore) Get(_ context.Context, id int64) (*documents.Document, error) {
	for i := range m.docs {
		if m.docs[i].ID == id {
			d := m.docs[i]
			return &d, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memoryStore) Create(_ context.Context, doc documents.Document) (*documents.Document, error) {
	for _, existing := range m.docs {
		if existing.DocumentNumber == doc.DocumentNumber {
			return nil, core.Invalid("document_number", "already exists")
		}
	}
	doc.ID = int64(len(m.docs) + 1)
	m.docs = append(m.docs, doc)
	return &doc, nil
}

func TestDocumentRoutes(t *testing.T) {
	employees := coretest.NewMemory(core.Employee{EmployeeID: 8, FullName: "Layla"})
	router := chi.NewRouter()
	NewHandler(documents.NewService(&memoryStore{}, employees, documents.Renderer{})).RegisterRoutes(router)

	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := send(http.MethodPost, "/documents", `{"document_number":"HR-2025-001","document_type":"letter","employee_id":8,"subject":"Experience","content":"To whom it may concern."}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := send(http.MethodPost, "/documents", `{"document_number":"HR-2025-001","document_type":"letter"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected duplicate number to fail, got %d", rec.Code)
	}
	if rec := send(http.MethodPost, "/documents", `{"document_type":"letter"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected missing number to fail, got %d", rec.Code)
	}

	if rec := send(http.MethodGet, "/documents/1", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := send(http.MethodGet, "/documents/2", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	pdf := send(http.MethodGet, "/documents/1/pdf", "")
	if pdf.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", pdf.Code, pdf.Body.String())
	}
	if pdf.Header().Get("Content-Type") != "application/pdf" || !bytes.HasPrefix(pdf.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected pdf attachment, got %q", pdf.Header().Get("Content-Type"))
	}
}
