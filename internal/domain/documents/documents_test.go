package documents

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"hrrecords/internal/domain/core"
	"hrrecords/internal/domain/core/coretest"
)

type fakeStore struct {
	docs []Document
}

func (f *fakeStore) List(context.Context) ([]Document, error) { return f.docs, nil }

func (f *fakeStore) Get(_ context.Context, id int64) (*Document, error) {
	for i := range f.docs {
		if f.docs[i].ID == id {
			return &f.docs[i], nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeStore) Create(_ context.Context, doc Document) (*Document, error) {
	for _, d := range f.docs {
		if d.DocumentNumber == doc.DocumentNumber {
			return nil, core.Invalid("document_number", "already exists")
		}
	}
	doc.ID = int64(len(f.docs) + 1)
	doc.CreatedAt = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	f.docs = append(f.docs, doc)
	return &doc, nil
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, Renderer{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, Input{DocumentType: "letter"}); err == nil {
		t.Fatal("expected missing number to fail")
	}
	if _, err := svc.Create(ctx, Input{DocumentNumber: "D-1"}); err == nil {
		t.Fatal("expected missing type to fail")
	}
	doc, err := svc.Create(ctx, Input{DocumentNumber: " D-1 ", DocumentType: "letter"})
	if err != nil || doc.DocumentNumber != "D-1" {
		t.Fatalf("unexpected create result %+v %v", doc, err)
	}
	var verr *core.ValidationError
	if _, err := svc.Create(ctx, Input{DocumentNumber: "D-1", DocumentType: "memo"}); !errors.As(err, &verr) {
		t.Fatalf("expected duplicate number to fail, got %v", err)
	}
}

func TestRenderPDF(t *testing.T) {
	employees := coretest.NewMemory(core.Employee{EmployeeID: 4, FullName: "Layla Nasser"})
	emp := int64(4)
	store := &fakeStore{}
	svc := NewService(store, employees, Renderer{})
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{
		DocumentNumber: "HR-2025-001",
		DocumentType:   "experience certificate",
		EmployeeID:     &emp,
		Subject:        "Certificate",
		Content:        "This certifies that the employee has worked with us since 2019.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	doc, data, err := svc.RenderPDF(ctx, created.ID)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc.DocumentNumber != "HR-2025-001" {
		t.Fatalf("unexpected document %+v", doc)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected PDF output")
	}

	if _, _, err := svc.RenderPDF(ctx, 42); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
