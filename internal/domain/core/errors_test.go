package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateStoreError(t *testing.T) {
	if TranslateStoreError("op", nil) != nil {
		t.Fatal("expected nil passthrough")
	}
	if !errors.Is(TranslateStoreError("op", pgx.ErrNoRows), ErrNotFound) {
		t.Fatal("expected no rows to map to ErrNotFound")
	}

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "employees_national_id_key"}
	var verr *ValidationError
	if err := TranslateStoreError("op", dup); !errors.As(err, &verr) || verr.Field != "national_id" || verr.Reason != "already exists" {
		t.Fatalf("unexpected unique violation mapping: %v", err)
	}

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "attendance_employee_id_fkey"}
	if err := TranslateStoreError("op", fk); !errors.As(err, &verr) || verr.Field != "employee_id" {
		t.Fatalf("unexpected fk mapping: %v", err)
	}

	overflow := &pgconn.PgError{Code: "22003", ColumnName: "points_count"}
	if err := TranslateStoreError("op", overflow); !errors.As(err, &verr) || verr.Field != "points_count" {
		t.Fatalf("unexpected out of range mapping: %v", err)
	}

	other := fmt.Errorf("connection reset")
	err := TranslateStoreError("list employees", other)
	var serr *StoreError
	if !errors.As(err, &serr) || serr.Op != "list employees" || !errors.Is(err, other) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
