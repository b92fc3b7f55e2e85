package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("not found")

// ValidationError reports a missing or conflicting value on a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + " " + e.Reason
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// CoercionError reports a value that cannot be converted to its field type.
type CoercionError struct {
	Field  string
	Value  any
	Target string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s: cannot convert %q to %s", e.Field, fmt.Sprint(e.Value), e.Target)
}

// StoreError wraps an unexpected failure from the relational store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

var constraintFields = map[string]string{
	"employees_pkey":                    "employee_id",
	"employees_national_id_key":         "national_id",
	"employees_id_number_key":           "id_number",
	"departments_name_key":              "name",
	"documents_document_number_key":     "document_number",
	"leave_management_employee_id_key":  "employee_id",
	"unique_employee_date":              "date",
	"leave_management_employee_id_fkey": "employee_id",
	"leave_requests_employee_id_fkey":   "employee_id",
	"leave_requests_approved_by_fkey":   "approved_by",
	"attendance_employee_id_fkey":       "employee_id",
	"departments_manager_id_fkey":       "manager_id",
	"documents_employee_id_fkey":        "employee_id",
	"documents_created_by_fkey":         "created_by",
}

// TranslateStoreError maps driver errors onto the domain taxonomy. Unknown
// failures are wrapped in a StoreError tagged with op.
func TranslateStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		field := constraintFields[pgErr.ConstraintName]
		switch pgErr.Code {
		case "23505":
			if field == "" {
				field = strings.TrimSuffix(pgErr.ConstraintName, "_key")
			}
			return &ValidationError{Field: field, Reason: "already exists"}
		case "23503":
			return &ValidationError{Field: field, Reason: "references a missing record"}
		case "23502":
			return &ValidationError{Field: pgErr.ColumnName, Reason: "is required"}
		case "23514":
			return &ValidationError{Field: field, Reason: "has a value that is not allowed"}
		case "22003":
			return &ValidationError{Field: pgErr.ColumnName, Reason: "is out of range"}
		}
	}
	return &StoreError{Op: op, Err: err}
}
