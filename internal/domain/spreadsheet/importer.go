package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hrrecords/internal/domain/core"
)

const DefaultErrorLimit = 10

// EmployeeRepo is the slice of the record store reconciliation needs.
type EmployeeRepo interface {
	GetEmployee(ctx context.Context, employeeID int64) (*core.Employee, error)
	CreateEmployee(ctx context.Context, emp core.Employee) (*core.Employee, error)
	UpdateEmployee(ctx context.Context, emp core.Employee) (*core.Employee, error)
}

// Batch is one all-or-nothing import. Row runs fn in an isolated unit whose
// writes are discarded when fn fails; the rest of the batch is unaffected.
type Batch interface {
	Row(ctx context.Context, fn func(repo EmployeeRepo) error) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type BatchOpener interface {
	Begin(ctx context.Context) (Batch, error)
}

type Result struct {
	Message        string   `json:"message"`
	ImportedCount  int      `json:"imported_count"`
	UpdatedCount   int      `json:"updated_count"`
	TotalProcessed int      `json:"total_processed"`
	ErrorsCount    int      `json:"errors_count"`
	Errors         []string `json:"errors,omitempty"`
	Note           string   `json:"note,omitempty"`
}

type Importer struct {
	Batches    BatchOpener
	ErrorLimit int
}

func NewImporter(batches BatchOpener, errorLimit int) *Importer {
	if errorLimit <= 0 {
		errorLimit = DefaultErrorLimit
	}
	return &Importer{Batches: batches, ErrorLimit: errorLimit}
}

// decodedRow is a spreadsheet row after mapping and coercion.
type decodedRow struct {
	id    int64
	patch *core.EmployeePatch
}

// Import reconciles every data row against the store inside one batch. Row
// failures are collected and reported; only a failure to open or commit the
// batch aborts it.
func (im *Importer) Import(ctx context.Context, rows [][]Cell) (*Result, error) {
	if len(rows) == 0 {
		return nil, core.Invalid("file", "has no rows")
	}
	mapping := MapHeaders(rows[0])

	batch, err := im.Batches.Begin(ctx)
	if err != nil {
		return nil, err
	}

	data := trimTrailingBlank(rows[1:])

	var imported, updated int
	var rowErrors []string
	for i, cells := range data {
		if err := ctx.Err(); err != nil {
			_ = batch.Rollback(ctx)
			return nil, err
		}
		rowNum := i + 2

		decoded, err := decodeRow(mapping, cells)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %s", rowNum, err))
			continue
		}

		created := false
		err = batch.Row(ctx, func(repo EmployeeRepo) error {
			var err error
			created, err = reconcile(ctx, repo, decoded)
			return err
		})
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %s", rowNum, err))
			continue
		}
		if created {
			imported++
		} else {
			updated++
		}
	}

	if err := batch.Commit(ctx); err != nil {
		_ = batch.Rollback(ctx)
		return nil, err
	}

	slog.Info("employee import finished",
		"imported", imported,
		"updated", updated,
		"failed", len(rowErrors),
	)
	return im.result(imported, updated, rowErrors), nil
}

func (im *Importer) result(imported, updated int, rowErrors []string) *Result {
	res := &Result{
		Message:        "import completed",
		ImportedCount:  imported,
		UpdatedCount:   updated,
		TotalProcessed: imported + updated,
		ErrorsCount:    len(rowErrors),
	}
	if len(rowErrors) == 0 {
		return res
	}
	limit := im.ErrorLimit
	if limit <= 0 {
		limit = DefaultErrorLimit
	}
	if len(rowErrors) > limit {
		res.Errors = rowErrors[:limit]
		res.Note = fmt.Sprintf("showing the first %d of %d errors", limit, len(rowErrors))
	} else {
		res.Errors = rowErrors
	}
	return res
}

// trimTrailingBlank drops the empty rows after the last populated one. Blank
// rows between data rows are kept and fail the required field check.
func trimTrailingBlank(rows [][]Cell) [][]Cell {
	end := len(rows)
	for end > 0 && blankRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func blankRow(cells []Cell) bool {
	for _, cell := range cells {
		if !cell.Blank() {
			return false
		}
	}
	return true
}

// decodeRow projects cells through the header mapping and coerces them.
// A missing id or name, or an id that is not an integer, rejects the row;
// other values that fail coercion fall back to their zero value.
func decodeRow(mapping []*core.Field, cells []Cell) (*decodedRow, error) {
	values := make(map[string]any, len(mapping))
	var order []core.Field
	for i, field := range mapping {
		if field == nil {
			continue
		}
		var raw any
		if i < len(cells) {
			raw = cells[i].Raw()
		}
		if _, seen := values[field.Name]; !seen {
			order = append(order, *field)
		}
		values[field.Name] = raw
	}

	for _, name := range []string{"employee_id", "full_name"} {
		if values[name] == nil {
			return nil, core.Invalid(name, "is required")
		}
	}
	id, err := core.CoerceEmployeeID(values["employee_id"])
	if err != nil {
		return nil, err
	}

	patch := core.NewEmployeePatch()
	for _, field := range order {
		if !field.Updatable {
			continue
		}
		coerced, err := field.Coerce(values[field.Name])
		if err != nil {
			slog.Debug("import value dropped", "field", field.Name, "err", err)
			coerced = field.Zero()
		}
		if err := patch.Set(field.Name, coerced); err != nil {
			return nil, err
		}
	}
	return &decodedRow{id: id, patch: patch}, nil
}

// reconcile updates the stored record with the row's mapped fields or creates
// a new one. It reports whether a record was created.
func reconcile(ctx context.Context, repo EmployeeRepo, row *decodedRow) (bool, error) {
	existing, err := repo.GetEmployee(ctx, row.id)
	switch {
	case errors.Is(err, core.ErrNotFound):
		emp := core.Employee{EmployeeID: row.id}
		row.patch.Apply(&emp)
		if _, err := repo.CreateEmployee(ctx, emp); err != nil {
			return false, err
		}
		return true, nil
	case err != nil:
		return false, err
	}

	row.patch.Apply(existing)
	if _, err := repo.UpdateEmployee(ctx, *existing); err != nil {
		return false, err
	}
	return false, nil
}
