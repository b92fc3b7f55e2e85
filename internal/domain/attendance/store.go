package attendance

import (
	"context"

	"github.com/jackc/pgx/v5"

	"hrrecords/internal/domain/core"
	"hrrecords/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

type StoreAPI interface {
	List(ctx context.Context) ([]Record, error)
	ListForEmployee(ctx context.Context, employeeID int64) ([]Record, error)
	Create(ctx context.Context, r Record) (*Record, error)
}

var _ StoreAPI = (*Store)(nil)

const recordColumns = `id, employee_id, date,
           to_char(check_in_time, 'HH24:MI:SS'), to_char(check_out_time, 'HH24:MI:SS'),
           working_hours, late_minutes, status, created_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var r Record
	if err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Date, &r.CheckInTime, &r.CheckOutTime,
		&r.WorkingHours, &r.LateMinutes, &r.Status, &r.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) query(ctx context.Context, op, sql string, args ...any) ([]Record, error) {
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, core.TranslateStoreError(op, err)
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, core.TranslateStoreError(op, err)
		}
		out = append(out, *r)
	}
	return out, core.TranslateStoreError(op, rows.Err())
}

func (s *Store) List(ctx context.Context) ([]Record, error) {
	return s.query(ctx, "list attendance", `
    SELECT `+recordColumns+`
    FROM attendance
    ORDER BY id
  `)
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID int64) ([]Record, error) {
	return s.query(ctx, "list employee attendance", `
    SELECT `+recordColumns+`
    FROM attendance
    WHERE employee_id = $1
    ORDER BY date
  `, employeeID)
}

func (s *Store) Create(ctx context.Context, r Record) (*Record, error) {
	created, err := scanRecord(s.DB.QueryRow(ctx, `
    INSERT INTO attendance (employee_id, date, check_in_time, check_out_time, working_hours, late_minutes, status)
    VALUES ($1,$2,$3::time,$4::time,$5,$6,$7)
    RETURNING `+recordColumns,
		r.EmployeeID, r.Date, r.CheckInTime, r.CheckOutTime, r.WorkingHours, r.LateMinutes, r.Status))
	if err != nil {
		return nil, core.TranslateStoreError("create attendance", err)
	}
	return created, nil
}

