package leave

import (
	"context"
	"time"

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

const balanceColumns = `id, employee_id, annual_leave_balance, casual_leave_balance, sick_leave_balance,
           annual_leave_used, casual_leave_used, sick_leave_used, last_updated`

func scanBalance(row pgx.Row) (*Balance, error) {
	var b Balance
	if err := row.Scan(
		&b.ID, &b.EmployeeID, &b.AnnualLeaveBalance, &b.CasualLeaveBalance, &b.SickLeaveBalance,
		&b.AnnualLeaveUsed, &b.CasualLeaveUsed, &b.SickLeaveUsed, &b.LastUpdated,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListBalances(ctx context.Context) ([]Balance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+balanceColumns+`
    FROM leave_management
    ORDER BY id
  `)
	if err != nil {
		return nil, core.TranslateStoreError("list leave balances", err)
	}
	defer rows.Close()

	out := make([]Balance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, core.TranslateStoreError("list leave balances", err)
		}
		out = append(out, *b)
	}
	return out, core.TranslateStoreError("list leave balances", rows.Err())
}

func (s *Store) GetBalance(ctx context.Context, employeeID int64) (*Balance, error) {
	b, err := scanBalance(s.DB.QueryRow(ctx, `
    SELECT `+balanceColumns+`
    FROM leave_management
    WHERE employee_id = $1
  `, employeeID))
	if err != nil {
		return nil, core.TranslateStoreError("get leave balance", err)
	}
	return b, nil
}

func (s *Store) CreateBalance(ctx context.Context, b Balance) (*Balance, error) {
	created, err := scanBalance(s.DB.QueryRow(ctx, `
    INSERT INTO leave_management (employee_id, annual_leave_balance, casual_leave_balance, sick_leave_balance)
    VALUES ($1,$2,$3,$4)
    RETURNING `+balanceColumns,
		b.EmployeeID, b.AnnualLeaveBalance, b.CasualLeaveBalance, b.SickLeaveBalance))
	if err != nil {
		return nil, core.TranslateStoreError("create leave balance", err)
	}
	return created, nil
}

const requestColumns = `id, employee_id, leave_type, start_date, end_date, days_requested,
           COALESCE(reason, ''), status, requested_at, approved_by, approved_at`

func scanRequest(row pgx.Row) (*Request, error) {
	var r Request
	if err := row.Scan(
		&r.ID, &r.EmployeeID, &r.LeaveType, &r.StartDate, &r.EndDate, &r.DaysRequested,
		&r.Reason, &r.Status, &r.RequestedAt, &r.ApprovedBy, &r.ApprovedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListRequests(ctx context.Context) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    ORDER BY id
  `)
	if err != nil {
		return nil, core.TranslateStoreError("list leave requests", err)
	}
	defer rows.Close()

	out := make([]Request, 0)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, core.TranslateStoreError("list leave requests", err)
		}
		out = append(out, *r)
	}
	return out, core.TranslateStoreError("list leave requests", rows.Err())
}

func (s *Store) GetRequest(ctx context.Context, id int64) (*Request, error) {
	r, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE id = $1
  `, id))
	if err != nil {
		return nil, core.TranslateStoreError("get leave request", err)
	}
	return r, nil
}

func (s *Store) CreateRequest(ctx context.Context, r Request) (*Request, error) {
	created, err := scanRequest(s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, leave_type, start_date, end_date, days_requested, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING `+requestColumns,
		r.EmployeeID, r.LeaveType, r.StartDate, r.EndDate, r.DaysRequested, nullIfEmpty(r.Reason), r.Status))
	if err != nil {
		return nil, core.TranslateStoreError("create leave request", err)
	}
	return created, nil
}

func (s *Store) UpdateRequestStatus(ctx context.Context, id int64, status string, approvedBy *int64, approvedAt *time.Time) (*Request, error) {
	updated, err := scanRequest(s.DB.QueryRow(ctx, `
    UPDATE leave_requests
    SET status = $2, approved_by = $3, approved_at = $4
    WHERE id = $1
    RETURNING `+requestColumns,
		id, status, approvedBy, approvedAt))
	if err != nil {
		return nil, core.TranslateStoreError("update leave request", err)
	}
	return updated, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
