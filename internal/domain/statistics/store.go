package statistics

import (
	"context"

	"hrrecords/internal/domain/core"
	"hrrecords/internal/platform/querier"
)

// Store answers aggregate queries with single SQL statements.
type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

var _ AggregateStore = (*Store)(nil)

func (s *Store) EmployeeCount(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return 0, core.TranslateStoreError("count employees", err)
	}
	return n, nil
}

func (s *Store) EmployeesPerDepartment(ctx context.Context) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT department, COUNT(*)
    FROM employees
    GROUP BY department
  `)
	if err != nil {
		return nil, core.TranslateStoreError("count employees by department", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var department *string
		var n int
		if err := rows.Scan(&department, &n); err != nil {
			return nil, core.TranslateStoreError("count employees by department", err)
		}
		key := NullDepartment
		if department != nil {
			key = *department
		}
		out[key] += n
	}
	return out, core.TranslateStoreError("count employees by department", rows.Err())
}

func (s *Store) AttendanceAverages(ctx context.Context) (*float64, *float64, error) {
	var hours, late *float64
	if err := s.DB.QueryRow(ctx, `
    SELECT AVG(working_hours), AVG(late_minutes)::double precision
    FROM attendance
  `).Scan(&hours, &late); err != nil {
		return nil, nil, core.TranslateStoreError("average attendance", err)
	}
	return hours, late, nil
}

func (s *Store) LeaveUsageTotals(ctx context.Context) (LeaveUsage, error) {
	var usage LeaveUsage
	if err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(annual_leave_used), 0),
           COALESCE(SUM(casual_leave_used), 0),
           COALESCE(SUM(sick_leave_used), 0)
    FROM leave_management
  `).Scan(&usage.Annual, &usage.Casual, &usage.Sick); err != nil {
		return LeaveUsage{}, core.TranslateStoreError("sum leave usage", err)
	}
	return usage, nil
}
