// Package statistics computes read-only rollups straight from the store.
package statistics

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// NullDepartment is the bucket key for employees without a department.
const NullDepartment = "null"

// AggregateStore is the read-only query surface statistics are computed from.
// Averages are nil when no row carries the value.
type AggregateStore interface {
	EmployeeCount(ctx context.Context) (int, error)
	EmployeesPerDepartment(ctx context.Context) (map[string]int, error)
	AttendanceAverages(ctx context.Context) (workingHours, lateMinutes *float64, err error)
	LeaveUsageTotals(ctx context.Context) (LeaveUsage, error)
}

type LeaveUsage struct {
	Annual int64
	Casual int64
	Sick   int64
}

type Snapshot struct {
	TotalEmployees        int            `json:"total_employees"`
	EmployeesByDepartment map[string]int `json:"employees_by_department"`
	AvgWorkingHours       float64        `json:"avg_working_hours"`
	AvgLateMinutes        float64        `json:"avg_late_minutes"`
	TotalAnnualLeaveUsed  int64          `json:"total_annual_leave_used"`
	TotalCasualLeaveUsed  int64          `json:"total_casual_leave_used"`
	TotalSickLeaveUsed    int64          `json:"total_sick_leave_used"`
}

type Service struct {
	Store AggregateStore
}

func NewService(store AggregateStore) *Service {
	return &Service{Store: store}
}

// Snapshot runs the independent aggregates concurrently and combines them.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	var hours, late *float64
	var usage LeaveUsage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.TotalEmployees, err = s.Store.EmployeeCount(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.EmployeesByDepartment, err = s.Store.EmployeesPerDepartment(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		hours, late, err = s.Store.AttendanceAverages(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		usage, err = s.Store.LeaveUsageTotals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if snap.EmployeesByDepartment == nil {
		snap.EmployeesByDepartment = map[string]int{}
	}
	snap.AvgWorkingHours = round2(hours)
	snap.AvgLateMinutes = round2(late)
	snap.TotalAnnualLeaveUsed = usage.Annual
	snap.TotalCasualLeaveUsed = usage.Casual
	snap.TotalSickLeaveUsed = usage.Sick
	return &snap, nil
}

func round2(v *float64) float64 {
	if v == nil {
		return 0
	}
	return math.Round(*v*100) / 100
}
