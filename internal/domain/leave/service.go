package leave

import (
	"context"
	"strings"
	"time"

	"hrrecords/internal/domain/core"
)

type Service struct {
	Store StoreAPI
	Now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) ListBalances(ctx context.Context) ([]Balance, error) {
	return s.Store.ListBalances(ctx)
}

func (s *Service) GetBalance(ctx context.Context, employeeID int64) (*Balance, error) {
	return s.Store.GetBalance(ctx, employeeID)
}

// CreateBalance opens the single balance row an employee may hold.
func (s *Service) CreateBalance(ctx context.Context, in BalanceInput) (*Balance, error) {
	if in.EmployeeID <= 0 {
		return nil, core.Invalid("employee_id", "is required")
	}
	b := Balance{
		EmployeeID:         in.EmployeeID,
		AnnualLeaveBalance: DefaultAnnualBalance,
		CasualLeaveBalance: DefaultCasualBalance,
		SickLeaveBalance:   DefaultSickBalance,
	}
	for _, override := range []struct {
		name string
		src  *int
		dst  *int
	}{
		{"annual_leave_balance", in.AnnualLeaveBalance, &b.AnnualLeaveBalance},
		{"casual_leave_balance", in.CasualLeaveBalance, &b.CasualLeaveBalance},
		{"sick_leave_balance", in.SickLeaveBalance, &b.SickLeaveBalance},
	} {
		if override.src == nil {
			continue
		}
		if *override.src < 0 {
			return nil, core.Invalid(override.name, "must not be negative")
		}
		*override.dst = *override.src
	}
	return s.Store.CreateBalance(ctx, b)
}

func (s *Service) ListRequests(ctx context.Context) ([]Request, error) {
	return s.Store.ListRequests(ctx)
}

// CreateRequest validates and stores a leave request. days_requested falls
// back to the inclusive span; a supplied value is stored as given.
func (s *Service) CreateRequest(ctx context.Context, in RequestInput) (*Request, error) {
	if in.EmployeeID <= 0 {
		return nil, core.Invalid("employee_id", "is required")
	}
	leaveType := strings.ToLower(strings.TrimSpace(in.LeaveType))
	if !validType(leaveType) {
		return nil, core.Invalid("leave_type", "must be one of annual, casual, sick, other")
	}
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	span, err := CalculateDays(start, end)
	if err != nil {
		return nil, err
	}

	days := span
	if in.DaysRequested != nil {
		if *in.DaysRequested <= 0 {
			return nil, core.Invalid("days_requested", "must be positive")
		}
		days = *in.DaysRequested
	}

	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = StatusPending
	}
	if !validStatus(status) {
		return nil, core.Invalid("status", "must be one of pending, approved, rejected")
	}

	return s.Store.CreateRequest(ctx, Request{
		EmployeeID:    in.EmployeeID,
		LeaveType:     leaveType,
		StartDate:     start,
		EndDate:       end,
		DaysRequested: days,
		Reason:        strings.TrimSpace(in.Reason),
		Status:        status,
	})
}

// UpdateRequestStatus records a decision. approved_at is stamped when the
// request leaves pending and cleared when it returns to pending. Balances are
// not adjusted.
func (s *Service) UpdateRequestStatus(ctx context.Context, id int64, in StatusInput) (*Request, error) {
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if !validStatus(status) {
		return nil, core.Invalid("status", "must be one of pending, approved, rejected")
	}
	if in.ApprovedBy != nil && *in.ApprovedBy <= 0 {
		return nil, core.Invalid("approved_by", "must be a positive integer")
	}
	existing, err := s.Store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	approvedBy := in.ApprovedBy
	if approvedBy == nil {
		approvedBy = existing.ApprovedBy
	}
	var approvedAt *time.Time
	if status == StatusPending {
		approvedBy = nil
	} else {
		now := s.Now().UTC()
		approvedAt = &now
	}
	return s.Store.UpdateRequestStatus(ctx, id, status, approvedBy, approvedAt)
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, core.Invalid(field, "is required")
	}
	parsed, err := time.Parse(core.DateLayout, value)
	if err != nil {
		return time.Time{}, core.Invalid(field, "must be a YYYY-MM-DD date")
	}
	return parsed, nil
}
