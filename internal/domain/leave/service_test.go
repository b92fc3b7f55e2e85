package leave

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hrrecords/internal/domain/core"
)

type fakeStore struct {
	balances []Balance
	requests []Request
}

func (f *fakeStore) ListBalances(context.Context) ([]Balance, error) { return f.balances, nil }

func (f *fakeStore) GetBalance(_ context.Context, employeeID int64) (*Balance, error) {
	for i := range f.balances {
		if f.balances[i].EmployeeID == employeeID {
			return &f.balances[i], nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeStore) CreateBalance(_ context.Context, b Balance) (*Balance, error) {
	for _, existing := range f.balances {
		if existing.EmployeeID == b.EmployeeID {
			return nil, core.Invalid("employee_id", "already exists")
		}
	}
	b.ID = int64(len(f.balances) + 1)
	f.balances = append(f.balances, b)
	return &b, nil
}

func (f *fakeStore) ListRequests(context.Context) ([]Request, error) { return f.requests, nil }

func (f *fakeStore) GetRequest(_ context.Context, id int64) (*Request, error) {
	for i := range f.requests {
		if f.requests[i].ID == id {
			r := f.requests[i]
			return &r, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeStore) CreateRequest(_ context.Context, r Request) (*Request, error) {
	r.ID = int64(len(f.requests) + 1)
	f.requests = append(f.requests, r)
	return &r, nil
}

func (f *fakeStore) UpdateRequestStatus(_ context.Context, id int64, status string, approvedBy *int64, approvedAt *time.Time) (*Request, error) {
	for i := range f.requests {
		if f.requests[i].ID == id {
			f.requests[i].Status = status
			f.requests[i].ApprovedBy = approvedBy
			f.requests[i].ApprovedAt = approvedAt
			r := f.requests[i]
			return &r, nil
		}
	}
	return nil, core.ErrNotFound
}

func TestCreateBalanceDefaults(t *testing.T) {
	svc := NewService(&fakeStore{})
	b, err := svc.CreateBalance(context.Background(), BalanceInput{EmployeeID: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.AnnualLeaveBalance != 21 || b.CasualLeaveBalance != 6 || b.SickLeaveBalance != 15 {
		t.Fatalf("unexpected defaults %+v", b)
	}
	if b.AnnualLeaveUsed != 0 || b.CasualLeaveUsed != 0 || b.SickLeaveUsed != 0 {
		t.Fatalf("expected zero usage %+v", b)
	}

	annual := 30
	b, err = svc.CreateBalance(context.Background(), BalanceInput{EmployeeID: 6, AnnualLeaveBalance: &annual})
	if err != nil || b.AnnualLeaveBalance != 30 {
		t.Fatalf("expected override, got %+v %v", b, err)
	}

	if _, err := svc.CreateBalance(context.Background(), BalanceInput{EmployeeID: 5}); err == nil {
		t.Fatal("expected duplicate balance to fail")
	}
}

func TestCreateRequest(t *testing.T) {
	svc := NewService(&fakeStore{})
	ctx := context.Background()

	r, err := svc.CreateRequest(ctx, RequestInput{EmployeeID: 1, LeaveType: "Annual", StartDate: "2025-03-01", EndDate: "2025-03-05"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.DaysRequested != 5 || r.Status != StatusPending || r.LeaveType != TypeAnnual {
		t.Fatalf("unexpected request %+v", r)
	}

	given := 2
	r, err = svc.CreateRequest(ctx, RequestInput{EmployeeID: 1, LeaveType: "sick", StartDate: "2025-03-01", EndDate: "2025-03-05", DaysRequested: &given})
	if err != nil || r.DaysRequested != 2 {
		t.Fatalf("expected supplied days to be kept, got %+v %v", r, err)
	}

	cases := []RequestInput{
		{LeaveType: "annual", StartDate: "2025-03-01", EndDate: "2025-03-01"},
		{EmployeeID: 1, LeaveType: "vacation", StartDate: "2025-03-01", EndDate: "2025-03-01"},
		{EmployeeID: 1, LeaveType: "annual", StartDate: "03/01/2025", EndDate: "2025-03-01"},
		{EmployeeID: 1, LeaveType: "annual", StartDate: "2025-03-05", EndDate: "2025-03-01"},
		{EmployeeID: 1, LeaveType: "annual", StartDate: "2025-03-01", EndDate: "2025-03-01", Status: "done"},
	}
	for i, in := range cases {
		var verr *core.ValidationError
		if _, err := svc.CreateRequest(ctx, in); !errors.As(err, &verr) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestUpdateRequestStatus(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)
	fixed := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }
	ctx := context.Background()

	r, _ := svc.CreateRequest(ctx, RequestInput{EmployeeID: 1, LeaveType: "casual", StartDate: "2025-04-02", EndDate: "2025-04-02"})
	approver := int64(9)
	updated, err := svc.UpdateRequestStatus(ctx, r.ID, StatusInput{Status: "approved", ApprovedBy: &approver})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusApproved || updated.ApprovedAt == nil || !updated.ApprovedAt.Equal(fixed) || *updated.ApprovedBy != 9 {
		t.Fatalf("unexpected approval %+v", updated)
	}

	reset, _ := svc.UpdateRequestStatus(ctx, r.ID, StatusInput{Status: "pending"})
	if reset.ApprovedAt != nil || reset.ApprovedBy != nil {
		t.Fatalf("expected decision cleared, got %+v", reset)
	}

	if _, err := svc.UpdateRequestStatus(ctx, r.ID, StatusInput{Status: "archived"}); err == nil {
		t.Fatal("expected invalid status to fail")
	}
	if _, err := svc.UpdateRequestStatus(ctx, 99, StatusInput{Status: "rejected"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRequestJSONDates(t *testing.T) {
	r := Request{ID: 1, StartDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)}
	data, err := r.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)
	for _, want := range []string{`"start_date":"2025-01-02"`, `"end_date":"2025-01-03"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
}
