package leave

import (
	"encoding/json"
	"time"

	"hrrecords/internal/domain/core"
)

const (
	TypeAnnual = "annual"
	TypeCasual = "casual"
	TypeSick   = "sick"
	TypeOther  = "other"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	DefaultAnnualBalance = 21
	DefaultCasualBalance = 6
	DefaultSickBalance   = 15
)

// Balance holds one employee's entitlements and usage counters.
type Balance struct {
	ID                 int64     `json:"id"`
	EmployeeID         int64     `json:"employee_id"`
	AnnualLeaveBalance int       `json:"annual_leave_balance"`
	CasualLeaveBalance int       `json:"casual_leave_balance"`
	SickLeaveBalance   int       `json:"sick_leave_balance"`
	AnnualLeaveUsed    int       `json:"annual_leave_used"`
	CasualLeaveUsed    int       `json:"casual_leave_used"`
	SickLeaveUsed      int       `json:"sick_leave_used"`
	LastUpdated        time.Time `json:"last_updated"`
}

type Request struct {
	ID            int64      `json:"id"`
	EmployeeID    int64      `json:"employee_id"`
	LeaveType     string     `json:"leave_type"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	DaysRequested int        `json:"days_requested"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	RequestedAt   time.Time  `json:"requested_at"`
	ApprovedBy    *int64     `json:"approved_by"`
	ApprovedAt    *time.Time `json:"approved_at"`
}

func (r Request) MarshalJSON() ([]byte, error) {
	type alias Request
	return json.Marshal(struct {
		alias
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}{
		alias:     alias(r),
		StartDate: r.StartDate.Format(core.DateLayout),
		EndDate:   r.EndDate.Format(core.DateLayout),
	})
}

// BalanceInput creates a balance row. Nil entitlements take the defaults.
type BalanceInput struct {
	EmployeeID         int64 `json:"employee_id"`
	AnnualLeaveBalance *int  `json:"annual_leave_balance"`
	CasualLeaveBalance *int  `json:"casual_leave_balance"`
	SickLeaveBalance   *int  `json:"sick_leave_balance"`
}

type RequestInput struct {
	EmployeeID    int64  `json:"employee_id"`
	LeaveType     string `json:"leave_type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	DaysRequested *int   `json:"days_requested"`
	Reason        string `json:"reason"`
	Status        string `json:"status"`
}

type StatusInput struct {
	Status     string `json:"status"`
	ApprovedBy *int64 `json:"approved_by"`
}
