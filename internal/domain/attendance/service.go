package attendance

import (
	"context"
	"strings"
	"time"

	"hrrecords/internal/domain/core"
)

type Service struct {
	Store        StoreAPI
	WorkdayStart time.Time
}

// NewService parses workdayStart ("HH:MM") once; an invalid value falls back
// to 08:00.
func NewService(store StoreAPI, workdayStart string) *Service {
	start, err := ParseClock(workdayStart)
	if err != nil {
		start, _ = ParseClock("08:00")
	}
	return &Service{Store: store, WorkdayStart: start}
}

func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.Store.List(ctx)
}

func (s *Service) ListForEmployee(ctx context.Context, employeeID int64) ([]Record, error) {
	return s.Store.ListForEmployee(ctx, employeeID)
}

// Create stores a day's attendance with its derived hours, lateness and status.
func (s *Service) Create(ctx context.Context, in Input) (*Record, error) {
	if in.EmployeeID <= 0 {
		return nil, core.Invalid("employee_id", "is required")
	}
	dateText := strings.TrimSpace(in.Date)
	if dateText == "" {
		return nil, core.Invalid("date", "is required")
	}
	date, err := time.Parse(core.DateLayout, dateText)
	if err != nil {
		return nil, core.Invalid("date", "must be a YYYY-MM-DD date")
	}

	checkIn, err := optionalClock("check_in_time", in.CheckInTime)
	if err != nil {
		return nil, err
	}
	checkOut, err := optionalClock("check_out_time", in.CheckOutTime)
	if err != nil {
		return nil, err
	}
	derived, err := Derive(s.WorkdayStart, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	// Absent days carry no lateness so they stay out of lateness averages.
	var late *int
	if derived.Status != StatusAbsent {
		minutes := derived.LateMinutes
		late = &minutes
	}
	status := derived.Status
	return s.Store.Create(ctx, Record{
		EmployeeID:   in.EmployeeID,
		Date:         core.DateOf(date),
		CheckInTime:  formatClock(checkIn),
		CheckOutTime: formatClock(checkOut),
		WorkingHours: derived.WorkingHours,
		LateMinutes:  late,
		Status:       &status,
	})
}

func optionalClock(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseClock(value)
	if err != nil {
		return nil, core.Invalid(field, "must be HH:MM or HH:MM:SS")
	}
	return &t, nil
}

func formatClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(clockLayout)
	return &s
}
