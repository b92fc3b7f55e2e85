package leave

import (
	"time"

	"hrrecords/internal/domain/core"
)

// CalculateDays returns the inclusive calendar day count between start and end.
func CalculateDays(start, end time.Time) (int, error) {
	start, end = core.DateOf(start), core.DateOf(end)
	if end.Before(start) {
		return 0, core.Invalid("end_date", "must not be before start_date")
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

func validType(leaveType string) bool {
	switch leaveType {
	case TypeAnnual, TypeCasual, TypeSick, TypeOther:
		return true
	}
	return false
}

func validStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
