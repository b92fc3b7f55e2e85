package attendance

import (
	"encoding/json"
	"time"

	"hrrecords/internal/domain/core"
)

const (
	StatusOnTime = "on_time"
	StatusLate   = "late"
	StatusAbsent = "absent"
)

// Record is one employee's attendance for a calendar date. Times are
// wall-clock "HH:MM:SS" strings.
type Record struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employee_id"`
	Date         time.Time `json:"date"`
	CheckInTime  *string   `json:"check_in_time"`
	CheckOutTime *string   `json:"check_out_time"`
	WorkingHours *float64  `json:"working_hours"`
	LateMinutes  *int      `json:"late_minutes"`
	Status       *string   `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	type alias Record
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias: alias(r), Date: r.Date.Format(core.DateLayout)})
}

type Input struct {
	EmployeeID   int64  `json:"employee_id"`
	Date         string `json:"date"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time"`
}
