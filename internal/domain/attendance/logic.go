package attendance

import (
	"math"
	"strings"
	"time"

	"hrrecords/internal/domain/core"
)

const clockLayout = "15:04:05"

// ParseClock accepts HH:MM or HH:MM:SS.
func ParseClock(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{clockLayout, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, core.Invalid("time", "must be HH:MM or HH:MM:SS")
}

// Derived holds the values computed from a day's check-in and check-out.
type Derived struct {
	WorkingHours *float64
	LateMinutes  int
	Status       string
}

// Derive computes working hours, lateness against workdayStart and the status
// tag. A nil checkIn marks the day absent.
func Derive(workdayStart time.Time, checkIn, checkOut *time.Time) (Derived, error) {
	if checkIn == nil {
		if checkOut != nil {
			return Derived{}, core.Invalid("check_in_time", "is required when check_out_time is set")
		}
		return Derived{Status: StatusAbsent}, nil
	}

	var d Derived
	if checkOut != nil {
		if checkOut.Before(*checkIn) {
			return Derived{}, core.Invalid("check_out_time", "must not be before check_in_time")
		}
		hours := math.Round(checkOut.Sub(*checkIn).Hours()*100) / 100
		d.WorkingHours = &hours
	}
	if late := checkIn.Sub(workdayStart); late > 0 {
		d.LateMinutes = int(late / time.Minute)
	}
	d.Status = StatusOnTime
	if d.LateMinutes > 0 {
		d.Status = StatusLate
	}
	return d, nil
}
