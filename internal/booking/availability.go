package booking

import (
	"strings"
	"time"
)

// Rejection reasons surfaced verbatim in the conversational reply.
const (
	reasonNoDayAvailability = "No availability on this day"
	reasonOutsideHours      = "Outside available hours"
)

// IsSlotAvailable checks a requested (date, time) pair against the
// calendar's weekly availability rules. Windows are open intervals: a
// request exactly on a window boundary is rejected. The duration parameter
// is accepted for interface stability but not yet validated against window
// length or buffer time.
func IsSlotAvailable(cfg CalendarConfig, date, hhmm string, durationMinutes int) AvailabilityResult {
	day, err := time.Parse(isoDate, date)
	if err != nil {
		return AvailabilityResult{Available: false, Reason: reasonNoDayAvailability}
	}

	weekday := strings.ToLower(day.Weekday().String())
	windows := cfg.AvailabilityRules[weekday]
	if len(windows) == 0 {
		return AvailabilityResult{Available: false, Reason: reasonNoDayAvailability}
	}

	requested, err := time.Parse("15:04", hhmm)
	if err != nil {
		return AvailabilityResult{Available: false, Reason: reasonOutsideHours}
	}

	for _, w := range windows {
		start, err := time.Parse("15:04", w.Start)
		if err != nil {
			continue
		}
		end, err := time.Parse("15:04", w.End)
		if err != nil {
			continue
		}
		if requested.After(start) && requested.Before(end) {
			return AvailabilityResult{Available: true}
		}
	}
	return AvailabilityResult{Available: false, Reason: reasonOutsideHours}
}
