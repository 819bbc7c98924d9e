package season

import (
	"time"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
)

// Window is an inclusive range of civil dates to schedule, typically one
// calendar month.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonthWindow covers one whole calendar month.
func MonthWindow(year int, month time.Month) Window {
	start := domain.Date(year, month, 1)
	return Window{Start: start, End: start.AddDate(0, 1, -1)}
}

// Generate enumerates the operating dates (Saturdays and Sundays) in the
// window, drops the ones outside the resolved season interval, and emits one
// DutySlot per configured role for every surviving date. Dropped dates are
// returned as diagnostics rather than silently discarded. Output order is
// deterministic: dates ascending, roles in the given order.
func Generate(window Window, interval *domain.DateInterval, roles []domain.RoleTag) ([]domain.DutySlot, []domain.ExcludedDate) {
	var slots []domain.DutySlot
	var excluded []domain.ExcludedDate

	for d := window.Start; !d.After(window.End); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			continue
		}
		if interval != nil && !interval.Contains(d) {
			excluded = append(excluded, domain.ExcludedDate{Date: d, Reason: domain.ReasonOutsideSeason})
			continue
		}
		for _, role := range roles {
			slots = append(slots, domain.DutySlot{Date: d, Role: role})
		}
	}

	return slots, excluded
}
