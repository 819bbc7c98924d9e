package domain

import "time"

// DateLayout is the civil-date format used for slot references and
// preference bounds.
const DateLayout = "2006-01-02"

// DutySlot is a single (date, role) unit of work requiring exactly one
// assignee. Slots within a run are kept in chronological order.
type DutySlot struct {
	Date time.Time `json:"date"`
	Role RoleTag   `json:"role"`
}

func (s DutySlot) Ref() SlotRef {
	return SlotRef{Date: s.Date.Format(DateLayout), Role: s.Role}
}

// SlotRef identifies a slot by civil date and role. It is comparable and is
// the reference form used by skip lists, preferences and roster adjustments.
type SlotRef struct {
	Date string  `json:"date"`
	Role RoleTag `json:"role"`
}

func (r SlotRef) String() string {
	return r.Date + "/" + string(r.Role)
}

// Date returns a UTC-midnight civil date, the canonical form for slot dates.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ExcludedDate records a date that was dropped during slot generation,
// together with the reason, so a reviewer can see why it carries no slots.
type ExcludedDate struct {
	Date   time.Time `json:"date"`
	Reason string    `json:"reason"`
}

// ReasonOutsideSeason tags dates excluded because they fall outside the
// resolved operational season.
const ReasonOutsideSeason = "outside operational season"

// DateInterval is an inclusive [Start, End] range of civil dates.
type DateInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (iv DateInterval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && !t.After(iv.End)
}
