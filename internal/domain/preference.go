package domain

// DutyPreference holds one member's scheduling constraints and wishes for a
// run. Skip entries are hard exclusions; Preferred entries only bias the
// objective. Optional fields default to the run-wide configuration when
// absent.
type DutyPreference struct {
	MemberID int64 `json:"memberID"`

	// Skip lists slots this member must never be assigned to.
	Skip []SlotRef `json:"skip,omitempty"`

	// Preferred lists slots this member would like to be assigned to.
	Preferred []SlotRef `json:"preferred,omitempty"`

	// MaxConsecutive overrides the run-wide consecutive-slot limit.
	MaxConsecutive *int `json:"maxConsecutive,omitempty"`

	// EarliestDate and LatestDate bound the slots this member may take,
	// in DateLayout form. Empty means unbounded.
	EarliestDate string `json:"earliestDate,omitempty"`
	LatestDate   string `json:"latestDate,omitempty"`
}
