package domain

import (
	"time"

	"github.com/google/uuid"
)

// SolveParameters are the run-wide constraint and objective settings.
type SolveParameters struct {
	// MaxConsecutive bounds chronologically contiguous assigned slots per
	// member, unless a preference overrides it.
	MaxConsecutive int `json:"maxConsecutive" validate:"min=1"`

	// FairnessMargin widens the allowed band of per-member totals around the
	// group average. 1 means floor(avg) through ceil(avg).
	FairnessMargin int `json:"fairnessMargin" validate:"min=1"`

	// PreferredWeight and NeutralWeight score an assignment to a preferred
	// respectively neutral slot.
	PreferredWeight int `json:"preferredWeight" validate:"min=1"`
	NeutralWeight   int `json:"neutralWeight" validate:"min=1"`

	// TimeBudget bounds the exact strategy's search. Zero means no limit.
	TimeBudget time.Duration `json:"timeBudget" validate:"min=0"`
}

func DefaultSolveParameters() SolveParameters {
	return SolveParameters{
		MaxConsecutive:  2,
		FairnessMargin:  1,
		PreferredWeight: 10,
		NeutralWeight:   1,
		TimeBudget:      30 * time.Second,
	}
}

// ScheduleProblem aggregates everything one scheduling run needs. It is
// built per run and discarded afterwards; instances are never shared across
// runs. Slots must be in chronological order.
type ScheduleProblem struct {
	RunID       uuid.UUID         `json:"runID"`
	Slots       []DutySlot        `json:"slots"`
	Members     []*Member         `json:"members"`
	Preferences []*DutyPreference `json:"preferences"`
	Parameters  SolveParameters   `json:"parameters"`
}

func NewScheduleProblem(slots []DutySlot, members []*Member, preferences []*DutyPreference, params SolveParameters) *ScheduleProblem {
	return &ScheduleProblem{
		RunID:       uuid.New(),
		Slots:       slots,
		Members:     members,
		Preferences: preferences,
		Parameters:  params,
	}
}
