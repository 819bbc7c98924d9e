package domain

import (
	"sort"

	"github.com/google/uuid"
)

type SolverStatus string

const (
	// StatusOptimal: the search completed and the returned assignment is
	// provably the best one under the configured objective.
	StatusOptimal SolverStatus = "OPTIMAL"
	// StatusFeasible: a valid assignment was found but optimality was not
	// proven, typically because the time budget ran out.
	StatusFeasible SolverStatus = "FEASIBLE"
	// StatusInfeasible: no assignment covering every slot exists under the
	// hard constraints; the result is best effort.
	StatusInfeasible SolverStatus = "INFEASIBLE"
)

// Workload summarizes per-member assignment counts for fairness review.
type Workload struct {
	PerMember map[int64]int `json:"perMember"`
	Mean      float64       `json:"mean"`
	StdDev    float64       `json:"stdDev"`
}

// AssignmentEntry is one (slot, member) pair of a resolved roster.
type AssignmentEntry struct {
	Slot     SlotRef `json:"slot"`
	MemberID int64   `json:"memberID"`
}

// Assignment is the solver's output: a slot→member mapping plus the
// diagnostics a reviewer needs to judge it. Slots the solver could not fill
// appear in Unfilled, never silently vanish.
type Assignment struct {
	RunID  uuid.UUID    `json:"runID"`
	Status SolverStatus `json:"status"`

	BySlot   map[SlotRef]int64 `json:"-"`
	Unfilled []SlotRef         `json:"unfilled"`

	// Objective is the preference-weighted score of the made assignments.
	Objective int `json:"objective"`
	// FillRate is assigned slots over total slots; 1 when there were none.
	FillRate float64 `json:"fillRate"`

	Excluded []ExcludedDate `json:"excludedDates"`
	Workload Workload       `json:"workload"`

	// Infeasibility is set when Status is INFEASIBLE and names the most
	// likely binding constraint class.
	Infeasibility *InfeasibleScheduleError `json:"infeasibility,omitempty"`
	// Timeout is set when the time budget expired; the assignment is then
	// the best found so far.
	Timeout *SolverTimeoutError `json:"timeout,omitempty"`
}

// Entries returns the made assignments sorted by slot, for stable rendering.
func (a *Assignment) Entries() []AssignmentEntry {
	entries := make([]AssignmentEntry, 0, len(a.BySlot))
	for ref, memberID := range a.BySlot {
		entries = append(entries, AssignmentEntry{Slot: ref, MemberID: memberID})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Slot.Date != entries[j].Slot.Date {
			return entries[i].Slot.Date < entries[j].Slot.Date
		}
		return entries[i].Slot.Role < entries[j].Slot.Role
	})
	return entries
}
