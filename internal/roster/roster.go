// Package roster is the adjustment layer between the assignment engine and
// whatever stores or announces the final duty roster. A roster starts as a
// DRAFT of the solver's output, takes zero or more manual removals, and is
// then committed exactly once.
package roster

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
)

type State string

const (
	StateDraft     State = "DRAFT"
	StateAdjusted  State = "ADJUSTED"
	StatePublished State = "PUBLISHED"
)

var ErrPublished = errors.New("roster already published")

// Roster wraps a candidate assignment during human review. Removals are pure
// list subtraction: the solver is never re-invoked, removed entries simply do
// not appear in the committed result.
type Roster struct {
	state      State
	assignment *domain.Assignment
	removed    []domain.SlotRef
	removedSet map[domain.SlotRef]bool
}

// Draft wraps the engine's output for review. The assignment already carries
// the generator's excluded-date diagnostics.
func Draft(assignment *domain.Assignment) *Roster {
	return &Roster{
		state:      StateDraft,
		assignment: assignment,
		removedSet: make(map[domain.SlotRef]bool),
	}
}

func (r *Roster) State() State                   { return r.state }
func (r *Roster) Assignment() *domain.Assignment { return r.assignment }

// Remove takes one assigned entry out of the candidate roster. The slot
// becomes "intentionally unfilled", which the committed result keeps distinct
// from slots the solver could not fill.
func (r *Roster) Remove(ref domain.SlotRef) error {
	if r.state == StatePublished {
		return ErrPublished
	}
	if r.removedSet[ref] {
		return &domain.ValidationError{Subject: ref.String(), Reason: "entry already removed"}
	}
	if _, ok := r.assignment.BySlot[ref]; !ok {
		return &domain.ValidationError{Subject: ref.String(), Reason: "no such entry in the candidate roster"}
	}

	r.removed = append(r.removed, ref)
	r.removedSet[ref] = true
	r.state = StateAdjusted
	return nil
}

// CommittedRoster is what reaches the persistence and notification
// collaborators.
type CommittedRoster struct {
	RunID   uuid.UUID                `json:"runID"`
	Status  domain.SolverStatus      `json:"status"`
	Entries []domain.AssignmentEntry `json:"entries"`

	// RemovedSlots were taken out during review; UnfilledSlots are the ones
	// the solver could not fill.
	RemovedSlots  []domain.SlotRef `json:"removedSlots"`
	UnfilledSlots []domain.SlotRef `json:"unfilledSlots"`

	ExcludedDates []domain.ExcludedDate `json:"excludedDates"`
	Objective     int                   `json:"objective"`
	FillRate      float64               `json:"fillRate"`
	Workload      domain.Workload       `json:"workload"`
	PublishedAt   time.Time             `json:"publishedAt"`
}

// Committer is the downstream collaborator that durably stores (and later
// announces) a published roster.
type Committer interface {
	SaveRoster(ctx context.Context, roster *CommittedRoster) error
}

// Commit publishes the adjusted roster. On success the roster transitions to
// PUBLISHED and rejects further changes; on error it stays where it was so
// the caller may retry.
func (r *Roster) Commit(ctx context.Context, committer Committer) (*CommittedRoster, error) {
	if r.state == StatePublished {
		return nil, ErrPublished
	}

	entries := make([]domain.AssignmentEntry, 0, len(r.assignment.BySlot))
	for _, entry := range r.assignment.Entries() {
		if !r.removedSet[entry.Slot] {
			entries = append(entries, entry)
		}
	}

	removed := append([]domain.SlotRef(nil), r.removed...)
	sort.Slice(removed, func(i, j int) bool {
		if removed[i].Date != removed[j].Date {
			return removed[i].Date < removed[j].Date
		}
		return removed[i].Role < removed[j].Role
	})

	committed := &CommittedRoster{
		RunID:         r.assignment.RunID,
		Status:        r.assignment.Status,
		Entries:       entries,
		RemovedSlots:  removed,
		UnfilledSlots: append([]domain.SlotRef(nil), r.assignment.Unfilled...),
		ExcludedDates: append([]domain.ExcludedDate(nil), r.assignment.Excluded...),
		Objective:     r.assignment.Objective,
		FillRate:      r.assignment.FillRate,
		Workload:      r.assignment.Workload,
		PublishedAt:   time.Now().UTC(),
	}

	if err := committer.SaveRoster(ctx, committed); err != nil {
		return nil, err
	}

	r.state = StatePublished
	return committed, nil
}
