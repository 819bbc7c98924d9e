package scheduler

import (
	"fmt"
	"slices"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
)

// Validate checks an assignment against the problem's hard constraints. Both
// strategies must pass this identical suite to count as interchangeable; the
// heuristic also runs it over its winner before returning.
//
// The fairness lower bound is only checked for fully filled rosters: partial
// (best-effort) results legitimately leave some members short.
func Validate(p *domain.ScheduleProblem, a *domain.Assignment) error {
	m, err := buildModel(p)
	if err != nil {
		return err
	}

	unfilled := make(map[domain.SlotRef]bool, len(a.Unfilled))
	for _, ref := range a.Unfilled {
		unfilled[ref] = true
	}

	counts := make([]int, len(m.members))
	lastIdx := make([]int, len(m.members))
	streak := make([]int, len(m.members))
	for i := range lastIdx {
		lastIdx[i] = -2
	}

	memberIdx := make(map[int64]int, len(m.members))
	for i, member := range m.members {
		memberIdx[member.ID] = i
	}

	accounted := 0
	for i := range m.slots {
		ref := m.slots[i].ref
		memberID, assigned := a.BySlot[ref]

		switch {
		case assigned && unfilled[ref]:
			return &domain.ValidationError{Subject: ref.String(), Reason: "slot is both assigned and unfilled"}
		case !assigned && !unfilled[ref]:
			return &domain.ValidationError{Subject: ref.String(), Reason: "slot is neither assigned nor reported unfilled"}
		case !assigned:
			accounted++
			continue
		}
		accounted++

		c, ok := memberIdx[memberID]
		if !ok {
			return &domain.ValidationError{Subject: ref.String(), Reason: fmt.Sprintf("assigned member %d is not part of this run", memberID)}
		}
		if !slices.Contains(m.slots[i].candidates, c) {
			return &domain.ValidationError{Subject: ref.String(), Reason: fmt.Sprintf("member %d is not eligible for this slot (role, skip list, or date bounds)", memberID)}
		}

		counts[c]++
		if counts[c] > m.hiCap {
			return &domain.ValidationError{Subject: fmt.Sprintf("member %d", memberID), Reason: fmt.Sprintf("assigned %d slots, above the fairness cap of %d", counts[c], m.hiCap)}
		}

		if lastIdx[c] == i-1 {
			streak[c]++
		} else {
			streak[c] = 1
		}
		lastIdx[c] = i
		if streak[c] > m.maxRun[c] {
			return &domain.ValidationError{Subject: fmt.Sprintf("member %d", memberID), Reason: fmt.Sprintf("holds %d consecutive slots, above the limit of %d", streak[c], m.maxRun[c])}
		}
	}

	if accounted != len(m.slots) || len(a.BySlot)+len(a.Unfilled) != len(m.slots) {
		return &domain.ValidationError{Subject: "assignment", Reason: "assignment references slots outside this run"}
	}

	if len(a.Unfilled) == 0 {
		for i, member := range m.members {
			if counts[i] < m.loWant[i] {
				return &domain.ValidationError{Subject: fmt.Sprintf("member %d", member.ID), Reason: fmt.Sprintf("assigned %d slots, below the fairness floor of %d", counts[i], m.loWant[i])}
			}
		}
	}

	return nil
}
