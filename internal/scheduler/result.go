package scheduler

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
)

// buildAssignment converts a raw member-index-per-slot solution into the
// public Assignment shape with its diagnostics. assign may be nil for an
// empty problem; -1 entries are unfilled slots.
func buildAssignment(m *model, assign []int, status domain.SolverStatus) *domain.Assignment {
	a := &domain.Assignment{
		RunID:    m.problem.RunID,
		Status:   status,
		BySlot:   make(map[domain.SlotRef]int64, len(m.slots)),
		Unfilled: []domain.SlotRef{},
		FillRate: 1,
	}

	counts := make([]int, len(m.members))
	filled := 0
	for i := range m.slots {
		c := -1
		if i < len(assign) {
			c = assign[i]
		}
		if c < 0 {
			a.Unfilled = append(a.Unfilled, m.slots[i].ref)
			continue
		}
		a.BySlot[m.slots[i].ref] = m.members[c].ID
		counts[c]++
		filled++

		plan := &m.slots[i]
		for k, cand := range plan.candidates {
			if cand == c {
				a.Objective += plan.weights[k]
				break
			}
		}
	}

	if len(m.slots) > 0 {
		a.FillRate = float64(filled) / float64(len(m.slots))
	}
	a.Workload = workload(m, counts)

	return a
}

// workload summarizes per-member totals; members with zero assignments are
// included so the spread is honest.
func workload(m *model, counts []int) domain.Workload {
	w := domain.Workload{PerMember: make(map[int64]int, len(m.members))}

	xs := make([]float64, len(counts))
	for i, member := range m.members {
		w.PerMember[member.ID] = counts[i]
		xs[i] = float64(counts[i])
	}

	w.Mean = stat.Mean(xs, nil)
	if len(xs) > 1 {
		w.StdDev = stat.StdDev(xs, nil)
	}
	return w
}
