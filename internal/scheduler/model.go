package scheduler

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
)

// slotPlan is one slot's solve-time view: its eligible members in fixed
// candidate order (weight descending, then member ID ascending, so that ties
// between equally good solutions resolve to the lowest member ID).
type slotPlan struct {
	slot       domain.DutySlot
	ref        domain.SlotRef
	candidates []int // indices into model.members
	weights    []int // parallel to candidates
	maxWeight  int
	qualified  int // members with the role capability, before skip/bounds
}

// model is the constraint model both strategies solve: eligibility per slot,
// effective per-member consecutive limits, and the fairness band.
type model struct {
	problem *domain.ScheduleProblem
	slots   []slotPlan
	members []*domain.Member

	maxRun   []int // effective consecutive limit per member
	eligible []int // eligible slot count per member
	hiCap    int   // fairness band upper bound
	loWant   []int // fairness band lower bound, clamped to eligibility

	// eligFrom[i][m] counts slots at index >= i that member m is eligible
	// for; used to prune branches that can no longer satisfy lower bounds.
	eligFrom [][]int
}

func (m *model) lowerDeficit(counts []int) int {
	deficit := 0
	for i, want := range m.loWant {
		if counts[i] < want {
			deficit += want - counts[i]
		}
	}
	return deficit
}

// buildModel validates the problem and precomputes the solve model. All
// validation failures surface as *domain.ValidationError before any solving
// happens.
func buildModel(p *domain.ScheduleProblem) (*model, error) {
	if len(p.Members) == 0 {
		return nil, &domain.ValidationError{Subject: "members", Reason: "at least one member is required"}
	}

	// slots must be unique and chronological
	slots := make([]domain.DutySlot, len(p.Slots))
	copy(slots, p.Slots)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Date.Before(slots[j].Date) })

	slotIndex := make(map[domain.SlotRef]int, len(slots))
	for i, slot := range slots {
		ref := slot.Ref()
		if _, dup := slotIndex[ref]; dup {
			return nil, &domain.ValidationError{Subject: ref.String(), Reason: "duplicate slot definition"}
		}
		slotIndex[ref] = i
	}

	memberIndex := make(map[int64]int, len(p.Members))
	for i, member := range p.Members {
		if _, dup := memberIndex[member.ID]; dup {
			return nil, &domain.ValidationError{Subject: fmt.Sprintf("member %d", member.ID), Reason: "duplicate member"}
		}
		memberIndex[member.ID] = i
	}

	m := &model{
		problem:  p,
		members:  p.Members,
		maxRun:   make([]int, len(p.Members)),
		eligible: make([]int, len(p.Members)),
		loWant:   make([]int, len(p.Members)),
	}
	for i := range m.maxRun {
		m.maxRun[i] = p.Parameters.MaxConsecutive
	}

	// per-member preference lookups
	skip := make([]map[domain.SlotRef]bool, len(p.Members))
	preferred := make([]map[domain.SlotRef]bool, len(p.Members))
	earliest := make([]time.Time, len(p.Members))
	latest := make([]time.Time, len(p.Members))
	hasEarliest := make([]bool, len(p.Members))
	hasLatest := make([]bool, len(p.Members))

	seenPref := make(map[int64]bool, len(p.Preferences))
	for _, pref := range p.Preferences {
		mi, ok := memberIndex[pref.MemberID]
		if !ok {
			return nil, &domain.ValidationError{
				Subject: fmt.Sprintf("preference for member %d", pref.MemberID),
				Reason:  "member is not part of this run",
			}
		}
		if seenPref[pref.MemberID] {
			return nil, &domain.ValidationError{
				Subject: fmt.Sprintf("preference for member %d", pref.MemberID),
				Reason:  "duplicate preference entry",
			}
		}
		seenPref[pref.MemberID] = true

		skip[mi] = make(map[domain.SlotRef]bool, len(pref.Skip))
		for _, ref := range pref.Skip {
			if _, ok := slotIndex[ref]; !ok {
				return nil, &domain.ValidationError{
					Subject: fmt.Sprintf("skip entry %s of member %d", ref, pref.MemberID),
					Reason:  "slot does not exist in this run",
				}
			}
			skip[mi][ref] = true
		}

		preferred[mi] = make(map[domain.SlotRef]bool, len(pref.Preferred))
		for _, ref := range pref.Preferred {
			if _, ok := slotIndex[ref]; !ok {
				return nil, &domain.ValidationError{
					Subject: fmt.Sprintf("preferred entry %s of member %d", ref, pref.MemberID),
					Reason:  "slot does not exist in this run",
				}
			}
			preferred[mi][ref] = true
		}

		if pref.MaxConsecutive != nil {
			if *pref.MaxConsecutive < 1 {
				return nil, &domain.ValidationError{
					Subject: fmt.Sprintf("maxConsecutive of member %d", pref.MemberID),
					Reason:  "must be at least 1",
				}
			}
			m.maxRun[mi] = *pref.MaxConsecutive
		}

		var err error
		if pref.EarliestDate != "" {
			earliest[mi], err = time.ParseInLocation(domain.DateLayout, pref.EarliestDate, time.UTC)
			if err != nil {
				return nil, &domain.ValidationError{
					Subject: fmt.Sprintf("earliestDate of member %d", pref.MemberID),
					Reason:  fmt.Sprintf("not a %s date: %q", domain.DateLayout, pref.EarliestDate),
				}
			}
			hasEarliest[mi] = true
		}
		if pref.LatestDate != "" {
			latest[mi], err = time.ParseInLocation(domain.DateLayout, pref.LatestDate, time.UTC)
			if err != nil {
				return nil, &domain.ValidationError{
					Subject: fmt.Sprintf("latestDate of member %d", pref.MemberID),
					Reason:  fmt.Sprintf("not a %s date: %q", domain.DateLayout, pref.LatestDate),
				}
			}
			hasLatest[mi] = true
		}
	}

	// candidate lists per slot
	m.slots = make([]slotPlan, len(slots))
	for i, slot := range slots {
		plan := slotPlan{slot: slot, ref: slot.Ref()}

		for mi, member := range p.Members {
			if !member.Capabilities.Has(slot.Role) {
				continue
			}
			plan.qualified++

			if skip[mi][plan.ref] {
				continue
			}
			if hasEarliest[mi] && slot.Date.Before(earliest[mi]) {
				continue
			}
			if hasLatest[mi] && slot.Date.After(latest[mi]) {
				continue
			}

			weight := p.Parameters.NeutralWeight
			if preferred[mi][plan.ref] {
				weight = p.Parameters.PreferredWeight
			}
			plan.candidates = append(plan.candidates, mi)
			plan.weights = append(plan.weights, weight)
			if weight > plan.maxWeight {
				plan.maxWeight = weight
			}
			m.eligible[mi]++
		}

		// fixed candidate order: weight descending, member ID ascending
		order := make([]int, len(plan.candidates))
		for k := range order {
			order[k] = k
		}
		sort.SliceStable(order, func(a, b int) bool {
			if plan.weights[order[a]] != plan.weights[order[b]] {
				return plan.weights[order[a]] > plan.weights[order[b]]
			}
			return p.Members[plan.candidates[order[a]]].ID < p.Members[plan.candidates[order[b]]].ID
		})
		cands := make([]int, len(order))
		weights := make([]int, len(order))
		for k, o := range order {
			cands[k] = plan.candidates[o]
			weights[k] = plan.weights[o]
		}
		plan.candidates = cands
		plan.weights = weights

		m.slots[i] = plan
	}

	// fairness band around the group average
	avg := float64(len(slots)) / float64(len(p.Members))
	margin := p.Parameters.FairnessMargin
	m.hiCap = int(math.Ceil(avg)) + margin - 1
	lo := int(math.Floor(avg)) - (margin - 1)
	if lo < 0 {
		lo = 0
	}
	for mi := range p.Members {
		// a member cannot owe more assignments than they are eligible for
		m.loWant[mi] = min(lo, m.eligible[mi])
	}

	// suffix eligibility counts for lower-bound pruning
	m.eligFrom = make([][]int, len(slots)+1)
	m.eligFrom[len(slots)] = make([]int, len(p.Members))
	for i := len(slots) - 1; i >= 0; i-- {
		row := make([]int, len(p.Members))
		copy(row, m.eligFrom[i+1])
		for _, c := range m.slots[i].candidates {
			row[c]++
		}
		m.eligFrom[i] = row
	}

	return m, nil
}
