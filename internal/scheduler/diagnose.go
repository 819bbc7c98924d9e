package scheduler

import (
	"fmt"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
)

// classifyInfeasibility names the constraint class most likely responsible
// for the lack of a full-coverage assignment. The checks run from the
// bluntest shortage to the subtlest so the report points at the first thing
// a human should fix.
func classifyInfeasibility(m *model) *domain.InfeasibleScheduleError {
	// a slot with nobody qualified for its role
	for i := range m.slots {
		if m.slots[i].qualified == 0 {
			return &domain.InfeasibleScheduleError{
				Cause:  domain.CauseInsufficientQualifiedMembers,
				Detail: fmt.Sprintf("no member is qualified for slot %s", m.slots[i].ref),
			}
		}
	}

	// per-role demand against what the qualified members may take under the
	// fairness cap
	demand := make(map[domain.RoleTag]int)
	qualified := make(map[domain.RoleTag]int)
	for i := range m.slots {
		role := m.slots[i].slot.Role
		demand[role]++
		if _, seen := qualified[role]; !seen {
			for _, member := range m.members {
				if member.Capabilities.Has(role) {
					qualified[role] += m.hiCap
				}
			}
		}
	}
	for role, need := range demand {
		if need > qualified[role] {
			return &domain.InfeasibleScheduleError{
				Cause: domain.CauseInsufficientQualifiedMembers,
				Detail: fmt.Sprintf("%d %s slots but qualified members can take at most %d between them",
					need, role, qualified[role]),
			}
		}
	}

	// qualified members exist but skip lists or date bounds emptied a slot
	for i := range m.slots {
		if len(m.slots[i].candidates) == 0 {
			return &domain.InfeasibleScheduleError{
				Cause:  domain.CauseSkipListOverExclusion,
				Detail: fmt.Sprintf("every qualified member is excluded from slot %s", m.slots[i].ref),
			}
		}
	}

	// per-role demand against remaining eligibility after exclusions
	byRole := make(map[domain.RoleTag]map[int]int)
	for i := range m.slots {
		role := m.slots[i].slot.Role
		if byRole[role] == nil {
			byRole[role] = make(map[int]int)
		}
		for _, c := range m.slots[i].candidates {
			byRole[role][c]++
		}
	}
	for role, need := range demand {
		capacity := 0
		for _, n := range byRole[role] {
			capacity += min(m.hiCap, n)
		}
		if need > capacity {
			return &domain.InfeasibleScheduleError{
				Cause: domain.CauseSkipListOverExclusion,
				Detail: fmt.Sprintf("skip lists leave capacity for only %d of %d %s slots",
					capacity, need, role),
			}
		}
	}

	return &domain.InfeasibleScheduleError{
		Cause:  domain.CauseConsecutiveLimitTooTight,
		Detail: "eligible members exist for every slot; the consecutive-slot limit is the remaining binding constraint",
	}
}
