package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
)

func dutyOfficerSlots(n int) []domain.DutySlot {
	slots := make([]domain.DutySlot, n)
	for i := range slots {
		slots[i] = domain.DutySlot{Date: domain.Date(2026, time.July, i+1), Role: domain.RoleDutyOfficer}
	}
	return slots
}

func dutyOfficers(n int) []*domain.Member {
	members := make([]*domain.Member, n)
	for i := range members {
		members[i] = &domain.Member{
			ID:           int64(i + 1),
			FullName:     "Member",
			Capabilities: domain.NewCapabilitySet(domain.RoleDutyOfficer),
		}
	}
	return members
}

func slotRef(day int, role domain.RoleTag) domain.SlotRef {
	return domain.DutySlot{Date: domain.Date(2026, time.July, day), Role: role}.Ref()
}

// twentySlotProblem is the reference scenario: 10 members, 20 slots, member 1
// skips slots #5 and #12.
func twentySlotProblem() *domain.ScheduleProblem {
	params := domain.DefaultSolveParameters()
	prefs := []*domain.DutyPreference{
		{
			MemberID: 1,
			Skip:     []domain.SlotRef{slotRef(5, domain.RoleDutyOfficer), slotRef(12, domain.RoleDutyOfficer)},
		},
	}
	return domain.NewScheduleProblem(dutyOfficerSlots(20), dutyOfficers(10), prefs, params)
}

func TestExactHonorsSkipListAndFillsEverything(t *testing.T) {
	p := twentySlotProblem()

	a, err := ExactStrategy{}.Solve(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusOptimal, a.Status)
	assert.Equal(t, 1.0, a.FillRate)
	assert.Empty(t, a.Unfilled)
	assert.Nil(t, a.Infeasibility)
	assert.Nil(t, a.Timeout)

	assert.NotEqual(t, int64(1), a.BySlot[slotRef(5, domain.RoleDutyOfficer)])
	assert.NotEqual(t, int64(1), a.BySlot[slotRef(12, domain.RoleDutyOfficer)])

	// fairness band: 20 slots over 10 members means exactly 2 each
	for id, count := range a.Workload.PerMember {
		assert.Equal(t, 2, count, "member %d", id)
	}
	assert.InDelta(t, 2.0, a.Workload.Mean, 1e-9)

	require.NoError(t, Validate(p, a))
}

func TestExactIsDeterministic(t *testing.T) {
	first, err := ExactStrategy{}.Solve(context.Background(), twentySlotProblem())
	require.NoError(t, err)
	second, err := ExactStrategy{}.Solve(context.Background(), twentySlotProblem())
	require.NoError(t, err)

	assert.Equal(t, first.BySlot, second.BySlot)
	assert.Equal(t, first.Unfilled, second.Unfilled)
	assert.Equal(t, first.Objective, second.Objective)
	assert.Equal(t, first.Entries(), second.Entries())
}

func TestExactFavorsPreferredSlots(t *testing.T) {
	params := domain.DefaultSolveParameters()
	slots := dutyOfficerSlots(2)
	members := dutyOfficers(2)
	prefs := []*domain.DutyPreference{
		{MemberID: 2, Preferred: []domain.SlotRef{slotRef(1, domain.RoleDutyOfficer)}},
	}
	p := domain.NewScheduleProblem(slots, members, prefs, params)

	a, err := ExactStrategy{}.Solve(context.Background(), p)
	require.NoError(t, err)

	// each member gets one slot; honoring the preference scores 10+1 while
	// the alternative scores 1+1
	assert.Equal(t, domain.StatusOptimal, a.Status)
	assert.Equal(t, int64(2), a.BySlot[slotRef(1, domain.RoleDutyOfficer)])
	assert.Equal(t, int64(1), a.BySlot[slotRef(2, domain.RoleDutyOfficer)])
	assert.Equal(t, 11, a.Objective)
}

func TestExactBreaksTiesByLowestMemberID(t *testing.T) {
	params := domain.DefaultSolveParameters()
	p := domain.NewScheduleProblem(dutyOfficerSlots(1), dutyOfficers(3), nil, params)

	a, err := ExactStrategy{}.Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.BySlot[slotRef(1, domain.RoleDutyOfficer)])
}

func TestExactInfeasibleTooFewQualifiedMembers(t *testing.T) {
	// 3 members, 10 airport-manager slots, only member 2 qualified, and no
	// back-to-back duty allowed.
	params := domain.DefaultSolveParameters()
	params.MaxConsecutive = 1

	slots := make([]domain.DutySlot, 10)
	for i := range slots {
		slots[i] = domain.DutySlot{Date: domain.Date(2026, time.July, i+1), Role: domain.RoleAirportManager}
	}
	members := []*domain.Member{
		{ID: 1, FullName: "One", Capabilities: domain.NewCapabilitySet(domain.RoleTowPilot)},
		{ID: 2, FullName: "Two", Capabilities: domain.NewCapabilitySet(domain.RoleAirportManager)},
		{ID: 3, FullName: "Three", Capabilities: domain.NewCapabilitySet(domain.RoleInstructor)},
	}
	p := domain.NewScheduleProblem(slots, members, nil, params)

	a, err := ExactStrategy{}.Solve(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusInfeasible, a.Status)
	require.NotNil(t, a.Infeasibility)
	assert.Equal(t, domain.CauseInsufficientQualifiedMembers, a.Infeasibility.Cause)

	// best effort still hands back what was coverable
	assert.NotEmpty(t, a.BySlot)
	assert.NotEmpty(t, a.Unfilled)
	require.NoError(t, Validate(p, a))
}

func TestExactInfeasibleSkipListOverExclusion(t *testing.T) {
	params := domain.DefaultSolveParameters()
	slots := dutyOfficerSlots(4)
	members := dutyOfficers(2)
	prefs := []*domain.DutyPreference{
		{MemberID: 1, Skip: []domain.SlotRef{
			slotRef(1, domain.RoleDutyOfficer),
			slotRef(2, domain.RoleDutyOfficer),
			slotRef(3, domain.RoleDutyOfficer),
			slotRef(4, domain.RoleDutyOfficer),
		}},
	}
	p := domain.NewScheduleProblem(slots, members, prefs, params)

	a, err := ExactStrategy{}.Solve(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusInfeasible, a.Status)
	require.NotNil(t, a.Infeasibility)
	assert.Equal(t, domain.CauseSkipListOverExclusion, a.Infeasibility.Cause)
}

func TestExactInfeasibleConsecutiveLimitTooTight(t *testing.T) {
	params := domain.DefaultSolveParameters()
	params.MaxConsecutive = 1
	p := domain.NewScheduleProblem(dutyOfficerSlots(2), dutyOfficers(1), nil, params)

	a, err := ExactStrategy{}.Solve(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusInfeasible, a.Status)
	require.NotNil(t, a.Infeasibility)
	assert.Equal(t, domain.CauseConsecutiveLimitTooTight, a.Infeasibility.Cause)
}

func TestExactTimeBudgetReturnsBestEffort(t *testing.T) {
	p := twentySlotProblem()
	p.Parameters.TimeBudget = time.Nanosecond

	a, err := ExactStrategy{}.Solve(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFeasible, a.Status)
	require.NotNil(t, a.Timeout)
	assert.Equal(t, time.Nanosecond, a.Timeout.Budget)
	require.NoError(t, Validate(p, a))
}

func TestExactCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExactStrategy{}.Solve(ctx, twentySlotProblem())
	require.ErrorIs(t, err, context.Canceled)
}

func TestExactRespectsMemberConsecutiveOverride(t *testing.T) {
	params := domain.DefaultSolveParameters()
	one := 1
	prefs := []*domain.DutyPreference{
		{MemberID: 1, MaxConsecutive: &one},
	}
	p := domain.NewScheduleProblem(dutyOfficerSlots(3), dutyOfficers(2), prefs, params)

	a, err := ExactStrategy{}.Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, domain.StatusOptimal, a.Status)

	prev := false
	for day := 1; day <= 3; day++ {
		cur := a.BySlot[slotRef(day, domain.RoleDutyOfficer)] == 1
		assert.False(t, prev && cur, "member 1 holds consecutive slots despite override")
		prev = cur
	}
}

func TestExactRespectsDateBounds(t *testing.T) {
	params := domain.DefaultSolveParameters()
	prefs := []*domain.DutyPreference{
		{MemberID: 2, LatestDate: "2026-07-02"},
	}
	p := domain.NewScheduleProblem(dutyOfficerSlots(4), dutyOfficers(2), prefs, params)

	a, err := ExactStrategy{}.Solve(context.Background(), p)
	require.NoError(t, err)

	for day := 3; day <= 4; day++ {
		assert.NotEqual(t, int64(2), a.BySlot[slotRef(day, domain.RoleDutyOfficer)])
	}
	require.NoError(t, Validate(p, a))
}

func TestExactEmptyProblem(t *testing.T) {
	p := domain.NewScheduleProblem(nil, dutyOfficers(2), nil, domain.DefaultSolveParameters())

	a, err := ExactStrategy{}.Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOptimal, a.Status)
	assert.Equal(t, 1.0, a.FillRate)
	assert.Empty(t, a.BySlot)
}
