package scheduler

import (
	"context"
	"time"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
)

// ExactStrategy solves the assignment model with a depth-first
// branch-and-bound search over the slots in chronological order. It either
// proves optimality, proves that full coverage is infeasible, or returns the
// best solution found within the time budget.
//
// Identical inputs always produce identical outputs: candidates are explored
// in a fixed order (preference weight descending, then member ID ascending)
// and only strict objective improvements replace the incumbent, so among
// equally optimal solutions the one assigning the lowest member IDs wins.
type ExactStrategy struct{}

func (ExactStrategy) Solve(ctx context.Context, p *domain.ScheduleProblem) (*domain.Assignment, error) {
	m, err := buildModel(p)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(m.slots) == 0 {
		return buildAssignment(m, nil, domain.StatusOptimal), nil
	}

	var deadline time.Time
	hasDeadline := false
	if p.Parameters.TimeBudget > 0 {
		deadline = time.Now().Add(p.Parameters.TimeBudget)
		hasDeadline = true
	}
	if d, ok := ctx.Deadline(); ok && (!hasDeadline || d.Before(deadline)) {
		deadline = d
		hasDeadline = true
	}

	// A slot nobody is eligible for rules out full coverage without a search.
	coverable := true
	for i := range m.slots {
		if len(m.slots[i].candidates) == 0 {
			coverable = false
			break
		}
	}

	var search *exactSearch
	if coverable {
		search = newExactSearch(ctx, m, deadline, hasDeadline)
		search.dfs(0, 0)
		if search.ctx.cancelled {
			return nil, ctx.Err()
		}
	}

	switch {
	case search != nil && search.found && !search.ctx.timedOut:
		return buildAssignment(m, search.best, domain.StatusOptimal), nil

	case search != nil && search.found && search.ctx.timedOut:
		a := buildAssignment(m, search.best, domain.StatusFeasible)
		a.Timeout = &domain.SolverTimeoutError{Budget: p.Parameters.TimeBudget}
		return a, nil

	case search != nil && search.ctx.timedOut:
		// budget ran out before any full solution appeared; fall back to a
		// deterministic greedy pass so the caller still gets a roster
		a := buildAssignment(m, bestEffortGreedy(m), domain.StatusFeasible)
		a.Timeout = &domain.SolverTimeoutError{Budget: p.Parameters.TimeBudget}
		return a, nil

	default:
		// search space exhausted with no full-coverage solution
		a := buildAssignment(m, bestEffortGreedy(m), domain.StatusInfeasible)
		a.Infeasibility = classifyInfeasibility(m)
		return a, nil
	}
}

type exactSearch struct {
	ctx *searchContext
	m   *model

	assign  []int // member index per slot, -1 = open
	counts  []int
	lastIdx []int // last slot index held per member, -2 = none
	streak  []int
	deficit int

	best      []int
	bestScore int
	found     bool

	suffixMax []int // suffixMax[i] = max achievable weight over slots i..end
}

// searchContext bundles deadline and cancellation polling so the hot path
// only pays for a time syscall every few hundred nodes.
type searchContext struct {
	ctx         context.Context
	deadline    time.Time
	hasDeadline bool
	nodes       int
	timedOut    bool
	cancelled   bool
}

func (c *searchContext) done() bool {
	if c.timedOut || c.cancelled {
		return true
	}
	c.nodes++
	if c.nodes%512 != 0 {
		return false
	}
	if c.ctx.Err() != nil {
		c.cancelled = true
		return true
	}
	if c.hasDeadline && !time.Now().Before(c.deadline) {
		c.timedOut = true
		return true
	}
	return false
}

func newExactSearch(ctx context.Context, m *model, deadline time.Time, hasDeadline bool) *exactSearch {
	s := &exactSearch{
		ctx:       &searchContext{ctx: ctx, deadline: deadline, hasDeadline: hasDeadline},
		m:         m,
		assign:    make([]int, len(m.slots)),
		counts:    make([]int, len(m.members)),
		lastIdx:   make([]int, len(m.members)),
		streak:    make([]int, len(m.members)),
		bestScore: -1,
		suffixMax: make([]int, len(m.slots)+1),
	}
	for i := range s.assign {
		s.assign[i] = -1
	}
	for i := range s.lastIdx {
		s.lastIdx[i] = -2
	}
	for i := len(m.slots) - 1; i >= 0; i-- {
		s.suffixMax[i] = s.suffixMax[i+1] + m.slots[i].maxWeight
	}
	s.deficit = m.lowerDeficit(s.counts)
	if hasDeadline && !time.Now().Before(deadline) {
		s.ctx.timedOut = true
	}
	return s
}

func (s *exactSearch) dfs(i, score int) {
	if s.ctx.done() {
		return
	}

	if i == len(s.m.slots) {
		if score > s.bestScore {
			s.bestScore = score
			s.best = append([]int(nil), s.assign...)
			s.found = true
		}
		return
	}

	// optimistic bound: even taking the best weight of every remaining slot
	// cannot beat the incumbent
	if s.found && score+s.suffixMax[i] <= s.bestScore {
		return
	}

	// fairness lower bounds must remain reachable
	remaining := len(s.m.slots) - i
	if s.deficit > remaining {
		return
	}
	if s.deficit > 0 {
		for mi, want := range s.m.loWant {
			if want-s.counts[mi] > s.m.eligFrom[i][mi] {
				return
			}
		}
	}
	mustServeDeficit := s.deficit == remaining

	plan := &s.m.slots[i]
	for k, c := range plan.candidates {
		if s.counts[c] >= s.m.hiCap {
			continue
		}
		if mustServeDeficit && s.counts[c] >= s.m.loWant[c] {
			continue
		}
		newStreak := 1
		if s.lastIdx[c] == i-1 {
			newStreak = s.streak[c] + 1
		}
		if newStreak > s.m.maxRun[c] {
			continue
		}

		oldLast, oldStreak := s.lastIdx[c], s.streak[c]
		s.assign[i] = c
		s.counts[c]++
		if s.counts[c] <= s.m.loWant[c] {
			s.deficit--
		}
		s.lastIdx[c], s.streak[c] = i, newStreak

		s.dfs(i+1, score+plan.weights[k])

		if s.counts[c] <= s.m.loWant[c] {
			s.deficit++
		}
		s.counts[c]--
		s.lastIdx[c], s.streak[c] = oldLast, oldStreak
		s.assign[i] = -1

		if s.ctx.timedOut || s.ctx.cancelled {
			return
		}
	}
}

// bestEffortGreedy fills as many slots as it can in one deterministic pass,
// honoring the hard constraints but not the fairness lower bound (which is
// only guaranteed for feasible problems). Used when no full-coverage
// solution is available.
func bestEffortGreedy(m *model) []int {
	assign := make([]int, len(m.slots))
	counts := make([]int, len(m.members))
	lastIdx := make([]int, len(m.members))
	streak := make([]int, len(m.members))
	for i := range lastIdx {
		lastIdx[i] = -2
	}
	deficit := m.lowerDeficit(counts)

	for i := range m.slots {
		assign[i] = -1
		plan := &m.slots[i]
		remaining := len(m.slots) - i
		mustServeDeficit := deficit >= remaining

		for _, c := range plan.candidates {
			if counts[c] >= m.hiCap {
				continue
			}
			if mustServeDeficit && counts[c] >= m.loWant[c] {
				continue
			}
			newStreak := 1
			if lastIdx[c] == i-1 {
				newStreak = streak[c] + 1
			}
			if newStreak > m.maxRun[c] {
				continue
			}

			assign[i] = c
			counts[c]++
			if counts[c] <= m.loWant[c] {
				deficit--
			}
			lastIdx[c], streak[c] = i, newStreak
			break
		}
	}

	return assign
}
