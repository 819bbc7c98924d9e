package scheduler

import (
	"context"
	"math/rand"
	"time"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
)

// HeuristicStrategy is the legacy weighted-random greedy scheduler, kept as
// an alternate implementation of the same Strategy contract for side-by-side
// comparison with the exact search. It runs a number of randomized attempts
// and keeps the best one, so it approximates the hard constraints without
// certifying optimality or infeasibility: slots it could not fill are
// reported, but the status is always FEASIBLE.
//
// With Seed zero the generator is seeded from the clock and runs are NOT
// reproducible. Set Seed for deterministic output.
type HeuristicStrategy struct {
	// Attempts is the number of randomized rosters to draw; the best one is
	// returned. Defaults to 200.
	Attempts int
	// Seed for the random generator; 0 means seed from the clock.
	Seed int64
}

const defaultHeuristicAttempts = 200

func (s HeuristicStrategy) Solve(ctx context.Context, p *domain.ScheduleProblem) (*domain.Assignment, error) {
	m, err := buildModel(p)
	if err != nil {
		return nil, err
	}

	attempts := s.Attempts
	if attempts <= 0 {
		attempts = defaultHeuristicAttempts
	}
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var best []int
	bestFilled, bestScore := -1, -1

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		assign := randomAttempt(m, rng)
		filled, score := evaluate(m, assign)
		if filled > bestFilled || (filled == bestFilled && score > bestScore) {
			bestFilled, bestScore = filled, score
			best = assign
		}
	}

	a := buildAssignment(m, best, domain.StatusFeasible)

	// the legacy scheduler always re-checked its winner before handing it out
	if err := Validate(p, a); err != nil {
		return nil, err
	}
	return a, nil
}

// randomAttempt builds one roster slot by slot, picking among the feasible
// candidates by roulette wheel. The wheel favors preferred slots and members
// with the lightest load (historical plus already assigned this run).
func randomAttempt(m *model, rng *rand.Rand) []int {
	assign := make([]int, len(m.slots))
	counts := make([]int, len(m.members))
	lastIdx := make([]int, len(m.members))
	streak := make([]int, len(m.members))
	for i := range lastIdx {
		lastIdx[i] = -2
	}
	deficit := m.lowerDeficit(counts)

	feasible := make([]int, 0, len(m.members))
	wheel := make([]float64, 0, len(m.members))

	for i := range m.slots {
		assign[i] = -1
		plan := &m.slots[i]
		remaining := len(m.slots) - i
		mustServeDeficit := deficit >= remaining

		feasible = feasible[:0]
		wheel = wheel[:0]
		total := 0.0
		for k, c := range plan.candidates {
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

			load := m.members[c].HistoricalDutyCount + counts[c]
			w := float64(plan.weights[k]) / float64(1+load)
			feasible = append(feasible, k)
			wheel = append(wheel, w)
			total += w
		}

		if len(feasible) == 0 {
			continue
		}

		pick := rng.Float64() * total
		partial := 0.0
		chosen := feasible[len(feasible)-1]
		for j, k := range feasible {
			partial += wheel[j]
			if partial >= pick {
				chosen = k
				break
			}
		}

		c := plan.candidates[chosen]
		assign[i] = c
		counts[c]++
		if counts[c] <= m.loWant[c] {
			deficit--
		}
		if lastIdx[c] == i-1 {
			streak[c]++
		} else {
			streak[c] = 1
		}
		lastIdx[c] = i
	}

	return assign
}

func evaluate(m *model, assign []int) (filled, score int) {
	for i, c := range assign {
		if c < 0 {
			continue
		}
		filled++
		plan := &m.slots[i]
		for k, cand := range plan.candidates {
			if cand == c {
				score += plan.weights[k]
				break
			}
		}
	}
	return filled, score
}
