// Package scheduler assigns club members to duty slots. It builds one
// constraint model per run and solves it with either an exact
// branch-and-bound strategy or the legacy weighted-random greedy heuristic,
// both behind the same Strategy contract.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
	"github.com/ridgeline-soaring/duty-roster/internal/roster"
	"github.com/ridgeline-soaring/duty-roster/internal/runlock"
	"github.com/ridgeline-soaring/duty-roster/internal/season"
)

// Strategy solves one schedule problem. Implementations must be safe to
// reuse across runs; all run state lives in the problem.
type Strategy interface {
	Solve(ctx context.Context, problem *domain.ScheduleProblem) (*domain.Assignment, error)
}

// RunRequest describes one scheduling run: the window to fill, the season
// restricting it, and the people and rules to fill it with.
type RunRequest struct {
	Window      season.Window `validate:"required"`
	Season      *domain.OperationalSeason
	Roles       []domain.RoleTag         `validate:"required,min=1"`
	Members     []*domain.Member         `validate:"required,min=1,dive,required"`
	Preferences []*domain.DutyPreference `validate:"dive,required"`
	Parameters  domain.SolveParameters   `validate:"required"`
}

// lockKey identifies the (period, season) a run must hold exclusively.
func (req *RunRequest) lockKey() string {
	return fmt.Sprintf("%s..%s|%s",
		req.Window.Start.Format(domain.DateLayout),
		req.Window.End.Format(domain.DateLayout),
		req.Season.String())
}

// Runner drives one scheduling run end to end: resolve the season, generate
// candidate slots, solve, and hand the result to the adjustment layer as a
// draft roster.
type Runner struct {
	strategy Strategy
	locker   runlock.Locker
	logger   *slog.Logger
	validate *validator.Validate
}

func NewRunner(strategy Strategy, locker runlock.Locker, logger *slog.Logger) *Runner {
	return &Runner{
		strategy: strategy,
		locker:   locker,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (r *Runner) Run(ctx context.Context, req *RunRequest) (*roster.Roster, error) {
	if err := r.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid run request: %w", err)
	}

	interval, err := season.ResolveSeason(req.Season, req.Window.Start.Year())
	if err != nil {
		return nil, err
	}

	slots, excluded := season.Generate(req.Window, interval, req.Roles)

	release, err := r.locker.Acquire(ctx, req.lockKey())
	if err != nil {
		return nil, err
	}
	defer release()

	problem := domain.NewScheduleProblem(slots, req.Members, req.Preferences, req.Parameters)

	r.logger.Info("solving duty roster",
		"runID", problem.RunID,
		"season", req.Season.String(),
		"slots", len(slots),
		"excludedDates", len(excluded),
		"members", len(req.Members),
	)

	assignment, err := r.strategy.Solve(ctx, problem)
	if err != nil {
		return nil, err
	}
	assignment.Excluded = excluded

	logger := r.logger.With("runID", problem.RunID, "status", assignment.Status)
	switch {
	case assignment.Infeasibility != nil:
		logger.Warn("no full roster exists", "cause", assignment.Infeasibility.Cause, "detail", assignment.Infeasibility.Detail)
	case assignment.Timeout != nil:
		logger.Warn("time budget exceeded, returning best roster found", "budget", assignment.Timeout.Budget)
	default:
		logger.Info("roster solved", "objective", assignment.Objective, "fillRate", assignment.FillRate)
	}

	return roster.Draft(assignment), nil
}
