package domain

import (
	"fmt"
	"time"
)

// Error taxonomy for one scheduling run.
//
// ConfigurationError and ValidationError abort the run before any solving
// happens. InfeasibleScheduleError and SolverTimeoutError are outcomes of a
// completed solve attempt: they ride along on the Assignment so the caller
// can decide whether to relax constraints and re-run, and are never used to
// unwind the workflow.

// ConfigurationError reports a malformed season descriptor or other bad
// run-level configuration. It always names the offending input.
type ConfigurationError struct {
	Subject string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Subject, e.Reason)
}

// ValidationError reports problem input that references things that do not
// exist in the current run (for example a skip-list entry naming a slot that
// was never generated) or inconsistent slot definitions.
type ValidationError struct {
	Subject string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Subject, e.Reason)
}

// InfeasibilityCause classifies the constraint most likely responsible for
// an infeasible model.
type InfeasibilityCause string

const (
	CauseInsufficientQualifiedMembers InfeasibilityCause = "insufficient_qualified_members"
	CauseSkipListOverExclusion        InfeasibilityCause = "skip_list_over_exclusion"
	CauseConsecutiveLimitTooTight     InfeasibilityCause = "consecutive_limit_too_tight"
)

// InfeasibleScheduleError explains why no full-coverage assignment exists.
type InfeasibleScheduleError struct {
	Cause  InfeasibilityCause `json:"cause"`
	Detail string             `json:"detail"`
}

func (e *InfeasibleScheduleError) Error() string {
	return fmt.Sprintf("schedule infeasible (%s): %s", e.Cause, e.Detail)
}

// SolverTimeoutError records that the solve-time budget expired. The run
// still carries the best feasible assignment found so far.
type SolverTimeoutError struct {
	Budget time.Duration `json:"budget"`
}

func (e *SolverTimeoutError) Error() string {
	return fmt.Sprintf("solver time budget of %s exceeded; returning best solution found", e.Budget)
}
