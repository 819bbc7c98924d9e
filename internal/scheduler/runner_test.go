package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
	"github.com/ridgeline-soaring/duty-roster/internal/roster"
	"github.com/ridgeline-soaring/duty-roster/internal/runlock"
	"github.com/ridgeline-soaring/duty-roster/internal/season"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func julyRequest(members []*domain.Member) *RunRequest {
	return &RunRequest{
		Window:     season.MonthWindow(2026, time.July),
		Roles:      []domain.RoleTag{domain.RoleDutyOfficer},
		Members:    members,
		Parameters: domain.DefaultSolveParameters(),
	}
}

func TestRunnerProducesDraftRoster(t *testing.T) {
	runner := NewRunner(ExactStrategy{}, runlock.NewMemoryLocker(), discardLogger())

	draft, err := runner.Run(context.Background(), julyRequest(dutyOfficers(4)))
	require.NoError(t, err)
	require.Equal(t, roster.StateDraft, draft.State())

	a := draft.Assignment()
	assert.Equal(t, domain.StatusOptimal, a.Status)
	// July 2026 holds eight weekend days, one duty officer slot each
	assert.Len(t, a.BySlot, 8)
	assert.Empty(t, a.Unfilled)
	assert.Empty(t, a.Excluded)
}

func TestRunnerAttachesExcludedDates(t *testing.T) {
	operSeason := &domain.OperationalSeason{
		Start: domain.SeasonDescriptor{Ordinal: domain.OrdinalFirst, Month: time.May},
		End:   domain.SeasonDescriptor{Ordinal: domain.OrdinalSecond, Month: time.December},
	}
	req := julyRequest(dutyOfficers(4))
	req.Window = season.MonthWindow(2026, time.December)
	req.Season = operSeason

	runner := NewRunner(ExactStrategy{}, runlock.NewMemoryLocker(), discardLogger())
	draft, err := runner.Run(context.Background(), req)
	require.NoError(t, err)

	a := draft.Assignment()
	// the season ends with the second December weekend; the 19th onward is out
	assert.Len(t, a.BySlot, 4)
	require.NotEmpty(t, a.Excluded)
	for _, ex := range a.Excluded {
		assert.Equal(t, domain.ReasonOutsideSeason, ex.Reason)
	}
}

func TestRunnerRejectsInvalidRequest(t *testing.T) {
	runner := NewRunner(ExactStrategy{}, runlock.NewMemoryLocker(), discardLogger())

	req := julyRequest(nil) // no members
	_, err := runner.Run(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid run request")
}

func TestRunnerRejectsMalformedSeason(t *testing.T) {
	runner := NewRunner(ExactStrategy{}, runlock.NewMemoryLocker(), discardLogger())

	req := julyRequest(dutyOfficers(4))
	req.Season = &domain.OperationalSeason{
		Start: domain.SeasonDescriptor{Ordinal: domain.OrdinalFirst, Month: time.November},
		End:   domain.SeasonDescriptor{Ordinal: domain.OrdinalFirst, Month: time.May},
	}
	_, err := runner.Run(context.Background(), req)
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

// blockingStrategy parks inside Solve until released, so a second run can
// race it for the same lock.
type blockingStrategy struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStrategy) Solve(ctx context.Context, p *domain.ScheduleProblem) (*domain.Assignment, error) {
	close(b.entered)
	<-b.release
	return ExactStrategy{}.Solve(ctx, p)
}

func TestRunnerRejectsConcurrentRunForSamePeriod(t *testing.T) {
	strategy := &blockingStrategy{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	locker := runlock.NewMemoryLocker()
	blocked := NewRunner(strategy, locker, discardLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := blocked.Run(context.Background(), julyRequest(dutyOfficers(4)))
		assert.NoError(t, err)
	}()

	<-strategy.entered

	// same window and season while the first run still holds the lock
	runner := NewRunner(ExactStrategy{}, locker, discardLogger())
	_, err := runner.Run(context.Background(), julyRequest(dutyOfficers(4)))
	require.ErrorIs(t, err, runlock.ErrHeld)

	close(strategy.release)
	wg.Wait()

	// the lock is free again once the first run finishes
	_, err = runner.Run(context.Background(), julyRequest(dutyOfficers(4)))
	require.NoError(t, err)
}
