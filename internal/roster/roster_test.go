package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
)

type captureCommitter struct {
	saved *CommittedRoster
	err   error
}

func (c *captureCommitter) SaveRoster(_ context.Context, r *CommittedRoster) error {
	if c.err != nil {
		return c.err
	}
	c.saved = r
	return nil
}

func ref(day int) domain.SlotRef {
	return domain.SlotRef{
		Date: domain.Date(2026, time.July, day).Format(domain.DateLayout),
		Role: domain.RoleDutyOfficer,
	}
}

func sampleAssignment() *domain.Assignment {
	return &domain.Assignment{
		RunID:  uuid.New(),
		Status: domain.StatusFeasible,
		BySlot: map[domain.SlotRef]int64{
			ref(4):  1,
			ref(5):  2,
			ref(11): 1,
		},
		Unfilled:  []domain.SlotRef{ref(12)},
		Objective: 4,
		FillRate:  0.75,
	}
}

func TestDraftStartsInDraftState(t *testing.T) {
	r := Draft(sampleAssignment())
	assert.Equal(t, StateDraft, r.State())
}

func TestRemoveMovesRosterToAdjusted(t *testing.T) {
	r := Draft(sampleAssignment())

	require.NoError(t, r.Remove(ref(5)))
	assert.Equal(t, StateAdjusted, r.State())
}

func TestRemoveRejectsUnknownEntry(t *testing.T) {
	r := Draft(sampleAssignment())

	var valErr *domain.ValidationError
	require.ErrorAs(t, r.Remove(ref(25)), &valErr)
	assert.Equal(t, StateDraft, r.State())
}

func TestRemoveRejectsUnfilledSlot(t *testing.T) {
	r := Draft(sampleAssignment())

	// the 12th is unfilled, there is no entry to remove
	var valErr *domain.ValidationError
	require.ErrorAs(t, r.Remove(ref(12)), &valErr)
}

func TestRemoveRejectsDoubleRemoval(t *testing.T) {
	r := Draft(sampleAssignment())

	require.NoError(t, r.Remove(ref(5)))
	var valErr *domain.ValidationError
	require.ErrorAs(t, r.Remove(ref(5)), &valErr)
}

func TestCommitSeparatesRemovedFromUnfilled(t *testing.T) {
	a := sampleAssignment()
	r := Draft(a)
	require.NoError(t, r.Remove(ref(5)))

	committer := &captureCommitter{}
	committed, err := r.Commit(context.Background(), committer)
	require.NoError(t, err)
	require.Same(t, committed, committer.saved)

	assert.Equal(t, a.RunID, committed.RunID)
	assert.Equal(t, []domain.SlotRef{ref(5)}, committed.RemovedSlots)
	assert.Equal(t, []domain.SlotRef{ref(12)}, committed.UnfilledSlots)
	assert.False(t, committed.PublishedAt.IsZero())

	// the removed entry is gone, the rest survive in date order
	require.Len(t, committed.Entries, 2)
	assert.Equal(t, ref(4), committed.Entries[0].Slot)
	assert.Equal(t, ref(11), committed.Entries[1].Slot)
}

func TestCommitPublishesExactlyOnce(t *testing.T) {
	r := Draft(sampleAssignment())

	_, err := r.Commit(context.Background(), &captureCommitter{})
	require.NoError(t, err)
	assert.Equal(t, StatePublished, r.State())

	_, err = r.Commit(context.Background(), &captureCommitter{})
	require.ErrorIs(t, err, ErrPublished)
	require.ErrorIs(t, r.Remove(ref(4)), ErrPublished)
}

func TestCommitFailureKeepsRosterAdjustable(t *testing.T) {
	r := Draft(sampleAssignment())
	require.NoError(t, r.Remove(ref(5)))

	saveErr := errors.New("storage unavailable")
	_, err := r.Commit(context.Background(), &captureCommitter{err: saveErr})
	require.ErrorIs(t, err, saveErr)
	assert.Equal(t, StateAdjusted, r.State())

	// the retry goes through
	_, err = r.Commit(context.Background(), &captureCommitter{})
	require.NoError(t, err)
	assert.Equal(t, StatePublished, r.State())
}
