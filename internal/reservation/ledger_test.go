package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(day int) time.Time {
	return time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC)
}

// coveredDays returns the number of distinct dates the ledger covers, to
// check that commits never lose or invent days.
func coveredDays(l Ledger) int {
	total := 0

	for _, s := range l {
		total += int(s.End.Sub(s.Start)/(24*time.Hour)) + 1
	}

	return total
}

func slotIDs(l Ledger) map[int]bool {
	ids := make(map[int]bool)

	for _, s := range l {
		ids[s.ID] = true
	}

	return ids
}

func TestBookableEmptyLedger(t *testing.T) {
	var l Ledger

	assert.True(t, l.Bookable(d(1), d(10)))
}

func TestBookableCoveringSlotStatus(t *testing.T) {
	for _, tc := range []struct {
		status SlotStatus
		want   bool
	}{
		{SlotAvailable, true},
		{SlotReserved, false},
		{SlotBlocked, false},
		{SlotOutOfService, false},
	} {
		l := NewLedger(Slot{ID: 1, Start: d(1), End: d(20), Status: tc.status})

		assert.Equal(t, tc.want, l.Bookable(d(5), d(8)), "status %v", tc.status)
	}
}

func TestBookableRejectsRangeSpanningAdjacentSlots(t *testing.T) {
	// Two Available slots back to back: the union covers the range, but no
	// single slot does, so the request is rejected.
	l := NewLedger(
		Slot{ID: 1, Start: d(1), End: d(10), Status: SlotAvailable},
		Slot{ID: 2, Start: d(11), End: d(20), Status: SlotAvailable},
	)

	assert.False(t, l.Bookable(d(8), d(13)))
	assert.True(t, l.Bookable(d(2), d(10)))
	assert.True(t, l.Bookable(d(11), d(20)))
}

func TestBookableOutsideLedger(t *testing.T) {
	l := NewLedger(Slot{ID: 1, Start: d(1), End: d(10), Status: SlotAvailable})

	assert.False(t, l.Bookable(d(8), d(15)))
}

func TestCommitExactMatchFlipsInPlace(t *testing.T) {
	l := NewLedger(
		Slot{ID: 1, Start: d(1), End: d(4), Status: SlotBlocked},
		Slot{ID: 2, Start: d(5), End: d(8), Status: SlotAvailable},
	)

	require.NoError(t, l.Commit(d(5), d(8), "Reserved for Ahmet Yilmaz"))

	require.Len(t, l, 2)
	assert.Equal(t, 2, l[1].ID)
	assert.Equal(t, SlotReserved, l[1].Status)
	assert.Equal(t, "Reserved for Ahmet Yilmaz", l[1].Note)
	assert.Equal(t, SlotBlocked, l[0].Status)
}

func TestCommitSplitsCoveringSlot(t *testing.T) {
	l := NewLedger(Slot{ID: 1, Start: d(1), End: d(20), Status: SlotAvailable})
	before := coveredDays(l)

	require.NoError(t, l.Commit(d(5), d(8), "note"))

	require.Len(t, l, 3)

	assert.Equal(t, d(1), l[0].Start)
	assert.Equal(t, d(4), l[0].End)
	assert.Equal(t, SlotAvailable, l[0].Status)

	assert.Equal(t, d(5), l[1].Start)
	assert.Equal(t, d(8), l[1].End)
	assert.Equal(t, SlotReserved, l[1].Status)
	assert.Equal(t, "note", l[1].Note)

	assert.Equal(t, d(9), l[2].Start)
	assert.Equal(t, d(20), l[2].End)
	assert.Equal(t, SlotAvailable, l[2].Status)

	assert.Equal(t, before, coveredDays(l))
	assert.Len(t, slotIDs(l), 3)
}

func TestCommitAtSlotEdges(t *testing.T) {
	// Aligned with the slot start: no left remainder.
	l := NewLedger(Slot{ID: 1, Start: d(1), End: d(20), Status: SlotAvailable})
	require.NoError(t, l.Commit(d(1), d(8), ""))
	require.Len(t, l, 2)
	assert.Equal(t, SlotReserved, l[0].Status)
	assert.Equal(t, d(9), l[1].Start)

	// Aligned with the slot end: no right remainder.
	l = NewLedger(Slot{ID: 1, Start: d(1), End: d(20), Status: SlotAvailable})
	require.NoError(t, l.Commit(d(15), d(20), ""))
	require.Len(t, l, 2)
	assert.Equal(t, SlotReserved, l[1].Status)
	assert.Equal(t, d(14), l[0].End)
}

func TestCommitLeavesOtherSlotsUntouched(t *testing.T) {
	l := NewLedger(
		Slot{ID: 1, Start: d(1), End: d(4), Status: SlotReserved, Note: "earlier guest"},
		Slot{ID: 2, Start: d(5), End: d(20), Status: SlotAvailable},
		Slot{ID: 3, Start: d(21), End: d(25), Status: SlotBlocked},
	)

	require.NoError(t, l.Commit(d(10), d(12), ""))

	require.Len(t, l, 5)
	assert.Equal(t, Slot{ID: 1, Start: d(1), End: d(4), Status: SlotReserved, Note: "earlier guest"}, l[0])
	assert.Equal(t, Slot{ID: 3, Start: d(21), End: d(25), Status: SlotBlocked}, l[4])
}

func TestCommitAssignsMonotonicIDs(t *testing.T) {
	l := NewLedger(Slot{ID: 7, Start: d(1), End: d(20), Status: SlotAvailable})

	require.NoError(t, l.Commit(d(5), d(8), ""))

	for _, s := range l {
		assert.GreaterOrEqual(t, s.ID, 8, "new slots continue after the highest existing id")
	}

	assert.Len(t, slotIDs(l), 3)
}

func TestCommitEmptyLedgerStaysEmpty(t *testing.T) {
	var l Ledger

	require.NoError(t, l.Commit(d(5), d(8), "first booking"))

	// The room stays untracked: writing a slot would leave every other
	// range without a covering slot and lock the room down.
	assert.Empty(t, l)
	assert.True(t, l.Bookable(d(20), d(25)))
	assert.True(t, l.Bookable(d(5), d(8)))
}

func TestReleaseEmptyLedger(t *testing.T) {
	var l Ledger

	require.NoError(t, l.Release(d(5), d(8)))
	assert.Empty(t, l)
}

func TestCommitNoCoveringSlot(t *testing.T) {
	l := NewLedger(Slot{ID: 1, Start: d(1), End: d(10), Status: SlotReserved})

	err := l.Commit(d(5), d(8), "")

	require.ErrorIs(t, err, ErrNoCoveringSlot)
	require.Len(t, l, 1)
	assert.Equal(t, SlotReserved, l[0].Status)
}

func TestReleaseMergesBackIntoOneSlot(t *testing.T) {
	l := NewLedger(Slot{ID: 1, Start: d(1), End: d(20), Status: SlotAvailable})
	require.NoError(t, l.Commit(d(5), d(8), "Reserved for Fatma Kaya"))
	require.Len(t, l, 3)

	require.NoError(t, l.Release(d(5), d(8)))

	require.Len(t, l, 1)
	assert.Equal(t, d(1), l[0].Start)
	assert.Equal(t, d(20), l[0].End)
	assert.Equal(t, SlotAvailable, l[0].Status)
	assert.Empty(t, l[0].Note)
}

func TestReleaseUnknownRange(t *testing.T) {
	l := NewLedger(Slot{ID: 1, Start: d(1), End: d(20), Status: SlotAvailable})

	require.ErrorIs(t, l.Release(d(5), d(8)), ErrNoCoveringSlot)
}

func TestCompact(t *testing.T) {
	l := NewLedger(
		Slot{ID: 1, Start: d(1), End: d(4), Status: SlotAvailable},
		Slot{ID: 2, Start: d(5), End: d(8), Status: SlotAvailable},
		Slot{ID: 3, Start: d(9), End: d(12), Status: SlotReserved},
		Slot{ID: 4, Start: d(13), End: d(16), Status: SlotReserved, Note: "other guest"},
		// Gap before day 20: same status but not adjacent.
		Slot{ID: 5, Start: d(20), End: d(25), Status: SlotReserved, Note: "other guest"},
	)

	l.Compact()

	require.Len(t, l, 4)
	assert.Equal(t, d(1), l[0].Start)
	assert.Equal(t, d(8), l[0].End)
	assert.Equal(t, d(13), l[2].Start)
	assert.Equal(t, d(20), l[3].Start)
}

func TestCloneIsIndependent(t *testing.T) {
	l := NewLedger(Slot{ID: 1, Start: d(1), End: d(20), Status: SlotAvailable})
	clone := l.Clone()

	require.NoError(t, clone.Commit(d(5), d(8), ""))

	require.Len(t, l, 1)
	assert.Equal(t, SlotAvailable, l[0].Status)
	assert.Len(t, clone, 3)
}
