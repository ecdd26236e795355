package reservation

import (
	"fmt"
	"sort"
	"time"
)

// Ledger is a room's time axis: non-overlapping slots sorted by start date.
// An empty ledger means nothing has been recorded for the room and every
// date range is considered bookable.
type Ledger []Slot

func NewLedger(slots ...Slot) Ledger {
	l := Ledger(slots)
	l.sort()

	return l
}

func (l Ledger) sort() {
	sort.Slice(l, func(i, j int) bool { return l[i].Start.Before(l[j].Start) })
}

func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	copy(out, l)

	return out
}

// Covering returns the single slot whose range fully contains
// [checkIn, checkOut], if one exists. A range that straddles two adjacent
// slots has no covering slot.
func (l Ledger) Covering(checkIn, checkOut time.Time) (Slot, bool) {
	for _, s := range l {
		if s.contains(checkIn, checkOut) {
			return s, true
		}
	}

	return Slot{}, false
}

// Bookable reports whether the range can be booked. The covering slot is
// the unit of decision: a request spanning two adjacent Available slots is
// rejected rather than merged.
func (l Ledger) Bookable(checkIn, checkOut time.Time) bool {
	if len(l) == 0 {
		return true
	}

	s, ok := l.Covering(checkIn, checkOut)
	if !ok {
		return false
	}

	return s.Status == SlotAvailable
}

func (l Ledger) nextID() int {
	max := 0

	for _, s := range l {
		if s.ID > max {
			max = s.ID
		}
	}

	return max + 1
}

// Commit carves [checkIn, checkOut] out of the covering Available slot as
// Reserved. An exact-range match flips the slot in place; otherwise the
// covering slot is replaced by up to three slots. The union of covered
// dates is unchanged and no other slot is touched. An empty ledger is left
// empty, so an untracked room stays bookable for every other range.
//
// Callers must hold exclusive access to the ledger; a missing covering
// slot here means the caller skipped the Bookable check or lost a race.
func (l *Ledger) Commit(checkIn, checkOut time.Time, note string) error {
	idx := -1

	for i, s := range *l {
		if s.Status == SlotAvailable && s.contains(checkIn, checkOut) {
			idx = i

			break
		}
	}

	if idx < 0 {
		if len(*l) == 0 {
			// Untracked room: recording a slot here would close every other
			// date, since they would no longer have a covering slot. The
			// ledger stays empty and the reservation lives in the log only.
			return nil
		}

		return fmt.Errorf("commit %s..%s: %w",
			checkIn.Format(time.DateOnly), checkOut.Format(time.DateOnly), ErrNoCoveringSlot)
	}

	covering := (*l)[idx]

	if covering.Start.Equal(checkIn) && covering.End.Equal(checkOut) {
		(*l)[idx].Status = SlotReserved
		(*l)[idx].Note = note

		return nil
	}

	// IDs continue from the full ledger's max, including the slot being
	// replaced, so an observer never sees an id reused.
	next := l.nextID()

	rest := append(Ledger{}, (*l)[:idx]...)
	rest = append(rest, (*l)[idx+1:]...)

	if covering.Start.Before(checkIn) {
		rest = append(rest, Slot{
			ID:     next,
			Start:  covering.Start,
			End:    checkIn.AddDate(0, 0, -1),
			Status: SlotAvailable,
		})
		next++
	}

	rest = append(rest, Slot{
		ID:     next,
		Start:  checkIn,
		End:    checkOut,
		Status: SlotReserved,
		Note:   note,
	})
	next++

	if covering.End.After(checkOut) {
		rest = append(rest, Slot{
			ID:     next,
			Start:  checkOut.AddDate(0, 0, 1),
			End:    covering.End,
			Status: SlotAvailable,
		})
	}

	rest.sort()
	*l = rest

	return nil
}

// Release flips the Reserved slot that exactly matches [checkIn, checkOut]
// back to Available and merges it with its neighbours. Used only by
// cancellation.
func (l *Ledger) Release(checkIn, checkOut time.Time) error {
	if len(*l) == 0 {
		// Untracked room: the commit never wrote a slot.
		return nil
	}

	for i, s := range *l {
		if s.Status == SlotReserved && s.Start.Equal(checkIn) && s.End.Equal(checkOut) {
			(*l)[i].Status = SlotAvailable
			(*l)[i].Note = ""
			l.Compact()

			return nil
		}
	}

	return fmt.Errorf("release %s..%s: %w",
		checkIn.Format(time.DateOnly), checkOut.Format(time.DateOnly), ErrNoCoveringSlot)
}

// Compact merges adjacent same-status slots. Slot IDs of merged runs
// collapse to the first slot's ID.
func (l *Ledger) Compact() {
	if len(*l) < 2 {
		return
	}

	l.sort()

	out := Ledger{(*l)[0]}

	for _, s := range (*l)[1:] {
		last := &out[len(out)-1]

		if s.Status == last.Status && s.Start.Equal(last.End.AddDate(0, 0, 1)) && s.Note == last.Note {
			last.End = s.End

			continue
		}

		out = append(out, s)
	}

	*l = out
}
