package reservation

import (
	"encoding/json"
	"fmt"
	"time"
)

// SlotStatus is closed: the four values below are the only ones a ledger
// may carry. Only SlotAvailable can absorb a booking.
type SlotStatus int

const (
	SlotAvailable SlotStatus = iota
	SlotReserved
	SlotBlocked
	SlotOutOfService
)

func (s SlotStatus) String() string {
	switch s {
	case SlotAvailable:
		return "Available"
	case SlotReserved:
		return "Reserved"
	case SlotBlocked:
		return "Blocked"
	case SlotOutOfService:
		return "OutOfService"
	default:
		return fmt.Sprintf("SlotStatus(%d)", int(s))
	}
}

func (s SlotStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SlotStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw {
	case "Available":
		*s = SlotAvailable
	case "Reserved":
		*s = SlotReserved
	case "Blocked":
		*s = SlotBlocked
	case "OutOfService":
		*s = SlotOutOfService
	default:
		return fmt.Errorf("unknown slot status %q", raw)
	}

	return nil
}

// Slot is one contiguous date range of a room's ledger. Start and End are
// both inclusive, normalized to UTC midnight. Note carries a human-facing
// annotation and plays no role in any algorithm.
type Slot struct {
	ID     int        `json:"id"`
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Status SlotStatus `json:"status"`
	Note   string     `json:"note,omitempty"`
}

func (s Slot) contains(checkIn, checkOut time.Time) bool {
	return !s.Start.After(checkIn) && !s.End.Before(checkOut)
}

// Day normalizes t to midnight UTC; all ledger arithmetic works on whole
// days.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
