package reservation

import (
	"errors"
	"fmt"
)

var (
	// ErrRoomUnavailable means the availability query failed; callers are
	// expected to offer alternative rooms, never to substitute one.
	ErrRoomUnavailable = errors.New("room is not available for the requested dates")

	// ErrInvalidRange means checkOut is not after checkIn.
	ErrInvalidRange = errors.New("check-out date must be after check-in date")

	// ErrPastDate means checkIn is before today.
	ErrPastDate = errors.New("check-in date cannot be in the past")

	// ErrConcurrentConflict means the ledger changed between the
	// availability check and the commit. Callers may retry the whole
	// sequence once.
	ErrConcurrentConflict = errors.New("ledger changed during commit")

	// ErrNoCoveringSlot is the commit-time counterpart of a failed
	// availability check.
	ErrNoCoveringSlot = errors.New("no available slot covers the requested range")

	ErrNextID         = errors.New("get next id from generator")
	ErrRecordNotFound = errors.New("record not found")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func IsNotFound(err error) *NotFoundError {
	if err == nil {
		return nil
	}

	var notFound *NotFoundError

	if errors.As(err, &notFound) {
		return notFound
	}

	return nil
}
