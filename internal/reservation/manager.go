package reservation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/innstack/concierge/internal/catalog"
	"github.com/innstack/concierge/internal/logger"
	"github.com/innstack/concierge/internal/person"
)

type idGenerator interface {
	GetID(ctx context.Context) (int, error)
}

type catalogReader interface {
	Hotel(ctx context.Context, hotelID string) (*catalog.Hotel, error)
	Room(ctx context.Context, roomID int) (*catalog.Room, error)
	RoomsByHotel(ctx context.Context, identifier string) ([]*catalog.Room, error)
}

type personDirectory interface {
	Person(ctx context.Context, id int) (*person.Person, error)
}

type storageReader interface {
	RoomLedger(ctx context.Context, roomID int) (Ledger, error)
	Reservation(ctx context.Context, id int) (*Reservation, error)
	Reservations(ctx context.Context) ([]*Reservation, error)
	ReservationByIdempotencyKey(ctx context.Context, key string) (*Reservation, error)
}

type storageWriter interface {
	// UpdateRoomLedger runs fn with exclusive access to the room's ledger.
	// The availability check and the commit both happen inside fn, which is
	// the only thing standing between two concurrent requests and a
	// double-booking. fn may read and save reservations; implementations
	// must not hold their data lock across fn.
	UpdateRoomLedger(ctx context.Context, roomID int, fn func(l *Ledger) error) error
	SaveReservation(ctx context.Context, r *Reservation) error
}

type storage interface {
	storageReader
	storageWriter
}

// Notifier receives committed reservation events. May be nil.
type Notifier interface {
	ReservationCreated(r *Reservation)
	ReservationCancelled(r *Reservation)
}

type Manager struct {
	l           *logger.Logger
	catalog     catalogReader
	persons     personDirectory
	storage     storage
	idGenerator idGenerator
	notifier    Notifier
	now         func() time.Time
}

func New(l *logger.Logger, cat catalogReader, persons personDirectory, storage storage, idGenerator idGenerator, notifier Notifier) *Manager {
	return &Manager{
		l:           l,
		catalog:     cat,
		persons:     persons,
		storage:     storage,
		idGenerator: idGenerator,
		notifier:    notifier,
		now:         time.Now,
	}
}

func nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn) / (24 * time.Hour))
}

func (m *Manager) validateRange(checkIn, checkOut time.Time) error {
	if !checkOut.After(checkIn) {
		return fmt.Errorf("%s..%s: %w",
			checkIn.Format(time.DateOnly), checkOut.Format(time.DateOnly), ErrInvalidRange)
	}

	if checkIn.Before(Day(m.now())) {
		return fmt.Errorf("%s: %w", checkIn.Format(time.DateOnly), ErrPastDate)
	}

	return nil
}

// IsRoomAvailable reports whether the room can be booked for
// [checkIn, checkOut). Read-only; an unknown room is simply not available.
func (m *Manager) IsRoomAvailable(ctx context.Context, roomID int, checkIn, checkOut time.Time) (bool, error) {
	if _, err := m.catalog.Room(ctx, roomID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("resolve room %d: %w", roomID, err)
	}

	ledger, err := m.storage.RoomLedger(ctx, roomID)
	if err != nil {
		return false, fmt.Errorf("load ledger for room %d: %w", roomID, err)
	}

	return ledger.Bookable(Day(checkIn), Day(checkOut)), nil
}

// CreateReservation is the single committal point of the system: nothing
// else may mark a slot Reserved. The check and the commit run inside one
// per-room critical section, so two conflicting requests yield exactly one
// winner.
func (m *Manager) CreateReservation(ctx context.Context, input CreateInput) (*Reservation, error) {
	checkIn := Day(input.CheckIn)
	checkOut := Day(input.CheckOut)

	if err := m.validateRange(checkIn, checkOut); err != nil {
		return nil, err
	}

	if key, ok := IdempotencyKeyFromContext(ctx); ok && key != "" {
		existing, err := m.storage.ReservationByIdempotencyKey(ctx, key)
		if err != nil && !errors.Is(err, ErrRecordNotFound) {
			return nil, fmt.Errorf("get reservation by idempotency key: %w", err)
		}

		if err == nil {
			return existing, nil
		}
	}

	guest, err := m.persons.Person(ctx, input.PersonID)
	if err != nil {
		if errors.Is(err, person.ErrNotFound) {
			return nil, &NotFoundError{Kind: "person", ID: strconv.Itoa(input.PersonID)}
		}

		return nil, fmt.Errorf("resolve person %d: %w", input.PersonID, err)
	}

	hotel, err := m.catalog.Hotel(ctx, input.HotelID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, &NotFoundError{Kind: "hotel", ID: input.HotelID}
		}

		return nil, fmt.Errorf("resolve hotel %s: %w", input.HotelID, err)
	}

	room, err := m.catalog.Room(ctx, input.RoomID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, &NotFoundError{Kind: "room", ID: strconv.Itoa(input.RoomID)}
		}

		return nil, fmt.Errorf("resolve room %d: %w", input.RoomID, err)
	}

	note := "Reserved for " + guest.FullName()

	err = m.storage.UpdateRoomLedger(ctx, input.RoomID, func(l *Ledger) error {
		if !l.Bookable(checkIn, checkOut) {
			return fmt.Errorf("room %s: %w", room.RoomNumber, ErrRoomUnavailable)
		}

		if err := l.Commit(checkIn, checkOut, note); err != nil {
			// Bookable just passed under the same lock, so a failed commit
			// means the ledger itself is malformed.
			return fmt.Errorf("%v: %w", err, ErrConcurrentConflict)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	id, err := m.idGenerator.GetID(ctx)
	if err != nil {
		return nil, ErrNextID
	}

	n := nights(checkIn, checkOut)

	res := &Reservation{
		ID:         id,
		Person:     guest,
		Hotel:      hotel,
		Room:       room,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Nights:     n,
		TotalPrice: room.TotalPrice().Mul(decimal.NewFromInt(int64(n))),
		CreatedAt:  m.now().UTC(),
	}

	if err := m.storage.SaveReservation(ctx, res); err != nil {
		return nil, fmt.Errorf("save reservation: %w", err)
	}

	m.l.LogInfo("Reservation %d created: room %s at %s, %s to %s",
		res.ID, room.RoomNumber, hotel.Name,
		checkIn.Format(time.DateOnly), checkOut.Format(time.DateOnly))

	if m.notifier != nil {
		m.notifier.ReservationCreated(res)
	}

	return res, nil
}

// CancelReservation releases the reserved range back to Available and
// compacts the ledger. Cancelling twice is a no-op returning the same
// record. The cancelled-check, the release and the save all run inside the
// room's critical section, so two concurrent cancels of the same id cannot
// release twice, and a fresh record is saved instead of mutating the one
// other readers may be encoding.
func (m *Manager) CancelReservation(ctx context.Context, id int) (*Reservation, error) {
	res, err := m.storage.Reservation(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, &NotFoundError{Kind: "reservation", ID: strconv.Itoa(id)}
		}

		return nil, fmt.Errorf("load reservation %d: %w", id, err)
	}

	if res.Cancelled {
		return res, nil
	}

	var (
		cancelled *Reservation
		already   bool
	)

	err = m.storage.UpdateRoomLedger(ctx, res.Room.ID, func(l *Ledger) error {
		// Re-read under the lock: a concurrent cancel may have won between
		// the check above and here.
		latest, err := m.storage.Reservation(ctx, id)
		if err != nil {
			return err
		}

		if latest.Cancelled {
			cancelled = latest
			already = true

			return nil
		}

		if err := l.Release(latest.CheckIn, latest.CheckOut); err != nil {
			return err
		}

		next := *latest
		next.Cancelled = true
		cancelled = &next

		return m.storage.SaveReservation(ctx, &next)
	})
	if err != nil {
		return nil, fmt.Errorf("cancel reservation %d: %w", id, err)
	}

	if already {
		return cancelled, nil
	}

	m.l.LogInfo("Reservation %d cancelled", cancelled.ID)

	if m.notifier != nil {
		m.notifier.ReservationCancelled(cancelled)
	}

	return cancelled, nil
}

// AlternativeRooms lists bookable rooms of the same hotel for the range,
// each priced per night and in total. Never mutates any ledger and never
// crosses hotel boundaries.
func (m *Manager) AlternativeRooms(ctx context.Context, hotelIdentifier string, checkIn, checkOut time.Time, excludeRoomID int) ([]RoomOption, error) {
	checkIn = Day(checkIn)
	checkOut = Day(checkOut)

	if !checkOut.After(checkIn) {
		return nil, fmt.Errorf("%s..%s: %w",
			checkIn.Format(time.DateOnly), checkOut.Format(time.DateOnly), ErrInvalidRange)
	}

	rooms, err := m.catalog.RoomsByHotel(ctx, hotelIdentifier)
	if err != nil {
		return nil, fmt.Errorf("load rooms for hotel %q: %w", hotelIdentifier, err)
	}

	if len(rooms) == 0 {
		return nil, &NotFoundError{Kind: "hotel", ID: hotelIdentifier}
	}

	n := nights(checkIn, checkOut)

	var options []RoomOption

	for _, room := range rooms {
		if room.ID == excludeRoomID {
			continue
		}

		ledger, err := m.storage.RoomLedger(ctx, room.ID)
		if err != nil {
			return nil, fmt.Errorf("load ledger for room %d: %w", room.ID, err)
		}

		if !ledger.Bookable(checkIn, checkOut) {
			continue
		}

		perNight := room.TotalPrice()

		options = append(options, RoomOption{
			Room:          room,
			Nights:        n,
			PricePerNight: perNight,
			TotalPrice:    perNight.Mul(decimal.NewFromInt(int64(n))),
		})
	}

	return options, nil
}

func (m *Manager) Reservations(ctx context.Context) ([]*Reservation, error) {
	return m.storage.Reservations(ctx)
}

func (m *Manager) Reservation(ctx context.Context, id int) (*Reservation, error) {
	res, err := m.storage.Reservation(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, &NotFoundError{Kind: "reservation", ID: strconv.Itoa(id)}
		}

		return nil, fmt.Errorf("load reservation %d: %w", id, err)
	}

	return res, nil
}

func (m *Manager) RoomLedger(ctx context.Context, roomID int) (Ledger, error) {
	if _, err := m.catalog.Room(ctx, roomID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, &NotFoundError{Kind: "room", ID: strconv.Itoa(roomID)}
		}

		return nil, fmt.Errorf("resolve room %d: %w", roomID, err)
	}

	return m.storage.RoomLedger(ctx, roomID)
}
