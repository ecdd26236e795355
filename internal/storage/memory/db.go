package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/innstack/concierge/internal/catalog"
	"github.com/innstack/concierge/internal/logger"
	"github.com/innstack/concierge/internal/reservation"
)

type Config struct {
	L *logger.Logger
}

// DB is the process-wide in-memory store: the hotel/room catalog, one
// ledger per room, and the reservation log. Catalog entities are written
// once at seed time; ledgers and reservations mutate for the life of the
// process. There is no persistence; a restart re-runs the seed.
type DB struct {
	mu               sync.RWMutex
	l                *logger.Logger
	hotels           map[string]*catalog.Hotel
	hotelOrder       []string
	rooms            map[int]*catalog.Room
	roomOrder        []int
	ledgers          map[int]reservation.Ledger
	roomLocks        map[int]*sync.Mutex
	reservations     map[int]*reservation.Reservation
	reservationOrder []int
	idempotencyKeys  map[string]*reservation.Reservation
}

func New(conf Config) *DB {
	return &DB{
		l:               conf.L,
		hotels:          make(map[string]*catalog.Hotel),
		rooms:           make(map[int]*catalog.Room),
		ledgers:         make(map[int]reservation.Ledger),
		roomLocks:       make(map[int]*sync.Mutex),
		reservations:    make(map[int]*reservation.Reservation),
		idempotencyKeys: make(map[string]*reservation.Reservation),
	}
}

// SeedCatalog loads hotels, rooms and their initial ledgers. Called once
// before the server starts taking requests.
func (db *DB) SeedCatalog(_ context.Context, hotels []*catalog.Hotel, rooms []*catalog.Room, ledgers map[int]reservation.Ledger) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, h := range hotels {
		if _, exists := db.hotels[h.ID]; exists {
			return fmt.Errorf("hotel %q seeded twice", h.ID)
		}

		db.hotels[h.ID] = h
		db.hotelOrder = append(db.hotelOrder, h.ID)
	}

	for _, r := range rooms {
		if _, exists := db.rooms[r.ID]; exists {
			return fmt.Errorf("room %d seeded twice", r.ID)
		}

		db.rooms[r.ID] = r
		db.roomOrder = append(db.roomOrder, r.ID)
	}

	for roomID, ledger := range ledgers {
		db.ledgers[roomID] = ledger
	}

	return nil
}

func (db *DB) Hotels(_ context.Context) ([]*catalog.Hotel, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]*catalog.Hotel, 0, len(db.hotelOrder))

	for _, id := range db.hotelOrder {
		out = append(out, db.hotels[id])
	}

	return out, nil
}

func (db *DB) Hotel(_ context.Context, hotelID string) (*catalog.Hotel, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	h, ok := db.hotels[hotelID]
	if !ok {
		return nil, fmt.Errorf("hotel %q: %w", hotelID, catalog.ErrNotFound)
	}

	return h, nil
}

func (db *DB) Rooms(_ context.Context) ([]*catalog.Room, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]*catalog.Room, 0, len(db.roomOrder))

	for _, id := range db.roomOrder {
		out = append(out, db.rooms[id])
	}

	return out, nil
}

func (db *DB) Room(_ context.Context, roomID int) (*catalog.Room, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	r, ok := db.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %d: %w", roomID, catalog.ErrNotFound)
	}

	return r, nil
}

// RoomLedger returns a copy; callers inspect it without holding any lock.
// A room with nothing recorded gets an empty ledger.
func (db *DB) RoomLedger(_ context.Context, roomID int) (reservation.Ledger, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.ledgers[roomID].Clone(), nil
}

func (db *DB) roomLock(roomID int) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()

	lock, ok := db.roomLocks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		db.roomLocks[roomID] = lock
	}

	return lock
}

// UpdateRoomLedger runs fn on the room's ledger under that room's mutex.
// fn sees a private copy; the copy replaces the stored ledger only when fn
// succeeds, so a failed update leaves no partial state behind. Holding the
// room mutex across the caller's check-then-commit sequence is what rules
// out double-bookings.
func (db *DB) UpdateRoomLedger(_ context.Context, roomID int, fn func(l *reservation.Ledger) error) error {
	lock := db.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	db.mu.RLock()
	ledger := db.ledgers[roomID].Clone()
	db.mu.RUnlock()

	if err := fn(&ledger); err != nil {
		return err
	}

	db.mu.Lock()
	db.ledgers[roomID] = ledger
	db.mu.Unlock()

	return nil
}

// SaveReservation appends (or updates, for cancellation) a reservation.
// When the context carries an idempotency key, the record is registered
// under it so a retried request returns the original reservation.
func (db *DB) SaveReservation(ctx context.Context, r *reservation.Reservation) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.reservations[r.ID]; !exists {
		db.reservationOrder = append(db.reservationOrder, r.ID)
	}

	db.reservations[r.ID] = r

	if key, ok := reservation.IdempotencyKeyFromContext(ctx); ok && key != "" {
		db.idempotencyKeys[key] = r
	}

	return nil
}

func (db *DB) Reservation(_ context.Context, id int) (*reservation.Reservation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	r, ok := db.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %d: %w", id, reservation.ErrRecordNotFound)
	}

	return r, nil
}

func (db *DB) Reservations(_ context.Context) ([]*reservation.Reservation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]*reservation.Reservation, 0, len(db.reservationOrder))

	for _, id := range db.reservationOrder {
		out = append(out, db.reservations[id])
	}

	return out, nil
}

func (db *DB) ReservationByIdempotencyKey(_ context.Context, key string) (*reservation.Reservation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	r, ok := db.idempotencyKeys[key]
	if !ok {
		return nil, reservation.ErrRecordNotFound
	}

	return r, nil
}
