package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innstack/concierge/internal/reservation"
)

func TestLoadIsDeterministic(t *testing.T) {
	a := NewLoader().Load()
	b := NewLoader().Load()

	require.Equal(t, len(a.Rooms), len(b.Rooms))

	for i := range a.Rooms {
		assert.Equal(t, a.Rooms[i].RoomNumber, b.Rooms[i].RoomNumber)
		assert.Equal(t, a.Rooms[i].IsSeaView, b.Rooms[i].IsSeaView)
		assert.True(t, a.Rooms[i].BasePrice.Equal(b.Rooms[i].BasePrice))
	}
}

func TestLoadCatalogShape(t *testing.T) {
	data := NewLoader().Load()

	require.Len(t, data.Hotels, 10)

	perHotel := make(map[string]int)
	for _, r := range data.Rooms {
		require.NotNil(t, r.Hotel)
		perHotel[r.Hotel.ID]++
	}

	assert.Equal(t, 30, perHotel["1"])
	assert.Equal(t, 40, perHotel["2"])
	assert.Equal(t, 25, perHotel["3"])

	// 30 + 40 + eight hotels of 25.
	assert.Len(t, data.Rooms, 270)
}

func TestRoomNumbersEncodeFloor(t *testing.T) {
	data := NewLoader().Load()

	for _, r := range data.Rooms {
		assert.Len(t, r.RoomNumber, 3, "room %d", r.ID)
		assert.Equal(t, byte('0'+r.Floor), r.RoomNumber[0], "room %s", r.RoomNumber)
	}
}

func TestViewsFollowHotel(t *testing.T) {
	data := NewLoader().Load()

	for _, r := range data.Rooms {
		switch r.Hotel.ID {
		case "1":
			assert.False(t, r.IsSeaView, "room %d", r.ID)
		case "2":
			assert.False(t, r.IsCityView, "room %d", r.ID)
		default:
			assert.False(t, r.IsSeaView, "room %d", r.ID)
			assert.False(t, r.IsCityView, "room %d", r.ID)
		}
	}
}

func TestLedgersAreWellFormed(t *testing.T) {
	data := NewLoader().Load()

	require.Len(t, data.Ledgers, len(data.Rooms))

	for roomID, ledger := range data.Ledgers {
		require.NotEmpty(t, ledger, "room %d", roomID)

		seen := make(map[int]bool)

		for i, s := range ledger {
			assert.False(t, s.End.Before(s.Start), "room %d slot %d", roomID, s.ID)
			assert.False(t, seen[s.ID], "room %d duplicate slot id %d", roomID, s.ID)
			seen[s.ID] = true

			if i > 0 {
				prev := ledger[i-1]
				assert.Equal(t, prev.End.AddDate(0, 0, 1), s.Start,
					"room %d: slots must tile the range without gaps or overlaps", roomID)
			}
		}
	}
}

func TestLedgersAreMostlyAvailable(t *testing.T) {
	data := NewLoader().Load()

	var available, total int

	for _, ledger := range data.Ledgers {
		for _, s := range ledger {
			total++

			if s.Status == reservation.SlotAvailable {
				available++
			}
		}
	}

	// Roughly three quarters of slots are bookable; allow generous slack
	// around the sampling.
	ratio := float64(available) / float64(total)
	assert.Greater(t, ratio, 0.65)
	assert.Less(t, ratio, 0.85)
}

func TestSeedReservationsReferenceRealRooms(t *testing.T) {
	data := NewLoader().Load()

	rooms := make(map[int]bool)
	for _, r := range data.Rooms {
		rooms[r.ID] = true
	}

	people := make(map[int]bool)
	for _, p := range data.People {
		people[p.ID] = true
	}

	for _, input := range data.Reservations {
		assert.True(t, rooms[input.RoomID], "room %d", input.RoomID)
		assert.True(t, people[input.PersonID], "person %d", input.PersonID)
		assert.True(t, input.CheckOut.After(input.CheckIn))
	}
}
