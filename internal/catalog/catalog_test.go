package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStorage struct {
	hotels []*Hotel
	rooms  []*Room
}

func (s *stubStorage) Hotels(context.Context) ([]*Hotel, error) { return s.hotels, nil }

func (s *stubStorage) Hotel(_ context.Context, hotelID string) (*Hotel, error) {
	for _, h := range s.hotels {
		if h.ID == hotelID {
			return h, nil
		}
	}

	return nil, ErrNotFound
}

func (s *stubStorage) Rooms(context.Context) ([]*Room, error) { return s.rooms, nil }

func (s *stubStorage) Room(_ context.Context, roomID int) (*Room, error) {
	for _, r := range s.rooms {
		if r.ID == roomID {
			return r, nil
		}
	}

	return nil, ErrNotFound
}

func testService() *Service {
	grand := &Hotel{
		ID: "1", Name: "Grand Plaza Hotel", City: "New York", Country: "USA",
		StarRating: 5, PricePerNight: decimal.NewFromInt(450),
		HasPool: true, HasGym: true, HasSpa: true,
	}
	seaside := &Hotel{
		ID: "2", Name: "Seaside Resort & Spa", City: "Miami", Country: "USA",
		StarRating: 4, PricePerNight: decimal.NewFromInt(320),
		HasPool: true, HasGym: true, HasSpa: true, PetFriendly: true,
	}
	boutique := &Hotel{
		ID: "3", Name: "Boutique Art Hotel", City: "Paris", Country: "France",
		StarRating: 4, PricePerNight: decimal.NewFromInt(380),
		HasSpa: true, PetFriendly: true,
	}

	return New(&stubStorage{
		hotels: []*Hotel{grand, seaside, boutique},
		rooms: []*Room{
			{ID: 1, RoomNumber: "101", Hotel: grand},
			{ID: 2, RoomNumber: "102", Hotel: grand},
			{ID: 3, RoomNumber: "101", Hotel: seaside},
		},
	})
}

func TestHotelsByCity(t *testing.T) {
	s := testService()

	hotels, err := s.HotelsByCity(context.Background(), "miami")
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, "2", hotels[0].ID)

	// Country names match too.
	hotels, err = s.HotelsByCity(context.Background(), "france")
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, "3", hotels[0].ID)
}

func TestHotelsByStarRating(t *testing.T) {
	s := testService()

	hotels, err := s.HotelsByStarRating(context.Background(), 4)
	require.NoError(t, err)
	assert.Len(t, hotels, 2)
}

func TestHotelsByAmenities(t *testing.T) {
	s := testService()

	hotels, err := s.HotelsByAmenities(context.Background(), AmenityFilter{Pool: true, PetFriendly: true})
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, "2", hotels[0].ID)

	// A zero filter matches everything.
	hotels, err = s.HotelsByAmenities(context.Background(), AmenityFilter{})
	require.NoError(t, err)
	assert.Len(t, hotels, 3)
}

func TestHotelsByPriceRange(t *testing.T) {
	s := testService()

	hotels, err := s.HotelsByPriceRange(context.Background(), decimal.Zero, decimal.NewFromInt(400))
	require.NoError(t, err)

	require.Len(t, hotels, 2)
	// Cheapest first.
	assert.Equal(t, "2", hotels[0].ID)
	assert.Equal(t, "3", hotels[1].ID)
}

func TestRoomsByHotel(t *testing.T) {
	s := testService()

	for _, identifier := range []string{"1", "grand plaza", "new york"} {
		rooms, err := s.RoomsByHotel(context.Background(), identifier)
		require.NoError(t, err)
		assert.Len(t, rooms, 2, "identifier %q", identifier)
	}

	rooms, err := s.RoomsByHotel(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestRoomTotalPrice(t *testing.T) {
	room := &Room{
		BasePrice:         BasePrice(StandardDouble),
		SeaViewSurcharge:  SeaViewSurcharge,
		CityViewSurcharge: CityViewSurcharge,
	}

	assert.True(t, room.TotalPrice().Equal(decimal.NewFromInt(200)))

	room.IsSeaView = true
	assert.True(t, room.TotalPrice().Equal(decimal.NewFromInt(250)))

	room.IsCityView = true
	assert.True(t, room.TotalPrice().Equal(decimal.NewFromInt(280)))
}
