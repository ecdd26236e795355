package reservation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/innstack/concierge/internal/catalog"
	"github.com/innstack/concierge/internal/person"
)

// Reservation is the committed booking artifact. It is created only through
// Manager.CreateReservation and never modified afterwards, except for the
// Cancelled flag set by the cancellation path.
type Reservation struct {
	ID         int             `json:"id"`
	Person     *person.Person  `json:"person"`
	Hotel      *catalog.Hotel  `json:"hotel"`
	Room       *catalog.Room   `json:"room"`
	CheckIn    time.Time       `json:"checkIn"`
	CheckOut   time.Time       `json:"checkOut"`
	Nights     int             `json:"nights"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Cancelled  bool            `json:"cancelled"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type CreateInput struct {
	PersonID int       `json:"personId"`
	HotelID  string    `json:"hotelId"`
	RoomID   int       `json:"roomId"`
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
}

// RoomOption is one entry of an alternative-room listing: an available room
// priced for the requested range.
type RoomOption struct {
	Room          *catalog.Room   `json:"room"`
	Nights        int             `json:"nights"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}
