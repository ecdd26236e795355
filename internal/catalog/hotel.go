package catalog

import "github.com/shopspring/decimal"

type Hotel struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	City               string          `json:"city"`
	Country            string          `json:"country"`
	Address            string          `json:"address"`
	StarRating         int             `json:"starRating"`
	PricePerNight      decimal.Decimal `json:"pricePerNight"`
	Description        string          `json:"description"`
	Amenities          string          `json:"amenities"`
	RoomTypes          string          `json:"roomTypes"`
	CancellationPolicy string          `json:"cancellationPolicy"`
	CheckInCheckOut    string          `json:"checkInCheckOut"`
	HouseRules         string          `json:"houseRules"`
	NearbyAttractions  string          `json:"nearbyAttractions"`
	HasPool            bool            `json:"hasPool"`
	HasGym             bool            `json:"hasGym"`
	HasSpa             bool            `json:"hasSpa"`
	PetFriendly        bool            `json:"petFriendly"`
	HasParking         bool            `json:"hasParking"`
	HasWifi            bool            `json:"hasWifi"`
}

// AmenityFilter selects hotels by required amenities. A zero filter matches
// every hotel.
type AmenityFilter struct {
	Pool        bool
	Gym         bool
	Spa         bool
	PetFriendly bool
	Parking     bool
	Wifi        bool
}

func (f AmenityFilter) Matches(h *Hotel) bool {
	if f.Pool && !h.HasPool {
		return false
	}

	if f.Gym && !h.HasGym {
		return false
	}

	if f.Spa && !h.HasSpa {
		return false
	}

	if f.PetFriendly && !h.PetFriendly {
		return false
	}

	if f.Parking && !h.HasParking {
		return false
	}

	if f.Wifi && !h.HasWifi {
		return false
	}

	return true
}
