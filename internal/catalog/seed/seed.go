package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/innstack/concierge/internal/catalog"
	"github.com/innstack/concierge/internal/person"
	"github.com/innstack/concierge/internal/reservation"
)

// Loader builds the demo catalog: ten hotels, their rooms, each room's
// availability ledger for the next six months, a handful of guests and a
// few pre-existing reservations. Deterministic: the same data on every
// start.
type Loader struct {
	rng *rand.Rand
}

func NewLoader() *Loader {
	return &Loader{rng: rand.New(rand.NewSource(42))}
}

type Data struct {
	Hotels       []*catalog.Hotel
	Rooms        []*catalog.Room
	Ledgers      map[int]reservation.Ledger
	People       []*person.Person
	Reservations []reservation.CreateInput
}

func price(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}

func (ld *Loader) Load() *Data {
	hotels := ld.hotels()
	rooms, ledgers := ld.rooms(hotels)

	return &Data{
		Hotels:       hotels,
		Rooms:        rooms,
		Ledgers:      ledgers,
		People:       ld.people(),
		Reservations: ld.reservations(rooms),
	}
}

func (ld *Loader) hotels() []*catalog.Hotel {
	return []*catalog.Hotel{
		{
			ID: "1", Name: "Grand Plaza Hotel", City: "New York", Country: "USA",
			Address: "123 5th Avenue, Manhattan, NY 10001", StarRating: 5, PricePerNight: price(450),
			Description:        "Luxury hotel in the heart of Manhattan with stunning city views. Perfect for business travelers and tourists. Near Central Park and Times Square.",
			Amenities:          "24/7 concierge, Business center, Conference rooms, Rooftop restaurant, Bar/Lounge, Room service, Laundry service, Currency exchange, Luggage storage",
			RoomTypes:          "Standard, Deluxe, Suite, Presidential Suite",
			CancellationPolicy: "Free cancellation up to 48 hours before check-in. 50% charge for cancellations within 48 hours. No refund for no-shows.",
			CheckInCheckOut:    "Check-in: 3:00 PM, Check-out: 11:00 AM. Early check-in and late check-out available upon request.",
			HouseRules:         "No smoking in rooms. Quiet hours 10 PM - 8 AM. Maximum 4 guests per room. ID required at check-in.",
			NearbyAttractions:  "Central Park (0.5 miles), Times Square (0.8 miles), Empire State Building (1.2 miles), Broadway Theaters (0.6 miles)",
			HasPool:            true, HasGym: true, HasSpa: true, PetFriendly: false, HasParking: true, HasWifi: true,
		},
		{
			ID: "2", Name: "Seaside Resort & Spa", City: "Miami", Country: "USA",
			Address: "456 Ocean Drive, Miami Beach, FL 33139", StarRating: 4, PricePerNight: price(320),
			Description:        "Beachfront resort with private beach access. Family-friendly with kids club and activities. Perfect for relaxation and water sports.",
			Amenities:          "Private beach, Kids club, Water sports equipment, Beach bar, 3 restaurants, Poolside service, Babysitting service, Gift shop",
			RoomTypes:          "Ocean View, Garden View, Family Suite, Honeymoon Suite",
			CancellationPolicy: "Free cancellation up to 72 hours before arrival. 30% charge within 72 hours. Full charge within 24 hours.",
			CheckInCheckOut:    "Check-in: 4:00 PM, Check-out: 12:00 PM. Express check-out available.",
			HouseRules:         "Children welcome. Pets allowed with deposit. No parties. Beach towels provided.",
			NearbyAttractions:  "South Beach (0 miles), Art Deco District (1 mile), Lincoln Road Mall (0.5 miles), Jungle Island (3 miles)",
			HasPool:            true, HasGym: true, HasSpa: true, PetFriendly: true, HasParking: true, HasWifi: true,
		},
		{
			ID: "3", Name: "Mountain Lodge Retreat", City: "Aspen", Country: "USA",
			Address: "789 Mountain View Road, Aspen, CO 81611", StarRating: 4, PricePerNight: price(280),
			Description:        "Cozy mountain lodge with ski-in/ski-out access. Rustic charm with modern amenities. Fireplace in every room. Perfect for winter sports enthusiasts.",
			Amenities:          "Ski storage, Ski equipment rental, Hot tub, Sauna, Fireplace lounge, Restaurant with local cuisine, Shuttle service, Hiking guides",
			RoomTypes:          "Mountain View Room, Slope Side Suite, Cabin, Penthouse",
			CancellationPolicy: "Flexible cancellation up to 7 days before arrival with full refund. 50% refund within 7 days. No refund within 48 hours.",
			CheckInCheckOut:    "Check-in: 4:00 PM, Check-out: 11:00 AM. Ski valet service available.",
			HouseRules:         "No smoking property. Ski equipment in designated areas. Quiet hours after 10 PM.",
			NearbyAttractions:  "Aspen Mountain Ski Area (0 miles), Maroon Bells (10 miles), Downtown Aspen (2 miles), Snowmass Village (8 miles)",
			HasPool:            false, HasGym: true, HasSpa: false, PetFriendly: true, HasParking: true, HasWifi: true,
		},
		{
			ID: "4", Name: "Business Inn Express", City: "Chicago", Country: "USA",
			Address: "321 Business Park Drive, Chicago, IL 60601", StarRating: 3, PricePerNight: price(150),
			Description:        "Affordable business hotel near airport and convention center. Free airport shuttle. Ideal for business travelers on a budget.",
			Amenities:          "Free breakfast, Business center, Meeting rooms, Airport shuttle, Printing services, Express laundry, 24-hour front desk",
			RoomTypes:          "Standard, Executive, Junior Suite",
			CancellationPolicy: "Free cancellation up to 24 hours before check-in. No refund for late cancellations or no-shows.",
			CheckInCheckOut:    "Check-in: 2:00 PM, Check-out: 12:00 PM. 24-hour check-in available.",
			HouseRules:         "No smoking. No pets. Valid credit card required. Government ID required.",
			NearbyAttractions:  "O'Hare Airport (5 miles), McCormick Place Convention Center (3 miles), Downtown Chicago (8 miles)",
			HasPool:            true, HasGym: true, HasSpa: false, PetFriendly: false, HasParking: true, HasWifi: true,
		},
		{
			ID: "5", Name: "Boutique Art Hotel", City: "Paris", Country: "France",
			Address: "15 Rue de Rivoli, 75001 Paris", StarRating: 4, PricePerNight: price(380),
			Description:        "Intimate boutique hotel filled with contemporary art. Each room individually designed. Walking distance to the Louvre and Notre-Dame.",
			Amenities:          "Art gallery, Wine bar, Concierge, Room service, Library lounge, Bicycle rental, Airport transfer",
			RoomTypes:          "Classic, Artist Suite, Terrace Room",
			CancellationPolicy: "Free cancellation up to 48 hours before arrival. One night charge for later cancellations.",
			CheckInCheckOut:    "Check-in: 3:00 PM, Check-out: 12:00 PM.",
			HouseRules:         "No smoking. Small pets welcome. Quiet hours after 10 PM.",
			NearbyAttractions:  "Louvre Museum (0.3 miles), Notre-Dame (0.8 miles), Seine River (0.2 miles), Marais District (0.5 miles)",
			HasPool:            false, HasGym: false, HasSpa: true, PetFriendly: true, HasParking: false, HasWifi: true,
		},
		{
			ID: "6", Name: "Family Paradise Resort", City: "Orlando", Country: "USA",
			Address: "888 Theme Park Boulevard, Orlando, FL 32819", StarRating: 4, PricePerNight: price(250),
			Description:        "Sprawling family resort minutes from the major theme parks. Water park on site, character breakfasts, and free park shuttles.",
			Amenities:          "Water park, Kids club, Game arcade, 4 pools, Mini golf, Character dining, Free theme park shuttle, Laundry facilities",
			RoomTypes:          "Family Room, Kids Suite, Two-Bedroom Villa",
			CancellationPolicy: "Free cancellation up to 5 days before arrival. One night charge within 5 days.",
			CheckInCheckOut:    "Check-in: 4:00 PM, Check-out: 11:00 AM.",
			HouseRules:         "Children must be supervised at pools. No glass in pool areas. Wristbands required for water park.",
			NearbyAttractions:  "Walt Disney World (3 miles), Universal Studios (6 miles), SeaWorld (4 miles), Premium Outlets (2 miles)",
			HasPool:            true, HasGym: true, HasSpa: false, PetFriendly: false, HasParking: true, HasWifi: true,
		},
		{
			ID: "7", Name: "Eco Green Hotel", City: "Portland", Country: "USA",
			Address: "77 Evergreen Lane, Portland, OR 97201", StarRating: 3, PricePerNight: price(180),
			Description:        "Certified sustainable hotel built from reclaimed materials. Solar powered, organic restaurant, and electric vehicle charging.",
			Amenities:          "Organic restaurant, EV charging, Bicycle rental, Rooftop garden, Yoga studio, Farmers market shuttle",
			RoomTypes:          "Eco Standard, Garden View, Green Suite",
			CancellationPolicy: "Free cancellation up to 24 hours before arrival.",
			CheckInCheckOut:    "Check-in: 3:00 PM, Check-out: 11:00 AM.",
			HouseRules:         "Recycling required. No smoking anywhere on property. Pets welcome.",
			NearbyAttractions:  "Powell's Books (1 mile), Washington Park (2 miles), Pearl District (0.5 miles)",
			HasPool:            false, HasGym: true, HasSpa: false, PetFriendly: true, HasParking: true, HasWifi: true,
		},
		{
			ID: "8", Name: "Airport Transit Hotel", City: "Atlanta", Country: "USA",
			Address: "1 Terminal Road, Atlanta, GA 30320", StarRating: 3, PricePerNight: price(120),
			Description:        "Inside the airport terminal, built for layovers. Soundproof rooms, day rates, and 24-hour everything.",
			Amenities:          "24-hour check-in, Day rooms, Soundproofing, Luggage storage, Flight information displays, Express breakfast",
			RoomTypes:          "Standard, Day Room, Quiet Suite",
			CancellationPolicy: "Free cancellation up to 12 hours before check-in.",
			CheckInCheckOut:    "Flexible 24-hour check-in and check-out.",
			HouseRules:         "No smoking. Maximum 2 guests per room.",
			NearbyAttractions:  "Hartsfield-Jackson Airport (0 miles), Downtown Atlanta (10 miles), Georgia Aquarium (11 miles)",
			HasPool:            false, HasGym: true, HasSpa: false, PetFriendly: false, HasParking: true, HasWifi: true,
		},
		{
			ID: "9", Name: "Luxury Desert Oasis", City: "Scottsdale", Country: "USA",
			Address: "500 Desert Bloom Drive, Scottsdale, AZ 85255", StarRating: 5, PricePerNight: price(520),
			Description:        "Five-star desert resort with championship golf, world-class spa and private casitas. Stunning sunset views over the Sonoran Desert.",
			Amenities:          "Golf course, Destination spa, 5 restaurants, Infinity pools, Tennis courts, Horseback riding, Stargazing deck",
			RoomTypes:          "Casita, Pool Casita, Presidential Villa",
			CancellationPolicy: "Free cancellation up to 14 days before arrival. 50% charge within 14 days.",
			CheckInCheckOut:    "Check-in: 4:00 PM, Check-out: 12:00 PM.",
			HouseRules:         "Resort casual dress in restaurants. No smoking indoors.",
			NearbyAttractions:  "Camelback Mountain (8 miles), Old Town Scottsdale (6 miles), Desert Botanical Garden (10 miles)",
			HasPool:            true, HasGym: true, HasSpa: true, PetFriendly: true, HasParking: true, HasWifi: true,
		},
		{
			ID: "10", Name: "Historic Downtown Inn", City: "Boston", Country: "USA",
			Address: "22 Beacon Street, Boston, MA 02108", StarRating: 4, PricePerNight: price(290),
			Description:        "Restored 19th-century inn on the Freedom Trail. Period furnishings with modern comforts. Afternoon tea served daily.",
			Amenities:          "Afternoon tea, Library, Fireplace lounge, Concierge, Evening wine hour, Historic walking tours",
			RoomTypes:          "Classic Queen, Heritage King, Beacon Suite",
			CancellationPolicy: "Free cancellation up to 48 hours before arrival.",
			CheckInCheckOut:    "Check-in: 3:00 PM, Check-out: 11:00 AM.",
			HouseRules:         "No smoking. Quiet hours after 9 PM. No pets.",
			NearbyAttractions:  "Freedom Trail (0 miles), Boston Common (0.2 miles), Faneuil Hall (0.7 miles), North End (1 mile)",
			HasPool:            false, HasGym: false, HasSpa: false, PetFriendly: false, HasParking: false, HasWifi: true,
		},
	}
}

func (ld *Loader) rooms(hotels []*catalog.Hotel) ([]*catalog.Room, map[int]reservation.Ledger) {
	var rooms []*catalog.Room

	ledgers := make(map[int]reservation.Ledger)
	roomID := 1

	for _, hotel := range hotels {
		count := 25
		hasSeaView := false
		hasCityView := false

		switch hotel.ID {
		case "1":
			count = 30
			hasCityView = true
		case "2":
			count = 40
			hasSeaView = true
		}

		for i := 1; i <= count; i++ {
			floor := (i-1)/10 + 1
			withinFloor := i % 10
			if withinFloor == 0 {
				withinFloor = 10
			}

			roomType := ld.pickRoomType()

			room := &catalog.Room{
				ID:                roomID,
				RoomNumber:        fmt.Sprintf("%d%02d", floor, withinFloor),
				Floor:             floor,
				Capacity:          catalog.Capacity(roomType),
				IsSeaView:         hasSeaView && ld.rng.Float64() < 0.6,
				IsCityView:        hasCityView && ld.rng.Float64() < 0.7,
				SeaViewSurcharge:  catalog.SeaViewSurcharge,
				CityViewSurcharge: catalog.CityViewSurcharge,
				BasePrice:         catalog.BasePrice(roomType),
				Hotel:             hotel,
			}

			rooms = append(rooms, room)
			ledgers[roomID] = ld.ledger(roomID)
			roomID++
		}
	}

	return rooms, ledgers
}

func (ld *Loader) pickRoomType() catalog.RoomType {
	types := []catalog.RoomType{
		catalog.StandardSingle,
		catalog.StandardDouble,
		catalog.DeluxeSingle,
		catalog.DeluxeDouble,
	}

	return types[ld.rng.Intn(len(types))]
}

// ledger covers today through six months out with 1-7 day slots, mostly
// Available with scattered Reserved/Blocked/OutOfService stretches.
func (ld *Loader) ledger(roomID int) reservation.Ledger {
	var slots []reservation.Slot

	start := reservation.Day(time.Now())
	end := start.AddDate(0, 6, 0)
	slotID := roomID * 1000
	current := start

	for current.Before(end) {
		slotEnd := current.AddDate(0, 0, ld.rng.Intn(7)+1)
		if slotEnd.After(end) {
			slotEnd = end
		}

		status := ld.pickStatus()

		slots = append(slots, reservation.Slot{
			ID:     slotID,
			Start:  current,
			End:    slotEnd,
			Status: status,
			Note:   statusNote(status),
		})

		slotID++
		current = slotEnd.AddDate(0, 0, 1)
	}

	return reservation.NewLedger(slots...)
}

func (ld *Loader) pickStatus() reservation.SlotStatus {
	switch r := ld.rng.Float64(); {
	case r < 0.75:
		return reservation.SlotAvailable
	case r < 0.88:
		return reservation.SlotReserved
	case r < 0.96:
		return reservation.SlotBlocked
	default:
		return reservation.SlotOutOfService
	}
}

func statusNote(status reservation.SlotStatus) string {
	switch status {
	case reservation.SlotReserved:
		return "Existing reservation"
	case reservation.SlotBlocked:
		return "Maintenance work"
	case reservation.SlotOutOfService:
		return "Renovation"
	default:
		return ""
	}
}

func (ld *Loader) people() []*person.Person {
	return []*person.Person{
		{ID: 1, FirstName: "Ahmet", LastName: "Yilmaz", Email: "ahmet.yilmaz@email.com", Phone: "+90 532 123 4567", LoyaltyPoints: 1250},
		{ID: 2, FirstName: "Fatma", LastName: "Kaya", Email: "fatma.kaya@email.com", Phone: "+90 533 234 5678", LoyaltyPoints: 820},
		{ID: 3, FirstName: "Mehmet", LastName: "Demir", Email: "mehmet.demir@email.com", Phone: "+90 534 345 6789", LoyaltyPoints: 430},
		{ID: 4, FirstName: "Ayse", LastName: "Celik", Email: "ayse.celik@email.com", Phone: "+90 535 456 7890", LoyaltyPoints: 90},
		{ID: 5, FirstName: "Emre", LastName: "Sahin", Email: "emre.sahin@email.com", Phone: "+90 536 567 8901"},
		{ID: 6, FirstName: "Emily", LastName: "Johnson", Email: "emily.johnson@email.com", Phone: "+1 305 555 0134", LoyaltyPoints: 2100},
	}
}

// reservations are applied through the normal booking path at startup, so
// the ledgers and the reservation log always agree. Requests that collide
// with a seeded Reserved/Blocked stretch are skipped by the caller.
func (ld *Loader) reservations(rooms []*catalog.Room) []reservation.CreateInput {
	today := reservation.Day(time.Now())

	roomIn := func(hotelID string, roomNumber string) int {
		for _, r := range rooms {
			if r.Hotel.ID == hotelID && r.RoomNumber == roomNumber {
				return r.ID
			}
		}

		return 0
	}

	return []reservation.CreateInput{
		{PersonID: 1, HotelID: "1", RoomID: roomIn("1", "101"), CheckIn: today.AddDate(0, 0, 7), CheckOut: today.AddDate(0, 0, 10)},
		{PersonID: 2, HotelID: "2", RoomID: roomIn("2", "205"), CheckIn: today.AddDate(0, 0, 15), CheckOut: today.AddDate(0, 0, 18)},
		{PersonID: 6, HotelID: "1", RoomID: roomIn("1", "301"), CheckIn: today.AddDate(0, 0, 3), CheckOut: today.AddDate(0, 0, 7)},
		{PersonID: 3, HotelID: "2", RoomID: roomIn("2", "410"), CheckIn: today.AddDate(0, 0, 20), CheckOut: today.AddDate(0, 0, 25)},
		{PersonID: 4, HotelID: "3", RoomID: roomIn("3", "102"), CheckIn: today.AddDate(0, 0, 30), CheckOut: today.AddDate(0, 0, 33)},
	}
}
