package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/innstack/concierge/internal/catalog"
	"github.com/innstack/concierge/internal/person"
	"github.com/innstack/concierge/internal/reservation"
)

func toolDefinitions() []openai.Tool {
	fn := func(name, description string, params map[string]any) openai.Tool {
		return openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        name,
				Description: description,
				Parameters:  params,
			},
		}
	}

	obj := func(required []string, props map[string]any) map[string]any {
		p := map[string]any{"type": "object", "properties": props}
		if len(required) > 0 {
			p["required"] = required
		}

		return p
	}

	str := func(desc string) map[string]any { return map[string]any{"type": "string", "description": desc} }
	num := func(desc string) map[string]any { return map[string]any{"type": "integer", "description": desc} }

	dateDesc := "Date in YYYY-MM-DD form, or a natural phrase like '16 January 2025'"

	return []openai.Tool{
		fn("search_hotels",
			"Search hotels by free text: location, amenities, price caps like 'under $300', star ratings, cancellation policy questions.",
			obj([]string{"query"}, map[string]any{
				"query": str("The guest's search request in their own words"),
			})),
		fn("get_rooms_by_hotel",
			"List all rooms of a hotel with numbers, views and nightly prices.",
			obj([]string{"hotel"}, map[string]any{
				"hotel": str("Hotel id, name or city"),
			})),
		fn("find_rooms_for_date_range",
			"List rooms of a hotel that are free for a whole date range.",
			obj([]string{"hotel", "check_in", "check_out"}, map[string]any{
				"hotel":     str("Hotel id, name or city"),
				"check_in":  str(dateDesc),
				"check_out": str(dateDesc),
			})),
		fn("check_room_availability",
			"Check whether one specific room is free for a date range.",
			obj([]string{"room_id", "check_in", "check_out"}, map[string]any{
				"room_id":   num("Room id"),
				"check_in":  str(dateDesc),
				"check_out": str(dateDesc),
			})),
		fn("create_reservation",
			"Book a room for a guest. Only call after the guest confirmed the exact room and dates.",
			obj([]string{"person_id", "hotel_id", "room_id", "check_in", "check_out"}, map[string]any{
				"person_id": num("Guest id from create_person or an existing profile"),
				"hotel_id":  str("Hotel id"),
				"room_id":   num("Room id"),
				"check_in":  str(dateDesc),
				"check_out": str(dateDesc),
			})),
		fn("get_alternative_rooms",
			"Find other free rooms in the same hotel when the requested room is taken. Never book one without asking the guest first.",
			obj([]string{"hotel", "check_in", "check_out"}, map[string]any{
				"hotel":           str("Hotel id, name or city"),
				"check_in":        str(dateDesc),
				"check_out":       str(dateDesc),
				"exclude_room_id": num("Room id the guest originally asked for"),
			})),
		fn("create_person",
			"Register a guest profile before their first booking.",
			obj([]string{"first_name", "last_name"}, map[string]any{
				"first_name": str("Guest first name"),
				"last_name":  str("Guest last name"),
				"email":      str("Guest email"),
				"phone":      str("Guest phone number"),
			})),
		fn("cancel_reservation",
			"Cancel an existing reservation by its id and free the room.",
			obj([]string{"reservation_id"}, map[string]any{
				"reservation_id": num("Reservation id"),
			})),
		fn("list_reservations",
			"List all reservations on file.",
			obj(nil, map[string]any{})),
	}
}

func (a *Assistant) dispatch(ctx context.Context, call openai.ToolCall) string {
	out, err := a.call(ctx, call.Function.Name, call.Function.Arguments)
	if err != nil {
		return toolError(err)
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return toolError(err)
	}

	return string(raw)
}

func toolError(err error) string {
	raw, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(raw)
}

func (a *Assistant) call(ctx context.Context, name, arguments string) (any, error) {
	switch name {
	case "search_hotels":
		var args struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, err
		}

		return a.searchHotels(ctx, args.Query)
	case "get_rooms_by_hotel":
		var args struct {
			Hotel string `json:"hotel"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, err
		}

		return a.roomsByHotel(ctx, args.Hotel)
	case "find_rooms_for_date_range":
		var args struct {
			Hotel    string `json:"hotel"`
			CheckIn  string `json:"check_in"`
			CheckOut string `json:"check_out"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, err
		}

		return a.freeRooms(ctx, args.Hotel, args.CheckIn, args.CheckOut, 0)
	case "check_room_availability":
		var args struct {
			RoomID   int    `json:"room_id"`
			CheckIn  string `json:"check_in"`
			CheckOut string `json:"check_out"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, err
		}

		return a.checkAvailability(ctx, args.RoomID, args.CheckIn, args.CheckOut)
	case "create_reservation":
		var args struct {
			PersonID int    `json:"person_id"`
			HotelID  string `json:"hotel_id"`
			RoomID   int    `json:"room_id"`
			CheckIn  string `json:"check_in"`
			CheckOut string `json:"check_out"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, err
		}

		return a.createReservation(ctx, args.PersonID, args.HotelID, args.RoomID, args.CheckIn, args.CheckOut)
	case "get_alternative_rooms":
		var args struct {
			Hotel         string `json:"hotel"`
			CheckIn       string `json:"check_in"`
			CheckOut      string `json:"check_out"`
			ExcludeRoomID int    `json:"exclude_room_id"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, err
		}

		return a.freeRooms(ctx, args.Hotel, args.CheckIn, args.CheckOut, args.ExcludeRoomID)
	case "create_person":
		var args struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Email     string `json:"email"`
			Phone     string `json:"phone"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, err
		}

		return a.createPerson(ctx, args.FirstName, args.LastName, args.Email, args.Phone)
	case "cancel_reservation":
		var args struct {
			ReservationID int `json:"reservation_id"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, err
		}

		return a.cancelReservation(ctx, args.ReservationID)
	case "list_reservations":
		return a.listReservations(ctx)
	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
}

type hotelSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	City          string `json:"city"`
	Country       string `json:"country"`
	StarRating    int    `json:"starRating"`
	PricePerNight string `json:"pricePerNight"`
	Description   string `json:"description,omitempty"`
	Amenities     string `json:"amenities,omitempty"`
	Policy        string `json:"cancellationPolicy,omitempty"`
}

func summarizeHotel(h *catalog.Hotel) hotelSummary {
	return hotelSummary{
		ID:            h.ID,
		Name:          h.Name,
		City:          h.City,
		Country:       h.Country,
		StarRating:    h.StarRating,
		PricePerNight: h.PricePerNight.StringFixed(2),
		Description:   h.Description,
		Amenities:     h.Amenities,
		Policy:        h.CancellationPolicy,
	}
}

type roomSummary struct {
	ID            int    `json:"id"`
	RoomNumber    string `json:"roomNumber"`
	Floor         int    `json:"floor"`
	Capacity      int    `json:"capacity"`
	SeaView       bool   `json:"seaView"`
	CityView      bool   `json:"cityView"`
	PricePerNight string `json:"pricePerNight"`
	Hotel         string `json:"hotel,omitempty"`
}

func summarizeRoom(r *catalog.Room) roomSummary {
	s := roomSummary{
		ID:            r.ID,
		RoomNumber:    r.RoomNumber,
		Floor:         r.Floor,
		Capacity:      r.Capacity,
		SeaView:       r.IsSeaView,
		CityView:      r.IsCityView,
		PricePerNight: r.TotalPrice().StringFixed(2),
	}

	if r.Hotel != nil {
		s.Hotel = r.Hotel.Name
	}

	return s
}

type reservationSummary struct {
	ID         int    `json:"id"`
	Guest      string `json:"guest"`
	Hotel      string `json:"hotel"`
	RoomNumber string `json:"roomNumber"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Nights     int    `json:"nights"`
	TotalPrice string `json:"totalPrice"`
	Cancelled  bool   `json:"cancelled,omitempty"`
}

func summarizeReservation(r *reservation.Reservation) reservationSummary {
	s := reservationSummary{
		ID:         r.ID,
		CheckIn:    r.CheckIn.Format("2006-01-02"),
		CheckOut:   r.CheckOut.Format("2006-01-02"),
		Nights:     r.Nights,
		TotalPrice: r.TotalPrice.StringFixed(2),
		Cancelled:  r.Cancelled,
	}

	if r.Person != nil {
		s.Guest = r.Person.FullName()
	}

	if r.Hotel != nil {
		s.Hotel = r.Hotel.Name
	}

	if r.Room != nil {
		s.RoomNumber = r.Room.RoomNumber
	}

	return s
}

func (a *Assistant) searchHotels(ctx context.Context, query string) (any, error) {
	results, err := a.index.Search(ctx, query, 5)
	if err != nil {
		return nil, err
	}

	summaries := make([]hotelSummary, 0, len(results))
	for _, res := range results {
		summaries = append(summaries, summarizeHotel(res.Hotel))
	}

	if len(summaries) == 0 {
		return map[string]string{"message": "no hotels matched the request"}, nil
	}

	return summaries, nil
}

func (a *Assistant) roomsByHotel(ctx context.Context, hotel string) (any, error) {
	rooms, err := a.catalog.RoomsByHotel(ctx, hotel)
	if err != nil {
		return nil, err
	}

	if len(rooms) == 0 {
		return map[string]string{"message": "no rooms found for that hotel"}, nil
	}

	summaries := make([]roomSummary, 0, len(rooms))
	for _, r := range rooms {
		summaries = append(summaries, summarizeRoom(r))
	}

	return summaries, nil
}

func (a *Assistant) parseRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	out, err := ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return in, out, nil
}

func (a *Assistant) freeRooms(ctx context.Context, hotel, checkIn, checkOut string, excludeRoomID int) (any, error) {
	in, out, err := a.parseRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	options, err := a.manager.AlternativeRooms(ctx, hotel, in, out, excludeRoomID)
	if err != nil {
		return nil, err
	}

	if len(options) == 0 {
		return map[string]string{"message": "no rooms are free for those dates"}, nil
	}

	type option struct {
		roomSummary
		Nights     int    `json:"nights"`
		TotalPrice string `json:"totalStayPrice"`
	}

	summaries := make([]option, 0, len(options))
	for _, opt := range options {
		summaries = append(summaries, option{
			roomSummary: summarizeRoom(opt.Room),
			Nights:      opt.Nights,
			TotalPrice:  opt.TotalPrice.StringFixed(2),
		})
	}

	return summaries, nil
}

func (a *Assistant) checkAvailability(ctx context.Context, roomID int, checkIn, checkOut string) (any, error) {
	in, out, err := a.parseRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	available, err := a.manager.IsRoomAvailable(ctx, roomID, in, out)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"roomId":    roomID,
		"checkIn":   in.Format("2006-01-02"),
		"checkOut":  out.Format("2006-01-02"),
		"available": available,
	}, nil
}

func (a *Assistant) createReservation(ctx context.Context, personID int, hotelID string, roomID int, checkIn, checkOut string) (any, error) {
	in, out, err := a.parseRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	res, err := a.manager.CreateReservation(ctx, reservation.CreateInput{
		PersonID: personID,
		HotelID:  hotelID,
		RoomID:   roomID,
		CheckIn:  in,
		CheckOut: out,
	})
	if err != nil {
		if errors.Is(err, reservation.ErrRoomUnavailable) {
			return map[string]string{
				"error": "the room is not available for those dates; use get_alternative_rooms and let the guest choose",
			}, nil
		}

		return nil, err
	}

	return summarizeReservation(res), nil
}

func (a *Assistant) createPerson(ctx context.Context, firstName, lastName, email, phone string) (any, error) {
	p, err := a.directory.Create(ctx, person.CreateInput{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     phone,
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{"personId": p.ID, "name": p.FullName()}, nil
}

func (a *Assistant) cancelReservation(ctx context.Context, id int) (any, error) {
	res, err := a.manager.CancelReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	return summarizeReservation(res), nil
}

func (a *Assistant) listReservations(ctx context.Context) (any, error) {
	all, err := a.manager.Reservations(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]reservationSummary, 0, len(all))
	for _, r := range all {
		summaries = append(summaries, summarizeReservation(r))
	}

	return summaries, nil
}
