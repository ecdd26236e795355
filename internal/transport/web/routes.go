package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"

	"github.com/innstack/concierge/internal/catalog"
	"github.com/innstack/concierge/internal/chat"
	"github.com/innstack/concierge/internal/person"
	"github.com/innstack/concierge/internal/reservation"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.LogErrorf("Could not encode response: %v", err.Error())
	}
}

// writeError maps domain errors onto HTTP statuses. Validation problems are
// 400, missing entities 404, availability conflicts 412 and lost races 409.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reservation.ErrInvalidRange), errors.Is(err, reservation.ErrPastDate):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case reservation.IsNotFound(err) != nil,
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, person.ErrNotFound),
		errors.Is(err, chat.ErrSessionNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, reservation.ErrRoomUnavailable):
		s.writeJSON(w, http.StatusPreconditionFailed, map[string]string{"error": err.Error()})
	case errors.Is(err, reservation.ErrConcurrentConflict):
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, person.ErrDuplicateEmail):
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		s.l.LogErrorf("type: handler, error: %v", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func parseDateParam(r *http.Request, name string) (string, bool) {
	v := r.URL.Query().Get(name)

	return v, v != ""
}

func (s *Server) dateRange(w http.ResponseWriter, r *http.Request) (checkIn, checkOut string, ok bool) {
	checkIn, okIn := parseDateParam(r, "checkIn")
	checkOut, okOut := parseDateParam(r, "checkOut")

	if !okIn || !okOut {
		http.Error(w, "checkIn and checkOut query parameters are required", http.StatusBadRequest)

		return "", "", false
	}

	return checkIn, checkOut, true
}

func (s *Server) hotelsHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		hotels []*catalog.Hotel
		err    error
	)

	switch {
	case q.Get("city") != "":
		hotels, err = s.catalog.HotelsByCity(ctx, q.Get("city"))
	case q.Get("stars") != "":
		stars, convErr := strconv.Atoi(q.Get("stars"))
		if convErr != nil {
			http.Error(w, "stars must be a number", http.StatusBadRequest)

			return
		}

		hotels, err = s.catalog.HotelsByStarRating(ctx, stars)
	case q.Get("maxPrice") != "":
		maxPrice, convErr := decimal.NewFromString(q.Get("maxPrice"))
		if convErr != nil {
			http.Error(w, "maxPrice must be a number", http.StatusBadRequest)

			return
		}

		hotels, err = s.catalog.HotelsByPriceRange(ctx, decimal.Zero, maxPrice)
	default:
		hotels, err = s.catalog.Hotels(ctx)
	}

	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, hotels)
}

func (s *Server) hotelHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hotel, err := s.catalog.Hotel(r.Context(), ps.ByName("hotelId"))
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, hotel)
}

func (s *Server) hotelRoomsHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rooms, err := s.catalog.RoomsByHotel(r.Context(), ps.ByName("hotelId"))
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) alternativesHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	checkInRaw, checkOutRaw, ok := s.dateRange(w, r)
	if !ok {
		return
	}

	checkIn, err := chat.ParseDate(checkInRaw)
	if err != nil {
		s.writeError(w, fmt.Errorf("%v: %w", err, reservation.ErrInvalidRange))

		return
	}

	checkOut, err := chat.ParseDate(checkOutRaw)
	if err != nil {
		s.writeError(w, fmt.Errorf("%v: %w", err, reservation.ErrInvalidRange))

		return
	}

	excludeRoomID, _ := strconv.Atoi(r.URL.Query().Get("excludeRoomId"))

	options, err := s.manager.AlternativeRooms(r.Context(), ps.ByName("hotelId"), checkIn, checkOut, excludeRoomID)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, options)
}

func (s *Server) roomsHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rooms, err := s.catalog.Rooms(r.Context())
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) roomHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID, err := strconv.Atoi(ps.ByName("roomId"))
	if err != nil {
		http.Error(w, "room id must be a number", http.StatusBadRequest)

		return
	}

	room, err := s.catalog.Room(r.Context(), roomID)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, room)
}

func (s *Server) roomLedgerHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID, err := strconv.Atoi(ps.ByName("roomId"))
	if err != nil {
		http.Error(w, "room id must be a number", http.StatusBadRequest)

		return
	}

	ledger, err := s.manager.RoomLedger(r.Context(), roomID)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, ledger)
}

func (s *Server) roomAvailabilityHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID, err := strconv.Atoi(ps.ByName("roomId"))
	if err != nil {
		http.Error(w, "room id must be a number", http.StatusBadRequest)

		return
	}

	checkInRaw, checkOutRaw, ok := s.dateRange(w, r)
	if !ok {
		return
	}

	checkIn, err := chat.ParseDate(checkInRaw)
	if err != nil {
		s.writeError(w, fmt.Errorf("%v: %w", err, reservation.ErrInvalidRange))

		return
	}

	checkOut, err := chat.ParseDate(checkOutRaw)
	if err != nil {
		s.writeError(w, fmt.Errorf("%v: %w", err, reservation.ErrInvalidRange))

		return
	}

	available, err := s.manager.IsRoomAvailable(r.Context(), roomID, checkIn, checkOut)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"roomId":    roomID,
		"checkIn":   checkIn.Format("2006-01-02"),
		"checkOut":  checkOut.Format("2006-01-02"),
		"available": available,
	})
}

type createReservationRequest struct {
	PersonID int    `json:"personId"`
	HotelID  string `json:"hotelId"`
	RoomID   int    `json:"roomId"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

func (s *Server) checkReservationRequest(w http.ResponseWriter, r *http.Request) (*createReservationRequest, string) {
	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		http.Error(w, "Idempotency-Key header is missing", http.StatusBadRequest)

		return nil, ""
	}

	var req createReservationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return nil, ""
	}

	return &req, idempotencyKey
}

func (s *Server) createReservationHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	req, idempotencyKey := s.checkReservationRequest(w, r)
	if idempotencyKey == "" {
		return
	}

	checkIn, err := chat.ParseDate(req.CheckIn)
	if err != nil {
		s.writeError(w, fmt.Errorf("%v: %w", err, reservation.ErrInvalidRange))

		return
	}

	checkOut, err := chat.ParseDate(req.CheckOut)
	if err != nil {
		s.writeError(w, fmt.Errorf("%v: %w", err, reservation.ErrInvalidRange))

		return
	}

	ctx = reservation.NewContextWithIdempotencyKey(ctx, idempotencyKey)

	res, err := s.manager.CreateReservation(ctx, reservation.CreateInput{
		PersonID: req.PersonID,
		HotelID:  req.HotelID,
		RoomID:   req.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, res)
}

func (s *Server) reservationsHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	all, err := s.manager.Reservations(r.Context())
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, all)
}

func (s *Server) reservationHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.Atoi(ps.ByName("reservationId"))
	if err != nil {
		http.Error(w, "reservation id must be a number", http.StatusBadRequest)

		return
	}

	res, err := s.manager.Reservation(r.Context(), id)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) cancelReservationHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.Atoi(ps.ByName("reservationId"))
	if err != nil {
		http.Error(w, "reservation id must be a number", http.StatusBadRequest)

		return
	}

	res, err := s.manager.CancelReservation(r.Context(), id)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) createPersonHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input person.CreateInput

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	p, err := s.directory.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, person.ErrDuplicateEmail) {
			s.writeError(w, err)

			return
		}

		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})

		return
	}

	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) personsHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	people, err := s.directory.All(r.Context())
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, people)
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "q query parameter is required", http.StatusBadRequest)

		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 5
	}

	results, err := s.index.Search(r.Context(), query, limit)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) startChatSessionHandler(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	sess := s.assistant.StartSession()

	s.writeJSON(w, http.StatusCreated, map[string]string{"sessionId": sess.ID})
}

type chatMessageRequest struct {
	Message string `json:"message"`
}

func (s *Server) chatMessageHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req chatMessageRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)

		return
	}

	reply, err := s.assistant.Respond(r.Context(), ps.ByName("sessionId"), req.Message)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) chatHistoryHandler(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	sess, err := s.assistant.Session(ps.ByName("sessionId"))
	if err != nil {
		s.writeError(w, err)

		return
	}

	type historyEntry struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	messages := sess.History()

	history := make([]historyEntry, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == "system" || msg.Role == "tool" || msg.Content == "" {
			continue
		}

		history = append(history, historyEntry{Role: msg.Role, Content: msg.Content})
	}

	s.writeJSON(w, http.StatusOK, history)
}

func (s *Server) endChatSessionHandler(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	if err := s.assistant.EndSession(ps.ByName("sessionId")); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRoutes(r *httprouter.Router) {
	handle := func(method, path string, h httprouter.Handle) {
		r.Handle(method, path, s.applyMiddlewares(h, s.loggerMiddleware(), s.recoverMiddleware()))
	}

	handle(http.MethodGet, "/api/hotels", s.hotelsHandler)
	handle(http.MethodGet, "/api/hotels/:hotelId", s.hotelHandler)
	handle(http.MethodGet, "/api/hotels/:hotelId/rooms", s.hotelRoomsHandler)
	handle(http.MethodGet, "/api/hotels/:hotelId/alternatives", s.alternativesHandler)

	handle(http.MethodGet, "/api/rooms", s.roomsHandler)
	handle(http.MethodGet, "/api/rooms/:roomId", s.roomHandler)
	handle(http.MethodGet, "/api/rooms/:roomId/ledger", s.roomLedgerHandler)
	handle(http.MethodGet, "/api/rooms/:roomId/availability", s.roomAvailabilityHandler)

	handle(http.MethodPost, "/api/reservations", s.createReservationHandler)
	handle(http.MethodGet, "/api/reservations", s.reservationsHandler)
	handle(http.MethodGet, "/api/reservations/:reservationId", s.reservationHandler)
	handle(http.MethodDelete, "/api/reservations/:reservationId", s.cancelReservationHandler)

	handle(http.MethodPost, "/api/persons", s.createPersonHandler)
	handle(http.MethodGet, "/api/persons", s.personsHandler)

	handle(http.MethodGet, "/api/search", s.searchHandler)

	handle(http.MethodPost, "/api/chat/sessions", s.startChatSessionHandler)
	handle(http.MethodPost, "/api/chat/sessions/:sessionId/messages", s.chatMessageHandler)
	handle(http.MethodGet, "/api/chat/sessions/:sessionId/history", s.chatHistoryHandler)
	handle(http.MethodDelete, "/api/chat/sessions/:sessionId", s.endChatSessionHandler)

	handle(http.MethodGet, "/ws/reservations/:hotelId", s.hub.Handle)

	handle(http.MethodGet, s.conf.LivenessEndpoint, s.livenessHandler)
}
