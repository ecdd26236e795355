package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/innstack/concierge/internal/logger"
	"github.com/innstack/concierge/internal/reservation"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins — adjust for production if needed
		return true
	},
}

// Hub pushes reservation events to websocket clients subscribed per hotel.
// It implements the reservation manager's notifier.
type Hub struct {
	mu          sync.Mutex
	l           *logger.Logger
	subscribers map[string][]*websocket.Conn
}

func NewHub(l *logger.Logger) *Hub {
	return &Hub{
		l:           l,
		subscribers: make(map[string][]*websocket.Conn),
	}
}

type reservationEvent struct {
	Event      string    `json:"event"`
	ID         int       `json:"reservationId"`
	HotelID    string    `json:"hotelId"`
	RoomNumber string    `json:"roomNumber"`
	CheckIn    string    `json:"checkIn"`
	CheckOut   string    `json:"checkOut"`
	At         time.Time `json:"at"`
}

func (h *Hub) ReservationCreated(res *reservation.Reservation) {
	h.notify("reservation.created", res)
}

func (h *Hub) ReservationCancelled(res *reservation.Reservation) {
	h.notify("reservation.cancelled", res)
}

func (h *Hub) notify(event string, res *reservation.Reservation) {
	if res.Hotel == nil || res.Room == nil {
		return
	}

	payload := reservationEvent{
		Event:      event,
		ID:         res.ID,
		HotelID:    res.Hotel.ID,
		RoomNumber: res.Room.RoomNumber,
		CheckIn:    res.CheckIn.Format("2006-01-02"),
		CheckOut:   res.CheckOut.Format("2006-01-02"),
		At:         time.Now().UTC(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		h.l.LogErrorf("encode reservation event: %v", err)

		return
	}

	h.broadcast(res.Hotel.ID, raw)
}

func (h *Hub) Handle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hotelID := ps.ByName("hotelId")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)

		return
	}

	h.mu.Lock()
	h.subscribers[hotelID] = append(h.subscribers[hotelID], conn)
	h.mu.Unlock()

	for {
		// This keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	conns := h.subscribers[hotelID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	h.subscribers[hotelID] = newList
	h.mu.Unlock()

	conn.Close()
}

func (h *Hub) broadcast(hotelID string, val []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.subscribers[hotelID]
	newList := conns[:0]

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, val); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}

	h.subscribers[hotelID] = newList
}
