package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type storage interface {
	Hotels(ctx context.Context) ([]*Hotel, error)
	Hotel(ctx context.Context, hotelID string) (*Hotel, error)
	Rooms(ctx context.Context) ([]*Room, error)
	Room(ctx context.Context, roomID int) (*Room, error)
}

// Service answers read-only catalog queries. Entities are loaded once at
// startup and never change, so every method is a plain scan.
type Service struct {
	storage storage
}

func New(storage storage) *Service {
	return &Service{storage: storage}
}

func (s *Service) Hotels(ctx context.Context) ([]*Hotel, error) {
	return s.storage.Hotels(ctx)
}

func (s *Service) Hotel(ctx context.Context, hotelID string) (*Hotel, error) {
	return s.storage.Hotel(ctx, hotelID)
}

func (s *Service) Rooms(ctx context.Context) ([]*Room, error) {
	return s.storage.Rooms(ctx)
}

func (s *Service) Room(ctx context.Context, roomID int) (*Room, error) {
	return s.storage.Room(ctx, roomID)
}

func (s *Service) HotelsByCity(ctx context.Context, city string) ([]*Hotel, error) {
	hotels, err := s.storage.Hotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load hotels: %w", err)
	}

	needle := strings.ToLower(city)

	var out []*Hotel

	for _, h := range hotels {
		if strings.Contains(strings.ToLower(h.City), needle) ||
			strings.Contains(strings.ToLower(h.Country), needle) {
			out = append(out, h)
		}
	}

	return out, nil
}

func (s *Service) HotelsByStarRating(ctx context.Context, stars int) ([]*Hotel, error) {
	hotels, err := s.storage.Hotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load hotels: %w", err)
	}

	var out []*Hotel

	for _, h := range hotels {
		if h.StarRating == stars {
			out = append(out, h)
		}
	}

	return out, nil
}

func (s *Service) HotelsByAmenities(ctx context.Context, filter AmenityFilter) ([]*Hotel, error) {
	hotels, err := s.storage.Hotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load hotels: %w", err)
	}

	var out []*Hotel

	for _, h := range hotels {
		if filter.Matches(h) {
			out = append(out, h)
		}
	}

	return out, nil
}

func (s *Service) HotelsByName(ctx context.Context, name string) ([]*Hotel, error) {
	hotels, err := s.storage.Hotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load hotels: %w", err)
	}

	needle := strings.ToLower(name)

	var out []*Hotel

	for _, h := range hotels {
		if strings.Contains(strings.ToLower(h.Name), needle) {
			out = append(out, h)
		}
	}

	return out, nil
}

// HotelsByPriceRange returns hotels whose nightly price falls inside
// [min, max], cheapest first.
func (s *Service) HotelsByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]*Hotel, error) {
	hotels, err := s.storage.Hotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load hotels: %w", err)
	}

	var out []*Hotel

	for _, h := range hotels {
		if h.PricePerNight.GreaterThanOrEqual(min) && h.PricePerNight.LessThanOrEqual(max) {
			out = append(out, h)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].PricePerNight.LessThan(out[j].PricePerNight)
	})

	return out, nil
}

// RoomsByHotel matches the identifier against hotel id, name and city,
// case-insensitively, the way the chat layer refers to hotels.
func (s *Service) RoomsByHotel(ctx context.Context, identifier string) ([]*Room, error) {
	rooms, err := s.storage.Rooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	needle := strings.ToLower(identifier)

	var out []*Room

	for _, r := range rooms {
		if r.Hotel == nil {
			continue
		}

		if strings.EqualFold(r.Hotel.ID, identifier) ||
			strings.Contains(strings.ToLower(r.Hotel.Name), needle) ||
			strings.Contains(strings.ToLower(r.Hotel.City), needle) {
			out = append(out, r)
		}
	}

	return out, nil
}
