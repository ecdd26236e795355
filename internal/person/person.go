package person

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrNotFound       = errors.New("person not found")
	ErrDuplicateEmail = errors.New("a person with this email already exists")
)

type Person struct {
	ID            int    `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	LoyaltyPoints int    `json:"loyaltyPoints"`
}

func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Directory is the guest registry. Process lifetime only, like the rest of
// the system.
type Directory struct {
	mu     sync.RWMutex
	people map[int]*Person
	order  []int
	nextID int
}

func NewDirectory() *Directory {
	return &Directory{
		people: make(map[int]*Person),
		nextID: 1,
	}
}

type CreateInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (in *CreateInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" {
		return errors.New("first name is required")
	}

	if strings.TrimSpace(in.LastName) == "" {
		return errors.New("last name is required")
	}

	return nil
}

func (d *Directory) Create(_ context.Context, in CreateInput) (*Person, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	email := strings.TrimSpace(in.Email)

	if email != "" {
		for _, p := range d.people {
			if strings.EqualFold(p.Email, email) {
				return nil, fmt.Errorf("%q: %w", email, ErrDuplicateEmail)
			}
		}
	}

	p := &Person{
		ID:        d.nextID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
	}

	d.nextID++
	d.people[p.ID] = p
	d.order = append(d.order, p.ID)

	return p, nil
}

// Add registers a pre-built person, used by seeding. The next generated id
// always stays above any seeded id.
func (d *Directory) Add(p *Person) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.people[p.ID]; exists {
		return
	}

	d.people[p.ID] = p
	d.order = append(d.order, p.ID)

	if p.ID >= d.nextID {
		d.nextID = p.ID + 1
	}
}

func (d *Directory) Person(_ context.Context, id int) (*Person, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.people[id]
	if !ok {
		return nil, fmt.Errorf("person %d: %w", id, ErrNotFound)
	}

	return p, nil
}

func (d *Directory) All(_ context.Context) ([]*Person, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*Person, 0, len(d.order))

	for _, id := range d.order {
		out = append(out, d.people[id])
	}

	return out, nil
}
