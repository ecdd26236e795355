package simple

import (
	"context"
	"sync"
)

// Generator hands out monotonic ids. Safe for concurrent use; reservation
// creation runs on request goroutines.
type Generator struct {
	mu      sync.Mutex
	counter int
}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) GetID(_ context.Context) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.counter++

	return g.counter, nil
}
