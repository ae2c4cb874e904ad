package memory

import (
	"context"
	"sync"

	"github.com/hamed0406/hostmon/internal/domain"
	"github.com/hamed0406/hostmon/internal/repo"
)

const DefaultCapacity = 500

var _ repo.EventStore = (*Store)(nil)

// Store retains the most recent events in memory.
type Store struct {
	mu     sync.RWMutex
	limit  int
	events []domain.Event // oldest first
}

func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		limit:  capacity,
		events: make([]domain.Event, 0, 64),
	}
}

func (m *Store) Append(ctx context.Context, ev domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	if len(m.events) > m.limit {
		m.events = append(m.events[:0:0], m.events[len(m.events)-m.limit:]...)
	}
	return nil
}

func (m *Store) List(ctx context.Context, limit int) ([]domain.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.Event, 0, n)
	for i := len(m.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}
