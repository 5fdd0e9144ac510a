package cache

import (
	"context"
	"sync"
)

// MemorySeats is the single-process seat store.
type MemorySeats struct {
	mu    sync.Mutex
	seats map[string]map[int]string
}

func NewMemorySeats() *MemorySeats {
	return &MemorySeats{seats: make(map[string]map[int]string)}
}

func (m *MemorySeats) AcquireSeat(_ context.Context, tripKey string, seat int, holder string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	trip, ok := m.seats[tripKey]
	if !ok {
		trip = make(map[int]string)
		m.seats[tripKey] = trip
	}
	if _, taken := trip[seat]; taken {
		return false, nil
	}
	trip[seat] = holder
	return true, nil
}

// ReleaseSeat frees a seat only while holder still owns it.
func (m *MemorySeats) ReleaseSeat(_ context.Context, tripKey string, seat int, holder string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	trip, ok := m.seats[tripKey]
	if !ok || trip[seat] != holder {
		return false, nil
	}
	delete(trip, seat)
	if len(trip) == 0 {
		delete(m.seats, tripKey)
	}
	return true, nil
}

// Occupied returns how many seats of a trip are held.
func (m *MemorySeats) Occupied(tripKey string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seats[tripKey])
}
