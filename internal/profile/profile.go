// Package profile holds the traveler aggregate: lifetime counters plus the
// ordered bookings and rides. It is the only place those values change.
package profile

import (
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/bustrip/internal/domain"
)

// Profile is safe for concurrent use. Every accessor returns copies.
type Profile struct {
	mu sync.RWMutex

	identity    domain.Identity
	totalTrips  int
	avgDistance float64
	// number of rides that contributed to avgDistance
	distanceSamples int
	totalSpent      int64

	rides    []domain.Ride
	bookings []domain.Booking
	index    map[string]int
}

// Totals are the lifetime counters as they stood right after one change.
type Totals struct {
	TotalTrips int
	TotalSpent int64
}

// Seed is history carried into a profile when it is registered.
type Seed struct {
	TotalTrips  int
	AvgDistance float64
	TotalSpent  int64
	Rides       []domain.Ride
	Bookings    []domain.Booking
}

func New(identity domain.Identity) *Profile {
	return &Profile{
		identity: identity,
		index:    make(map[string]int),
	}
}

func Restore(identity domain.Identity, seed Seed) (*Profile, error) {
	if seed.TotalTrips < 0 {
		return nil, domain.ValidationError{Field: "total_trips", Msg: "must not be negative"}
	}
	if seed.AvgDistance < 0 {
		return nil, domain.ValidationError{Field: "avg_distance", Msg: "must not be negative"}
	}
	if seed.TotalSpent < 0 {
		return nil, domain.ValidationError{Field: "total_spent", Msg: "must not be negative"}
	}

	p := New(identity)
	p.totalTrips = seed.TotalTrips
	p.avgDistance = seed.AvgDistance
	p.totalSpent = seed.TotalSpent
	p.rides = append([]domain.Ride(nil), seed.Rides...)
	if seed.AvgDistance > 0 {
		p.distanceSamples = max(len(seed.Rides), 1)
	}

	for _, b := range seed.Bookings {
		if b.ID == "" {
			return nil, domain.ValidationError{Field: "booking.id", Msg: "is required"}
		}
		if !b.Status.Valid() || b.Status == domain.BookingStatusPending {
			return nil, domain.ValidationError{Field: "booking.status", Msg: fmt.Sprintf("%q cannot be restored", b.Status)}
		}
		if _, ok := p.index[b.ID]; ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateBooking, b.ID)
		}
		p.index[b.ID] = len(p.bookings)
		p.bookings = append(p.bookings, b)
	}
	return p, nil
}

func (p *Profile) ID() string {
	return p.identity.ID
}

func (p *Profile) Identity() domain.Identity {
	return p.identity
}

func (p *Profile) TotalTrips() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalTrips
}

func (p *Profile) TotalSpent() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalSpent
}

func (p *Profile) AvgDistance() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.avgDistance
}

func (p *Profile) Snapshot() domain.ProfileSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return domain.ProfileSnapshot{
		Identity:    p.identity,
		TotalTrips:  p.totalTrips,
		AvgDistance: p.avgDistance,
		TotalSpent:  p.totalSpent,
		Rides:       append([]domain.Ride{}, p.rides...),
		Bookings:    append([]domain.Booking{}, p.bookings...),
	}
}

func (p *Profile) Booking(id string) (domain.Booking, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	i, ok := p.index[id]
	if !ok {
		return domain.Booking{}, false
	}
	return p.bookings[i], true
}

// Bookings returns bookings in creation order, optionally filtered by status.
func (p *Profile) Bookings(statuses ...domain.BookingStatus) []domain.Booking {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]domain.Booking, 0, len(p.bookings))
	for _, b := range p.bookings {
		if len(statuses) == 0 || hasStatus(statuses, b.Status) {
			out = append(out, b)
		}
	}
	return out
}

func (p *Profile) Rides() []domain.Ride {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.Ride{}, p.rides...)
}

// CommitBooking attaches a paid booking as confirmed and credits the counters
// in one step. The returned Totals include this booking.
func (p *Profile) CommitBooking(b domain.Booking) (domain.Booking, Totals, error) {
	if b.ID == "" {
		return domain.Booking{}, Totals{}, domain.ValidationError{Field: "id", Msg: "is required"}
	}
	if b.Fare < 0 {
		return domain.Booking{}, Totals{}, domain.ValidationError{Field: "fare", Msg: "must not be negative"}
	}
	if !b.Status.CanTransitionTo(domain.BookingStatusConfirmed) {
		return domain.Booking{}, Totals{}, fmt.Errorf("%w: cannot commit %s booking", domain.ErrInvalidTransition, b.Status)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.index[b.ID]; ok {
		return domain.Booking{}, Totals{}, fmt.Errorf("%w: %s", domain.ErrDuplicateBooking, b.ID)
	}

	b.Status = domain.BookingStatusConfirmed
	b.ExpiresAt = time.Time{}
	p.index[b.ID] = len(p.bookings)
	p.bookings = append(p.bookings, b)
	p.totalTrips++
	p.totalSpent += b.Fare

	return b, p.totals(), nil
}

// ApplyCancellation marks a confirmed booking cancelled and takes the refund
// off totalSpent. The returned Totals include the refund.
func (p *Profile) ApplyCancellation(bookingID string, refund int64) (domain.Booking, Totals, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i, ok := p.index[bookingID]
	if !ok {
		return domain.Booking{}, Totals{}, fmt.Errorf("%w: %w", domain.ErrNotCancellable, domain.ErrBookingNotFound)
	}
	b := p.bookings[i]
	if !b.Status.CanTransitionTo(domain.BookingStatusCancelled) {
		return domain.Booking{}, Totals{}, fmt.Errorf("%w: booking is %s", domain.ErrNotCancellable, b.Status)
	}
	if refund < 0 || refund > b.Fare {
		return domain.Booking{}, Totals{}, domain.ValidationError{Field: "refund", Msg: fmt.Sprintf("must be between 0 and %d", b.Fare)}
	}
	if refund > p.totalSpent {
		return domain.Booking{}, Totals{}, fmt.Errorf("%w: refund %d, spent %d", domain.ErrRefundExceedsSpend, refund, p.totalSpent)
	}

	b.Status = domain.BookingStatusCancelled
	p.bookings[i] = b
	p.totalSpent -= refund

	return b, p.totals(), nil
}

// CompleteBooking closes a confirmed booking as travelled and records the ride.
func (p *Profile) CompleteBooking(bookingID, rideID string, at time.Time) (domain.Ride, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i, ok := p.index[bookingID]
	if !ok {
		return domain.Ride{}, fmt.Errorf("%w: %w", domain.ErrNotCompletable, domain.ErrBookingNotFound)
	}
	b := p.bookings[i]
	if !b.Status.CanTransitionTo(domain.BookingStatusCompleted) {
		return domain.Ride{}, fmt.Errorf("%w: booking is %s", domain.ErrNotCompletable, b.Status)
	}

	b.Status = domain.BookingStatusCompleted
	p.bookings[i] = b

	ride := domain.Ride{
		ID:          rideID,
		BookingID:   b.ID,
		From:        b.From,
		To:          b.To,
		Date:        b.Date,
		BusNumber:   b.BusNumber,
		Fare:        b.Fare,
		DistanceKm:  b.DistanceKm,
		Status:      domain.RideStatusCompleted,
		CompletedAt: at,
	}
	p.rides = append(p.rides, ride)

	if ride.DistanceKm > 0 {
		n := float64(p.distanceSamples)
		p.avgDistance = (p.avgDistance*n + ride.DistanceKm) / (n + 1)
		p.distanceSamples++
	}

	return ride, nil
}

// totals must be called with p.mu held.
func (p *Profile) totals() Totals {
	return Totals{TotalTrips: p.totalTrips, TotalSpent: p.totalSpent}
}

func hasStatus(statuses []domain.BookingStatus, s domain.BookingStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
