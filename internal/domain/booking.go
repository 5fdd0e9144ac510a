package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// CanTransitionTo reports whether a booking may move from s to next.
// Statuses only move forward; cancelled and completed are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed
	case BookingStatusConfirmed:
		return next == BookingStatusCancelled || next == BookingStatusCompleted
	default:
		return false
	}
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

type BusType string

const (
	BusTypeGovernment BusType = "government"
	BusTypePrivate    BusType = "private"
)

func (t BusType) Valid() bool {
	return t == BusTypeGovernment || t == BusTypePrivate
}

// DateLayout is the calendar date format used for travel and booking dates.
const DateLayout = "2006-01-02"

type Booking struct {
	ID          string        `json:"id"`
	OfferID     string        `json:"offer_id"`
	BusType     BusType       `json:"bus_type"`
	BusNumber   string        `json:"bus_number"`
	Operator    string        `json:"operator,omitempty"`
	From        string        `json:"from"`
	To          string        `json:"to"`
	Date        string        `json:"date"`
	Time        string        `json:"time"`
	Fare        int64         `json:"fare"`
	DistanceKm  float64       `json:"distance_km,omitempty"`
	Status      BookingStatus `json:"status"`
	SeatNumber  string        `json:"seat_number,omitempty"`
	BookingDate time.Time     `json:"booking_date"`
	ExpiresAt   time.Time     `json:"expires_at,omitzero"`
}

// TripKey identifies the physical trip a seat belongs to.
func (b Booking) TripKey() string {
	return TripKey(b.OfferID, b.Date)
}

func TripKey(offerID, date string) string {
	return fmt.Sprintf("%s:%s", offerID, date)
}

// SeatCode renders a seat index the way tickets print it.
func SeatCode(seat int) string {
	return fmt.Sprintf("A%d", seat)
}
