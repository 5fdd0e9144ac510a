package domain

import "time"

type EventType string

const (
	EventBookingCreated   EventType = "booking_created"
	EventBookingCommitted EventType = "booking_committed"
	EventBookingCancelled EventType = "booking_cancelled"
	EventPaymentFailed    EventType = "payment_failed"
	EventBookingCompleted EventType = "booking_completed"
	EventBookingExpired   EventType = "booking_expired"
)

// Event is a booking lifecycle notification for subscribers outside the engine.
type Event struct {
	Type       EventType     `json:"type"`
	BookingID  string        `json:"booking_id"`
	ProfileID  string        `json:"profile_id"`
	Phone      string        `json:"phone,omitempty"`
	Status     BookingStatus `json:"status"`
	From       string        `json:"from,omitempty"`
	To         string        `json:"to,omitempty"`
	Date       string        `json:"date,omitempty"`
	SeatNumber string        `json:"seat_number,omitempty"`
	Fare       int64         `json:"fare"`
	Refund     int64         `json:"refund,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func NewEvent(t EventType, profileID string, b Booking, at time.Time) Event {
	return Event{
		Type:       t,
		BookingID:  b.ID,
		ProfileID:  profileID,
		Status:     b.Status,
		From:       b.From,
		To:         b.To,
		Date:       b.Date,
		SeatNumber: b.SeatNumber,
		Fare:       b.Fare,
		OccurredAt: at,
	}
}
