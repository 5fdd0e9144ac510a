package notify

import (
	"context"
	"fmt"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/sirupsen/logrus"
)

// Sender turns lifecycle events into SMS text for the traveler. Delivery is simulated by logging.
type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(_ context.Context, event domain.Event) error {
	text, ok := Message(event)
	if !ok {
		return nil
	}
	s.log.WithFields(logrus.Fields{
		"phone":      event.Phone,
		"booking_id": event.BookingID,
		"event":      event.Type,
	}).Info(text)
	return nil
}

// Message renders the SMS for an event. Events travelers are not told about return false.
func Message(event domain.Event) (string, bool) {
	route := fmt.Sprintf("%s to %s on %s", event.From, event.To, event.Date)
	switch event.Type {
	case domain.EventBookingCommitted:
		return fmt.Sprintf("Booking %s confirmed: %s, seat %s. Fare %d paid.", event.BookingID, route, event.SeatNumber, event.Fare), true
	case domain.EventBookingCancelled:
		return fmt.Sprintf("Booking %s cancelled. Refund of %d will be credited.", event.BookingID, event.Refund), true
	case domain.EventPaymentFailed:
		return fmt.Sprintf("Payment for booking %s failed. Please try again.", event.BookingID), true
	case domain.EventBookingCompleted:
		return fmt.Sprintf("Thanks for travelling %s with us.", route), true
	default:
		return "", false
	}
}
