package booking

import (
	"context"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/sirupsen/logrus"
)

// CompleteBooking marks a confirmed trip as travelled and records the ride.
func (s *BookingService) CompleteBooking(ctx context.Context, profileID, bookingID string) (*domain.Ride, error) {
	p, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}

	ride, err := p.CompleteBooking(bookingID, s.newID(), s.now())
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":   bookingID,
		"profile_id":   profileID,
		"avg_distance": p.AvgDistance(),
	}).Info("trip completed")

	if b, ok := p.Booking(bookingID); ok {
		s.emit(ctx, domain.EventBookingCompleted, p.Identity(), b, nil)
	}
	return &ride, nil
}
