package booking

import (
	"context"
	"fmt"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/sirupsen/logrus"
)

// RefundPercent is the share of the fare returned on cancellation. The rest is the cancellation charge.
const RefundPercent = 60

type RefundResult struct {
	BookingID          string         `json:"booking_id"`
	Fare               int64          `json:"fare"`
	Refund             int64          `json:"refund"`
	CancellationCharge int64          `json:"cancellation_charge"`
	TotalSpent         int64          `json:"total_spent"`
	Booking            domain.Booking `json:"booking"`
}

// RefundFor returns floor(fare * 60%).
func RefundFor(fare int64) int64 {
	if fare <= 0 {
		return 0
	}
	return fare * RefundPercent / 100
}

// CancelBooking moves a confirmed booking to cancelled and refunds part of the fare.
// Anything but a confirmed booking fails with domain.ErrNotCancellable and changes nothing.
func (s *BookingService) CancelBooking(ctx context.Context, profileID, bookingID string) (*RefundResult, error) {
	p, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}

	current, ok := p.Booking(bookingID)
	if !ok {
		return nil, fmt.Errorf("%w: %w", domain.ErrNotCancellable, domain.ErrBookingNotFound)
	}
	if current.Status != domain.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: booking is %s", domain.ErrNotCancellable, current.Status)
	}

	refund := RefundFor(current.Fare)
	cancelled, totals, err := p.ApplyCancellation(bookingID, refund)
	if err != nil {
		return nil, err
	}

	if seat, ok := seatIndex(cancelled.SeatNumber); ok {
		s.releaseSeat(ctx, cancelled.TripKey(), seat, cancelled.ID)
	}

	result := &RefundResult{
		BookingID:          bookingID,
		Fare:               cancelled.Fare,
		Refund:             refund,
		CancellationCharge: cancelled.Fare - refund,
		TotalSpent:         totals.TotalSpent,
		Booking:            cancelled,
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":  bookingID,
		"profile_id":  profileID,
		"refund":      refund,
		"total_spent": result.TotalSpent,
	}).Info("booking cancelled")
	s.emit(ctx, domain.EventBookingCancelled, p.Identity(), cancelled, func(e *domain.Event) {
		e.Refund = refund
	})

	return result, nil
}
