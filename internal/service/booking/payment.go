package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/sirupsen/logrus"
)

type PayInput struct {
	BookingID string               `json:"booking_id"`
	Method    domain.PaymentMethod `json:"method"`
	UPIID     string               `json:"upi_id,omitempty"`
}

type PaymentResult struct {
	Booking    domain.Booking        `json:"booking"`
	Payment    domain.PaymentAttempt `json:"payment"`
	TotalTrips int                   `json:"total_trips"`
	TotalSpent int64                 `json:"total_spent"`
}

// SimulatedSettler approves every payment after Delay.
type SimulatedSettler struct {
	Delay time.Duration
}

func (s SimulatedSettler) Settle(ctx context.Context, _ domain.Booking, _ domain.PaymentMethod) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Pay drives a booking through pending -> processing -> success|failed.
//
// Only one attempt per booking may be processing; a second one gets
// domain.ErrDuplicatePaymentAttempt. On success the booking is committed to
// the profile inside the same critical section that records success. If ctx
// ends before settlement the attempt is abandoned and the booking returns to
// pending with nothing committed.
func (s *BookingService) Pay(ctx context.Context, input PayInput) (*PaymentResult, error) {
	if !input.Method.Valid() {
		return nil, domain.ValidationError{Field: "method", Msg: "choose qr, upi or card"}
	}
	if input.Method == domain.PaymentMethodUPI && strings.TrimSpace(input.UPIID) == "" {
		return nil, domain.ValidationError{Field: "upi_id", Msg: "is required for upi payments"}
	}

	s.mu.Lock()
	d, ok := s.drafts[input.BookingID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, input.BookingID)
	}
	if state := d.payment.State; state == domain.PaymentStateProcessing || state == domain.PaymentStateSuccess {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: booking %s is %s", domain.ErrDuplicatePaymentAttempt, input.BookingID, state)
	}
	d.payment.State = domain.PaymentStateProcessing
	d.payment.Method = input.Method
	d.payment.Attempts++
	d.payment.Reason = ""
	d.payment.UpdatedAt = s.now()
	b := d.booking
	profileID := d.profileID
	attempt := d.payment.Attempts
	s.mu.Unlock()

	fields := logrus.Fields{
		"booking_id": b.ID,
		"profile_id": profileID,
		"method":     input.Method,
		"attempt":    attempt,
	}
	s.log.WithFields(fields).Info("payment processing")

	p, err := s.profiles.Get(ctx, profileID)
	if err == nil {
		err = s.settler.Settle(ctx, b, input.Method)
	}

	s.mu.Lock()
	if err != nil {
		if ctx.Err() != nil {
			d.payment.State = domain.PaymentStatePending
			d.payment.UpdatedAt = s.now()
			s.mu.Unlock()

			s.log.WithFields(fields).Warn("payment abandoned")
			return nil, fmt.Errorf("%w: %w", domain.ErrPaymentAbandoned, ctx.Err())
		}
		return nil, s.failPayment(ctx, d, fields, err)
	}

	committed, totals, err := p.CommitBooking(b)
	if err != nil {
		return nil, s.failPayment(ctx, d, fields, err)
	}
	d.booking = committed
	d.payment.State = domain.PaymentStateSuccess
	d.payment.UpdatedAt = s.now()
	result := &PaymentResult{
		Booking:    committed,
		Payment:    d.payment,
		TotalTrips: totals.TotalTrips,
		TotalSpent: totals.TotalSpent,
	}
	identity := d.identity
	s.mu.Unlock()

	s.log.WithFields(fields).WithFields(logrus.Fields{
		"total_trips": result.TotalTrips,
		"total_spent": result.TotalSpent,
	}).Info("payment settled, booking confirmed")
	s.emit(ctx, domain.EventBookingCommitted, identity, committed, nil)

	return result, nil
}

// failPayment must be called with s.mu held; it releases it.
func (s *BookingService) failPayment(ctx context.Context, d *draft, fields logrus.Fields, cause error) error {
	d.payment.State = domain.PaymentStateFailed
	d.payment.Reason = cause.Error()
	d.payment.UpdatedAt = s.now()
	b := d.booking
	identity := d.identity
	s.mu.Unlock()

	s.log.WithFields(fields).WithError(cause).Warn("payment failed")
	s.emit(ctx, domain.EventPaymentFailed, identity, b, func(e *domain.Event) {
		e.Reason = cause.Error()
	})

	if errors.Is(cause, domain.ErrSettlementFailed) {
		return cause
	}
	return fmt.Errorf("%w: %w", domain.ErrSettlementFailed, cause)
}

func (s *BookingService) PaymentStatus(_ context.Context, bookingID string) (*domain.PaymentAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[bookingID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, bookingID)
	}
	attempt := d.payment
	return &attempt, nil
}
