package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuery            = errors.New("search not performed: invalid query")
	ErrNotCancellable          = errors.New("booking is not cancellable")
	ErrDuplicatePaymentAttempt = errors.New("payment already in progress or completed")
	ErrSettlementFailed        = errors.New("payment settlement failed")
	ErrPaymentAbandoned        = errors.New("payment abandoned")
	ErrNotCompletable          = errors.New("booking is not completable")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrOfferNotFound           = errors.New("offer not found")
	ErrProfileNotFound         = errors.New("profile not found")
	ErrProfileExists           = errors.New("profile already registered")
	ErrNoSeatsAvailable        = errors.New("no seats available")
	ErrDuplicateBooking        = errors.New("booking already exists")
	ErrRefundExceedsSpend      = errors.New("refund exceeds total spent")
	ErrInvalidTransition       = errors.New("invalid booking status transition")
	ErrTicketUnavailable       = errors.New("ticket is only issued for confirmed or completed bookings")
)

type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}
