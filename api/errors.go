package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case domain.IsValidation(err), errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest
	// checked before not-found: cancelling an unknown booking is a conflict
	case errors.Is(err, domain.ErrNotCancellable),
		errors.Is(err, domain.ErrNotCompletable),
		errors.Is(err, domain.ErrDuplicatePaymentAttempt),
		errors.Is(err, domain.ErrNoSeatsAvailable),
		errors.Is(err, domain.ErrTicketUnavailable),
		errors.Is(err, domain.ErrProfileExists),
		errors.Is(err, domain.ErrDuplicateBooking),
		errors.Is(err, domain.ErrRefundExceedsSpend),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrOfferNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSettlementFailed):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrPaymentAbandoned),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
