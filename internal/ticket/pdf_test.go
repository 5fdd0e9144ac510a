package ticket

import (
	"bytes"
	"testing"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(status domain.BookingStatus) domain.Booking {
	return domain.Booking{
		ID:         "BK001",
		BusType:    domain.BusTypeGovernment,
		BusNumber:  "MH12AB1234",
		Operator:   "MSRTC",
		From:       "Central Station",
		To:         "Tech Park",
		Date:       "2024-01-20",
		Time:       "09:30 AM",
		Fare:       25,
		Status:     status,
		SeatNumber: "A12",
	}
}

func TestRender(t *testing.T) {
	who := domain.Identity{ID: "1", Name: "Asha", Phone: "9876543210"}

	for _, status := range []domain.BookingStatus{domain.BookingStatusConfirmed, domain.BookingStatusCompleted} {
		data, filename, err := Render(who, booking(status))

		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
		assert.Equal(t, "TICKET_BK001_A12.pdf", filename)
	}
}

func TestRender_RejectsUnpaidOrCancelled(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.BookingStatusPending, domain.BookingStatusCancelled} {
		data, _, err := Render(domain.Identity{}, booking(status))

		assert.ErrorIs(t, err, domain.ErrTicketUnavailable)
		assert.Nil(t, data)
	}
}

func TestSafeFilenamePart(t *testing.T) {
	assert.Equal(t, "NA", safeFilenamePart("  "))
	assert.Equal(t, "a_b_c", safeFilenamePart("a/b:c"))
	assert.Len(t, safeFilenamePart(string(bytes.Repeat([]byte("x"), 60))), 40)
}
