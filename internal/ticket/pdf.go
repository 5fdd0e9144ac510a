// Package ticket renders printable e-tickets for paid bookings.
package ticket

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/phpdave11/gofpdf"
)

// Render builds a one-page PDF e-ticket and the filename to serve it under.
func Render(who domain.Identity, b domain.Booking) ([]byte, string, error) {
	switch b.Status {
	case domain.BookingStatusConfirmed, domain.BookingStatusCompleted:
	default:
		return nil, "", fmt.Errorf("%w: booking %s is %s", domain.ErrTicketUnavailable, b.ID, b.Status)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUS E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger    : %s", safe(who.Name, "-")),
		fmt.Sprintf("Phone        : %s", safe(who.Phone, "-")),
		fmt.Sprintf("Route        : %s -> %s", safe(b.From, "-"), safe(b.To, "-")),
		fmt.Sprintf("Date / Time  : %s %s", safe(b.Date, "-"), safe(b.Time, "-")),
		fmt.Sprintf("Bus          : %s (%s)", safe(b.BusNumber, "-"), safe(string(b.BusType), "-")),
		fmt.Sprintf("Operator     : %s", safe(b.Operator, "-")),
		fmt.Sprintf("Seat         : %s", safe(b.SeatNumber, "-")),
		fmt.Sprintf("Fare         : Rs %d", b.Fare),
		fmt.Sprintf("Status       : %s", b.Status),
		fmt.Sprintf("Booking ID   : %s", b.ID),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Valid for one passenger and one seat. Show this ticket when boarding. Cancellation refunds 60% of the fare.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render ticket: %w", err)
	}

	filename := fmt.Sprintf("TICKET_%s_%s.pdf", safeFilenamePart(b.ID), safeFilenamePart(b.SeatNumber))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
