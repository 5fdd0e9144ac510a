package profile

import (
	"time"

	"github.com/Domenick1991/bustrip/internal/domain"
)

// DemoPhoto is the avatar the demo client shows for new travelers.
const DemoPhoto = "https://images.pexels.com/photos/1516680/pexels-photo-1516680.jpeg?w=150&h=150&fit=crop"

// DemoSeed is the history the demo client shows right after login.
func DemoSeed() Seed {
	return Seed{
		TotalTrips:  15,
		AvgDistance: 12.5,
		TotalSpent:  450,
		Rides: []domain.Ride{
			{
				ID:        "1",
				From:      "Central Station",
				To:        "Tech Park",
				Date:      "2024-01-15",
				BusNumber: "MH12AB1234",
				Fare:      25,
				Status:    domain.RideStatusCompleted,
			},
		},
		Bookings: []domain.Booking{
			{
				ID:          "BK001",
				OfferID:     "GOV001",
				BusType:     domain.BusTypeGovernment,
				BusNumber:   "MH12AB1234",
				From:        "Central Station",
				To:          "Tech Park",
				Date:        "2024-01-20",
				Time:        "09:30 AM",
				Fare:        25,
				Status:      domain.BookingStatusConfirmed,
				SeatNumber:  "A12",
				BookingDate: time.Date(2024, time.January, 18, 0, 0, 0, 0, time.UTC),
			},
		},
	}
}
