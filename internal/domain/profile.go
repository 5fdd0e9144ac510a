package domain

import "time"

// Identity is what the phone verification step hands over once a traveler is verified.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Photo string `json:"photo,omitempty"`
}

type RideStatus string

const RideStatusCompleted RideStatus = "completed"

// Ride is an immutable record of a finished trip.
type Ride struct {
	ID          string     `json:"id"`
	BookingID   string     `json:"booking_id,omitempty"`
	From        string     `json:"from"`
	To          string     `json:"to"`
	Date        string     `json:"date"`
	BusNumber   string     `json:"bus_number"`
	Fare        int64      `json:"fare"`
	DistanceKm  float64    `json:"distance_km,omitempty"`
	Status      RideStatus `json:"status"`
	CompletedAt time.Time  `json:"completed_at,omitzero"`
}

type ProfileSnapshot struct {
	Identity
	TotalTrips  int       `json:"total_trips"`
	AvgDistance float64   `json:"avg_distance"`
	TotalSpent  int64     `json:"total_spent"`
	Rides       []Ride    `json:"rides"`
	Bookings    []Booking `json:"bookings"`
}
