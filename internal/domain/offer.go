package domain

// BusOffer is an ephemeral search result. It is never stored.
type BusOffer struct {
	ID             string   `json:"id"`
	Number         string   `json:"number"`
	Type           BusType  `json:"type"`
	Operator       string   `json:"operator"`
	From           string   `json:"from"`
	To             string   `json:"to"`
	Date           string   `json:"date"`
	DepartureTime  string   `json:"departure_time"`
	ArrivalTime    string   `json:"arrival_time"`
	Duration       string   `json:"duration"`
	Fare           int64    `json:"fare"`
	AvailableSeats int      `json:"available_seats"`
	TotalSeats     int      `json:"total_seats"`
	Amenities      []string `json:"amenities,omitempty"`
	Rating         float64  `json:"rating"`
	Stops          []string `json:"stops,omitempty"`
	DistanceKm     float64  `json:"distance_km"`
}
