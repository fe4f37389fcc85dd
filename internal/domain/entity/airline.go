package entity

// Airline is one row of the carrier directory: IATA carrier code to display name
// and the carrier's own booking site.
type Airline struct {
	ID         uint
	Code       string
	Name       string
	BookingURL string
}
