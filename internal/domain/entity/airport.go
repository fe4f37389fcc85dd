package entity

// Airport represents airport-code to city information
type Airport struct {
	ID          uint
	AirportCode string
	AirportName string
	CityCode    string
	CityName    string
	TzName      string
}
