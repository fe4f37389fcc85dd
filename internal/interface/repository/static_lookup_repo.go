package repository

import (
	"context"
	"fmt"
	"strings"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/internal/domain/repository"
)

// StaticAirlineRepository serves the carrier directory from memory.
type StaticAirlineRepository struct {
	airlines map[string]entity.Airline
}

// NewStaticAirlineRepository indexes airlines by upper-cased code. A nil
// slice loads the built-in directory.
func NewStaticAirlineRepository(airlines []entity.Airline) repository.AirlineRepository {
	if airlines == nil {
		airlines = DefaultAirlines()
	}
	index := make(map[string]entity.Airline, len(airlines))
	for _, a := range airlines {
		index[strings.ToUpper(a.Code)] = a
	}
	return &StaticAirlineRepository{airlines: index}
}

// GetByCode finds an airline by carrier code
func (r *StaticAirlineRepository) GetByCode(_ context.Context, code string) (*entity.Airline, error) {
	a, ok := r.airlines[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, fmt.Errorf("airline %q: %w", code, entity.ErrNotFound)
	}
	return &a, nil
}

// StaticAirportRepository serves airport to city data from memory.
type StaticAirportRepository struct {
	airports map[string]entity.Airport
}

// NewStaticAirportRepository indexes airports by upper-cased code. A nil
// slice loads the built-in table.
func NewStaticAirportRepository(airports []entity.Airport) repository.AirportRepository {
	if airports == nil {
		airports = DefaultAirports()
	}
	index := make(map[string]entity.Airport, len(airports))
	for _, a := range airports {
		index[strings.ToUpper(a.AirportCode)] = a
	}
	return &StaticAirportRepository{airports: index}
}

// GetByAirportCode finds an airport by IATA code
func (r *StaticAirportRepository) GetByAirportCode(_ context.Context, code string) (*entity.Airport, error) {
	a, ok := r.airports[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, fmt.Errorf("airport %q: %w", code, entity.ErrNotFound)
	}
	return &a, nil
}

// DefaultAirlines is the built-in carrier directory.
func DefaultAirlines() []entity.Airline {
	return []entity.Airline{
		{Code: "6E", Name: "IndiGo", BookingURL: "https://www.goindigo.in"},
		{Code: "AI", Name: "Air India", BookingURL: "https://www.airindia.com"},
		{Code: "SG", Name: "SpiceJet", BookingURL: "https://www.spicejet.com"},
		{Code: "UK", Name: "Vistara", BookingURL: "https://www.airvistara.com"},
		{Code: "G8", Name: "GoAir", BookingURL: "https://www.flygofirst.com"},
		{Code: "QP", Name: "Akasa Air", BookingURL: "https://www.akasaair.com"},
		{Code: "IX", Name: "Air India Express", BookingURL: "https://www.airindiaexpress.com"},
		{Code: "EK", Name: "Emirates", BookingURL: "https://www.emirates.com"},
		{Code: "QR", Name: "Qatar Airways", BookingURL: "https://www.qatarairways.com"},
		{Code: "SQ", Name: "Singapore Airlines", BookingURL: "https://www.singaporeair.com"},
		{Code: "BA", Name: "British Airways", BookingURL: "https://www.britishairways.com"},
		{Code: "LH", Name: "Lufthansa", BookingURL: "https://www.lufthansa.com"},
	}
}

// DefaultAirports is the built-in airport table.
func DefaultAirports() []entity.Airport {
	return []entity.Airport{
		{AirportCode: "DEL", AirportName: "Indira Gandhi International", CityCode: "DEL", CityName: "Delhi", TzName: "Asia/Kolkata"},
		{AirportCode: "BOM", AirportName: "Chhatrapati Shivaji Maharaj International", CityCode: "BOM", CityName: "Mumbai", TzName: "Asia/Kolkata"},
		{AirportCode: "BLR", AirportName: "Kempegowda International", CityCode: "BLR", CityName: "Bengaluru", TzName: "Asia/Kolkata"},
		{AirportCode: "MAA", AirportName: "Chennai International", CityCode: "MAA", CityName: "Chennai", TzName: "Asia/Kolkata"},
		{AirportCode: "CCU", AirportName: "Netaji Subhas Chandra Bose International", CityCode: "CCU", CityName: "Kolkata", TzName: "Asia/Kolkata"},
		{AirportCode: "HYD", AirportName: "Rajiv Gandhi International", CityCode: "HYD", CityName: "Hyderabad", TzName: "Asia/Kolkata"},
		{AirportCode: "GOI", AirportName: "Dabolim", CityCode: "GOI", CityName: "Goa", TzName: "Asia/Kolkata"},
		{AirportCode: "AMD", AirportName: "Sardar Vallabhbhai Patel International", CityCode: "AMD", CityName: "Ahmedabad", TzName: "Asia/Kolkata"},
		{AirportCode: "COK", AirportName: "Cochin International", CityCode: "COK", CityName: "Kochi", TzName: "Asia/Kolkata"},
		{AirportCode: "PNQ", AirportName: "Pune", CityCode: "PNQ", CityName: "Pune", TzName: "Asia/Kolkata"},
		{AirportCode: "JAI", AirportName: "Jaipur International", CityCode: "JAI", CityName: "Jaipur", TzName: "Asia/Kolkata"},
		{AirportCode: "DXB", AirportName: "Dubai International", CityCode: "DXB", CityName: "Dubai", TzName: "Asia/Dubai"},
		{AirportCode: "SIN", AirportName: "Changi", CityCode: "SIN", CityName: "Singapore", TzName: "Asia/Singapore"},
		{AirportCode: "LHR", AirportName: "Heathrow", CityCode: "LON", CityName: "London", TzName: "Europe/London"},
	}
}
