// internal/domain/entity/flight_record.go
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlightRecord is the canonical, validated form of one offer. It lives for a
// single search request and is never mutated after pricing; pricing returns a copy.
type FlightRecord struct {
	ID               string
	OfferID          string
	Source           string
	CarrierCode      string
	FlightNumber     string
	AirlineName      string
	Origin           string
	Destination      string
	DepartureTime    time.Time
	ArrivalTime      time.Time
	Duration         time.Duration
	SegmentCount     int // itinerary legs; only the first is represented
	Currency         string
	BasePrice        decimal.Decimal
	TotalPrice       decimal.Decimal // before discount
	FinalPrice       decimal.Decimal
	AppliedCoupon    string
	AppliedCard      string
	BookingReference string
}

// Discount is the amount taken off the pre-discount total.
func (r FlightRecord) Discount() decimal.Decimal {
	return r.TotalPrice.Sub(r.FinalPrice)
}
