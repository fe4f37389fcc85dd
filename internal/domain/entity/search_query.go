package entity

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO date format used on the wire and in cache keys.
const DateLayout = "2006-01-02"

// Travel classes accepted by the fare providers.
const (
	ClassEconomy        = "ECONOMY"
	ClassPremiumEconomy = "PREMIUM_ECONOMY"
	ClassBusiness       = "BUSINESS"
	ClassFirst          = "FIRST"
)

// PassengerCounts holds the travellers per age category.
type PassengerCounts struct {
	Adults   int
	Children int
	Infants  int
}

// Total returns the number of travellers.
func (p PassengerCounts) Total() int {
	return p.Adults + p.Children + p.Infants
}

// SearchQuery is the provider-independent fare search request.
type SearchQuery struct {
	Origin      string
	Destination string
	Date        time.Time
	Passengers  PassengerCounts
	TravelClass string
	Currency    string
	MaxResults  int
}

// Validate checks the search preconditions against today's date in the
// query date's location. Violations wrap ErrInvalidQuery.
func (q SearchQuery) Validate(now time.Time) error {
	origin := strings.TrimSpace(q.Origin)
	destination := strings.TrimSpace(q.Destination)
	if origin == "" || destination == "" {
		return fmt.Errorf("%w: origin and destination are required", ErrInvalidQuery)
	}
	if strings.EqualFold(origin, destination) {
		return fmt.Errorf("%w: origin and destination must differ", ErrInvalidQuery)
	}
	if q.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidQuery)
	}
	now = now.In(q.Date.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, q.Date.Location())
	if day.Before(today) {
		return fmt.Errorf("%w: date %s is in the past", ErrInvalidQuery, q.Date.Format(DateLayout))
	}
	if q.Passengers.Adults < 1 {
		return fmt.Errorf("%w: at least one adult is required", ErrInvalidQuery)
	}
	if q.Passengers.Children < 0 || q.Passengers.Infants < 0 {
		return fmt.Errorf("%w: passenger counts must not be negative", ErrInvalidQuery)
	}
	if q.Passengers.Infants > q.Passengers.Adults {
		return fmt.Errorf("%w: infants cannot outnumber adults", ErrInvalidQuery)
	}
	switch q.TravelClass {
	case "", ClassEconomy, ClassPremiumEconomy, ClassBusiness, ClassFirst:
	default:
		return fmt.Errorf("%w: unknown travel class %q", ErrInvalidQuery, q.TravelClass)
	}
	return nil
}

// CacheKey identifies the provider response for this query.
func (q SearchQuery) CacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%d|%d|%d|%s|%s|%d",
		strings.ToUpper(q.Origin),
		strings.ToUpper(q.Destination),
		q.Date.Format(DateLayout),
		q.Passengers.Adults,
		q.Passengers.Children,
		q.Passengers.Infants,
		strings.ToUpper(q.TravelClass),
		strings.ToUpper(q.Currency),
		q.MaxResults,
	)
}
