package simulated

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/internal/domain/repository"
	"farefinder-service/pkg/logger"
)

const providerName = "simulated"

// TokenVerifier checks a bearer token presented to the provider.
type TokenVerifier interface {
	Verify(token string) bool
}

type flight struct {
	carrier   string
	number    string
	departure string
	arrival   string
	basePrice int
}

type bookingSite struct {
	name string
	link func(q entity.SearchQuery) string
}

var schedule = []flight{
	{carrier: "6E", number: "2131", departure: "06:00", arrival: "08:00", basePrice: 4500},
	{carrier: "AI", number: "865", departure: "09:00", arrival: "11:30", basePrice: 5200},
	{carrier: "SG", number: "8169", departure: "12:00", arrival: "14:00", basePrice: 4800},
	{carrier: "UK", number: "995", departure: "15:00", arrival: "17:30", basePrice: 6000},
	{carrier: "G8", number: "334", departure: "18:00", arrival: "20:00", basePrice: 4300},
}

var sites = []bookingSite{
	{name: "MakeMyTrip", link: func(q entity.SearchQuery) string {
		v := url.Values{}
		v.Set("itinerary", fmt.Sprintf("%s-%s-%s", q.Origin, q.Destination, q.Date.Format("02/01/2006")))
		v.Set("tripType", "O")
		v.Set("paxType", paxType(q.Passengers))
		v.Set("cabinClass", cabinCode(q.TravelClass))
		return "https://www.makemytrip.com/flight/search?" + v.Encode()
	}},
	{name: "Cleartrip", link: func(q entity.SearchQuery) string {
		v := url.Values{}
		v.Set("from", q.Origin)
		v.Set("to", q.Destination)
		v.Set("depart_date", q.Date.Format("02/01/2006"))
		v.Set("adults", strconv.Itoa(q.Passengers.Adults))
		v.Set("childs", strconv.Itoa(q.Passengers.Children))
		v.Set("infants", strconv.Itoa(q.Passengers.Infants))
		return "https://www.cleartrip.com/flights/results?" + v.Encode()
	}},
	{name: "Goibibo", link: func(q entity.SearchQuery) string {
		return fmt.Sprintf("https://www.goibibo.com/flights/air-%s-%s-%s--%d-%d-%d-%s/",
			q.Origin, q.Destination, q.Date.Format("20060102"),
			q.Passengers.Adults, q.Passengers.Children, q.Passengers.Infants, cabinCode(q.TravelClass))
	}},
}

// Provider serves a fixed schedule of domestic flights, each listed by every
// booking site. Prices do not move.
type Provider struct {
	verifier TokenVerifier
	logger   logger.Logger
}

// NewProvider creates the simulated fare provider. A nil verifier accepts any
// non-empty token.
func NewProvider(verifier TokenVerifier, logger logger.Logger) repository.FareProvider {
	return &Provider{verifier: verifier, logger: logger}
}

func (p *Provider) Name() string {
	return providerName
}

// SearchOffers returns one raw offer per scheduled flight per booking site,
// grouped by flight in schedule order.
func (p *Provider) SearchOffers(ctx context.Context, token string, query entity.SearchQuery) ([]entity.RawOffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if token == "" || (p.verifier != nil && !p.verifier.Verify(token)) {
		return nil, &entity.ProviderError{
			Provider:   providerName,
			StatusCode: http.StatusUnauthorized,
			Body:       "invalid access token",
		}
	}

	q := query
	q.Origin = strings.ToUpper(query.Origin)
	q.Destination = strings.ToUpper(query.Destination)
	day := query.Date.Format(entity.DateLayout)
	currency := query.Currency
	if currency == "" {
		currency = "INR"
	}

	offers := make([]entity.RawOffer, 0, len(schedule)*len(sites))
	for i, f := range schedule {
		price := strconv.Itoa(f.basePrice) + ".00"
		for j, site := range sites {
			offers = append(offers, entity.RawOffer{
				ID:       fmt.Sprintf("%d", i*len(sites)+j+1),
				Source:   site.name,
				DeepLink: site.link(q),
				Itineraries: []entity.RawItinerary{{
					Segments: []entity.RawSegment{{
						CarrierCode: f.carrier,
						Number:      f.number,
						Departure:   entity.RawEndpoint{IATACode: q.Origin, At: day + "T" + f.departure + ":00"},
						Arrival:     entity.RawEndpoint{IATACode: q.Destination, At: day + "T" + f.arrival + ":00"},
					}},
				}},
				Price: entity.RawPrice{Currency: currency, Base: price, Total: price, GrandTotal: price},
			})
		}
	}

	if query.MaxResults > 0 && len(offers) > query.MaxResults {
		offers = offers[:query.MaxResults]
	}

	p.logger.Debug("Simulated offers generated", "origin", q.Origin, "destination", q.Destination, "offers", len(offers))
	return offers, nil
}

func paxType(p entity.PassengerCounts) string {
	return fmt.Sprintf("A-%d_C-%d_I-%d", p.Adults, p.Children, p.Infants)
}

func cabinCode(class string) string {
	switch class {
	case entity.ClassPremiumEconomy:
		return "W"
	case entity.ClassBusiness:
		return "B"
	case entity.ClassFirst:
		return "F"
	default:
		return "E"
	}
}
