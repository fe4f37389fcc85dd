package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/internal/infrastructure/oauth"
	"farefinder-service/pkg/logger"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
)

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// countingAuthority issues tok-1, tok-2, ... and can be told to fail.
type countingAuthority struct {
	mu    sync.Mutex
	calls int
	errs  []error
}

func (a *countingAuthority) Token(context.Context) (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if len(a.errs) > 0 {
		err := a.errs[0]
		a.errs = a.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &oauth2.Token{AccessToken: fmt.Sprintf("tok-%d", a.calls), Expiry: testNow.Add(time.Hour)}, nil
}

func (a *countingAuthority) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type providerResult struct {
	offers []entity.RawOffer
	err    error
}

// scriptedProvider replays results in order and then repeats the last one.
type scriptedProvider struct {
	mu      sync.Mutex
	results []providerResult
	tokens  []string
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) SearchOffers(_ context.Context, token string, _ entity.SearchQuery) ([]entity.RawOffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens = append(p.tokens, token)
	if len(p.results) == 0 {
		return nil, nil
	}
	r := p.results[0]
	if len(p.results) > 1 {
		p.results = p.results[1:]
	}
	return entity.CloneRawOffers(r.offers), r.err
}

func (p *scriptedProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tokens)
}

func unauthorized() error {
	return &entity.ProviderError{Provider: "scripted", StatusCode: 401, Body: "token expired"}
}

func newFetcher(provider *scriptedProvider, authority *countingAuthority) *OfferFetcher {
	creds := oauth.NewCredentialCache(authority, time.Hour, logger.NewNopLogger(), nil).WithClock(fixedNow)
	return NewOfferFetcher(provider, creds, logger.NewNopLogger(), nil).WithClock(fixedNow)
}

func validQuery() entity.SearchQuery {
	return entity.SearchQuery{
		Origin:      "DEL",
		Destination: "BOM",
		Date:        time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		Passengers:  entity.PassengerCounts{Adults: 1},
		TravelClass: entity.ClassEconomy,
		Currency:    "INR",
		MaxResults:  20,
	}
}

func rawOffer(id, carrier, dep, arr, base, total string) entity.RawOffer {
	return entity.RawOffer{
		ID:     id,
		Source: "GDS",
		Itineraries: []entity.RawItinerary{{
			Segments: []entity.RawSegment{{
				CarrierCode: carrier,
				Number:      "100",
				Departure:   entity.RawEndpoint{IATACode: "DEL", At: dep},
				Arrival:     entity.RawEndpoint{IATACode: "BOM", At: arr},
			}},
		}},
		Price: entity.RawPrice{Currency: "INR", Base: base, Total: total, GrandTotal: total},
	}
}

func record(id string, base, total int64, departure string) entity.FlightRecord {
	dep, err := time.Parse("15:04", departure)
	if err != nil {
		panic(err)
	}
	return entity.FlightRecord{
		ID:            id,
		DepartureTime: dep,
		BasePrice:     decimal.NewFromInt(base),
		TotalPrice:    decimal.NewFromInt(total),
		FinalPrice:    decimal.NewFromInt(total),
	}
}

func ids(records []entity.FlightRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

var errNetwork = errors.New("dial tcp: connection refused")
