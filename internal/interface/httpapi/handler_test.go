package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/internal/usecase"
	"farefinder-service/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	got    usecase.SearchRequest
	result *usecase.SearchResult
	err    error
}

func (f *fakeSearcher) Search(_ context.Context, req usecase.SearchRequest) (*usecase.SearchResult, error) {
	f.got = req
	return f.result, f.err
}

func sampleResult() *usecase.SearchResult {
	loc := time.FixedZone("IST", 5*3600+1800)
	dep := time.Date(2026, 11, 1, 6, 0, 0, 0, loc)
	tiers := entity.NewTieredRecords()
	tiers[entity.TierCheapest] = []entity.FlightRecord{{
		ID:               "rec-1",
		CarrierCode:      "6E",
		FlightNumber:     "6E 2131",
		AirlineName:      "IndiGo",
		Source:           "MakeMyTrip",
		Origin:           "DEL",
		Destination:      "BOM",
		DepartureTime:    dep,
		ArrivalTime:      dep.Add(2 * time.Hour),
		Duration:         2 * time.Hour,
		SegmentCount:     1,
		Currency:         "INR",
		BasePrice:        decimal.NewFromInt(4500),
		TotalPrice:       decimal.NewFromInt(4500),
		FinalPrice:       decimal.RequireFromString("4227.5"),
		AppliedCoupon:    "FLY50",
		AppliedCard:      "Credit Card - 5% off",
		BookingReference: "https://www.makemytrip.com/flight/search",
	}}

	return &usecase.SearchResult{
		Query: entity.SearchQuery{
			Origin:      "DEL",
			Destination: "BOM",
			Date:        time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
			Passengers:  entity.PassengerCounts{Adults: 1},
			TravelClass: entity.ClassEconomy,
			Currency:    "INR",
		},
		Origin:      entity.Airport{AirportCode: "DEL", CityName: "Delhi"},
		Destination: entity.Airport{AirportCode: "BOM", CityName: "Mumbai"},
		Tiers:       tiers,
		Metadata: usecase.SearchMetadata{
			RequestID:         "req-1",
			Provider:          "simulated",
			OffersFetched:     1,
			RecordsNormalized: 1,
			Elapsed:           12 * time.Millisecond,
			Policy:            "band",
			TierStrategy:      "threshold",
			Order:             usecase.OrderDeparture,
		},
	}
}

func serve(h *FlightHandler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.SearchFlights(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSearchFlights_OK(t *testing.T) {
	searcher := &fakeSearcher{result: sampleResult()}
	h := NewFlightHandler(searcher, time.Second, logger.NewNopLogger())

	rec := serve(h, "/api/v1/flights/search?origin=del&destination=bom&date=2026-11-01&adults=2&children=1&class=business")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	q := searcher.got.Query
	assert.Equal(t, "del", q.Origin)
	assert.Equal(t, 2, q.Passengers.Adults)
	assert.Equal(t, 1, q.Passengers.Children)
	assert.Equal(t, 0, q.Passengers.Infants)
	assert.Equal(t, entity.ClassBusiness, q.TravelClass)
	assert.Nil(t, searcher.got.Selection)

	var body searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Delhi", body.SearchCriteria.OriginCity)
	assert.Equal(t, "req-1", body.Metadata.RequestID)
	assert.Equal(t, int64(12), body.Metadata.ElapsedMs)
	require.Len(t, body.Tiers.Cheapest, 1)
	assert.NotNil(t, body.Tiers.Moderate)
	assert.Empty(t, body.Tiers.Costly)

	f := body.Tiers.Cheapest[0]
	assert.Equal(t, "06:00", f.Departure)
	assert.Equal(t, "08:00", f.Arrival)
	assert.Equal(t, "2h", f.Duration)
	assert.Equal(t, "4227.50", f.FinalPrice)
	assert.Equal(t, "INR 4,227.50", f.FinalDisplay)
	assert.Equal(t, "272.50", f.Discount)
	assert.Equal(t, "FLY50", f.Coupon)
	assert.Equal(t, "Credit Card - 5% off", f.Card)
}

func TestSearchFlights_ExplicitSelection(t *testing.T) {
	searcher := &fakeSearcher{result: sampleResult()}
	h := NewFlightHandler(searcher, 0, logger.NewNopLogger())

	rec := serve(h, "/api/v1/flights/search?origin=DEL&destination=BOM&date=2026-11-01&coupon=SAVE10&card=none&order=price")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, searcher.got.Selection)
	assert.Equal(t, "SAVE10", searcher.got.Selection.Coupon)
	assert.Equal(t, "none", searcher.got.Selection.Card)
	assert.Equal(t, "price", searcher.got.Order)
	assert.Equal(t, 1, searcher.got.Query.Passengers.Adults)
	assert.Equal(t, entity.ClassEconomy, searcher.got.Query.TravelClass)
}

func TestSearchFlights_BadParameters(t *testing.T) {
	for _, target := range []string{
		"/api/v1/flights/search?origin=DEL&destination=BOM",
		"/api/v1/flights/search?origin=DEL&destination=BOM&date=01-11-2026",
		"/api/v1/flights/search?origin=DEL&destination=BOM&date=2026-11-01&adults=two",
	} {
		searcher := &fakeSearcher{}
		rec := serve(NewFlightHandler(searcher, 0, logger.NewNopLogger()), target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestSearchFlights_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "invalid query",
			err:     errors.Join(entity.ErrInvalidQuery, errors.New("unknown airport")),
			status:  http.StatusBadRequest,
			message: "invalid search",
		},
		{
			name:    "auth failure",
			err:     &entity.AuthFailure{Cause: errors.New("refused")},
			status:  http.StatusBadGateway,
			message: "could not fetch flights",
		},
		{
			name:    "search failure",
			err:     &entity.SearchFailure{StatusCode: 500, Cause: errors.New("boom")},
			status:  http.StatusBadGateway,
			message: "could not fetch flights",
		},
		{
			name:    "unexpected",
			err:     errors.New("lookup table offline"),
			status:  http.StatusInternalServerError,
			message: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewFlightHandler(&fakeSearcher{err: tt.err}, 0, logger.NewNopLogger())
			rec := serve(h, "/api/v1/flights/search?origin=DEL&destination=BOM&date=2026-11-01")
			assert.Equal(t, tt.status, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
		})
	}
}
