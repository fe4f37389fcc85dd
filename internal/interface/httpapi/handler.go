package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/internal/usecase"
	"farefinder-service/pkg/logger"
	"farefinder-service/pkg/utils"
)

// Searcher runs one flight search.
type Searcher interface {
	Search(ctx context.Context, req usecase.SearchRequest) (*usecase.SearchResult, error)
}

// FlightHandler serves the flight search API.
type FlightHandler struct {
	searcher Searcher
	timeout  time.Duration
	logger   logger.Logger
}

// NewFlightHandler creates a new handler. timeout bounds one search; zero
// means the request context alone decides.
func NewFlightHandler(searcher Searcher, timeout time.Duration, logger logger.Logger) *FlightHandler {
	return &FlightHandler{
		searcher: searcher,
		timeout:  timeout,
		logger:   logger,
	}
}

type searchCriteria struct {
	Origin          string `json:"origin"`
	OriginCity      string `json:"origin_city"`
	Destination     string `json:"destination"`
	DestinationCity string `json:"destination_city"`
	Date            string `json:"date"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	Infants         int    `json:"infants"`
	Class           string `json:"class"`
	Currency        string `json:"currency"`
}

type searchMetadata struct {
	RequestID         string `json:"request_id"`
	Provider          string `json:"provider"`
	OffersFetched     int    `json:"offers_fetched"`
	RecordsNormalized int    `json:"records_normalized"`
	RecordsSkipped    int    `json:"records_skipped"`
	CacheHit          bool   `json:"cache_hit"`
	ElapsedMs         int64  `json:"elapsed_ms"`
	Policy            string `json:"policy"`
	TierStrategy      string `json:"tier_strategy"`
	Order             string `json:"order"`
}

type flightView struct {
	ID            string `json:"id"`
	Airline       string `json:"airline"`
	CarrierCode   string `json:"carrier_code"`
	FlightNumber  string `json:"flight_number"`
	Source        string `json:"source"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	DepartureAt   string `json:"departure_at"`
	ArrivalAt     string `json:"arrival_at"`
	Duration      string `json:"duration"`
	Segments      int    `json:"segments"`
	Currency      string `json:"currency"`
	BasePrice     string `json:"base_price"`
	TotalPrice    string `json:"total_price"`
	FinalPrice    string `json:"final_price"`
	FinalDisplay  string `json:"final_price_display"`
	Discount      string `json:"discount"`
	Coupon        string `json:"coupon,omitempty"`
	Card          string `json:"card,omitempty"`
	BookingURL    string `json:"booking_url"`
}

type tiersView struct {
	Cheapest []flightView `json:"cheapest"`
	Moderate []flightView `json:"moderate"`
	Costly   []flightView `json:"costly"`
}

type searchResponse struct {
	SearchCriteria searchCriteria `json:"search_criteria"`
	Metadata       searchMetadata `json:"metadata"`
	Tiers          tiersView      `json:"tiers"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// SearchFlights handles GET /api/v1/flights/search
func (h *FlightHandler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid search", Detail: err.Error()})
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.searcher.Search(ctx, req)
	if err != nil {
		h.writeSearchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildResponse(result))
}

func (h *FlightHandler) writeSearchError(w http.ResponseWriter, err error) {
	var authErr *entity.AuthFailure
	var searchErr *entity.SearchFailure

	switch {
	case errors.Is(err, entity.ErrInvalidQuery):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid search", Detail: err.Error()})
	case errors.As(err, &authErr), errors.As(err, &searchErr):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "could not fetch flights", Detail: err.Error()})
	default:
		h.logger.Error("Unexpected search error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func parseSearchRequest(r *http.Request) (usecase.SearchRequest, error) {
	values := r.URL.Query()

	date, err := time.Parse(entity.DateLayout, strings.TrimSpace(values.Get("date")))
	if err != nil {
		return usecase.SearchRequest{}, fmt.Errorf("date must be %s", entity.DateLayout)
	}

	adults, err := intParam(values.Get("adults"), 1)
	if err != nil {
		return usecase.SearchRequest{}, fmt.Errorf("adults: %w", err)
	}
	children, err := intParam(values.Get("children"), 0)
	if err != nil {
		return usecase.SearchRequest{}, fmt.Errorf("children: %w", err)
	}
	infants, err := intParam(values.Get("infants"), 0)
	if err != nil {
		return usecase.SearchRequest{}, fmt.Errorf("infants: %w", err)
	}

	class := strings.ToUpper(strings.TrimSpace(values.Get("class")))
	if class == "" {
		class = entity.ClassEconomy
	}

	req := usecase.SearchRequest{
		Query: entity.SearchQuery{
			Origin:      values.Get("origin"),
			Destination: values.Get("destination"),
			Date:        date,
			Passengers:  entity.PassengerCounts{Adults: adults, Children: children, Infants: infants},
			TravelClass: class,
			Currency:    strings.ToUpper(strings.TrimSpace(values.Get("currency"))),
		},
		Order: values.Get("order"),
	}
	if values.Has("coupon") || values.Has("card") {
		req.Selection = &entity.OfferRule{Coupon: values.Get("coupon"), Card: values.Get("card")}
	}
	return req, nil
}

func intParam(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return v, nil
}

func buildResponse(result *usecase.SearchResult) searchResponse {
	q := result.Query
	md := result.Metadata
	return searchResponse{
		SearchCriteria: searchCriteria{
			Origin:          q.Origin,
			OriginCity:      result.Origin.CityName,
			Destination:     q.Destination,
			DestinationCity: result.Destination.CityName,
			Date:            q.Date.Format(entity.DateLayout),
			Adults:          q.Passengers.Adults,
			Children:        q.Passengers.Children,
			Infants:         q.Passengers.Infants,
			Class:           q.TravelClass,
			Currency:        q.Currency,
		},
		Metadata: searchMetadata{
			RequestID:         md.RequestID,
			Provider:          md.Provider,
			OffersFetched:     md.OffersFetched,
			RecordsNormalized: md.RecordsNormalized,
			RecordsSkipped:    md.RecordsSkipped,
			CacheHit:          md.CacheHit,
			ElapsedMs:         md.Elapsed.Milliseconds(),
			Policy:            md.Policy,
			TierStrategy:      md.TierStrategy,
			Order:             md.Order,
		},
		Tiers: tiersView{
			Cheapest: flightViews(result.Tiers[entity.TierCheapest]),
			Moderate: flightViews(result.Tiers[entity.TierModerate]),
			Costly:   flightViews(result.Tiers[entity.TierCostly]),
		},
	}
}

func flightViews(records []entity.FlightRecord) []flightView {
	views := make([]flightView, 0, len(records))
	for _, r := range records {
		views = append(views, flightView{
			ID:            r.ID,
			Airline:       r.AirlineName,
			CarrierCode:   r.CarrierCode,
			FlightNumber:  r.FlightNumber,
			Source:        r.Source,
			Origin:        r.Origin,
			Destination:   r.Destination,
			Departure:     r.DepartureTime.Format(utils.CLOCK_LAYOUT),
			Arrival:       r.ArrivalTime.Format(utils.CLOCK_LAYOUT),
			DepartureAt:   r.DepartureTime.Format(time.RFC3339),
			ArrivalAt:     r.ArrivalTime.Format(time.RFC3339),
			Duration:      utils.FormatDuration(r.Duration),
			Segments:      r.SegmentCount,
			Currency:      r.Currency,
			BasePrice:     r.BasePrice.String(),
			TotalPrice:    r.TotalPrice.String(),
			FinalPrice:    r.FinalPrice.StringFixed(2),
			FinalDisplay:  utils.FormatMoney(r.FinalPrice, r.Currency),
			Discount:      r.Discount().StringFixed(2),
			Coupon:        r.AppliedCoupon,
			Card:          r.AppliedCard,
			BookingURL:    r.BookingReference,
		})
	}
	return views
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
