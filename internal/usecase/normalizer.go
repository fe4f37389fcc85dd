package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/internal/domain/repository"
	"farefinder-service/pkg/logger"
	"farefinder-service/pkg/metrics"
	"farefinder-service/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Normalizer turns provider offers into canonical flight records. Multi-leg
// itineraries are represented by their first segment; SegmentCount keeps the
// real number of legs.
type Normalizer struct {
	airlineRepo repository.AirlineRepository
	airportRepo repository.AirportRepository
	logger      logger.Logger
	metrics     *metrics.Metrics
}

// NewNormalizer creates a new normalizer. airportRepo is optional and only
// used to read segment timestamps in the airport's own time zone.
func NewNormalizer(airlineRepo repository.AirlineRepository, airportRepo repository.AirportRepository, logger logger.Logger, m *metrics.Metrics) *Normalizer {
	return &Normalizer{
		airlineRepo: airlineRepo,
		airportRepo: airportRepo,
		logger:      logger,
		metrics:     m,
	}
}

// Normalize validates one raw offer. The returned record carries no discount:
// FinalPrice equals TotalPrice.
func (n *Normalizer) Normalize(ctx context.Context, raw entity.RawOffer) (entity.FlightRecord, error) {
	fail := func(kind entity.NormalizationKind, cause error) (entity.FlightRecord, error) {
		return entity.FlightRecord{}, &entity.NormalizationError{OfferID: raw.ID, Kind: kind, Cause: cause}
	}

	if len(raw.Itineraries) == 0 || len(raw.Itineraries[0].Segments) == 0 {
		return fail(entity.KindMissingSegment, errors.New("offer has no itinerary segment"))
	}
	itinerary := raw.Itineraries[0]
	seg := itinerary.Segments[0]

	carrier := strings.ToUpper(strings.TrimSpace(seg.CarrierCode))
	if carrier == "" {
		return fail(entity.KindUnknownCarrier, errors.New("segment has no carrier code"))
	}
	airline, err := n.airlineRepo.GetByCode(ctx, carrier)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return fail(entity.KindUnknownCarrier, err)
		}
		return fail(entity.KindLookupFailed, err)
	}

	departure, err := time.ParseInLocation(utils.DATETIME_LAYOUT, seg.Departure.At, n.location(ctx, seg.Departure.IATACode))
	if err != nil {
		return fail(entity.KindBadTimestamp, fmt.Errorf("departure: %w", err))
	}
	arrival, err := time.ParseInLocation(utils.DATETIME_LAYOUT, seg.Arrival.At, n.location(ctx, seg.Arrival.IATACode))
	if err != nil {
		return fail(entity.KindBadTimestamp, fmt.Errorf("arrival: %w", err))
	}
	duration := arrival.Sub(departure)
	if duration < 0 {
		return fail(entity.KindNegativeDuration, fmt.Errorf("arrival %s precedes departure %s", seg.Arrival.At, seg.Departure.At))
	}

	base, err := parseAmount("base", raw.Price.Base)
	if err != nil {
		return fail(entity.KindBadPrice, err)
	}
	totalField := raw.Price.GrandTotal
	if strings.TrimSpace(totalField) == "" {
		totalField = raw.Price.Total
	}
	total, err := parseAmount("total", totalField)
	if err != nil {
		return fail(entity.KindBadPrice, err)
	}

	booking := raw.DeepLink
	if booking == "" {
		booking = airline.BookingURL
	}

	return entity.FlightRecord{
		ID:               uuid.NewString(),
		OfferID:          raw.ID,
		Source:           raw.Source,
		CarrierCode:      carrier,
		FlightNumber:     carrier + " " + strings.TrimSpace(seg.Number),
		AirlineName:      airline.Name,
		Origin:           strings.ToUpper(seg.Departure.IATACode),
		Destination:      strings.ToUpper(seg.Arrival.IATACode),
		DepartureTime:    departure,
		ArrivalTime:      arrival,
		Duration:         duration,
		SegmentCount:     len(itinerary.Segments),
		Currency:         raw.Price.Currency,
		BasePrice:        base,
		TotalPrice:       total,
		FinalPrice:       total,
		BookingReference: booking,
	}, nil
}

// NormalizeAll normalizes a batch in order. Offers that fail are logged,
// counted and left out; the batch itself never fails.
func (n *Normalizer) NormalizeAll(ctx context.Context, raws []entity.RawOffer) ([]entity.FlightRecord, int) {
	records := make([]entity.FlightRecord, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		record, err := n.Normalize(ctx, raw)
		if err != nil {
			skipped++
			kind := string(entity.KindLookupFailed)
			var nerr *entity.NormalizationError
			if errors.As(err, &nerr) {
				kind = string(nerr.Kind)
			}
			n.metrics.IncRecordSkipped(kind)
			n.logger.Warn("Skipping offer", "offerId", raw.ID, "kind", kind, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, skipped
}

func (n *Normalizer) location(ctx context.Context, code string) *time.Location {
	if n.airportRepo == nil || code == "" {
		return time.UTC
	}
	airport, err := n.airportRepo.GetByAirportCode(ctx, code)
	if err != nil || airport.TzName == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(airport.TzName)
	if err != nil {
		n.logger.Debug("Unknown airport time zone", "airport", code, "tz", airport.TzName)
		return time.UTC
	}
	return loc
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s price %q: %w", field, value, err)
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%s price %q is negative", field, value)
	}
	return amount, nil
}
