package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"farefinder-service/internal/domain/entity"
	lookup "farefinder-service/internal/interface/repository"
	"farefinder-service/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenAirlineRepo struct{}

func (brokenAirlineRepo) GetByCode(context.Context, string) (*entity.Airline, error) {
	return nil, errors.New("connection reset")
}

func newNormalizer() *Normalizer {
	return NewNormalizer(lookup.NewStaticAirlineRepository(nil), lookup.NewStaticAirportRepository(nil), logger.NewNopLogger(), nil)
}

func TestNormalize(t *testing.T) {
	raw := rawOffer("7", "6e", "2026-11-01T06:00:00", "2026-11-01T08:10:00", "4500.005", "5012.40")
	raw.Price.GrandTotal = "5100.40"

	rec, err := newNormalizer().Normalize(context.Background(), raw)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "7", rec.OfferID)
	assert.Equal(t, "6E", rec.CarrierCode)
	assert.Equal(t, "6E 100", rec.FlightNumber)
	assert.Equal(t, "IndiGo", rec.AirlineName)
	assert.Equal(t, "DEL", rec.Origin)
	assert.Equal(t, "BOM", rec.Destination)
	assert.Equal(t, 2*time.Hour+10*time.Minute, rec.Duration)
	assert.Equal(t, 1, rec.SegmentCount)
	assert.Equal(t, "Asia/Kolkata", rec.DepartureTime.Location().String())
	assert.True(t, rec.BasePrice.Equal(decimal.RequireFromString("4500.005")), "base kept exact")
	assert.True(t, rec.TotalPrice.Equal(decimal.RequireFromString("5100.40")), "grand total preferred")
	assert.True(t, rec.FinalPrice.Equal(rec.TotalPrice))
	assert.Equal(t, "https://www.goindigo.in", rec.BookingReference)
}

func TestNormalize_FallsBackToTotalAndDeepLink(t *testing.T) {
	raw := rawOffer("1", "AI", "2026-11-01T09:00:00", "2026-11-01T11:30:00", "5200", "5200")
	raw.Price.GrandTotal = ""
	raw.DeepLink = "https://www.cleartrip.com/flights/results?from=DEL"

	rec, err := newNormalizer().Normalize(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, rec.TotalPrice.Equal(decimal.NewFromInt(5200)))
	assert.Equal(t, raw.DeepLink, rec.BookingReference)
}

func TestNormalize_MultiSegmentUsesFirstLeg(t *testing.T) {
	raw := rawOffer("1", "UK", "2026-11-01T15:00:00", "2026-11-01T17:30:00", "6000", "6000")
	raw.Itineraries[0].Segments = append(raw.Itineraries[0].Segments, entity.RawSegment{
		CarrierCode: "UK",
		Number:      "200",
		Departure:   entity.RawEndpoint{IATACode: "BOM", At: "2026-11-01T19:00:00"},
		Arrival:     entity.RawEndpoint{IATACode: "GOI", At: "2026-11-01T20:15:00"},
	})

	rec, err := newNormalizer().Normalize(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "BOM", rec.Destination)
	assert.Equal(t, 2, rec.SegmentCount)
	assert.Equal(t, 2*time.Hour+30*time.Minute, rec.Duration)
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  func() entity.RawOffer
		kind entity.NormalizationKind
	}{
		{
			name: "no itinerary",
			raw:  func() entity.RawOffer { return entity.RawOffer{ID: "x"} },
			kind: entity.KindMissingSegment,
		},
		{
			name: "unknown carrier",
			raw: func() entity.RawOffer {
				return rawOffer("x", "ZZ", "2026-11-01T06:00:00", "2026-11-01T08:00:00", "1", "1")
			},
			kind: entity.KindUnknownCarrier,
		},
		{
			name: "bad departure",
			raw: func() entity.RawOffer {
				return rawOffer("x", "6E", "06:00", "2026-11-01T08:00:00", "1", "1")
			},
			kind: entity.KindBadTimestamp,
		},
		{
			name: "arrival before departure",
			raw: func() entity.RawOffer {
				return rawOffer("x", "6E", "2026-11-01T08:00:00", "2026-11-01T06:00:00", "1", "1")
			},
			kind: entity.KindNegativeDuration,
		},
		{
			name: "unparseable base",
			raw: func() entity.RawOffer {
				return rawOffer("x", "6E", "2026-11-01T06:00:00", "2026-11-01T08:00:00", "cheap", "1")
			},
			kind: entity.KindBadPrice,
		},
		{
			name: "negative total",
			raw: func() entity.RawOffer {
				return rawOffer("x", "6E", "2026-11-01T06:00:00", "2026-11-01T08:00:00", "1", "-5")
			},
			kind: entity.KindBadPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newNormalizer().Normalize(context.Background(), tt.raw())
			var nerr *entity.NormalizationError
			require.True(t, errors.As(err, &nerr))
			assert.Equal(t, tt.kind, nerr.Kind)
			assert.Equal(t, "x", nerr.OfferID)
		})
	}
}

func TestNormalize_LookupFailure(t *testing.T) {
	n := NewNormalizer(brokenAirlineRepo{}, nil, logger.NewNopLogger(), nil)
	raw := rawOffer("x", "6E", "2026-11-01T06:00:00", "2026-11-01T08:00:00", "1", "1")

	_, err := n.Normalize(context.Background(), raw)
	var nerr *entity.NormalizationError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, entity.KindLookupFailed, nerr.Kind)
}

func TestNormalizeAll_SkipsUnknownCarrier(t *testing.T) {
	raws := []entity.RawOffer{
		rawOffer("1", "6E", "2026-11-01T06:00:00", "2026-11-01T08:00:00", "4500", "4500"),
		rawOffer("2", "XX", "2026-11-01T07:00:00", "2026-11-01T09:00:00", "3000", "3000"),
		rawOffer("3", "SG", "2026-11-01T12:00:00", "2026-11-01T14:00:00", "4800", "4800"),
		rawOffer("4", "G8", "2026-11-01T18:00:00", "2026-11-01T20:00:00", "4300", "4300"),
	}

	records, skipped := newNormalizer().NormalizeAll(context.Background(), raws)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 3)

	var offerIDs []string
	for _, r := range records {
		offerIDs = append(offerIDs, r.OfferID)
	}
	assert.Equal(t, []string{"1", "3", "4"}, offerIDs)
}
