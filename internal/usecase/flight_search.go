package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/internal/domain/repository"
	"farefinder-service/internal/infrastructure/cache"
	"farefinder-service/pkg/logger"
	"farefinder-service/pkg/metrics"

	"github.com/google/uuid"
)

// Display orders for records within a tier
const (
	OrderDeparture = "departure"
	OrderPrice     = "price"
)

// SearchRequest is one user search. A non-nil Selection switches pricing to
// the explicit policy.
type SearchRequest struct {
	Query     entity.SearchQuery
	Selection *entity.OfferRule
	Order     string
}

// SearchMetadata describes how a search was served.
type SearchMetadata struct {
	RequestID         string
	Provider          string
	OffersFetched     int
	RecordsNormalized int
	RecordsSkipped    int
	CacheHit          bool
	Elapsed           time.Duration
	Policy            string
	TierStrategy      string
	Order             string
}

// SearchResult is handed to the renderer.
type SearchResult struct {
	Query       entity.SearchQuery
	Origin      entity.Airport
	Destination entity.Airport
	Tiers       entity.TieredRecords
	Metadata    SearchMetadata
}

// FlightSearchService runs the full pipeline for one request: fetch (or reuse
// cached offers), normalize, price, partition and order.
type FlightSearchService struct {
	fetcher       *OfferFetcher
	normalizer    *Normalizer
	resolver      *DiscountResolver
	partitioner   Partitioner
	defaultPolicy SelectionPolicy
	airportRepo   repository.AirportRepository
	offerCache    *cache.Cache[[]entity.RawOffer]
	offerCacheTTL time.Duration
	currency      string
	maxResults    int
	now           func() time.Time
	logger        logger.Logger
	metrics       *metrics.Metrics
}

// NewFlightSearchService creates a new search service
func NewFlightSearchService(
	fetcher *OfferFetcher,
	normalizer *Normalizer,
	resolver *DiscountResolver,
	partitioner Partitioner,
	defaultPolicy SelectionPolicy,
	airportRepo repository.AirportRepository,
	logger logger.Logger,
	m *metrics.Metrics,
) *FlightSearchService {
	return &FlightSearchService{
		fetcher:       fetcher,
		normalizer:    normalizer,
		resolver:      resolver,
		partitioner:   partitioner,
		defaultPolicy: defaultPolicy,
		airportRepo:   airportRepo,
		now:           time.Now,
		logger:        logger,
		metrics:       m,
	}
}

// WithOfferCache caches provider responses per query for ttl.
func (s *FlightSearchService) WithOfferCache(c *cache.Cache[[]entity.RawOffer], ttl time.Duration) *FlightSearchService {
	s.offerCache = c
	s.offerCacheTTL = ttl
	return s
}

// WithDefaults fills currency and result cap on queries that leave them empty.
func (s *FlightSearchService) WithDefaults(currency string, maxResults int) *FlightSearchService {
	s.currency = currency
	s.maxResults = maxResults
	return s
}

// WithClock replaces the time source, including the fetcher's.
func (s *FlightSearchService) WithClock(now func() time.Time) *FlightSearchService {
	s.now = now
	s.fetcher.WithClock(now)
	return s
}

// Search runs the pipeline. Invalid input wraps entity.ErrInvalidQuery; a
// provider problem comes back as *entity.AuthFailure or *entity.SearchFailure.
// Zero offers is a successful, empty result.
func (s *FlightSearchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	start := s.now()
	requestID := uuid.NewString()
	log := s.logger.With("requestId", requestID)

	query := req.Query
	query.Origin = strings.ToUpper(strings.TrimSpace(query.Origin))
	query.Destination = strings.ToUpper(strings.TrimSpace(query.Destination))
	if query.Currency == "" {
		query.Currency = s.currency
	}
	if query.MaxResults == 0 {
		query.MaxResults = s.maxResults
	}

	order := strings.ToLower(strings.TrimSpace(req.Order))
	if order == "" {
		order = OrderDeparture
	}
	if order != OrderDeparture && order != OrderPrice {
		return nil, s.reject(log, start, fmt.Errorf("%w: unknown order %q", entity.ErrInvalidQuery, req.Order))
	}
	if err := query.Validate(s.now()); err != nil {
		return nil, s.reject(log, start, err)
	}

	origin, err := s.airport(ctx, query.Origin)
	if err != nil {
		return nil, s.reject(log, start, err)
	}
	destination, err := s.airport(ctx, query.Destination)
	if err != nil {
		return nil, s.reject(log, start, err)
	}

	log.Info("Searching flights",
		"origin", query.Origin,
		"destination", query.Destination,
		"date", query.Date.Format(entity.DateLayout),
		"passengers", query.Passengers.Total(),
		"class", query.TravelClass)

	offers, cacheHit, err := s.offers(ctx, query)
	if err != nil {
		log.Error("Flight search failed", "error", err)
		s.metrics.IncError("search")
		s.metrics.ObserveSearch("failure", s.now().Sub(start))
		return nil, err
	}

	records, skipped := s.normalizer.NormalizeAll(ctx, offers)
	if skipped > 0 {
		log.Warn("Some offers could not be normalized", "skipped", skipped, "kept", len(records))
	}

	policy := s.defaultPolicy
	if req.Selection != nil {
		policy = NewExplicitPolicy(req.Selection.Coupon, req.Selection.Card)
	}
	priced := s.resolver.ApplyAll(records, policy)

	tiers := s.partitioner.Partition(priced)
	if order == OrderDeparture {
		tiers = SortByDeparture(tiers)
	}
	for _, tier := range entity.Tiers {
		s.metrics.AddTier(string(tier), len(tiers[tier]))
	}

	elapsed := s.now().Sub(start)
	outcome := "success"
	if len(priced) == 0 {
		outcome = "empty"
	}
	s.metrics.ObserveSearch(outcome, elapsed)

	log.Info("Flight search completed",
		"offers", len(offers),
		"records", len(priced),
		"skipped", skipped,
		"cacheHit", cacheHit,
		"policy", policy.Name(),
		"elapsedMs", elapsed.Milliseconds())

	return &SearchResult{
		Query:       query,
		Origin:      *origin,
		Destination: *destination,
		Tiers:       tiers,
		Metadata: SearchMetadata{
			RequestID:         requestID,
			Provider:          s.fetcher.provider.Name(),
			OffersFetched:     len(offers),
			RecordsNormalized: len(priced),
			RecordsSkipped:    skipped,
			CacheHit:          cacheHit,
			Elapsed:           elapsed,
			Policy:            policy.Name(),
			TierStrategy:      s.partitioner.Name(),
			Order:             order,
		},
	}, nil
}

func (s *FlightSearchService) offers(ctx context.Context, query entity.SearchQuery) ([]entity.RawOffer, bool, error) {
	key := query.CacheKey()
	if s.offerCache != nil {
		if offers, ok := s.offerCache.Get(key); ok {
			s.metrics.IncCacheHit()
			return offers, true, nil
		}
	}

	offers, err := s.fetcher.Search(ctx, query)
	if err != nil {
		return nil, false, err
	}
	if s.offerCache != nil {
		s.offerCache.Set(key, offers, s.offerCacheTTL)
	}
	return offers, false, nil
}

func (s *FlightSearchService) airport(ctx context.Context, code string) (*entity.Airport, error) {
	airport, err := s.airportRepo.GetByAirportCode(ctx, code)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown airport %q", entity.ErrInvalidQuery, code)
		}
		return nil, fmt.Errorf("failed to resolve airport %s: %w", code, err)
	}
	return airport, nil
}

func (s *FlightSearchService) reject(log logger.Logger, start time.Time, err error) error {
	log.Warn("Search rejected", "error", err)
	s.metrics.ObserveSearch("rejected", s.now().Sub(start))
	return err
}
