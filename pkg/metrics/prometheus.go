package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	SearchesTotal    *prometheus.CounterVec
	AuthorityCalls   *prometheus.CounterVec
	ProviderCalls    *prometheus.CounterVec
	OffersFetched    prometheus.Counter
	RecordsSkipped   *prometheus.CounterVec
	OfferCacheHits   prometheus.Counter
	SearchDuration   prometheus.Histogram
	ErrorsCount      *prometheus.CounterVec
	RecordsByTier    *prometheus.CounterVec
	DiscountsApplied *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on reg.
// A nil reg registers on the default registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "The total number of flight searches by outcome",
		}, []string{"outcome"}),
		AuthorityCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authority_calls_total",
			Help:      "The total number of credential refreshes against the authority endpoint",
		}, []string{"result"}),
		ProviderCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "The total number of fare provider search calls",
		}, []string{"provider", "result"}),
		OffersFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_fetched_total",
			Help:      "The total number of raw offers returned by providers",
		}),
		RecordsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "The total number of raw offers rejected by the normalizer",
		}, []string{"kind"}),
		OfferCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_cache_hits_total",
			Help:      "The total number of searches served from the offer cache",
		}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time taken to run the search pipeline",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
		RecordsByTier: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_by_tier_total",
			Help:      "The total number of records classified into each tier",
		}, []string{"tier"}),
		DiscountsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discounts_applied_total",
			Help:      "The total number of records priced, by selection policy",
		}, []string{"policy"}),
	}
}

// The helpers below tolerate a nil *Metrics so components can run unmetered.

func (m *Metrics) IncAuthorityCall(result string) {
	if m == nil {
		return
	}
	m.AuthorityCalls.WithLabelValues(result).Inc()
}

func (m *Metrics) IncProviderCall(provider, result string) {
	if m == nil {
		return
	}
	m.ProviderCalls.WithLabelValues(provider, result).Inc()
}

func (m *Metrics) AddOffersFetched(n int) {
	if m == nil {
		return
	}
	m.OffersFetched.Add(float64(n))
}

func (m *Metrics) IncRecordSkipped(kind string) {
	if m == nil {
		return
	}
	m.RecordsSkipped.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.OfferCacheHits.Inc()
}

func (m *Metrics) ObserveSearch(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(outcome).Inc()
	m.SearchDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) IncError(operation string) {
	if m == nil {
		return
	}
	m.ErrorsCount.WithLabelValues(operation).Inc()
}

func (m *Metrics) AddTier(tier string, n int) {
	if m == nil {
		return
	}
	m.RecordsByTier.WithLabelValues(tier).Add(float64(n))
}

func (m *Metrics) IncDiscount(policy string) {
	if m == nil {
		return
	}
	m.DiscountsApplied.WithLabelValues(policy).Inc()
}
