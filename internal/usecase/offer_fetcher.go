package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/internal/domain/repository"
	"farefinder-service/pkg/logger"
	"farefinder-service/pkg/metrics"
)

// CredentialSource hands out the current bearer credential and forgets it on demand.
type CredentialSource interface {
	Credential(ctx context.Context) (entity.Credential, error)
	Invalidate()
}

// OfferFetcher runs a provider search with the cached credential and retries
// exactly once when the provider rejects that credential.
type OfferFetcher struct {
	provider    repository.FareProvider
	credentials CredentialSource
	now         func() time.Time
	logger      logger.Logger
	metrics     *metrics.Metrics
}

// NewOfferFetcher creates a new offer fetcher
func NewOfferFetcher(provider repository.FareProvider, credentials CredentialSource, logger logger.Logger, m *metrics.Metrics) *OfferFetcher {
	return &OfferFetcher{
		provider:    provider,
		credentials: credentials,
		now:         time.Now,
		logger:      logger,
		metrics:     m,
	}
}

// WithClock replaces the time source used to check the travel date.
func (f *OfferFetcher) WithClock(now func() time.Time) *OfferFetcher {
	f.now = now
	return f
}

// Search returns the provider's raw offers for query, possibly none. It fails
// with *entity.AuthFailure when no credential can be obtained and with
// *entity.SearchFailure for everything else.
func (f *OfferFetcher) Search(ctx context.Context, query entity.SearchQuery) ([]entity.RawOffer, error) {
	if err := query.Validate(f.now()); err != nil {
		return nil, &entity.SearchFailure{StatusCode: http.StatusBadRequest, Cause: err}
	}

	cred, err := f.credentials.Credential(ctx)
	if err != nil {
		return nil, err
	}

	offers, err := f.call(ctx, cred, query)
	if err != nil && entity.IsAuthRejection(err) {
		f.logger.Warn("Provider rejected credential, refreshing", "provider", f.provider.Name())
		f.credentials.Invalidate()

		cred, err = f.credentials.Credential(ctx)
		if err != nil {
			return nil, err
		}
		offers, err = f.call(ctx, cred, query)
	}
	if err != nil {
		return nil, searchFailure(err)
	}

	if offers == nil {
		offers = []entity.RawOffer{}
	}
	f.metrics.AddOffersFetched(len(offers))
	return offers, nil
}

func (f *OfferFetcher) call(ctx context.Context, cred entity.Credential, query entity.SearchQuery) ([]entity.RawOffer, error) {
	offers, err := f.provider.SearchOffers(ctx, cred.Value, query)
	if err != nil {
		result := "error"
		if entity.IsAuthRejection(err) {
			result = "unauthorized"
		}
		f.metrics.IncProviderCall(f.provider.Name(), result)
		return nil, err
	}
	f.metrics.IncProviderCall(f.provider.Name(), "success")
	return offers, nil
}

func searchFailure(err error) error {
	var perr *entity.ProviderError
	if errors.As(err, &perr) {
		return &entity.SearchFailure{StatusCode: perr.StatusCode, Cause: err}
	}
	return &entity.SearchFailure{Cause: fmt.Errorf("provider call failed: %w", err)}
}
