package repository

import (
	"context"

	"farefinder-service/internal/domain/entity"
)

// FareProvider runs one search against a fare source with the given bearer token.
// A rejected token is reported as *entity.ProviderError with status 401.
type FareProvider interface {
	Name() string
	SearchOffers(ctx context.Context, token string, query entity.SearchQuery) ([]entity.RawOffer, error)
}
