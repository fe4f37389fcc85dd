package repository

import (
	"context"

	"farefinder-service/internal/domain/entity"
)

// AirportRepository resolves airport codes. Unknown codes return entity.ErrNotFound.
type AirportRepository interface {
	GetByAirportCode(ctx context.Context, code string) (*entity.Airport, error)
}
