package repository

import (
	"context"

	"farefinder-service/internal/domain/entity"
)

// AirlineRepository resolves carrier codes. Unknown codes return entity.ErrNotFound.
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
}
