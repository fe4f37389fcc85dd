package repository

import (
	"context"

	"farefinder-service/internal/domain/entity"
)

// OfferCatalogRepository loads the coupon and payment card definitions once at startup.
type OfferCatalogRepository interface {
	LoadCoupons(ctx context.Context) ([]entity.Coupon, error)
	LoadCards(ctx context.Context) ([]entity.PaymentCard, error)
}
