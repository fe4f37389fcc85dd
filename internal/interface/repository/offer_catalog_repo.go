package repository

import (
	"context"
	"fmt"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/internal/domain/repository"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	catalogKindCoupon = "coupon"
	catalogKindCard   = "card"
)

// offerCatalogDoc is one document of the offer_catalog collection. Amounts are
// stored as decimal strings so no precision is lost.
type offerCatalogDoc struct {
	Kind   string `bson:"kind"`
	Code   string `bson:"code"`
	Form   string `bson:"form,omitempty"`
	Value  string `bson:"value"`
	Active bool   `bson:"active"`
	Order  int    `bson:"order"`
}

// MongoOfferCatalogRepository implements OfferCatalogRepository
type MongoOfferCatalogRepository struct {
	collection *mongo.Collection
}

// NewMongoOfferCatalogRepository creates a new offer catalog repository
func NewMongoOfferCatalogRepository(db *mongo.Database) repository.OfferCatalogRepository {
	collection := db.Collection("offer_catalog")

	ctx := context.Background()

	// One label per kind
	labelIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "kind", Value: 1},
			{Key: "code", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	// Active entries of a kind in catalog order
	activeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "kind", Value: 1},
			{Key: "active", Value: 1},
			{Key: "order", Value: 1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		labelIndex,
		activeIndex,
	})

	return &MongoOfferCatalogRepository{
		collection: collection,
	}
}

// LoadCoupons returns the active coupons in catalog order
func (r *MongoOfferCatalogRepository) LoadCoupons(ctx context.Context) ([]entity.Coupon, error) {
	docs, err := r.find(ctx, catalogKindCoupon)
	if err != nil {
		return nil, err
	}
	coupons := make([]entity.Coupon, 0, len(docs))
	for _, doc := range docs {
		c, err := couponFromDoc(doc)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, nil
}

// LoadCards returns the active payment cards in catalog order
func (r *MongoOfferCatalogRepository) LoadCards(ctx context.Context) ([]entity.PaymentCard, error) {
	docs, err := r.find(ctx, catalogKindCard)
	if err != nil {
		return nil, err
	}
	cards := make([]entity.PaymentCard, 0, len(docs))
	for _, doc := range docs {
		c, err := cardFromDoc(doc)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func (r *MongoOfferCatalogRepository) find(ctx context.Context, kind string) ([]offerCatalogDoc, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"kind": kind, "active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s catalog: %w", kind, err)
	}
	defer cursor.Close(ctx)

	var docs []offerCatalogDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s catalog: %w", kind, err)
	}
	return docs, nil
}

func couponFromDoc(doc offerCatalogDoc) (entity.Coupon, error) {
	value, err := decimal.NewFromString(doc.Value)
	if err != nil {
		return entity.Coupon{}, &entity.ConfigurationError{
			Field: "offer_catalog." + doc.Code,
			Cause: fmt.Errorf("invalid coupon value %q: %w", doc.Value, err),
		}
	}
	return entity.Coupon{Code: doc.Code, Form: entity.CouponForm(doc.Form), Value: value}, nil
}

func cardFromDoc(doc offerCatalogDoc) (entity.PaymentCard, error) {
	value, err := decimal.NewFromString(doc.Value)
	if err != nil {
		return entity.PaymentCard{}, &entity.ConfigurationError{
			Field: "offer_catalog." + doc.Code,
			Cause: fmt.Errorf("invalid card percentage %q: %w", doc.Value, err),
		}
	}
	return entity.PaymentCard{Label: doc.Code, Percent: value}, nil
}

// BuiltinOfferCatalogRepository serves the default catalog from memory.
type BuiltinOfferCatalogRepository struct{}

// NewBuiltinOfferCatalogRepository creates the in-memory catalog
func NewBuiltinOfferCatalogRepository() repository.OfferCatalogRepository {
	return BuiltinOfferCatalogRepository{}
}

func (BuiltinOfferCatalogRepository) LoadCoupons(context.Context) ([]entity.Coupon, error) {
	return entity.DefaultCoupons(), nil
}

func (BuiltinOfferCatalogRepository) LoadCards(context.Context) ([]entity.PaymentCard, error) {
	return entity.DefaultCards(), nil
}
