package usecase

import (
	"errors"
	"fmt"
	"strings"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/pkg/logger"
	"farefinder-service/pkg/metrics"
)

// OfferCatalog is the validated, read-only set of coupons, cards and price
// bands. It is built once at startup.
type OfferCatalog struct {
	coupons map[string]entity.Coupon
	cards   map[string]entity.PaymentCard
	pairs   []entity.OfferRule
	bands   []entity.PriceBand
}

// NewOfferCatalog validates the catalog. Every problem is a
// *entity.ConfigurationError: a malformed coupon or card, a duplicate label,
// bands that are not strictly ascending or lack an unbounded top band, and a
// band rule naming an unknown coupon or card.
func NewOfferCatalog(coupons []entity.Coupon, cards []entity.PaymentCard, bands []entity.PriceBand) (*OfferCatalog, error) {
	c := &OfferCatalog{
		coupons: make(map[string]entity.Coupon, len(coupons)),
		cards:   make(map[string]entity.PaymentCard, len(cards)),
	}

	for _, coupon := range coupons {
		if err := coupon.Validate(); err != nil {
			return nil, catalogErr("coupons", err)
		}
		key := labelKey(coupon.Code)
		if _, dup := c.coupons[key]; dup {
			return nil, catalogErr("coupons", fmt.Errorf("duplicate coupon %q", coupon.Code))
		}
		c.coupons[key] = coupon
	}
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return nil, catalogErr("cards", err)
		}
		key := labelKey(card.Label)
		if _, dup := c.cards[key]; dup {
			return nil, catalogErr("cards", fmt.Errorf("duplicate card %q", card.Label))
		}
		c.cards[key] = card
	}

	if len(bands) == 0 {
		return nil, catalogErr("bands", errors.New("at least one price band is required"))
	}
	for i, band := range bands {
		last := i == len(bands)-1
		if last && band.UpTo.Valid {
			return nil, catalogErr("bands", errors.New("the highest band must be unbounded"))
		}
		if !last && !band.UpTo.Valid {
			return nil, catalogErr("bands", fmt.Errorf("band %d is unbounded but not last", i))
		}
		if i > 0 && !last && !band.UpTo.Decimal.GreaterThan(bands[i-1].UpTo.Decimal) {
			return nil, catalogErr("bands", fmt.Errorf("band %d ceiling %s is not above %s", i, band.UpTo.Decimal, bands[i-1].UpTo.Decimal))
		}
		if err := c.checkRule(band.Rule); err != nil {
			return nil, catalogErr(fmt.Sprintf("bands[%d]", i), err)
		}
	}
	c.bands = append([]entity.PriceBand(nil), bands...)

	for _, coupon := range coupons {
		for _, card := range cards {
			c.pairs = append(c.pairs, entity.OfferRule{Coupon: coupon.Code, Card: card.Label})
		}
	}

	return c, nil
}

// DefaultOfferCatalog builds the built-in catalog.
func DefaultOfferCatalog() (*OfferCatalog, error) {
	return NewOfferCatalog(entity.DefaultCoupons(), entity.DefaultCards(), entity.DefaultPriceBands())
}

func (c *OfferCatalog) checkRule(rule entity.OfferRule) error {
	if rule.Coupon != "" && !isNone(rule.Coupon) {
		if _, ok := c.coupons[labelKey(rule.Coupon)]; !ok {
			return fmt.Errorf("unknown coupon %q", rule.Coupon)
		}
	}
	if rule.Card != "" && !isNone(rule.Card) {
		if _, ok := c.cards[labelKey(rule.Card)]; !ok {
			return fmt.Errorf("unknown card %q", rule.Card)
		}
	}
	return nil
}

func (c *OfferCatalog) coupon(code string) (entity.Coupon, bool) {
	coupon, ok := c.coupons[labelKey(code)]
	return coupon, ok
}

func (c *OfferCatalog) card(label string) (entity.PaymentCard, bool) {
	card, ok := c.cards[labelKey(label)]
	return card, ok
}

// SelectionPolicy decides which offer rule a record gets. The set of
// policies is closed: PriceBandPolicy, ExplicitPolicy and RandomPolicy.
type SelectionPolicy interface {
	Name() string
	selectRule(record entity.FlightRecord) entity.OfferRule
}

// PriceBandPolicy picks the rule of the band containing the base price.
type PriceBandPolicy struct {
	bands []entity.PriceBand
}

func (c *OfferCatalog) PriceBandPolicy() PriceBandPolicy {
	return PriceBandPolicy{bands: c.bands}
}

func (PriceBandPolicy) Name() string { return "band" }

func (p PriceBandPolicy) selectRule(record entity.FlightRecord) entity.OfferRule {
	for _, band := range p.bands {
		if band.Contains(record.BasePrice) {
			return band.Rule
		}
	}
	return entity.OfferRule{}
}

// ExplicitPolicy applies the caller's choice. "none", an empty label or a
// label missing from the catalog leaves that axis untouched.
type ExplicitPolicy struct {
	rule entity.OfferRule
}

func NewExplicitPolicy(coupon, card string) ExplicitPolicy {
	return ExplicitPolicy{rule: entity.OfferRule{Coupon: strings.TrimSpace(coupon), Card: strings.TrimSpace(card)}}
}

func (ExplicitPolicy) Name() string { return "explicit" }

func (p ExplicitPolicy) selectRule(entity.FlightRecord) entity.OfferRule {
	return p.rule
}

// RandomPolicy draws a (coupon, card) pair independently for every record.
type RandomPolicy struct {
	pairs  []entity.OfferRule
	picker Picker
}

// RandomPolicy draws from every coupon and card combination. A nil picker
// uses SafeRand.
func (c *OfferCatalog) RandomPolicy(picker Picker) RandomPolicy {
	if picker == nil {
		picker = NewSafeRand()
	}
	return RandomPolicy{pairs: c.pairs, picker: picker}
}

func (RandomPolicy) Name() string { return "random" }

func (p RandomPolicy) selectRule(entity.FlightRecord) entity.OfferRule {
	if len(p.pairs) == 0 {
		return entity.OfferRule{}
	}
	return p.pairs[p.picker.Intn(len(p.pairs))]
}

// DiscountResolver prices records under a selection policy.
type DiscountResolver struct {
	catalog *OfferCatalog
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewDiscountResolver creates a new discount resolver
func NewDiscountResolver(catalog *OfferCatalog, logger logger.Logger, m *metrics.Metrics) *DiscountResolver {
	return &DiscountResolver{
		catalog: catalog,
		logger:  logger,
		metrics: m,
	}
}

// Catalog returns the catalog the resolver prices against.
func (r *DiscountResolver) Catalog() *OfferCatalog {
	return r.catalog
}

// Apply returns a priced copy of record. The coupon is applied to the total
// first and the card to the result; the final price is rounded to 2 places
// and never exceeds the total. With nothing applied FinalPrice is TotalPrice.
func (r *DiscountResolver) Apply(record entity.FlightRecord, policy SelectionPolicy) entity.FlightRecord {
	rule := policy.selectRule(record)

	out := record
	out.AppliedCoupon = ""
	out.AppliedCard = ""
	price := record.TotalPrice
	applied := false

	if coupon, ok := r.catalog.coupon(rule.Coupon); ok && !isNone(rule.Coupon) {
		price = coupon.Apply(price)
		out.AppliedCoupon = coupon.Code
		applied = true
	}
	if card, ok := r.catalog.card(rule.Card); ok && !isNone(rule.Card) {
		price = card.Apply(price)
		out.AppliedCard = card.Label
		applied = true
	}

	if !applied {
		out.FinalPrice = record.TotalPrice
		return out
	}

	price = price.Round(2)
	if price.GreaterThan(record.TotalPrice) {
		price = record.TotalPrice
	}
	out.FinalPrice = price
	return out
}

// ApplyAll prices every record, preserving order.
func (r *DiscountResolver) ApplyAll(records []entity.FlightRecord, policy SelectionPolicy) []entity.FlightRecord {
	out := make([]entity.FlightRecord, len(records))
	for i, record := range records {
		out[i] = r.Apply(record, policy)
		r.metrics.IncDiscount(policy.Name())
	}
	return out
}

func labelKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func isNone(label string) bool {
	return strings.EqualFold(strings.TrimSpace(label), entity.NoSelection)
}

func catalogErr(field string, err error) error {
	return &entity.ConfigurationError{Field: "offer_catalog." + field, Cause: err}
}
