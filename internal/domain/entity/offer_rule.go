package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NoSelection is the label a caller uses to opt out of a coupon or card.
const NoSelection = "none"

var hundred = decimal.NewFromInt(100)

// CouponForm is how a coupon reduces a price.
type CouponForm string

const (
	CouponFlat    CouponForm = "flat"
	CouponPercent CouponForm = "percent"
)

// Coupon is a promotional code. Value is an amount for flat coupons and a
// percentage (10 means 10%) for percent coupons.
type Coupon struct {
	Code  string
	Form  CouponForm
	Value decimal.Decimal
}

// Apply returns the price after the coupon. A flat coupon never drives the
// price below zero.
func (c Coupon) Apply(price decimal.Decimal) decimal.Decimal {
	switch c.Form {
	case CouponFlat:
		out := price.Sub(c.Value)
		if out.IsNegative() {
			return decimal.Zero
		}
		return out
	case CouponPercent:
		return price.Mul(decimal.NewFromInt(1).Sub(c.Value.Div(hundred)))
	default:
		return price
	}
}

// Validate rejects empty codes, unknown forms and out-of-range values.
func (c Coupon) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return fmt.Errorf("coupon code is empty")
	}
	if strings.EqualFold(c.Code, NoSelection) {
		return fmt.Errorf("coupon code %q is reserved", c.Code)
	}
	switch c.Form {
	case CouponFlat:
		if c.Value.IsNegative() {
			return fmt.Errorf("coupon %s: flat amount must not be negative", c.Code)
		}
	case CouponPercent:
		if c.Value.IsNegative() || c.Value.GreaterThan(hundred) {
			return fmt.Errorf("coupon %s: percentage must be within 0..100", c.Code)
		}
	default:
		return fmt.Errorf("coupon %s: unknown form %q", c.Code, c.Form)
	}
	return nil
}

// PaymentCard is a payment instrument offering a percentage discount.
type PaymentCard struct {
	Label   string
	Percent decimal.Decimal
}

// Apply returns the price after the card discount.
func (c PaymentCard) Apply(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(1).Sub(c.Percent.Div(hundred)))
}

func (c PaymentCard) Validate() error {
	if strings.TrimSpace(c.Label) == "" {
		return fmt.Errorf("card label is empty")
	}
	if strings.EqualFold(c.Label, NoSelection) {
		return fmt.Errorf("card label %q is reserved", c.Label)
	}
	if c.Percent.IsNegative() || c.Percent.GreaterThan(hundred) {
		return fmt.Errorf("card %s: percentage must be within 0..100", c.Label)
	}
	return nil
}

// OfferRule names a coupon and a card. An empty label means none.
type OfferRule struct {
	Coupon string
	Card   string
}

// IsEmpty reports whether the rule selects neither a coupon nor a card.
func (r OfferRule) IsEmpty() bool {
	return r.Coupon == "" && r.Card == ""
}

// PriceBand assigns Rule to base prices up to and including UpTo.
// An invalid UpTo marks the unbounded top band.
type PriceBand struct {
	UpTo decimal.NullDecimal
	Rule OfferRule
}

// Contains reports whether price falls at or below the band ceiling.
func (b PriceBand) Contains(price decimal.Decimal) bool {
	return !b.UpTo.Valid || price.LessThanOrEqual(b.UpTo.Decimal)
}

// DefaultCoupons is the built-in coupon catalog.
func DefaultCoupons() []Coupon {
	return []Coupon{
		{Code: "FLY50", Form: CouponFlat, Value: decimal.NewFromInt(50)},
		{Code: "SAVE10", Form: CouponPercent, Value: decimal.NewFromInt(10)},
		{Code: "DISCOUNT5", Form: CouponPercent, Value: decimal.NewFromInt(5)},
	}
}

// DefaultCards is the built-in payment instrument catalog.
func DefaultCards() []PaymentCard {
	return []PaymentCard{
		{Label: "Credit Card - 5% off", Percent: decimal.NewFromInt(5)},
		{Label: "Debit Card - 3% off", Percent: decimal.NewFromInt(3)},
		{Label: "UPI - 2% off", Percent: decimal.NewFromInt(2)},
	}
}

// DefaultPriceBands pairs the cheapest fares with the most aggressive combination.
func DefaultPriceBands() []PriceBand {
	return []PriceBand{
		{UpTo: decimal.NewNullDecimal(decimal.NewFromInt(4500)), Rule: OfferRule{Coupon: "FLY50", Card: "Credit Card - 5% off"}},
		{UpTo: decimal.NewNullDecimal(decimal.NewFromInt(5200)), Rule: OfferRule{Coupon: "SAVE10", Card: "Debit Card - 3% off"}},
		{Rule: OfferRule{Coupon: "DISCOUNT5", Card: "UPI - 2% off"}},
	}
}
