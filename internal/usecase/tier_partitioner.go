package usecase

import (
	"errors"
	"fmt"
	"sort"

	"farefinder-service/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// PriceKey selects the record price a threshold partitioner bands on.
type PriceKey string

const (
	PriceKeyBase  PriceKey = "base"
	PriceKeyFinal PriceKey = "final"
)

func (k PriceKey) of(record entity.FlightRecord) decimal.Decimal {
	if k == PriceKeyFinal {
		return record.FinalPrice
	}
	return record.BasePrice
}

// Partitioner splits a priced result set into tiers. Every record lands in
// exactly one tier and every tier key is present in the result.
type Partitioner interface {
	Name() string
	Partition(records []entity.FlightRecord) entity.TieredRecords
}

// ThresholdPartitioner bands on fixed prices: Cheapest is price <= T1,
// Moderate is T1 < price <= T2, Costly is everything above T2. Input order is
// kept within each tier.
type ThresholdPartitioner struct {
	t1  decimal.Decimal
	t2  decimal.Decimal
	key PriceKey
}

func NewThresholdPartitioner(t1, t2 decimal.Decimal, key PriceKey) (*ThresholdPartitioner, error) {
	if !t1.LessThan(t2) {
		return nil, &entity.ConfigurationError{Field: "TIER_T1", Cause: fmt.Errorf("threshold %s must be below %s", t1, t2)}
	}
	switch key {
	case PriceKeyBase, PriceKeyFinal:
	default:
		return nil, &entity.ConfigurationError{Field: "TIER_PRICE_KEY", Cause: fmt.Errorf("unknown price key %q", key)}
	}
	return &ThresholdPartitioner{t1: t1, t2: t2, key: key}, nil
}

func (p *ThresholdPartitioner) Name() string { return "threshold" }

func (p *ThresholdPartitioner) Partition(records []entity.FlightRecord) entity.TieredRecords {
	tiers := entity.NewTieredRecords()
	for _, record := range records {
		price := p.key.of(record)
		switch {
		case price.LessThanOrEqual(p.t1):
			tiers[entity.TierCheapest] = append(tiers[entity.TierCheapest], record)
		case price.LessThanOrEqual(p.t2):
			tiers[entity.TierModerate] = append(tiers[entity.TierModerate], record)
		default:
			tiers[entity.TierCostly] = append(tiers[entity.TierCostly], record)
		}
	}
	return tiers
}

// RankPartitioner sorts by final price, ties kept in fetch order, and slices
// the lowest K into Cheapest, the next M into Moderate and the remainder
// into Costly. Short result sets leave the later tiers empty.
type RankPartitioner struct {
	cheapest int
	moderate int
}

func NewRankPartitioner(cheapest, moderate int) (*RankPartitioner, error) {
	if cheapest < 0 || moderate < 0 {
		return nil, &entity.ConfigurationError{
			Field: "TIER_RANK_CHEAPEST",
			Cause: errors.New("rank sizes must not be negative"),
		}
	}
	return &RankPartitioner{cheapest: cheapest, moderate: moderate}, nil
}

func (p *RankPartitioner) Name() string { return "rank" }

func (p *RankPartitioner) Partition(records []entity.FlightRecord) entity.TieredRecords {
	sorted := append([]entity.FlightRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FinalPrice.LessThan(sorted[j].FinalPrice)
	})

	tiers := entity.NewTieredRecords()
	k := min(p.cheapest, len(sorted))
	m := min(k+p.moderate, len(sorted))
	tiers[entity.TierCheapest] = append(tiers[entity.TierCheapest], sorted[:k]...)
	tiers[entity.TierModerate] = append(tiers[entity.TierModerate], sorted[k:m]...)
	tiers[entity.TierCostly] = append(tiers[entity.TierCostly], sorted[m:]...)
	return tiers
}

// SortByDeparture returns a copy of tiers with each tier ordered by departure
// time. Equal departures keep their partition order.
func SortByDeparture(tiers entity.TieredRecords) entity.TieredRecords {
	out := entity.NewTieredRecords()
	for tier, records := range tiers {
		sorted := append([]entity.FlightRecord{}, records...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].DepartureTime.Before(sorted[j].DepartureTime)
		})
		out[tier] = sorted
	}
	return out
}
