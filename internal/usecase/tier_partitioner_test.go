package usecase

import (
	"errors"
	"testing"

	"farefinder-service/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prototypeRecords() []entity.FlightRecord {
	return []entity.FlightRecord{
		record("indigo", 4500, 4500, "06:00"),
		record("airindia", 5200, 5200, "09:00"),
		record("spicejet", 4800, 4800, "12:00"),
		record("vistara", 6000, 6000, "15:00"),
		record("goair", 4300, 4300, "18:00"),
	}
}

func TestThresholdPartitioner_ReferenceThresholds(t *testing.T) {
	p, err := NewThresholdPartitioner(decimal.NewFromInt(4500), decimal.NewFromInt(5200), PriceKeyBase)
	require.NoError(t, err)

	tiers := p.Partition(prototypeRecords())
	assert.Equal(t, []string{"indigo", "goair"}, ids(tiers[entity.TierCheapest]))
	assert.Equal(t, []string{"airindia", "spicejet"}, ids(tiers[entity.TierModerate]))
	assert.Equal(t, []string{"vistara"}, ids(tiers[entity.TierCostly]))
	assert.Equal(t, 5, tiers.Count())
}

func TestThresholdPartitioner_FinalPriceKey(t *testing.T) {
	records := prototypeRecords()
	records[3].FinalPrice = decimal.NewFromInt(4400)

	byBase, err := NewThresholdPartitioner(decimal.NewFromInt(4500), decimal.NewFromInt(5200), PriceKeyBase)
	require.NoError(t, err)
	byFinal, err := NewThresholdPartitioner(decimal.NewFromInt(4500), decimal.NewFromInt(5200), PriceKeyFinal)
	require.NoError(t, err)

	assert.Contains(t, ids(byBase.Partition(records)[entity.TierCostly]), "vistara")
	assert.Contains(t, ids(byFinal.Partition(records)[entity.TierCheapest]), "vistara")
}

func TestThresholdPartitioner_Empty(t *testing.T) {
	p, err := NewThresholdPartitioner(decimal.NewFromInt(1), decimal.NewFromInt(2), PriceKeyBase)
	require.NoError(t, err)

	tiers := p.Partition(nil)
	require.Len(t, tiers, 3)
	for _, tier := range entity.Tiers {
		assert.NotNil(t, tiers[tier])
		assert.Empty(t, tiers[tier])
	}
}

func TestNewThresholdPartitioner_Invalid(t *testing.T) {
	_, err := NewThresholdPartitioner(decimal.NewFromInt(5200), decimal.NewFromInt(4500), PriceKeyBase)
	var cfgErr *entity.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	_, err = NewThresholdPartitioner(decimal.NewFromInt(1), decimal.NewFromInt(2), PriceKey("tax"))
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "TIER_PRICE_KEY", cfgErr.Field)
}

func TestRankPartitioner(t *testing.T) {
	p, err := NewRankPartitioner(2, 2)
	require.NoError(t, err)

	tiers := p.Partition(prototypeRecords())
	assert.Equal(t, []string{"goair", "indigo"}, ids(tiers[entity.TierCheapest]))
	assert.Equal(t, []string{"spicejet", "airindia"}, ids(tiers[entity.TierModerate]))
	assert.Equal(t, []string{"vistara"}, ids(tiers[entity.TierCostly]))
}

func TestRankPartitioner_TiesKeepFetchOrder(t *testing.T) {
	records := []entity.FlightRecord{
		record("first", 5000, 5000, "06:00"),
		record("second", 4000, 4000, "07:00"),
		record("third", 5000, 5000, "08:00"),
		record("fourth", 4000, 4000, "09:00"),
	}
	p, err := NewRankPartitioner(1, 2)
	require.NoError(t, err)

	tiers := p.Partition(records)
	assert.Equal(t, []string{"second"}, ids(tiers[entity.TierCheapest]))
	assert.Equal(t, []string{"fourth", "first"}, ids(tiers[entity.TierModerate]))
	assert.Equal(t, []string{"third"}, ids(tiers[entity.TierCostly]))
	assert.Equal(t, "first", records[0].ID, "input not reordered")
}

func TestRankPartitioner_FewerThanKPlusM(t *testing.T) {
	p, err := NewRankPartitioner(5, 5)
	require.NoError(t, err)

	tiers := p.Partition(prototypeRecords()[:3])
	assert.Len(t, tiers[entity.TierCheapest], 3)
	assert.Empty(t, tiers[entity.TierModerate])
	assert.Empty(t, tiers[entity.TierCostly])

	tiers = p.Partition(nil)
	assert.Equal(t, 0, tiers.Count())
}

func TestRankPartitioner_Invalid(t *testing.T) {
	_, err := NewRankPartitioner(-1, 3)
	var cfgErr *entity.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestPartitionIsSurjective(t *testing.T) {
	var records []entity.FlightRecord
	for i := int64(0); i < 40; i++ {
		records = append(records, record(string(rune('a'+i%26))+string(rune('0'+i/26)), 3000+i*97%4000, 3000+i*97%4000, "06:00"))
	}

	threshold, err := NewThresholdPartitioner(decimal.NewFromInt(4500), decimal.NewFromInt(5200), PriceKeyBase)
	require.NoError(t, err)
	rank, err := NewRankPartitioner(7, 11)
	require.NoError(t, err)

	for _, p := range []Partitioner{threshold, rank} {
		tiers := p.Partition(records)
		assert.Equal(t, len(records), tiers.Count(), p.Name())

		seen := map[string]int{}
		for _, tier := range entity.Tiers {
			for _, r := range tiers[tier] {
				seen[r.ID]++
			}
		}
		for _, r := range records {
			assert.Equal(t, 1, seen[r.ID], "%s: record %s", p.Name(), r.ID)
		}
	}
}

func TestSortByDeparture(t *testing.T) {
	tiers := entity.NewTieredRecords()
	tiers[entity.TierCheapest] = []entity.FlightRecord{
		record("late", 1, 1, "18:00"),
		record("early", 1, 1, "06:00"),
		record("early-too", 1, 1, "06:00"),
	}

	sorted := SortByDeparture(tiers)
	assert.Equal(t, []string{"early", "early-too", "late"}, ids(sorted[entity.TierCheapest]))
	assert.Equal(t, "late", tiers[entity.TierCheapest][0].ID, "input not reordered")
	assert.NotNil(t, sorted[entity.TierCostly])
}
