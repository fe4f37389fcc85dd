package entity

// Tier is the price bucket a record is classified into.
type Tier string

const (
	TierCheapest Tier = "Cheapest"
	TierModerate Tier = "Moderate"
	TierCostly   Tier = "Costly"
)

// Tiers lists every tier in display order.
var Tiers = []Tier{TierCheapest, TierModerate, TierCostly}

// TieredRecords maps each tier to its ordered records. Every tier key is present.
type TieredRecords map[Tier][]FlightRecord

// NewTieredRecords returns a mapping with all tiers present and empty.
func NewTieredRecords() TieredRecords {
	t := make(TieredRecords, len(Tiers))
	for _, tier := range Tiers {
		t[tier] = []FlightRecord{}
	}
	return t
}

// Count returns the number of records across all tiers.
func (t TieredRecords) Count() int {
	n := 0
	for _, records := range t {
		n += len(records)
	}
	return n
}
