package strategy

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lotfolio/lotfolio-backend/internal/domain"
)

// acbStrategy implements Average Cost Basis depletion.
//
// The reported gain and the physical depletion are deliberately decoupled:
// the gain comes from the pooled average over ALL eligible lots, computed
// once before any lot shrinks, while the depletion pass only decides which
// lots end up smaller. Permuting the depletion order changes which lots
// shrink, never the reported numbers.
type acbStrategy struct{}

func (s *acbStrategy) Deplete(lots []*domain.Lot, unitsToSell, sellPrice decimal.Decimal) (Outcome, error) {
	averagePrice := PooledAveragePrice(lots)

	// Smallest lots first, so full depletions happen early in the cascade
	ordered := make([]*domain.Lot, len(lots))
	copy(ordered, lots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Units.LessThan(ordered[j].Units)
	})

	held := make([]decimal.Decimal, len(ordered))
	for i, lot := range ordered {
		held[i] = lot.Units
	}

	plan := acbDepletionPlan(held, unitsToSell)

	removed := decimal.Zero
	for i, take := range plan {
		ordered[i].Units = ordered[i].Units.Sub(take)
		removed = removed.Add(take)
	}

	if err := reconcile(removed, unitsToSell); err != nil {
		return Outcome{}, err
	}

	// Gain uses the requested quantity at the pooled average, not the
	// per-lot amounts physically removed
	gain := unitsToSell.Mul(sellPrice.Sub(averagePrice))

	return Outcome{
		UnitsRemoved:     removed,
		CapitalGain:      gain,
		AverageUnitPrice: averagePrice,
	}, nil
}

// acbDepletionPlan distributes a disposal target across ordered lot holdings.
// Each lot's share starts at target/n; when a lot holds less than its share
// the lot is taken fully and the shortfall is spread evenly across the lots
// not yet processed (one pass, order-dependent). The returned vector is
// per-lot units to remove, aligned with the input.
func acbDepletionPlan(held []decimal.Decimal, target decimal.Decimal) []decimal.Decimal {
	plan := make([]decimal.Decimal, len(held))
	if len(held) == 0 {
		return plan
	}

	share := target.Div(decimal.NewFromInt(int64(len(held))))
	for i, units := range held {
		if units.LessThan(share) {
			plan[i] = units
			if left := len(held) - i - 1; left > 0 {
				shortfall := share.Sub(units)
				share = share.Add(shortfall.Div(decimal.NewFromInt(int64(left))))
			}
		} else {
			plan[i] = share
		}
	}
	return plan
}
