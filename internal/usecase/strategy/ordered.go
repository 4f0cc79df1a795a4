package strategy

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lotfolio/lotfolio-backend/internal/domain"
)

// orderedStrategy covers FIFO, LIFO and HIFO: the three differ only in the
// working order imposed on the eligible lots. Lots are consumed fully in
// that order until the last lot needed is partially consumed, and iteration
// stops the instant the target is reached. Gain is accumulated per lot:
// units_from_lot * (sell_price - lot_price).
type orderedStrategy struct {
	less func(a, b *domain.Lot) bool
}

func (s *orderedStrategy) Deplete(lots []*domain.Lot, unitsToSell, sellPrice decimal.Decimal) (Outcome, error) {
	ordered := make([]*domain.Lot, len(lots))
	copy(ordered, lots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return s.less(ordered[i], ordered[j])
	})

	remaining := unitsToSell
	removed := decimal.Zero
	gain := decimal.Zero
	costBasis := decimal.Zero

	for _, lot := range ordered {
		take := lot.Units
		if take.GreaterThan(remaining) {
			take = remaining
		}

		lot.Units = lot.Units.Sub(take)
		gain = gain.Add(take.Mul(sellPrice.Sub(lot.UnitPrice)))
		costBasis = costBasis.Add(take.Mul(lot.UnitPrice))
		removed = removed.Add(take)
		remaining = remaining.Sub(take)

		if remaining.IsZero() {
			break
		}
	}

	if err := reconcile(removed, unitsToSell); err != nil {
		return Outcome{}, err
	}

	averagePrice := decimal.Zero
	if !removed.IsZero() {
		averagePrice = costBasis.Div(removed)
	}

	return Outcome{
		UnitsRemoved:     removed,
		CapitalGain:      gain,
		AverageUnitPrice: averagePrice,
	}, nil
}
