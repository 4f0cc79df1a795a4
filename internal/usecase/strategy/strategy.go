package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lotfolio/lotfolio-backend/internal/domain"
)

// reconcileTolerance bounds the rounding drift allowed between the requested
// disposal quantity and the units actually removed. Exact methods remove the
// target exactly; ACB's cascading redistribution divides, so it may drift by
// less than this.
var reconcileTolerance = decimal.New(1, -8) // 1e-8

// Outcome reports what one depletion pass removed and realized.
type Outcome struct {
	UnitsRemoved     decimal.Decimal
	CapitalGain      decimal.Decimal
	AverageUnitPrice decimal.Decimal
}

// Strategy is one of the four interchangeable depletion algorithms. Deplete
// consumes unitsToSell from the eligible lots at sellPrice, mutating the lot
// units in place. Callers must have verified sufficiency
// (sum of lot units >= unitsToSell) beforehand; lots whose units reach zero
// are left for the caller to remove from the ledger.
type Strategy interface {
	Deplete(lots []*domain.Lot, unitsToSell, sellPrice decimal.Decimal) (Outcome, error)
}

// ForMethod returns the strategy implementing the given accounting method
func ForMethod(m domain.Method) (Strategy, error) {
	switch m {
	case domain.MethodACB:
		return &acbStrategy{}, nil
	case domain.MethodFIFO:
		// Oldest lots first
		return &orderedStrategy{less: func(a, b *domain.Lot) bool {
			return a.AcquiredAt.Before(b.AcquiredAt)
		}}, nil
	case domain.MethodLIFO:
		// Newest lots first
		return &orderedStrategy{less: func(a, b *domain.Lot) bool {
			return a.AcquiredAt.After(b.AcquiredAt)
		}}, nil
	case domain.MethodHIFO:
		// Highest-cost lots first
		return &orderedStrategy{less: func(a, b *domain.Lot) bool {
			return a.UnitPrice.GreaterThan(b.UnitPrice)
		}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedMethod, m)
	}
}

// PooledAveragePrice returns the units-weighted average unit price over all
// given lots. It is a pooled property of the whole eligible set, independent
// of which lots a depletion pass physically shrinks; swaps use it to derive
// a fair exchange rate regardless of the configured method.
func PooledAveragePrice(lots []*domain.Lot) decimal.Decimal {
	totalUnits := decimal.Zero
	totalValue := decimal.Zero
	for _, lot := range lots {
		totalUnits = totalUnits.Add(lot.Units)
		totalValue = totalValue.Add(lot.Units.Mul(lot.UnitPrice))
	}
	if totalUnits.IsZero() {
		return decimal.Zero
	}
	return totalValue.Div(totalUnits)
}

// reconcile guards the conservation invariant: the pass must have removed the
// requested quantity, within tolerance
func reconcile(removed, requested decimal.Decimal) error {
	if removed.Sub(requested).Abs().GreaterThan(reconcileTolerance) {
		return fmt.Errorf("%w: removed %s, requested %s",
			domain.ErrUnreconciledDepletion, removed.String(), requested.String())
	}
	return nil
}
