package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRecord is one row of the tax ledger: the realized outcome of a sell or
// a mining receipt. Swaps produce no tax record (value-neutral exchange
// pricing).
type TaxRecord struct {
	ID               uuid.UUID
	Date             time.Time
	Asset            string
	Units            decimal.Decimal
	UnitPrice        decimal.Decimal
	Currency         string
	CapitalGain      decimal.Decimal
	Taxes            decimal.Decimal
	NetProfit        decimal.Decimal
	AverageUnitPrice decimal.Decimal
}

// Validate ensures the record adheres to domain rules
// Invariants: taxes = max(0, capital gain) * tax rate (so taxes are never
// negative and a non-positive gain carries zero tax), and
// net profit = capital gain - taxes
func (r *TaxRecord) Validate() error {
	if r.Asset == "" {
		return errors.New("tax record asset cannot be empty")
	}

	if r.Taxes.IsNegative() {
		return errors.New("tax record taxes cannot be negative")
	}

	if r.CapitalGain.LessThanOrEqual(decimal.Zero) && !r.Taxes.IsZero() {
		return errors.New("tax record with non-positive gain must carry zero tax")
	}

	if !r.NetProfit.Equal(r.CapitalGain.Sub(r.Taxes)) {
		return errors.New("tax record net profit must equal capital gain minus taxes")
	}

	return nil
}
