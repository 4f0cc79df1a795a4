package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lot represents a discrete batch of units acquired at one price on one date.
// It is the unit of cost-basis tracking: created by an acquisition event,
// shrunk by depletion, and removed from the ledger once its units reach zero.
// Price and acquisition date never change after creation.
type Lot struct {
	ID         uuid.UUID
	Asset      string
	Units      decimal.Decimal
	UnitPrice  decimal.Decimal
	Currency   string
	AcquiredAt time.Time
}

// NewLot creates an open lot for the given asset
func NewLot(asset string, units, unitPrice decimal.Decimal, currency string, acquiredAt time.Time) *Lot {
	return &Lot{
		ID:         uuid.New(),
		Asset:      asset,
		Units:      units,
		UnitPrice:  unitPrice,
		Currency:   currency,
		AcquiredAt: acquiredAt,
	}
}

// Value returns the lot's remaining cost-basis value (units * unit price)
func (l *Lot) Value() decimal.Decimal {
	return l.Units.Mul(l.UnitPrice)
}

// Validate ensures the lot adheres to domain rules
// Returns an error if validation fails
func (l *Lot) Validate() error {
	if l.Asset == "" {
		return errors.New("lot asset cannot be empty")
	}

	// Open lots must hold a positive number of units; a depleted lot
	// is removed from the ledger rather than kept at zero
	if l.Units.LessThanOrEqual(decimal.Zero) {
		return errors.New("lot units must be positive")
	}

	if l.UnitPrice.IsNegative() {
		return errors.New("lot unit price cannot be negative")
	}

	return nil
}
