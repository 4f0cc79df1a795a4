package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// RawType represents the transaction type as supplied by the external loader
type RawType string

const (
	RawTypePurchase RawType = "Purchase"
	RawTypeSell     RawType = "Sell"
	RawTypeSwap     RawType = "Swap"
	RawTypeAirdrop  RawType = "Airdrop"
	RawTypeStaking  RawType = "Staking"
	RawTypeMining   RawType = "Mining"
)

// Kind represents the normalized transaction kind consumed by the event loop
type Kind string

const (
	KindAcquisition   Kind = "ACQUISITION"
	KindSell          Kind = "SELL"
	KindSwapOut       Kind = "SWAP_OUT"
	KindSwapIn        Kind = "SWAP_IN"
	KindMiningReceipt Kind = "MINING_RECEIPT"
)

// RawTransaction is one input record from the transaction log, before
// normalization. Swaps arrive as two consecutive raw records sharing one
// timestamp: the outgoing asset first, the incoming asset second.
type RawTransaction struct {
	Date      time.Time
	Type      RawType
	Asset     string
	Units     decimal.Decimal
	UnitPrice decimal.Decimal
	Currency  string
}

// Validate ensures the raw transaction adheres to domain rules
// Returns an error if validation fails
func (t *RawTransaction) Validate() error {
	if t.Asset == "" {
		return errors.New("transaction asset cannot be empty")
	}

	if t.Date.IsZero() {
		return errors.New("transaction date cannot be empty")
	}

	if t.Units.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction units must be positive")
	}

	if t.UnitPrice.IsNegative() {
		return errors.New("transaction unit price cannot be negative")
	}

	return nil
}

// Transaction is a normalized, immutable event consumed exactly once by the
// event loop, ordered by timestamp (ties broken by input order).
// SwapOut/SwapIn pairs share a timestamp; a SwapIn's unit price is derived
// by the disposal engine from the outgoing asset's pooled average, never
// taken from the input.
type Transaction struct {
	Timestamp time.Time
	Asset     string
	Kind      Kind
	Units     decimal.Decimal
	UnitPrice decimal.Decimal
	Currency  string

	// TaxableAtReceipt marks mining receipts: the full received value is
	// taxable when the units arrive, independent of any later disposal.
	TaxableAtReceipt bool
}
