package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceEntry is one open lot captured inside a balance snapshot.
// Date is the triggering event's date, not the lot's acquisition date.
// Entries are append-only history and never mutated after creation; the
// accumulated sequence is the audit trail consumed by downstream reporting.
type BalanceEntry struct {
	Date      time.Time
	Asset     string
	Units     decimal.Decimal
	UnitPrice decimal.Decimal
	Currency  string
}
