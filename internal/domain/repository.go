package domain

import (
	"context"

	"github.com/google/uuid"
)

// TaxRecordRepository defines the interface for tax ledger persistence operations
type TaxRecordRepository interface {
	// Create persists a new tax record under the given simulation run
	Create(ctx context.Context, runID uuid.UUID, record *TaxRecord) error

	// ListByRun retrieves all tax records of a run, ordered by date
	ListByRun(ctx context.Context, runID uuid.UUID) ([]*TaxRecord, error)
}

// BalanceHistoryRepository defines the interface for balance-evolution persistence operations
type BalanceHistoryRepository interface {
	// Append persists snapshot entries under the given simulation run
	Append(ctx context.Context, runID uuid.UUID, entries []BalanceEntry) error

	// ListByRun retrieves the full balance history of a run, ordered by date
	ListByRun(ctx context.Context, runID uuid.UUID) ([]BalanceEntry, error)
}
