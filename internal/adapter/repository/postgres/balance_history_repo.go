package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lotfolio/lotfolio-backend/internal/domain"
)

// balanceHistoryRepository implements domain.BalanceHistoryRepository
type balanceHistoryRepository struct {
	db *DB
}

// NewBalanceHistoryRepository creates a new balance history repository
func NewBalanceHistoryRepository(db *DB) domain.BalanceHistoryRepository {
	return &balanceHistoryRepository{db: db}
}

// Append persists snapshot entries under the given simulation run in one
// database transaction, preserving append order via a sequence column
func (r *balanceHistoryRepository) Append(ctx context.Context, runID uuid.UUID, entries []domain.BalanceEntry) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO balance_history (id, run_id, seq, date, asset, units, unit_price, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for i, entry := range entries {
		_, err = dbTx.ExecContext(ctx, query,
			uuid.New(),
			runID,
			i,
			entry.Date,
			entry.Asset,
			entry.Units.String(),
			entry.UnitPrice.String(),
			entry.Currency,
		)
		if err != nil {
			return fmt.Errorf("failed to insert balance entry: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListByRun retrieves the full balance history of a run in append order
func (r *balanceHistoryRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]domain.BalanceEntry, error) {
	query := `
		SELECT date, asset, units, unit_price, currency
		FROM balance_history
		WHERE run_id = $1
		ORDER BY seq ASC
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance history: %w", err)
	}
	defer rows.Close()

	var entries []domain.BalanceEntry
	for rows.Next() {
		var entry domain.BalanceEntry
		var units, unitPrice string

		if err := rows.Scan(&entry.Date, &entry.Asset, &units, &unitPrice, &entry.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan balance entry: %w", err)
		}

		if entry.Units, err = decimal.NewFromString(units); err != nil {
			return nil, fmt.Errorf("failed to parse units: %w", err)
		}
		if entry.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("failed to parse unit_price: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance history: %w", err)
	}

	return entries, nil
}
