package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lotfolio/lotfolio-backend/internal/domain"
)

// taxRecordRepository implements domain.TaxRecordRepository
type taxRecordRepository struct {
	db *DB
}

// NewTaxRecordRepository creates a new tax record repository
func NewTaxRecordRepository(db *DB) domain.TaxRecordRepository {
	return &taxRecordRepository{db: db}
}

// Create persists a new tax record under the given simulation run
func (r *taxRecordRepository) Create(ctx context.Context, runID uuid.UUID, record *domain.TaxRecord) error {
	query := `
		INSERT INTO tax_records (id, run_id, date, asset, units, unit_price, currency, capital_gain, taxes, net_profit, average_unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		runID,
		record.Date,
		record.Asset,
		record.Units.String(),
		record.UnitPrice.String(),
		record.Currency,
		record.CapitalGain.String(),
		record.Taxes.String(),
		record.NetProfit.String(),
		record.AverageUnitPrice.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert tax record: %w", err)
	}

	return nil
}

// ListByRun retrieves all tax records of a run, ordered by date
func (r *taxRecordRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.TaxRecord, error) {
	query := `
		SELECT id, date, asset, units, unit_price, currency, capital_gain, taxes, net_profit, average_unit_price
		FROM tax_records
		WHERE run_id = $1
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax records: %w", err)
	}
	defer rows.Close()

	var records []*domain.TaxRecord
	for rows.Next() {
		var record domain.TaxRecord
		var units, unitPrice, capitalGain, taxes, netProfit, averageUnitPrice string

		if err := rows.Scan(
			&record.ID,
			&record.Date,
			&record.Asset,
			&units,
			&unitPrice,
			&record.Currency,
			&capitalGain,
			&taxes,
			&netProfit,
			&averageUnitPrice,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tax record: %w", err)
		}

		if record.Units, err = decimal.NewFromString(units); err != nil {
			return nil, fmt.Errorf("failed to parse units: %w", err)
		}
		if record.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("failed to parse unit_price: %w", err)
		}
		if record.CapitalGain, err = decimal.NewFromString(capitalGain); err != nil {
			return nil, fmt.Errorf("failed to parse capital_gain: %w", err)
		}
		if record.Taxes, err = decimal.NewFromString(taxes); err != nil {
			return nil, fmt.Errorf("failed to parse taxes: %w", err)
		}
		if record.NetProfit, err = decimal.NewFromString(netProfit); err != nil {
			return nil, fmt.Errorf("failed to parse net_profit: %w", err)
		}
		if record.AverageUnitPrice, err = decimal.NewFromString(averageUnitPrice); err != nil {
			return nil, fmt.Errorf("failed to parse average_unit_price: %w", err)
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tax records: %w", err)
	}

	return records, nil
}
