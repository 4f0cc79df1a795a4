package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lotfolio/lotfolio-backend/internal/domain"
	"github.com/lotfolio/lotfolio-backend/internal/usecase/engine"
)

// ReportService persists simulation results so downstream reporting can
// consume them later
type ReportService struct {
	TaxRecordRepo      domain.TaxRecordRepository
	BalanceHistoryRepo domain.BalanceHistoryRepository
}

// NewReportService creates a new ReportService instance
func NewReportService(taxRecordRepo domain.TaxRecordRepository, balanceHistoryRepo domain.BalanceHistoryRepository) *ReportService {
	return &ReportService{
		TaxRecordRepo:      taxRecordRepo,
		BalanceHistoryRepo: balanceHistoryRepo,
	}
}

// Persist stores a run's tax ledger and balance history under a fresh run ID
// Returns the run ID so callers can retrieve the stored report later
func (s *ReportService) Persist(ctx context.Context, result *engine.Result) (uuid.UUID, error) {
	if result == nil {
		return uuid.Nil, errors.New("result cannot be nil")
	}

	runID := uuid.New()

	for _, record := range result.TaxLedger {
		if err := record.Validate(); err != nil {
			return uuid.Nil, fmt.Errorf("invalid tax record for %s on %s: %w", record.Asset, record.Date.Format("2006-01-02"), err)
		}
		if err := s.TaxRecordRepo.Create(ctx, runID, record); err != nil {
			return uuid.Nil, err
		}
	}

	if len(result.History) > 0 {
		if err := s.BalanceHistoryRepo.Append(ctx, runID, result.History); err != nil {
			return uuid.Nil, err
		}
	}

	return runID, nil
}

// Fetch retrieves a stored run's tax ledger and balance history
func (s *ReportService) Fetch(ctx context.Context, runID uuid.UUID) (*engine.Result, error) {
	taxLedger, err := s.TaxRecordRepo.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	history, err := s.BalanceHistoryRepo.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	return &engine.Result{TaxLedger: taxLedger, History: history}, nil
}
