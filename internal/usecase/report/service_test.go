package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lotfolio/lotfolio-backend/internal/domain"
	"github.com/lotfolio/lotfolio-backend/internal/usecase/engine"
)

// MockTaxRecordRepository is a mock implementation of TaxRecordRepository for testing
type MockTaxRecordRepository struct {
	mock.Mock
}

func (m *MockTaxRecordRepository) Create(ctx context.Context, runID uuid.UUID, record *domain.TaxRecord) error {
	args := m.Called(ctx, runID, record)
	return args.Error(0)
}

func (m *MockTaxRecordRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.TaxRecord, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TaxRecord), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository for testing
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Append(ctx context.Context, runID uuid.UUID, entries []domain.BalanceEntry) error {
	args := m.Called(ctx, runID, entries)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]domain.BalanceEntry, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceEntry), args.Error(1)
}

func validRecord() *domain.TaxRecord {
	return &domain.TaxRecord{
		ID:               uuid.New(),
		Date:             time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Asset:            "BTC",
		Units:            decimal.NewFromInt(1),
		UnitPrice:        decimal.NewFromInt(100),
		Currency:         "EUR",
		CapitalGain:      decimal.NewFromInt(40),
		Taxes:            decimal.NewFromInt(11),
		NetProfit:        decimal.NewFromInt(29),
		AverageUnitPrice: decimal.NewFromInt(60),
	}
}

func TestPersist_StoresLedgerAndHistory(t *testing.T) {
	ctx := context.Background()
	mockTaxRepo := new(MockTaxRecordRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)

	service := NewReportService(mockTaxRepo, mockHistoryRepo)

	result := &engine.Result{
		TaxLedger: []*domain.TaxRecord{validRecord()},
		History: []domain.BalanceEntry{
			{Date: time.Now(), Asset: "BTC", Units: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), Currency: "EUR"},
		},
	}

	mockTaxRepo.On("Create", ctx, mock.AnythingOfType("uuid.UUID"), result.TaxLedger[0]).Return(nil)
	mockHistoryRepo.On("Append", ctx, mock.AnythingOfType("uuid.UUID"), result.History).Return(nil)

	runID, err := service.Persist(ctx, result)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, runID)
	mockTaxRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestPersist_RejectsInvalidRecord(t *testing.T) {
	ctx := context.Background()
	mockTaxRepo := new(MockTaxRecordRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)

	service := NewReportService(mockTaxRepo, mockHistoryRepo)

	bad := validRecord()
	bad.NetProfit = decimal.NewFromInt(999) // breaks gain - taxes invariant

	_, err := service.Persist(ctx, &engine.Result{TaxLedger: []*domain.TaxRecord{bad}})

	assert.Error(t, err)
	mockTaxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestPersist_PropagatesRepositoryError(t *testing.T) {
	ctx := context.Background()
	mockTaxRepo := new(MockTaxRecordRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)

	service := NewReportService(mockTaxRepo, mockHistoryRepo)

	repoErr := errors.New("connection lost")
	mockTaxRepo.On("Create", ctx, mock.AnythingOfType("uuid.UUID"), mock.Anything).Return(repoErr)

	_, err := service.Persist(ctx, &engine.Result{TaxLedger: []*domain.TaxRecord{validRecord()}})

	assert.ErrorIs(t, err, repoErr)
}

func TestPersist_NilResultFails(t *testing.T) {
	service := NewReportService(new(MockTaxRecordRepository), new(MockBalanceHistoryRepository))

	_, err := service.Persist(context.Background(), nil)

	assert.Error(t, err)
}

func TestFetch_ReturnsStoredRun(t *testing.T) {
	ctx := context.Background()
	mockTaxRepo := new(MockTaxRecordRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)

	service := NewReportService(mockTaxRepo, mockHistoryRepo)

	runID := uuid.New()
	ledger := []*domain.TaxRecord{validRecord()}
	history := []domain.BalanceEntry{
		{Date: time.Now(), Asset: "BTC", Units: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), Currency: "EUR"},
	}

	mockTaxRepo.On("ListByRun", ctx, runID).Return(ledger, nil)
	mockHistoryRepo.On("ListByRun", ctx, runID).Return(history, nil)

	result, err := service.Fetch(ctx, runID)

	require.NoError(t, err)
	assert.Equal(t, ledger, result.TaxLedger)
	assert.Equal(t, history, result.History)
}
