package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLot_Validate(t *testing.T) {
	lot := NewLot("BTC", decimal.NewFromInt(2), decimal.NewFromInt(100), "EUR", time.Now())
	assert.NoError(t, lot.Validate())
	assert.True(t, lot.Value().Equal(decimal.NewFromInt(200)))

	lot.Units = decimal.Zero
	assert.Error(t, lot.Validate(), "a depleted lot is not a valid open lot")

	lot.Units = decimal.NewFromInt(1)
	lot.UnitPrice = decimal.NewFromInt(-1)
	assert.Error(t, lot.Validate())
}

func TestTaxRecord_Validate(t *testing.T) {
	record := func() TaxRecord {
		return TaxRecord{
			ID:               uuid.New(),
			Date:             time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			Asset:            "BTC",
			Units:            decimal.NewFromInt(10),
			UnitPrice:        decimal.NewFromInt(30),
			Currency:         "EUR",
			CapitalGain:      decimal.NewFromInt(200),
			Taxes:            decimal.NewFromInt(55),
			NetProfit:        decimal.NewFromInt(145),
			AverageUnitPrice: decimal.NewFromInt(10),
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *TaxRecord)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "Valid record should pass",
			mutate:  func(r *TaxRecord) {},
			wantErr: false,
		},
		{
			name: "Loss with zero tax should pass",
			mutate: func(r *TaxRecord) {
				r.CapitalGain = decimal.NewFromInt(-50)
				r.Taxes = decimal.Zero
				r.NetProfit = decimal.NewFromInt(-50)
			},
			wantErr: false,
		},
		{
			name:    "Empty asset should fail",
			mutate:  func(r *TaxRecord) { r.Asset = "" },
			wantErr: true,
			errMsg:  "asset cannot be empty",
		},
		{
			name:    "Negative taxes should fail",
			mutate:  func(r *TaxRecord) { r.Taxes = decimal.NewFromInt(-1) },
			wantErr: true,
			errMsg:  "taxes cannot be negative",
		},
		{
			name: "Taxed loss should fail",
			mutate: func(r *TaxRecord) {
				r.CapitalGain = decimal.NewFromInt(-50)
				r.Taxes = decimal.NewFromInt(10)
				r.NetProfit = decimal.NewFromInt(-60)
			},
			wantErr: true,
			errMsg:  "zero tax",
		},
		{
			name:    "Inconsistent net profit should fail",
			mutate:  func(r *TaxRecord) { r.NetProfit = decimal.NewFromInt(200) },
			wantErr: true,
			errMsg:  "net profit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := record()
			tt.mutate(&r)

			err := r.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInsufficientBalanceError(t *testing.T) {
	err := &InsufficientBalanceError{
		Asset:     "BTC",
		Date:      time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		Requested: decimal.NewFromInt(2),
		Available: decimal.NewFromInt(1),
	}

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Contains(t, err.Error(), "BTC")
	assert.Contains(t, err.Error(), "2024-02-01")
}
