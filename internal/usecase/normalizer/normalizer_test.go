package normalizer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotfolio/lotfolio-backend/internal/domain"
)

func raw(t domain.RawType, asset string, units, price float64, day int) domain.RawTransaction {
	return domain.RawTransaction{
		Date:      time.Date(2024, time.March, day, 12, 0, 0, 0, time.UTC),
		Type:      t,
		Asset:     asset,
		Units:     decimal.NewFromFloat(units),
		UnitPrice: decimal.NewFromFloat(price),
		Currency:  "USD",
	}
}

func TestNormalize_PurchaseKeepsRecordedPrice(t *testing.T) {
	n := NewNormalizer("EUR")

	txs, err := n.Normalize([]domain.RawTransaction{raw(domain.RawTypePurchase, "BTC", 2, 100, 1)})

	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.KindAcquisition, txs[0].Kind)
	assert.True(t, txs[0].UnitPrice.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "USD", txs[0].Currency)
	assert.False(t, txs[0].TaxableAtReceipt)
}

func TestNormalize_AirdropAndStakingAreZeroCostAcquisitions(t *testing.T) {
	n := NewNormalizer("EUR")

	txs, err := n.Normalize([]domain.RawTransaction{
		raw(domain.RawTypeAirdrop, "ADA", 50, 0.4, 1),
		raw(domain.RawTypeStaking, "ADA", 5, 0.4, 2),
	})

	require.NoError(t, err)
	require.Len(t, txs, 2)
	for _, tx := range txs {
		assert.Equal(t, domain.KindAcquisition, tx.Kind)
		assert.True(t, tx.UnitPrice.IsZero(), "free receipt must carry zero cost basis")
		assert.Equal(t, "EUR", tx.Currency)
	}
}

func TestNormalize_MiningEmitsAcquisitionAndReceipt(t *testing.T) {
	n := NewNormalizer("EUR")

	txs, err := n.Normalize([]domain.RawTransaction{raw(domain.RawTypeMining, "BTC", 0.5, 200, 3)})

	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, domain.KindAcquisition, txs[0].Kind)
	assert.True(t, txs[0].UnitPrice.Equal(decimal.NewFromInt(200)), "mined lot enters at market price")

	receipt := txs[1]
	assert.Equal(t, domain.KindMiningReceipt, receipt.Kind)
	assert.True(t, receipt.TaxableAtReceipt)
	assert.True(t, receipt.Units.Equal(txs[0].Units))
	assert.True(t, receipt.UnitPrice.Equal(txs[0].UnitPrice))
	assert.True(t, receipt.Timestamp.Equal(txs[0].Timestamp))
}

func TestNormalize_SwapSplitsIntoOutInPair(t *testing.T) {
	n := NewNormalizer("EUR")

	txs, err := n.Normalize([]domain.RawTransaction{
		raw(domain.RawTypeSwap, "ETH", 10, 300, 4),
		raw(domain.RawTypeSwap, "BTC", 0.2, 0.01, 4),
	})

	require.NoError(t, err)
	require.Len(t, txs, 2)

	out, in := txs[0], txs[1]
	assert.Equal(t, domain.KindSwapOut, out.Kind)
	assert.Equal(t, "ETH", out.Asset)
	assert.Equal(t, domain.KindSwapIn, in.Kind)
	assert.Equal(t, "BTC", in.Asset)
	assert.True(t, in.Timestamp.Equal(out.Timestamp))
	assert.True(t, in.UnitPrice.IsZero(), "swap-in price is derived, never taken from input")
}

func TestNormalize_UnpairedSwapFails(t *testing.T) {
	n := NewNormalizer("EUR")

	_, err := n.Normalize([]domain.RawTransaction{
		raw(domain.RawTypeSwap, "ETH", 10, 300, 4),
		raw(domain.RawTypeSell, "BTC", 1, 500, 5),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unpaired swap")
}

func TestNormalize_UnknownKindFails(t *testing.T) {
	n := NewNormalizer("EUR")

	_, err := n.Normalize([]domain.RawTransaction{raw(domain.RawType("Lending"), "BTC", 1, 100, 1)})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownTransactionKind)
}

func TestNormalize_InvalidRecordFails(t *testing.T) {
	n := NewNormalizer("EUR")

	bad := raw(domain.RawTypePurchase, "BTC", 0, 100, 1)

	_, err := n.Normalize([]domain.RawTransaction{bad})
	assert.Error(t, err)
}
