package normalizer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lotfolio/lotfolio-backend/internal/domain"
)

// Normalizer reclassifies raw transaction records into the normalized events
// consumed by the event loop. It is a pure mapping with no side effects:
//   - Purchase keeps its recorded price and becomes an acquisition.
//   - Airdrop and Staking become zero-cost acquisitions in the base currency.
//   - Mining becomes an acquisition at the recorded market price plus a
//     synthetic mining-receipt tax event for the same units and price.
//   - Swap pairs split into a SwapOut/SwapIn couple sharing the timestamp;
//     the SwapIn price is left for the disposal engine to derive.
type Normalizer struct {
	baseCurrency string
}

// NewNormalizer creates a new Normalizer instance
func NewNormalizer(baseCurrency string) *Normalizer {
	return &Normalizer{baseCurrency: baseCurrency}
}

// Normalize maps the whole raw log, preserving input order. Raw swap records
// must arrive as two consecutive rows sharing one timestamp (outgoing asset
// first); an unpaired swap row or an unrecognized type is a fatal error.
func (n *Normalizer) Normalize(raws []domain.RawTransaction) ([]domain.Transaction, error) {
	var txs []domain.Transaction

	for i := 0; i < len(raws); i++ {
		raw := raws[i]
		if err := raw.Validate(); err != nil {
			return nil, fmt.Errorf("invalid transaction %s %s: %w", raw.Date.Format("2006-01-02"), raw.Asset, err)
		}

		switch raw.Type {
		case domain.RawTypePurchase:
			txs = append(txs, acquisition(raw, raw.UnitPrice, raw.Currency))

		case domain.RawTypeAirdrop, domain.RawTypeStaking:
			// Acquisition cost is zero: the units arrived for free
			txs = append(txs, acquisition(raw, decimal.Zero, n.baseCurrency))

		case domain.RawTypeMining:
			// Mining is taxed at receipt: the lot enters at market price and
			// the receipt itself is a taxable event with zero cost basis
			txs = append(txs, acquisition(raw, raw.UnitPrice, n.baseCurrency))
			txs = append(txs, domain.Transaction{
				Timestamp:        raw.Date,
				Asset:            raw.Asset,
				Kind:             domain.KindMiningReceipt,
				Units:            raw.Units,
				UnitPrice:        raw.UnitPrice,
				Currency:         n.baseCurrency,
				TaxableAtReceipt: true,
			})

		case domain.RawTypeSell:
			txs = append(txs, domain.Transaction{
				Timestamp: raw.Date,
				Asset:     raw.Asset,
				Kind:      domain.KindSell,
				Units:     raw.Units,
				UnitPrice: raw.UnitPrice,
				Currency:  raw.Currency,
			})

		case domain.RawTypeSwap:
			if i+1 >= len(raws) || raws[i+1].Type != domain.RawTypeSwap || !raws[i+1].Date.Equal(raw.Date) {
				return nil, fmt.Errorf("unpaired swap record for %s at %s", raw.Asset, raw.Date.Format("2006-01-02 15:04:05"))
			}
			in := raws[i+1]
			if err := in.Validate(); err != nil {
				return nil, fmt.Errorf("invalid transaction %s %s: %w", in.Date.Format("2006-01-02"), in.Asset, err)
			}
			txs = append(txs,
				domain.Transaction{
					Timestamp: raw.Date,
					Asset:     raw.Asset,
					Kind:      domain.KindSwapOut,
					Units:     raw.Units,
					UnitPrice: raw.UnitPrice,
					Currency:  raw.Currency,
				},
				domain.Transaction{
					Timestamp: in.Date,
					Asset:     in.Asset,
					Kind:      domain.KindSwapIn,
					Units:     in.Units,
					// UnitPrice derived by the disposal engine from the
					// outgoing asset's pooled average
					UnitPrice: decimal.Zero,
					Currency:  n.baseCurrency,
				},
			)
			i++ // consume the paired row

		default:
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTransactionKind, raw.Type)
		}
	}

	return txs, nil
}

func acquisition(raw domain.RawTransaction, unitPrice decimal.Decimal, currency string) domain.Transaction {
	return domain.Transaction{
		Timestamp: raw.Date,
		Asset:     raw.Asset,
		Kind:      domain.KindAcquisition,
		Units:     raw.Units,
		UnitPrice: unitPrice,
		Currency:  currency,
	}
}
