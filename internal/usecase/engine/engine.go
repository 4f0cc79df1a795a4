package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lotfolio/lotfolio-backend/internal/domain"
	"github.com/lotfolio/lotfolio-backend/internal/usecase/ledger"
	"github.com/lotfolio/lotfolio-backend/internal/usecase/recorder"
	"github.com/lotfolio/lotfolio-backend/internal/usecase/strategy"
)

// Config holds the run-scoped settings of one simulation. It is passed in
// explicitly so that several engines with different methods can run over the
// same input without cross-contamination.
type Config struct {
	Method       domain.Method
	TaxRate      decimal.Decimal
	BaseCurrency string
}

// Result is the complete output of one run: the tax ledger (one record per
// sell or mining receipt, sorted by date) and the balance-evolution history.
type Result struct {
	TaxLedger []*domain.TaxRecord
	History   []domain.BalanceEntry
}

// Engine processes a normalized transaction sequence in chronological order:
// acquisitions insert lots, disposals deplete them through the configured
// strategy, and every balance-affecting event is snapshotted. Processing is
// single-threaded and synchronous; a fatal error aborts the run with the
// ledger untouched by the failing event.
type Engine struct {
	cfg      Config
	strategy strategy.Strategy
	log      *slog.Logger
}

// NewEngine creates a new Engine instance
// Fails immediately on an unsupported method or a negative tax rate
func NewEngine(cfg Config, log *slog.Logger) (*Engine, error) {
	strat, err := strategy.ForMethod(cfg.Method)
	if err != nil {
		return nil, err
	}

	if cfg.TaxRate.IsNegative() {
		return nil, errors.New("tax rate cannot be negative")
	}

	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		cfg:      cfg,
		strategy: strat,
		log:      log.With("method", string(cfg.Method)),
	}, nil
}

// Run consumes the transactions in chronological order (ties broken by input
// order) and returns the tax ledger plus the balance history
func (e *Engine) Run(txs []domain.Transaction) (*Result, error) {
	ordered := make([]domain.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	led := ledger.New()
	rec := recorder.NewRecorder()
	var taxLedger []*domain.TaxRecord

	for i := 0; i < len(ordered); i++ {
		tx := ordered[i]

		switch tx.Kind {
		case domain.KindAcquisition:
			led.Insert(domain.NewLot(tx.Asset, tx.Units, tx.UnitPrice, tx.Currency, tx.Timestamp))
			e.log.Debug("acquired lot",
				"asset", tx.Asset,
				"units", tx.Units.String(),
				"unitPrice", tx.UnitPrice.String(),
				"date", tx.Timestamp)
			rec.Snapshot(tx.Timestamp, led.LotsOnOrBefore(tx.Timestamp))

		case domain.KindSell:
			record, err := e.processSell(led, tx)
			if err != nil {
				return nil, err
			}
			taxLedger = append(taxLedger, record)
			rec.Snapshot(tx.Timestamp, led.LotsOnOrBefore(tx.Timestamp))

		case domain.KindSwapOut:
			if i+1 >= len(ordered) || ordered[i+1].Kind != domain.KindSwapIn || !ordered[i+1].Timestamp.Equal(tx.Timestamp) {
				return nil, fmt.Errorf("swap-out of %s at %s has no matching swap-in", tx.Asset, tx.Timestamp.Format("2006-01-02 15:04:05"))
			}
			if err := e.processSwap(led, tx, ordered[i+1]); err != nil {
				return nil, err
			}
			i++ // the swap-in was consumed atomically with the swap-out
			rec.Snapshot(tx.Timestamp, led.LotsOnOrBefore(tx.Timestamp))

		case domain.KindSwapIn:
			return nil, fmt.Errorf("swap-in of %s at %s has no matching swap-out", tx.Asset, tx.Timestamp.Format("2006-01-02 15:04:05"))

		case domain.KindMiningReceipt:
			// The paired acquisition already created the lot; the receipt
			// only contributes a tax record
			taxLedger = append(taxLedger, e.miningReceipt(tx))

		default:
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTransactionKind, tx.Kind)
		}
	}

	sort.SliceStable(taxLedger, func(i, j int) bool {
		return taxLedger[i].Date.Before(taxLedger[j].Date)
	})

	return &Result{TaxLedger: taxLedger, History: rec.History()}, nil
}

// processSell runs one sell through the configured strategy and produces its
// tax record. Sufficiency is verified before any lot is touched, so an
// insufficient-balance rejection leaves the ledger unchanged.
func (e *Engine) processSell(led *ledger.Ledger, tx domain.Transaction) (*domain.TaxRecord, error) {
	eligible := led.EligibleBefore(tx.Asset, dayStart(tx.Timestamp))

	available := decimal.Zero
	for _, lot := range eligible {
		available = available.Add(lot.Units)
	}
	if available.LessThan(tx.Units) {
		return nil, &domain.InsufficientBalanceError{
			Asset:     tx.Asset,
			Date:      tx.Timestamp,
			Requested: tx.Units,
			Available: available,
		}
	}

	outcome, err := e.strategy.Deplete(eligible, tx.Units, tx.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("sell of %s %s on %s: %w", tx.Units.String(), tx.Asset, tx.Timestamp.Format("2006-01-02"), err)
	}
	led.RemoveExhausted(tx.Asset)

	taxes := e.taxOn(outcome.CapitalGain)
	record := &domain.TaxRecord{
		ID:               uuid.New(),
		Date:             tx.Timestamp,
		Asset:            tx.Asset,
		Units:            tx.Units,
		UnitPrice:        tx.UnitPrice,
		Currency:         tx.Currency,
		CapitalGain:      outcome.CapitalGain,
		Taxes:            taxes,
		NetProfit:        outcome.CapitalGain.Sub(taxes),
		AverageUnitPrice: outcome.AverageUnitPrice,
	}

	e.log.Info("processed sell",
		"asset", tx.Asset,
		"units", tx.Units.String(),
		"sellPrice", tx.UnitPrice.String(),
		"capitalGain", record.CapitalGain.StringFixed(2),
		"taxes", record.Taxes.StringFixed(2),
		"date", tx.Timestamp)

	return record, nil
}

// processSwap disposes the outgoing asset and creates one lot of the
// incoming asset, atomically with respect to event ordering. The incoming
// lot's price derives from the outgoing asset's pooled average scaled by the
// swap ratio, regardless of the configured method, so the exchange is
// value-neutral; no tax record is produced.
func (e *Engine) processSwap(led *ledger.Ledger, out, in domain.Transaction) error {
	eligible := led.EligibleBefore(out.Asset, dayStart(out.Timestamp))

	available := decimal.Zero
	for _, lot := range eligible {
		available = available.Add(lot.Units)
	}
	if available.LessThan(out.Units) {
		return &domain.InsufficientBalanceError{
			Asset:     out.Asset,
			Date:      out.Timestamp,
			Requested: out.Units,
			Available: available,
		}
	}

	averagePrice := strategy.PooledAveragePrice(eligible)
	derivedPrice := averagePrice.Mul(out.Units).Div(in.Units)

	// Physical depletion follows the configured method at the implied fair
	// unit price; the realized outcome is discarded
	if _, err := e.strategy.Deplete(eligible, out.Units, averagePrice); err != nil {
		return fmt.Errorf("swap of %s %s on %s: %w", out.Units.String(), out.Asset, out.Timestamp.Format("2006-01-02"), err)
	}
	led.RemoveExhausted(out.Asset)

	led.Insert(domain.NewLot(in.Asset, in.Units, derivedPrice, e.cfg.BaseCurrency, in.Timestamp))

	e.log.Info("processed swap",
		"assetOut", out.Asset,
		"unitsOut", out.Units.String(),
		"assetIn", in.Asset,
		"unitsIn", in.Units.String(),
		"derivedUnitPrice", derivedPrice.StringFixed(2),
		"date", out.Timestamp)

	return nil
}

// miningReceipt produces the tax record for mined units: the full receipt
// value is gain, since the cost basis at receipt is zero
func (e *Engine) miningReceipt(tx domain.Transaction) *domain.TaxRecord {
	gain := tx.UnitPrice.Mul(tx.Units)
	taxes := e.taxOn(gain)

	e.log.Info("processed mining receipt",
		"asset", tx.Asset,
		"units", tx.Units.String(),
		"value", gain.StringFixed(2),
		"date", tx.Timestamp)

	return &domain.TaxRecord{
		ID:               uuid.New(),
		Date:             tx.Timestamp,
		Asset:            tx.Asset,
		Units:            tx.Units,
		UnitPrice:        tx.UnitPrice,
		Currency:         tx.Currency,
		CapitalGain:      gain,
		Taxes:            taxes,
		NetProfit:        gain.Sub(taxes),
		AverageUnitPrice: tx.UnitPrice,
	}
}

// taxOn applies the configured rate to positive gains only
func (e *Engine) taxOn(gain decimal.Decimal) decimal.Decimal {
	if gain.GreaterThan(decimal.Zero) {
		return gain.Mul(e.cfg.TaxRate)
	}
	return decimal.Zero
}

// dayStart truncates a timestamp to midnight. Eligibility cutoffs use day
// granularity, so an intra-day acquisition never funds a disposal later the
// same day.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
