package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lotfolio/lotfolio-backend/internal/domain"
)

// Ledger holds the open lots of every asset, indexed by asset symbol.
// Lots are kept in insertion order; each depletion strategy imposes its own
// working order at read time, never persisted back. The ledger is exclusively
// owned by the single event-processing loop for the duration of a run, so no
// locking is needed.
type Ledger struct {
	byAsset map[string][]*domain.Lot
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{
		byAsset: make(map[string][]*domain.Lot),
	}
}

// Insert adds an open lot to the ledger
func (l *Ledger) Insert(lot *domain.Lot) {
	l.byAsset[lot.Asset] = append(l.byAsset[lot.Asset], lot)
}

// EligibleBefore returns the asset's open lots acquired strictly before the
// cutoff, in insertion order. The cutoff is strict so that same-day
// acquisitions never fund a same-day disposal. The returned lots alias
// ledger-owned state: depleting them mutates the ledger.
func (l *Ledger) EligibleBefore(asset string, cutoff time.Time) []*domain.Lot {
	var eligible []*domain.Lot
	for _, lot := range l.byAsset[asset] {
		if lot.AcquiredAt.Before(cutoff) {
			eligible = append(eligible, lot)
		}
	}
	return eligible
}

// UnitsBefore returns the total open units of an asset acquired strictly
// before the cutoff
func (l *Ledger) UnitsBefore(asset string, cutoff time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.EligibleBefore(asset, cutoff) {
		total = total.Add(lot.Units)
	}
	return total
}

// RemoveExhausted drops the asset's lots whose units reached zero (or fell
// below, guarded against upstream), keeping fractional remainders open
func (l *Ledger) RemoveExhausted(asset string) {
	lots := l.byAsset[asset]
	kept := lots[:0]
	for _, lot := range lots {
		if lot.Units.GreaterThan(decimal.Zero) {
			kept = append(kept, lot)
		}
	}
	if len(kept) == 0 {
		delete(l.byAsset, asset)
		return
	}
	l.byAsset[asset] = kept
}

// LotsOnOrBefore returns every open lot acquired on or before the given date,
// across all assets, ordered by acquisition date (ties broken by asset, then
// insertion order) so snapshots are deterministic.
func (l *Ledger) LotsOnOrBefore(date time.Time) []*domain.Lot {
	assets := make([]string, 0, len(l.byAsset))
	for asset := range l.byAsset {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	var lots []*domain.Lot
	for _, asset := range assets {
		for _, lot := range l.byAsset[asset] {
			if !lot.AcquiredAt.After(date) {
				lots = append(lots, lot)
			}
		}
	}

	sort.SliceStable(lots, func(i, j int) bool {
		return lots[i].AcquiredAt.Before(lots[j].AcquiredAt)
	})
	return lots
}

// OpenLots returns every open lot across all assets, ordered like LotsOnOrBefore
func (l *Ledger) OpenLots() []*domain.Lot {
	var latest time.Time
	for _, lots := range l.byAsset {
		for _, lot := range lots {
			if lot.AcquiredAt.After(latest) {
				latest = lot.AcquiredAt
			}
		}
	}
	return l.LotsOnOrBefore(latest)
}
