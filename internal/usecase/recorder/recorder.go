package recorder

import (
	"time"

	"github.com/lotfolio/lotfolio-backend/internal/domain"
)

// Recorder accumulates the balance-evolution history: after every
// balance-affecting event it captures one entry per open lot, tagged with
// the triggering event's date. The history is append-only and is the sole
// input to downstream reporting.
type Recorder struct {
	history []domain.BalanceEntry
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Snapshot appends one entry per given lot, tagged with the event date
func (r *Recorder) Snapshot(eventDate time.Time, lots []*domain.Lot) {
	for _, lot := range lots {
		r.history = append(r.history, domain.BalanceEntry{
			Date:      eventDate,
			Asset:     lot.Asset,
			Units:     lot.Units,
			UnitPrice: lot.UnitPrice,
			Currency:  lot.Currency,
		})
	}
}

// History returns the accumulated entries in append order
func (r *Recorder) History() []domain.BalanceEntry {
	return r.history
}
