package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// All four error kinds are fatal: the run is a deterministic batch over
// immutable input, so any of them reflects bad input data or a logic defect
// and aborts the run instead of being retried.
var (
	// ErrInsufficientBalance signals a disposal requesting more units than
	// are held for the asset as of the cutoff date
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrUnsupportedMethod signals a configured method outside ACB/FIFO/LIFO/HIFO
	ErrUnsupportedMethod = errors.New("unsupported accounting method")

	// ErrUnreconciledDepletion signals that a depletion pass removed a total
	// that does not match the requested disposal quantity. It guards an
	// internal invariant and must never fire under a correct implementation.
	ErrUnreconciledDepletion = errors.New("depletion does not reconcile with requested units")

	// ErrUnknownTransactionKind signals a transaction type the normalizer
	// does not recognize
	ErrUnknownTransactionKind = errors.New("unknown transaction kind")
)

// InsufficientBalanceError carries enough context to diagnose the offending
// transaction: which asset, when, and requested vs. available units.
type InsufficientBalanceError struct {
	Asset     string
	Date      time.Time
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: requested %s units of %s on %s but only %s held",
		e.Requested.String(), e.Asset, e.Date.Format("2006-01-02"), e.Available.String())
}

// Unwrap allows errors.Is(err, ErrInsufficientBalance) checks
func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}
