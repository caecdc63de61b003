package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Domain error taxonomy. Validation and domain errors are returned as typed
// values to the caller; only storage faults unrelated to the domain propagate
// as wrapped infrastructure errors.
var (
	// ErrMarketClosed is returned when no betting session is open
	ErrMarketClosed = errors.New("market closed")

	// ErrInsufficientFunds is returned when a debit would make a balance negative
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrConcurrencyConflict is returned when an optimistic write lost a race
	// after the ledger's bounded retries
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrAccountNotFound is returned when an operation references an unknown account
	ErrAccountNotFound = errors.New("account not found")
)

// ValidationError reports malformed caller input: bad number format, unknown
// bet type, or a stake below the configured minimum. Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// PartialPersistenceError reports an inconsistency that requires manual
// reconciliation: a debit committed but one or more wager records failed to
// persist, or a win status was set but its credit failed after retries.
type PartialPersistenceError struct {
	Op       string
	WagerIDs []string
	Err      error
}

func (e *PartialPersistenceError) Error() string {
	msg := fmt.Sprintf("partial persistence during %s", e.Op)
	if len(e.WagerIDs) > 0 {
		msg += fmt.Sprintf(" (wagers %s)", strings.Join(e.WagerIDs, ", "))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PartialPersistenceError) Unwrap() error {
	return e.Err
}
