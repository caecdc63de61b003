package interfaces

import (
	"context"
	"time"

	"huay/domain/entities"
	"huay/domain/events"
)

// AccountRepository defines the interface for account data access.
// CompareAndSetBalance is the only balance write: it succeeds only if the
// stored version still matches what the caller read, bumping the version on
// success, and returns entities.ErrConcurrencyConflict otherwise.
type AccountRepository interface {
	// GetByID retrieves an account by its handle, nil if absent
	GetByID(ctx context.Context, id string) (*entities.Account, error)

	// Create creates a new account with the initial balance
	Create(ctx context.Context, id string, isAdmin bool, initialBalance int64) (*entities.Account, error)

	// CompareAndSetBalance conditionally writes a new balance
	CompareAndSetBalance(ctx context.Context, id string, newBalance, expectedVersion int64) error
}

// WagerRepository defines the interface for wager data access
type WagerRepository interface {
	// CreateBatch persists a set of pending wagers
	CreateBatch(ctx context.Context, wagers []*entities.Wager) error

	// GetByID retrieves a wager by its ID, nil if absent
	GetByID(ctx context.Context, id string) (*entities.Wager, error)

	// ListPendingForDraw returns all pending wagers for a (date, session)
	ListPendingForDraw(ctx context.Context, drawDate time.Time, session entities.Session) ([]*entities.Wager, error)

	// ListByDrawDate returns all wagers for a date, optionally filtered by owner
	// (empty accountID means all owners). Order is unspecified.
	ListByDrawDate(ctx context.Context, drawDate time.Time, accountID string) ([]*entities.Wager, error)

	// ResolvePending transitions a wager from pending to the given status.
	// Returns false if the wager was no longer pending, so concurrent sweeps
	// race safely on the status write.
	ResolvePending(ctx context.Context, id string, status entities.WagerStatus) (bool, error)

	// SetUnpaid flags or clears the win-unpaid reconciliation marker
	SetUnpaid(ctx context.Context, id string, unpaid bool) error

	// ClearUnpaid conditionally clears the win-unpaid marker. Returns false
	// if the wager was not flagged, so concurrent reconcilers race safely on
	// the compensating credit.
	ClearUnpaid(ctx context.Context, id string) (bool, error)

	// ListUnpaidWins returns resolved wins whose credit has not been applied
	ListUnpaidWins(ctx context.Context) ([]*entities.Wager, error)
}

// DrawResultRepository defines the interface for draw result data access
type DrawResultRepository interface {
	// Create records a draw result. The first publication for a
	// (date, session) wins; later publications are no-ops.
	Create(ctx context.Context, result *entities.DrawResult) error

	// GetByDraw retrieves the result for a (date, session), nil if absent
	GetByDraw(ctx context.Context, drawDate time.Time, session entities.Session) (*entities.DrawResult, error)

	// ListRecent returns up to limit results. Order is unspecified.
	ListRecent(ctx context.Context, limit int) ([]*entities.DrawResult, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByAccount returns balance history for a specific account
	GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.BalanceHistory, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}
