package interfaces

import (
	"context"
	"time"

	"huay/domain/entities"
)

// Ledger is the single contract for all balance mutations. Adjust reads the
// account, rejects a debit that would go negative, and performs a conditional
// write, retrying a bounded number of times on write races before surfacing
// entities.ErrConcurrencyConflict.
type Ledger interface {
	Adjust(ctx context.Context, accountID string, delta int64) (int64, error)
}

// PlacementResult is the outcome of a successful placement transaction
type PlacementResult struct {
	Wagers     []*entities.Wager
	TotalCost  int64
	NewBalance int64
	DrawDate   time.Time
	Session    entities.Session
}

// SettlementResult is the outcome of a settlement sweep
type SettlementResult struct {
	DrawDate       time.Time
	Session        entities.Session
	WinningNumber  string
	ResolvedCount  int
	PaidCount      int
	UnpaidWagerIDs []string
}

// BettingService exposes the placement side of the core
type BettingService interface {
	// PlaceBet expands a bet selection, debits the total stake and persists
	// one pending wager per expanded number
	PlaceBet(ctx context.Context, accountID string, betType entities.BetType, rawNumber string, stakePerNumber int64, now time.Time) (*PlacementResult, error)

	// ListWagers returns wagers for a draw date, newest first. Empty accountID
	// means all owners.
	ListWagers(ctx context.Context, drawDate time.Time, accountID string) ([]*entities.Wager, error)
}

// SettlementService exposes the operator side of the core
type SettlementService interface {
	// SettleDraw publishes a winning number and sweeps all pending wagers for
	// the draw, crediting winners
	SettleDraw(ctx context.Context, drawDate time.Time, session entities.Session, winningNumber string, multiplier int64) (*SettlementResult, error)

	// ListRecentResults returns published results, most recent first
	ListRecentResults(ctx context.Context, limit int) ([]*entities.DrawResult, error)

	// RetryUnpaidWins re-attempts the compensating credit for wagers flagged
	// win-unpaid, returning how many were paid
	RetryUnpaidWins(ctx context.Context) (int, error)
}

// AccountService exposes registration and administrative credits
type AccountService interface {
	// GetOrCreateAccount retrieves an account, registering it at the
	// configured starting balance if absent
	GetOrCreateAccount(ctx context.Context, accountID string) (*entities.Account, error)

	// TopUp credits an account directly through the ledger
	TopUp(ctx context.Context, accountID string, amount int64) (int64, error)
}
