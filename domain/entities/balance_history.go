package entities

import "time"

// TransactionType categorizes balance changes
type TransactionType string

const (
	TransactionTypeInitial   TransactionType = "initial"
	TransactionTypeBetPlaced TransactionType = "bet_placed"
	TransactionTypeBetWon    TransactionType = "bet_won"
	TransactionTypeTopUp     TransactionType = "top_up"
)

// BalanceHistory represents a single balance change record
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	AccountID           string          `db:"account_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}
