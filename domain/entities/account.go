package entities

import "time"

// Account represents a registered participant's balance register.
// The balance is mutated only through the ledger's compare-and-swap protocol;
// Version is the optimistic concurrency token bumped on every write.
type Account struct {
	ID        string    `db:"id"`
	Balance   int64     `db:"balance"`
	IsAdmin   bool      `db:"is_admin"`
	Version   int64     `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanAfford checks if the account has sufficient balance for an amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// CalculateNewBalance calculates what the balance would be after a change
func (a *Account) CalculateNewBalance(changeAmount int64) int64 {
	return a.Balance + changeAmount
}
