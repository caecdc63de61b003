package entities

import "time"

// WagerStatus represents the lifecycle state of a wager
type WagerStatus string

const (
	WagerStatusPending WagerStatus = "pending"
	WagerStatusWin     WagerStatus = "win"
	WagerStatusLose    WagerStatus = "lose"
)

// Wager is a single number-and-stake obligation belonging to one player for
// one draw. Created pending at placement, transitioned exactly once by the
// settlement sweep, immutable afterwards. Unpaid marks a win whose credit
// failed and awaits reconciliation.
type Wager struct {
	ID         string      `db:"id"`
	AccountID  string      `db:"account_id"`
	Number     string      `db:"number"`
	Stake      int64       `db:"stake"`
	DrawDate   time.Time   `db:"draw_date"`
	Session    Session     `db:"session"`
	Status     WagerStatus `db:"status"`
	Unpaid     bool        `db:"unpaid"`
	CreatedAt  time.Time   `db:"created_at"`
	ResolvedAt *time.Time  `db:"resolved_at"`
}

// IsWinner checks if this wager matches the winning number
func (w *Wager) IsWinner(winningNumber string) bool {
	return w.Number == winningNumber
}

// IsResolved returns true once the settlement sweep has processed the wager
func (w *Wager) IsResolved() bool {
	return w.Status != WagerStatusPending
}

// Payout returns the credit owed for a winning wager at the given multiplier
func (w *Wager) Payout(multiplier int64) int64 {
	return w.Stake * multiplier
}

// DrawDay normalizes a timestamp to the civil date of its draw
func DrawDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
