package entities

import "time"

// DrawResult is the published outcome of one draw, append-only keyed by
// (draw date, session). Re-publishing the same session never mutates the
// first record.
type DrawResult struct {
	DrawDate      time.Time `db:"draw_date"`
	Session       Session   `db:"session"`
	WinningNumber string    `db:"winning_number"`
	Multiplier    int64     `db:"multiplier"`
	PublishedAt   time.Time `db:"published_at"`
}
