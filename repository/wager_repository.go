package repository

import (
	"context"
	"fmt"
	"time"

	"huay/database"
	"huay/domain/entities"
	"huay/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// WagerRepository implements wager data access over postgres
type WagerRepository struct {
	q Queryable
}

// NewWagerRepository creates a new wager repository
func NewWagerRepository(db *database.DB) *WagerRepository {
	return &WagerRepository{q: db.Pool}
}

const wagerColumns = `id, account_id, number, stake, draw_date, session, status, unpaid, created_at, resolved_at`

// CreateBatch persists a set of pending wagers
func (r *WagerRepository) CreateBatch(ctx context.Context, wagers []*entities.Wager) error {
	query := `
		INSERT INTO wagers (id, account_id, number, stake, draw_date, session, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, wager := range wagers {
		_, err := r.q.Exec(ctx, query,
			wager.ID,
			wager.AccountID,
			wager.Number,
			wager.Stake,
			wager.DrawDate,
			wager.Session,
			wager.Status,
			wager.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create wager %s: %w", wager.ID, err)
		}
	}
	return nil
}

// GetByID retrieves a wager by its ID
func (r *WagerRepository) GetByID(ctx context.Context, id string) (*entities.Wager, error) {
	query := `SELECT ` + wagerColumns + ` FROM wagers WHERE id = $1`

	wager, err := scanWager(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wager %s: %w", id, err)
	}
	return wager, nil
}

// ListPendingForDraw returns all pending wagers for a (date, session)
func (r *WagerRepository) ListPendingForDraw(ctx context.Context, drawDate time.Time, session entities.Session) ([]*entities.Wager, error) {
	query := `
		SELECT ` + wagerColumns + `
		FROM wagers
		WHERE draw_date = $1 AND session = $2 AND status = 'pending'
	`

	rows, err := r.q.Query(ctx, query, drawDate, session)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending wagers: %w", err)
	}
	defer rows.Close()

	return collectWagers(rows)
}

// ListByDrawDate returns all wagers for a date, optionally filtered by owner
func (r *WagerRepository) ListByDrawDate(ctx context.Context, drawDate time.Time, accountID string) ([]*entities.Wager, error) {
	query := `SELECT ` + wagerColumns + ` FROM wagers WHERE draw_date = $1`
	args := []any{drawDate}
	if accountID != "" {
		query += ` AND account_id = $2`
		args = append(args, accountID)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list wagers for %s: %w", drawDate.Format("2006-01-02"), err)
	}
	defer rows.Close()

	return collectWagers(rows)
}

// ResolvePending transitions a wager from pending to the given status. The
// conditional write makes the transition happen at most once across
// concurrent sweeps.
func (r *WagerRepository) ResolvePending(ctx context.Context, id string, status entities.WagerStatus) (bool, error) {
	query := `
		UPDATE wagers
		SET status = $2, resolved_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return false, fmt.Errorf("failed to resolve wager %s: %w", id, err)
	}
	return result.RowsAffected() == 1, nil
}

// SetUnpaid flags or clears the win-unpaid reconciliation marker
func (r *WagerRepository) SetUnpaid(ctx context.Context, id string, unpaid bool) error {
	query := `UPDATE wagers SET unpaid = $2 WHERE id = $1`

	result, err := r.q.Exec(ctx, query, id, unpaid)
	if err != nil {
		return fmt.Errorf("failed to set unpaid flag on wager %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("wager %s not found", id)
	}
	return nil
}

// ClearUnpaid conditionally clears the win-unpaid marker. The conditional
// write makes at most one reconciler the payer for a flagged wager.
func (r *WagerRepository) ClearUnpaid(ctx context.Context, id string) (bool, error) {
	query := `UPDATE wagers SET unpaid = FALSE WHERE id = $1 AND unpaid = TRUE`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to clear unpaid flag on wager %s: %w", id, err)
	}
	return result.RowsAffected() == 1, nil
}

// ListUnpaidWins returns resolved wins whose credit has not been applied
func (r *WagerRepository) ListUnpaidWins(ctx context.Context) ([]*entities.Wager, error) {
	query := `
		SELECT ` + wagerColumns + `
		FROM wagers
		WHERE status = 'win' AND unpaid = TRUE
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid wins: %w", err)
	}
	defer rows.Close()

	return collectWagers(rows)
}

func scanWager(row pgx.Row) (*entities.Wager, error) {
	var wager entities.Wager
	err := row.Scan(
		&wager.ID,
		&wager.AccountID,
		&wager.Number,
		&wager.Stake,
		&wager.DrawDate,
		&wager.Session,
		&wager.Status,
		&wager.Unpaid,
		&wager.CreatedAt,
		&wager.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wager, nil
}

func collectWagers(rows pgx.Rows) ([]*entities.Wager, error) {
	var wagers []*entities.Wager
	for rows.Next() {
		wager, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wager: %w", err)
		}
		wagers = append(wagers, wager)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wagers: %w", err)
	}
	return wagers, nil
}

var _ interfaces.WagerRepository = (*WagerRepository)(nil)
