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

// DrawResultRepository implements draw result data access over postgres
type DrawResultRepository struct {
	q Queryable
}

// NewDrawResultRepository creates a new draw result repository
func NewDrawResultRepository(db *database.DB) *DrawResultRepository {
	return &DrawResultRepository{q: db.Pool}
}

// Create records a draw result. Results are append-only keyed by
// (date, session); re-publishing the same session is a no-op.
func (r *DrawResultRepository) Create(ctx context.Context, result *entities.DrawResult) error {
	query := `
		INSERT INTO draw_results (draw_date, session, winning_number, multiplier, published_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (draw_date, session) DO NOTHING
	`

	_, err := r.q.Exec(ctx, query,
		result.DrawDate,
		result.Session,
		result.WinningNumber,
		result.Multiplier,
		result.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create draw result: %w", err)
	}
	return nil
}

// GetByDraw retrieves the result for a (date, session)
func (r *DrawResultRepository) GetByDraw(ctx context.Context, drawDate time.Time, session entities.Session) (*entities.DrawResult, error) {
	query := `
		SELECT draw_date, session, winning_number, multiplier, published_at
		FROM draw_results
		WHERE draw_date = $1 AND session = $2
	`

	var result entities.DrawResult
	err := r.q.QueryRow(ctx, query, drawDate, session).Scan(
		&result.DrawDate,
		&result.Session,
		&result.WinningNumber,
		&result.Multiplier,
		&result.PublishedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw result: %w", err)
	}
	return &result, nil
}

// ListRecent returns up to limit results
func (r *DrawResultRepository) ListRecent(ctx context.Context, limit int) ([]*entities.DrawResult, error) {
	query := `
		SELECT draw_date, session, winning_number, multiplier, published_at
		FROM draw_results
		ORDER BY published_at DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list draw results: %w", err)
	}
	defer rows.Close()

	var results []*entities.DrawResult
	for rows.Next() {
		var result entities.DrawResult
		err := rows.Scan(
			&result.DrawDate,
			&result.Session,
			&result.WinningNumber,
			&result.Multiplier,
			&result.PublishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw result: %w", err)
		}
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draw results: %w", err)
	}
	return results, nil
}

var _ interfaces.DrawResultRepository = (*DrawResultRepository)(nil)
