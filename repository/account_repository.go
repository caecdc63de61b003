package repository

import (
	"context"
	"fmt"

	"huay/database"
	"huay/domain/entities"
	"huay/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements account data access over postgres. The balance
// write is a conditional update on the version column: the row's version must
// still match what the caller read, which gives per-account compare-and-swap
// without any locking.
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// GetByID retrieves an account by its handle
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	query := `
		SELECT id, balance, is_admin, version, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var account entities.Account
	err := r.q.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Balance,
		&account.IsAdmin,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}

	return &account, nil
}

// Create creates a new account with the initial balance
func (r *AccountRepository) Create(ctx context.Context, id string, isAdmin bool, initialBalance int64) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (id, balance, is_admin)
		VALUES ($1, $2, $3)
		RETURNING version, created_at, updated_at
	`

	account := &entities.Account{
		ID:      id,
		Balance: initialBalance,
		IsAdmin: isAdmin,
	}
	err := r.q.QueryRow(ctx, query, id, initialBalance, isAdmin).Scan(
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", id, err)
	}

	return account, nil
}

// CompareAndSetBalance conditionally writes a new balance. The write commits
// only when the stored version still equals expectedVersion; otherwise the
// caller lost a race and gets ErrConcurrencyConflict.
func (r *AccountRepository) CompareAndSetBalance(ctx context.Context, id string, newBalance, expectedVersion int64) error {
	query := `
		UPDATE accounts
		SET balance = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $3
	`

	result, err := r.q.Exec(ctx, query, id, newBalance, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return entities.ErrConcurrencyConflict
	}
	return nil
}

var _ interfaces.AccountRepository = (*AccountRepository)(nil)
