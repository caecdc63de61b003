package services

import (
	"context"
	"errors"
	"fmt"

	"huay/domain/entities"
	"huay/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	// maxBalanceRetries bounds how often a lost optimistic write is retried
	// before the conflict is surfaced to the caller
	maxBalanceRetries = 3
)

// ledgerService implements the optimistic read-check-write protocol over the
// account repository. All debits and credits in the system go through Adjust.
type ledgerService struct {
	accountRepo interfaces.AccountRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(accountRepo interfaces.AccountRepository) interfaces.Ledger {
	return &ledgerService{accountRepo: accountRepo}
}

// Adjust applies a delta to an account balance. A negative delta that would
// take the balance below zero fails with ErrInsufficientFunds before any
// write. The conditional write races only against other writers of the same
// account; on a lost race the read-check-write cycle is repeated up to
// maxBalanceRetries times.
func (s *ledgerService) Adjust(ctx context.Context, accountID string, delta int64) (int64, error) {
	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		account, err := s.accountRepo.GetByID(ctx, accountID)
		if err != nil {
			return 0, fmt.Errorf("failed to get account %s: %w", accountID, err)
		}
		if account == nil {
			return 0, entities.ErrAccountNotFound
		}

		newBalance := account.CalculateNewBalance(delta)
		if newBalance < 0 {
			return 0, entities.ErrInsufficientFunds
		}

		err = s.accountRepo.CompareAndSetBalance(ctx, accountID, newBalance, account.Version)
		if err == nil {
			return newBalance, nil
		}
		if !errors.Is(err, entities.ErrConcurrencyConflict) {
			return 0, fmt.Errorf("failed to write balance for account %s: %w", accountID, err)
		}

		log.WithFields(log.Fields{
			"accountID": accountID,
			"delta":     delta,
			"attempt":   attempt + 1,
		}).Debug("Balance write lost a race, retrying")
	}

	return 0, entities.ErrConcurrencyConflict
}
