package services

import (
	"context"
	"fmt"

	"huay/domain/entities"
	"huay/domain/interfaces"
	"huay/domain/utils"
)

// accountService implements registration and administrative credits
type accountService struct {
	startingBalance    int64
	accountRepo        interfaces.AccountRepository
	ledger             interfaces.Ledger
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
}

// NewAccountService creates a new account service
func NewAccountService(
	startingBalance int64,
	accountRepo interfaces.AccountRepository,
	ledger interfaces.Ledger,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.AccountService {
	return &accountService{
		startingBalance:    startingBalance,
		accountRepo:        accountRepo,
		ledger:             ledger,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
	}
}

// GetOrCreateAccount retrieves an account, registering it at the configured
// starting balance if absent
func (s *accountService) GetOrCreateAccount(ctx context.Context, accountID string) (*entities.Account, error) {
	if accountID == "" {
		return nil, &entities.ValidationError{Reason: "account id must not be empty"}
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	if account != nil {
		return account, nil
	}

	account, err = s.accountRepo.Create(ctx, accountID, false, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", accountID, err)
	}

	history := &entities.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   0,
		BalanceAfter:    s.startingBalance,
		ChangeAmount:    s.startingBalance,
		TransactionType: entities.TransactionTypeInitial,
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, fmt.Errorf("failed to record initial balance: %w", err)
	}

	return account, nil
}

// TopUp credits an account directly through the ledger, bypassing wager logic
func (s *accountService) TopUp(ctx context.Context, accountID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, &entities.ValidationError{Reason: fmt.Sprintf("top-up amount must be positive, got %d", amount)}
	}

	newBalance, err := s.ledger.Adjust(ctx, accountID, amount)
	if err != nil {
		return 0, err
	}

	history := &entities.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   newBalance - amount,
		BalanceAfter:    newBalance,
		ChangeAmount:    amount,
		TransactionType: entities.TransactionTypeTopUp,
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return 0, fmt.Errorf("failed to record top-up: %w", err)
	}

	return newBalance, nil
}
