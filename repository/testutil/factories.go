package testutil

import (
	"time"

	"huay/domain/entities"

	"github.com/google/uuid"
)

// CreateTestAccount creates a test account with default values
func CreateTestAccount(id string) *entities.Account {
	now := time.Now()
	return &entities.Account{
		ID:        id,
		Balance:   10000,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestAccountWithBalance creates a test account with a specific balance
func CreateTestAccountWithBalance(id string, balance int64) *entities.Account {
	account := CreateTestAccount(id)
	account.Balance = balance
	return account
}

// CreateTestWager creates a pending test wager with default values
func CreateTestWager(accountID, number string, drawDate time.Time, session entities.Session) *entities.Wager {
	return &entities.Wager{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Number:    number,
		Stake:     100,
		DrawDate:  drawDate,
		Session:   session,
		Status:    entities.WagerStatusPending,
		CreatedAt: time.Now(),
	}
}

// CreateTestWagerWithStake creates a pending test wager with a specific stake
func CreateTestWagerWithStake(accountID, number string, drawDate time.Time, session entities.Session, stake int64) *entities.Wager {
	wager := CreateTestWager(accountID, number, drawDate, session)
	wager.Stake = stake
	return wager
}

// CreateTestDrawResult creates a test draw result with default values
func CreateTestDrawResult(drawDate time.Time, session entities.Session, winningNumber string) *entities.DrawResult {
	return &entities.DrawResult{
		DrawDate:      drawDate,
		Session:       session,
		WinningNumber: winningNumber,
		Multiplier:    80,
		PublishedAt:   time.Now(),
	}
}

// CreateTestBalanceHistory creates a test balance history entry
func CreateTestBalanceHistory(accountID string, transactionType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   10000,
		BalanceAfter:    9900,
		ChangeAmount:    -100,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestBalanceHistoryWithAmounts creates a test balance history with specific amounts
func CreateTestBalanceHistoryWithAmounts(accountID string, before, after, change int64, transactionType entities.TransactionType) *entities.BalanceHistory {
	history := CreateTestBalanceHistory(accountID, transactionType)
	history.BalanceBefore = before
	history.BalanceAfter = after
	history.ChangeAmount = change
	return history
}
