package services

import (
	"context"
	"testing"

	"huay/domain/entities"
	"huay/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_Adjust_Debit(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(testhelpers.MockAccountRepository)
	ledger := NewLedgerService(mockAccountRepo)

	account := &entities.Account{ID: "alice", Balance: 10000, Version: 5}
	mockAccountRepo.On("GetByID", ctx, "alice").Return(account, nil)
	mockAccountRepo.On("CompareAndSetBalance", ctx, "alice", int64(9000), int64(5)).Return(nil)

	newBalance, err := ledger.Adjust(ctx, "alice", -1000)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), newBalance)

	mockAccountRepo.AssertExpectations(t)
}

func TestLedgerService_Adjust_AccountNotFound(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(testhelpers.MockAccountRepository)
	ledger := NewLedgerService(mockAccountRepo)

	mockAccountRepo.On("GetByID", ctx, "ghost").Return(nil, nil)

	_, err := ledger.Adjust(ctx, "ghost", 100)
	assert.ErrorIs(t, err, entities.ErrAccountNotFound)
}

func TestLedgerService_Adjust_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(testhelpers.MockAccountRepository)
	ledger := NewLedgerService(mockAccountRepo)

	account := &entities.Account{ID: "alice", Balance: 500, Version: 1}
	mockAccountRepo.On("GetByID", ctx, "alice").Return(account, nil)

	_, err := ledger.Adjust(ctx, "alice", -501)
	assert.ErrorIs(t, err, entities.ErrInsufficientFunds)

	// No write was attempted
	mockAccountRepo.AssertNotCalled(t, "CompareAndSetBalance")
}

func TestLedgerService_Adjust_DebitToExactlyZero(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(testhelpers.MockAccountRepository)
	ledger := NewLedgerService(mockAccountRepo)

	account := &entities.Account{ID: "alice", Balance: 500, Version: 1}
	mockAccountRepo.On("GetByID", ctx, "alice").Return(account, nil)
	mockAccountRepo.On("CompareAndSetBalance", ctx, "alice", int64(0), int64(1)).Return(nil)

	newBalance, err := ledger.Adjust(ctx, "alice", -500)
	require.NoError(t, err)
	assert.Equal(t, int64(0), newBalance)
}

func TestLedgerService_Adjust_RetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(testhelpers.MockAccountRepository)
	ledger := NewLedgerService(mockAccountRepo)

	// First read sees version 5, the write loses the race. The second read
	// sees the new state and its write lands.
	stale := &entities.Account{ID: "alice", Balance: 10000, Version: 5}
	fresh := &entities.Account{ID: "alice", Balance: 9500, Version: 6}

	mockAccountRepo.On("GetByID", ctx, "alice").Return(stale, nil).Once()
	mockAccountRepo.On("CompareAndSetBalance", ctx, "alice", int64(9000), int64(5)).Return(entities.ErrConcurrencyConflict).Once()
	mockAccountRepo.On("GetByID", ctx, "alice").Return(fresh, nil).Once()
	mockAccountRepo.On("CompareAndSetBalance", ctx, "alice", int64(8500), int64(6)).Return(nil).Once()

	newBalance, err := ledger.Adjust(ctx, "alice", -1000)
	require.NoError(t, err)
	assert.Equal(t, int64(8500), newBalance)

	mockAccountRepo.AssertExpectations(t)
}

func TestLedgerService_Adjust_SurfacesConflictAfterRetries(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(testhelpers.MockAccountRepository)
	ledger := NewLedgerService(mockAccountRepo)

	account := &entities.Account{ID: "alice", Balance: 10000, Version: 5}
	mockAccountRepo.On("GetByID", ctx, "alice").Return(account, nil)
	mockAccountRepo.On("CompareAndSetBalance", ctx, "alice", int64(9000), int64(5)).Return(entities.ErrConcurrencyConflict)

	_, err := ledger.Adjust(ctx, "alice", -1000)
	assert.ErrorIs(t, err, entities.ErrConcurrencyConflict)

	mockAccountRepo.AssertNumberOfCalls(t, "CompareAndSetBalance", maxBalanceRetries)
}
