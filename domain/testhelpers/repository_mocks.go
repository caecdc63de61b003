package testhelpers

import (
	"context"
	"time"

	"huay/domain/entities"
	"huay/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, id string, isAdmin bool, initialBalance int64) (*entities.Account, error) {
	args := m.Called(ctx, id, isAdmin, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) CompareAndSetBalance(ctx context.Context, id string, newBalance, expectedVersion int64) error {
	args := m.Called(ctx, id, newBalance, expectedVersion)
	return args.Error(0)
}

// MockWagerRepository is a mock implementation of WagerRepository
type MockWagerRepository struct {
	mock.Mock
}

func (m *MockWagerRepository) CreateBatch(ctx context.Context, wagers []*entities.Wager) error {
	args := m.Called(ctx, wagers)
	return args.Error(0)
}

func (m *MockWagerRepository) GetByID(ctx context.Context, id string) (*entities.Wager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wager), args.Error(1)
}

func (m *MockWagerRepository) ListPendingForDraw(ctx context.Context, drawDate time.Time, session entities.Session) ([]*entities.Wager, error) {
	args := m.Called(ctx, drawDate, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Wager), args.Error(1)
}

func (m *MockWagerRepository) ListByDrawDate(ctx context.Context, drawDate time.Time, accountID string) ([]*entities.Wager, error) {
	args := m.Called(ctx, drawDate, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Wager), args.Error(1)
}

func (m *MockWagerRepository) ResolvePending(ctx context.Context, id string, status entities.WagerStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockWagerRepository) SetUnpaid(ctx context.Context, id string, unpaid bool) error {
	args := m.Called(ctx, id, unpaid)
	return args.Error(0)
}

func (m *MockWagerRepository) ClearUnpaid(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockWagerRepository) ListUnpaidWins(ctx context.Context) ([]*entities.Wager, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Wager), args.Error(1)
}

// MockDrawResultRepository is a mock implementation of DrawResultRepository
type MockDrawResultRepository struct {
	mock.Mock
}

func (m *MockDrawResultRepository) Create(ctx context.Context, result *entities.DrawResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockDrawResultRepository) GetByDraw(ctx context.Context, drawDate time.Time, session entities.Session) (*entities.DrawResult, error) {
	args := m.Called(ctx, drawDate, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DrawResult), args.Error(1)
}

func (m *MockDrawResultRepository) ListRecent(ctx context.Context, limit int) ([]*entities.DrawResult, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.DrawResult), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockLedger is a mock implementation of the Ledger contract
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Adjust(ctx context.Context, accountID string, delta int64) (int64, error) {
	args := m.Called(ctx, accountID, delta)
	return args.Get(0).(int64), args.Error(1)
}
