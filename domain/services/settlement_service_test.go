package services

import (
	"context"
	"testing"
	"time"

	"huay/domain/entities"
	"huay/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type settlementMocks struct {
	ledger             *testhelpers.MockLedger
	wagerRepo          *testhelpers.MockWagerRepository
	drawResultRepo     *testhelpers.MockDrawResultRepository
	balanceHistoryRepo *testhelpers.MockBalanceHistoryRepository
	eventPublisher     *testhelpers.MockEventPublisher
}

func newSettlementMocks() *settlementMocks {
	return &settlementMocks{
		ledger:             new(testhelpers.MockLedger),
		wagerRepo:          new(testhelpers.MockWagerRepository),
		drawResultRepo:     new(testhelpers.MockDrawResultRepository),
		balanceHistoryRepo: new(testhelpers.MockBalanceHistoryRepository),
		eventPublisher:     new(testhelpers.MockEventPublisher),
	}
}

func (m *settlementMocks) service() *settlementService {
	return NewSettlementService(m.ledger, m.wagerRepo, m.drawResultRepo, m.balanceHistoryRepo, m.eventPublisher).(*settlementService)
}

var testDrawDate = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func TestSettlementService_SettleDraw_WinnersAndLosers(t *testing.T) {
	ctx := context.Background()
	mocks := newSettlementMocks()
	service := mocks.service()

	winner := &entities.Wager{ID: "w1", AccountID: "alice", Number: "73", Stake: 100, DrawDate: testDrawDate, Session: entities.SessionMorning, Status: entities.WagerStatusPending}
	loser := &entities.Wager{ID: "w2", AccountID: "bob", Number: "42", Stake: 200, DrawDate: testDrawDate, Session: entities.SessionMorning, Status: entities.WagerStatusPending}

	mocks.drawResultRepo.On("Create", ctx, mock.MatchedBy(func(r *entities.DrawResult) bool {
		return r.DrawDate.Equal(testDrawDate) && r.Session == entities.SessionMorning && r.WinningNumber == "73" && r.Multiplier == 80
	})).Return(nil)
	mocks.wagerRepo.On("ListPendingForDraw", ctx, testDrawDate, entities.SessionMorning).Return([]*entities.Wager{winner, loser}, nil)
	mocks.wagerRepo.On("ResolvePending", ctx, "w1", entities.WagerStatusWin).Return(true, nil)
	mocks.wagerRepo.On("ResolvePending", ctx, "w2", entities.WagerStatusLose).Return(true, nil)
	mocks.ledger.On("Adjust", ctx, "alice", int64(8000)).Return(int64(17000), nil)
	mocks.balanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.AccountID == "alice" &&
			h.ChangeAmount == 8000 &&
			h.TransactionType == entities.TransactionTypeBetWon
	})).Return(nil)
	mocks.eventPublisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)
	mocks.eventPublisher.On("Publish", mock.AnythingOfType("events.DrawSettledEvent")).Return(nil)

	result, err := service.SettleDraw(ctx, testDrawDate, entities.SessionMorning, "73", 80)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ResolvedCount)
	assert.Equal(t, 1, result.PaidCount)
	assert.Empty(t, result.UnpaidWagerIDs)

	mocks.wagerRepo.AssertExpectations(t)
	mocks.ledger.AssertExpectations(t)
	mocks.drawResultRepo.AssertExpectations(t)
}

func TestSettlementService_SettleDraw_SecondSweepFindsNothing(t *testing.T) {
	ctx := context.Background()
	mocks := newSettlementMocks()
	service := mocks.service()

	// Re-running after everything resolved: pending enumeration is empty,
	// so nothing is resolved or paid again
	mocks.drawResultRepo.On("Create", ctx, mock.Anything).Return(nil)
	mocks.wagerRepo.On("ListPendingForDraw", ctx, testDrawDate, entities.SessionMorning).Return([]*entities.Wager{}, nil)
	mocks.eventPublisher.On("Publish", mock.AnythingOfType("events.DrawSettledEvent")).Return(nil)

	result, err := service.SettleDraw(ctx, testDrawDate, entities.SessionMorning, "73", 80)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ResolvedCount)
	assert.Equal(t, 0, result.PaidCount)

	mocks.ledger.AssertNotCalled(t, "Adjust")
}

func TestSettlementService_SettleDraw_SkipsWagerLostToConcurrentSweep(t *testing.T) {
	ctx := context.Background()
	mocks := newSettlementMocks()
	service := mocks.service()

	winner := &entities.Wager{ID: "w1", AccountID: "alice", Number: "73", Stake: 100, DrawDate: testDrawDate, Session: entities.SessionMorning, Status: entities.WagerStatusPending}

	mocks.drawResultRepo.On("Create", ctx, mock.Anything).Return(nil)
	mocks.wagerRepo.On("ListPendingForDraw", ctx, testDrawDate, entities.SessionMorning).Return([]*entities.Wager{winner}, nil)
	// A concurrent sweep resolved this wager between the listing and the write
	mocks.wagerRepo.On("ResolvePending", ctx, "w1", entities.WagerStatusWin).Return(false, nil)
	mocks.eventPublisher.On("Publish", mock.AnythingOfType("events.DrawSettledEvent")).Return(nil)

	result, err := service.SettleDraw(ctx, testDrawDate, entities.SessionMorning, "73", 80)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ResolvedCount)
	assert.Equal(t, 0, result.PaidCount)

	// The skip prevents a double payout
	mocks.ledger.AssertNotCalled(t, "Adjust")
}

func TestSettlementService_SettleDraw_CreditFailureFlagsUnpaid(t *testing.T) {
	ctx := context.Background()
	mocks := newSettlementMocks()
	service := mocks.service()

	winner := &entities.Wager{ID: "w1", AccountID: "alice", Number: "73", Stake: 100, DrawDate: testDrawDate, Session: entities.SessionMorning, Status: entities.WagerStatusPending}
	other := &entities.Wager{ID: "w2", AccountID: "bob", Number: "73", Stake: 50, DrawDate: testDrawDate, Session: entities.SessionMorning, Status: entities.WagerStatusPending}

	mocks.drawResultRepo.On("Create", ctx, mock.Anything).Return(nil)
	mocks.wagerRepo.On("ListPendingForDraw", ctx, testDrawDate, entities.SessionMorning).Return([]*entities.Wager{winner, other}, nil)
	mocks.wagerRepo.On("ResolvePending", ctx, "w1", entities.WagerStatusWin).Return(true, nil)
	mocks.wagerRepo.On("ResolvePending", ctx, "w2", entities.WagerStatusWin).Return(true, nil)

	// alice's credit keeps losing races; bob's credit lands
	mocks.ledger.On("Adjust", ctx, "alice", int64(8000)).Return(int64(0), entities.ErrConcurrencyConflict)
	mocks.ledger.On("Adjust", ctx, "bob", int64(4000)).Return(int64(14000), nil)
	mocks.wagerRepo.On("SetUnpaid", ctx, "w1", true).Return(nil)
	mocks.balanceHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)
	mocks.eventPublisher.On("Publish", mock.Anything).Return(nil)

	result, err := service.SettleDraw(ctx, testDrawDate, entities.SessionMorning, "73", 80)

	// The sweep continued past the failure and reports the inconsistency
	var partialErr *entities.PartialPersistenceError
	require.ErrorAs(t, err, &partialErr)
	assert.Equal(t, "settlement", partialErr.Op)
	assert.Equal(t, []string{"w1"}, partialErr.WagerIDs)

	require.NotNil(t, result)
	assert.Equal(t, 2, result.ResolvedCount)
	assert.Equal(t, 1, result.PaidCount)
	assert.Equal(t, []string{"w1"}, result.UnpaidWagerIDs)

	mocks.wagerRepo.AssertExpectations(t)
}

func TestSettlementService_SettleDraw_Validation(t *testing.T) {
	ctx := context.Background()
	mocks := newSettlementMocks()
	service := mocks.service()

	var validationErr *entities.ValidationError

	_, err := service.SettleDraw(ctx, testDrawDate, entities.SessionMorning, "7", 80)
	assert.ErrorAs(t, err, &validationErr)

	_, err = service.SettleDraw(ctx, testDrawDate, entities.Session("noon"), "73", 80)
	assert.ErrorAs(t, err, &validationErr)

	_, err = service.SettleDraw(ctx, testDrawDate, entities.SessionMorning, "73", 0)
	assert.ErrorAs(t, err, &validationErr)

	mocks.drawResultRepo.AssertNotCalled(t, "Create")
}

func TestSettlementService_RetryUnpaidWins(t *testing.T) {
	ctx := context.Background()
	mocks := newSettlementMocks()
	service := mocks.service()

	unpaid := &entities.Wager{ID: "w1", AccountID: "alice", Number: "73", Stake: 100, DrawDate: testDrawDate, Session: entities.SessionMorning, Status: entities.WagerStatusWin, Unpaid: true}
	result := &entities.DrawResult{DrawDate: testDrawDate, Session: entities.SessionMorning, WinningNumber: "73", Multiplier: 80}

	mocks.wagerRepo.On("ListUnpaidWins", ctx).Return([]*entities.Wager{unpaid}, nil)
	mocks.drawResultRepo.On("GetByDraw", ctx, testDrawDate, entities.SessionMorning).Return(result, nil)
	mocks.wagerRepo.On("ClearUnpaid", ctx, "w1").Return(true, nil)
	mocks.ledger.On("Adjust", ctx, "alice", int64(8000)).Return(int64(17000), nil)
	mocks.balanceHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)
	mocks.eventPublisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)

	paid, err := service.RetryUnpaidWins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, paid)

	mocks.wagerRepo.AssertExpectations(t)
	mocks.ledger.AssertExpectations(t)
}

func TestSettlementService_RetryUnpaidWins_LostFlagClaimSkipsCredit(t *testing.T) {
	ctx := context.Background()
	mocks := newSettlementMocks()
	service := mocks.service()

	unpaid := &entities.Wager{ID: "w1", AccountID: "alice", Number: "73", Stake: 100, DrawDate: testDrawDate, Session: entities.SessionMorning, Status: entities.WagerStatusWin, Unpaid: true}
	result := &entities.DrawResult{DrawDate: testDrawDate, Session: entities.SessionMorning, WinningNumber: "73", Multiplier: 80}

	mocks.wagerRepo.On("ListUnpaidWins", ctx).Return([]*entities.Wager{unpaid}, nil)
	mocks.drawResultRepo.On("GetByDraw", ctx, testDrawDate, entities.SessionMorning).Return(result, nil)
	// Another reconciler claimed the flag between the listing and the clear
	mocks.wagerRepo.On("ClearUnpaid", ctx, "w1").Return(false, nil)

	paid, err := service.RetryUnpaidWins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, paid)

	// The lost claim prevents a second payout for the same wager
	mocks.ledger.AssertNotCalled(t, "Adjust")
}

func TestSettlementService_RetryUnpaidWins_CreditFailsAgain(t *testing.T) {
	ctx := context.Background()
	mocks := newSettlementMocks()
	service := mocks.service()

	unpaid := &entities.Wager{ID: "w1", AccountID: "alice", Number: "73", Stake: 100, DrawDate: testDrawDate, Session: entities.SessionMorning, Status: entities.WagerStatusWin, Unpaid: true}
	result := &entities.DrawResult{DrawDate: testDrawDate, Session: entities.SessionMorning, WinningNumber: "73", Multiplier: 80}

	mocks.wagerRepo.On("ListUnpaidWins", ctx).Return([]*entities.Wager{unpaid}, nil)
	mocks.drawResultRepo.On("GetByDraw", ctx, testDrawDate, entities.SessionMorning).Return(result, nil)
	mocks.wagerRepo.On("ClearUnpaid", ctx, "w1").Return(true, nil)
	mocks.ledger.On("Adjust", ctx, "alice", int64(8000)).Return(int64(0), entities.ErrConcurrencyConflict)
	// The claimed flag is restored so the next pass retries the credit
	mocks.wagerRepo.On("SetUnpaid", ctx, "w1", true).Return(nil)

	paid, err := service.RetryUnpaidWins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, paid)

	mocks.wagerRepo.AssertExpectations(t)
}
