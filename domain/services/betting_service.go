package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"huay/domain/entities"
	"huay/domain/events"
	"huay/domain/interfaces"
	"huay/domain/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// bettingService implements the placement side of the core
type bettingService struct {
	schedule           *SessionSchedule
	minStake           int64
	ledger             interfaces.Ledger
	wagerRepo          interfaces.WagerRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
}

// NewBettingService creates a new betting service
func NewBettingService(
	schedule *SessionSchedule,
	minStake int64,
	ledger interfaces.Ledger,
	wagerRepo interfaces.WagerRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.BettingService {
	return &bettingService{
		schedule:           schedule,
		minStake:           minStake,
		ledger:             ledger,
		wagerRepo:          wagerRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
	}
}

// PlaceBet expands the bet selection, debits the total stake and persists one
// pending wager per expanded number. The debit and the wager records are
// separate commits: once the debit has been applied, a persistence failure is
// surfaced as a PartialPersistenceError rather than un-done, because reversing
// the debit could lose a concurrent update.
func (s *bettingService) PlaceBet(ctx context.Context, accountID string, betType entities.BetType, rawNumber string, stakePerNumber int64, now time.Time) (*interfaces.PlacementResult, error) {
	session, open := s.schedule.OpenSession(now)
	if !open {
		return nil, entities.ErrMarketClosed
	}

	if stakePerNumber < s.minStake {
		return nil, &entities.ValidationError{Reason: fmt.Sprintf("stake %d below minimum %d", stakePerNumber, s.minStake)}
	}

	numbers, err := entities.ExpandBet(betType, rawNumber)
	if err != nil {
		return nil, err
	}

	totalCost := stakePerNumber * int64(len(numbers))
	drawDate := s.schedule.DrawDate(now)

	newBalance, err := s.ledger.Adjust(ctx, accountID, -totalCost)
	if err != nil {
		return nil, err
	}

	// The debit is committed from here on; every failure below is a
	// reportable inconsistency, never silently swallowed.
	wagers := make([]*entities.Wager, 0, len(numbers))
	wagerIDs := make([]string, 0, len(numbers))
	for _, number := range numbers {
		wager := &entities.Wager{
			ID:        uuid.New().String(),
			AccountID: accountID,
			Number:    number,
			Stake:     stakePerNumber,
			DrawDate:  drawDate,
			Session:   session,
			Status:    entities.WagerStatusPending,
			CreatedAt: now,
		}
		wagers = append(wagers, wager)
		wagerIDs = append(wagerIDs, wager.ID)
	}

	history := &entities.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   newBalance + totalCost,
		BalanceAfter:    newBalance,
		ChangeAmount:    -totalCost,
		TransactionType: entities.TransactionTypeBetPlaced,
		TransactionMetadata: map[string]any{
			"bet_type":  string(betType),
			"draw_date": drawDate.Format("2006-01-02"),
			"session":   string(session),
			"stake":     stakePerNumber,
			"numbers":   numbers,
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, &entities.PartialPersistenceError{Op: "placement", WagerIDs: wagerIDs, Err: err}
	}

	if err := s.wagerRepo.CreateBatch(ctx, wagers); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"accountID": accountID,
			"totalCost": totalCost,
			"wagers":    len(wagers),
		}).Error("Debit committed but wager persistence failed")
		return nil, &entities.PartialPersistenceError{Op: "placement", WagerIDs: wagerIDs, Err: err}
	}

	placed := events.WagerPlacedEvent{
		AccountID:  accountID,
		BetType:    betType,
		WagerCount: len(wagers),
		TotalCost:  totalCost,
		DrawDate:   drawDate.Format("2006-01-02"),
		Session:    session,
	}
	if err := s.eventPublisher.Publish(placed); err != nil {
		log.WithError(err).Error("Failed to publish wager placed event")
	}

	return &interfaces.PlacementResult{
		Wagers:     wagers,
		TotalCost:  totalCost,
		NewBalance: newBalance,
		DrawDate:   drawDate,
		Session:    session,
	}, nil
}

// ListWagers returns wagers for a draw date sorted newest first. Storage
// order is unspecified, so the sort happens here.
func (s *bettingService) ListWagers(ctx context.Context, drawDate time.Time, accountID string) ([]*entities.Wager, error) {
	wagers, err := s.wagerRepo.ListByDrawDate(ctx, entities.DrawDay(drawDate), accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wagers: %w", err)
	}

	sort.Slice(wagers, func(i, j int) bool {
		return wagers[i].CreatedAt.After(wagers[j].CreatedAt)
	})
	return wagers, nil
}
