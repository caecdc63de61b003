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

	log "github.com/sirupsen/logrus"
)

// settlementService implements the operator side of the core: publishing a
// draw result and sweeping all pending wagers for that draw.
type settlementService struct {
	ledger             interfaces.Ledger
	wagerRepo          interfaces.WagerRepository
	drawResultRepo     interfaces.DrawResultRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	ledger interfaces.Ledger,
	wagerRepo interfaces.WagerRepository,
	drawResultRepo interfaces.DrawResultRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.SettlementService {
	return &settlementService{
		ledger:             ledger,
		wagerRepo:          wagerRepo,
		drawResultRepo:     drawResultRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
	}
}

// SettleDraw records the winning number and resolves every pending wager for
// the draw. Each wager is an independent commit: the conditional pending→win
// or pending→lose status write, then for wins the compensating credit. The
// pending-only enumeration is the idempotency guard: re-running the sweep
// finds nothing left to resolve and pays nothing further.
//
// When a win's credit fails after the ledger's bounded retries the wager is
// flagged unpaid for reconciliation and the sweep continues; the partial
// result is returned alongside a PartialPersistenceError.
func (s *settlementService) SettleDraw(ctx context.Context, drawDate time.Time, session entities.Session, winningNumber string, multiplier int64) (*interfaces.SettlementResult, error) {
	if !entities.IsTwoDigitNumber(winningNumber) {
		return nil, &entities.ValidationError{Reason: fmt.Sprintf("winning number must be two digits, got %q", winningNumber)}
	}
	if !session.IsValid() {
		return nil, &entities.ValidationError{Reason: fmt.Sprintf("unknown session %q", session)}
	}
	if multiplier <= 0 {
		return nil, &entities.ValidationError{Reason: fmt.Sprintf("multiplier must be positive, got %d", multiplier)}
	}

	drawDate = entities.DrawDay(drawDate)
	result := &entities.DrawResult{
		DrawDate:      drawDate,
		Session:       session,
		WinningNumber: winningNumber,
		Multiplier:    multiplier,
		PublishedAt:   time.Now().UTC(),
	}
	if err := s.drawResultRepo.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to record draw result: %w", err)
	}

	pending, err := s.wagerRepo.ListPendingForDraw(ctx, drawDate, session)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending wagers: %w", err)
	}

	sweep := &interfaces.SettlementResult{
		DrawDate:      drawDate,
		Session:       session,
		WinningNumber: winningNumber,
	}

	for _, wager := range pending {
		status := entities.WagerStatusLose
		if wager.IsWinner(winningNumber) {
			status = entities.WagerStatusWin
		}

		resolved, err := s.wagerRepo.ResolvePending(ctx, wager.ID, status)
		if err != nil {
			log.WithError(err).WithField("wagerID", wager.ID).Error("Failed to resolve wager, skipping")
			continue
		}
		if !resolved {
			// Another sweep got here first
			continue
		}
		sweep.ResolvedCount++

		if status != entities.WagerStatusWin {
			continue
		}

		if err := s.creditWin(ctx, wager, multiplier); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"wagerID":   wager.ID,
				"accountID": wager.AccountID,
				"payout":    wager.Payout(multiplier),
			}).Error("Win credit failed, flagging wager unpaid")
			if flagErr := s.wagerRepo.SetUnpaid(ctx, wager.ID, true); flagErr != nil {
				log.WithError(flagErr).WithField("wagerID", wager.ID).Error("Failed to flag wager unpaid")
			}
			sweep.UnpaidWagerIDs = append(sweep.UnpaidWagerIDs, wager.ID)
			continue
		}
		sweep.PaidCount++
	}

	settled := events.DrawSettledEvent{
		DrawDate:      drawDate.Format("2006-01-02"),
		Session:       session,
		WinningNumber: winningNumber,
		ResolvedCount: sweep.ResolvedCount,
		PaidCount:     sweep.PaidCount,
	}
	if err := s.eventPublisher.Publish(settled); err != nil {
		log.WithError(err).Error("Failed to publish draw settled event")
	}

	if len(sweep.UnpaidWagerIDs) > 0 {
		return sweep, &entities.PartialPersistenceError{Op: "settlement", WagerIDs: sweep.UnpaidWagerIDs}
	}
	return sweep, nil
}

// ListRecentResults returns published results, most recent first
func (s *settlementService) ListRecentResults(ctx context.Context, limit int) ([]*entities.DrawResult, error) {
	results, err := s.drawResultRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list draw results: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].PublishedAt.After(results[j].PublishedAt)
	})
	return results, nil
}

// RetryUnpaidWins re-attempts the compensating credit for every wager flagged
// win-unpaid, deriving the payout from the stored draw result. The conditional
// flag clear is the payout guard: the credit is attempted only after winning
// the unpaid→paid transition, so a wager is never credited twice. A credit
// failure after a won transition restores the flag for the next pass.
func (s *settlementService) RetryUnpaidWins(ctx context.Context) (int, error) {
	unpaid, err := s.wagerRepo.ListUnpaidWins(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list unpaid wins: %w", err)
	}

	paid := 0
	for _, wager := range unpaid {
		result, err := s.drawResultRepo.GetByDraw(ctx, wager.DrawDate, wager.Session)
		if err != nil {
			log.WithError(err).WithField("wagerID", wager.ID).Error("Failed to load draw result for unpaid win")
			continue
		}
		if result == nil {
			log.WithField("wagerID", wager.ID).Error("Unpaid win has no published draw result")
			continue
		}

		cleared, err := s.wagerRepo.ClearUnpaid(ctx, wager.ID)
		if err != nil {
			log.WithError(err).WithField("wagerID", wager.ID).Error("Failed to claim unpaid win")
			continue
		}
		if !cleared {
			// Another reconciler got here first
			continue
		}

		if err := s.creditWin(ctx, wager, result.Multiplier); err != nil {
			log.WithError(err).WithField("wagerID", wager.ID).Warn("Unpaid win credit failed again, restoring flag")
			if flagErr := s.wagerRepo.SetUnpaid(ctx, wager.ID, true); flagErr != nil {
				log.WithError(flagErr).WithField("wagerID", wager.ID).Error("Failed to restore unpaid flag, wager needs manual reconciliation")
			}
			continue
		}
		paid++
	}

	return paid, nil
}

// creditWin applies the compensating credit for one winning wager and records
// the balance history for it
func (s *settlementService) creditWin(ctx context.Context, wager *entities.Wager, multiplier int64) error {
	payout := wager.Payout(multiplier)
	newBalance, err := s.ledger.Adjust(ctx, wager.AccountID, payout)
	if err != nil {
		return err
	}

	history := &entities.BalanceHistory{
		AccountID:       wager.AccountID,
		BalanceBefore:   newBalance - payout,
		BalanceAfter:    newBalance,
		ChangeAmount:    payout,
		TransactionType: entities.TransactionTypeBetWon,
		TransactionMetadata: map[string]any{
			"wager_id":   wager.ID,
			"number":     wager.Number,
			"draw_date":  wager.DrawDate.Format("2006-01-02"),
			"session":    string(wager.Session),
			"multiplier": multiplier,
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		// The credit itself committed; only the history row is missing
		log.WithError(err).WithField("wagerID", wager.ID).Error("Failed to record win balance history")
	}
	return nil
}
