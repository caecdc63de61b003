package application

import (
	"context"
	"time"

	"huay/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// ReconciliationWorker periodically re-attempts the compensating credit for
// wagers flagged win-unpaid, so a transient conflict during a settlement
// sweep never strands a winner without their payout.
type ReconciliationWorker struct {
	settlementService interfaces.SettlementService
	interval          time.Duration
}

// NewReconciliationWorker creates a new reconciliation worker
func NewReconciliationWorker(settlementService interfaces.SettlementService, interval time.Duration) *ReconciliationWorker {
	return &ReconciliationWorker{
		settlementService: settlementService,
		interval:          interval,
	}
}

// Start begins the worker and returns a stop function
func (w *ReconciliationWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithField("interval", w.interval).Info("Reconciliation worker started")
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Reconciliation worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Reconciliation worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

func (w *ReconciliationWorker) runOnce(ctx context.Context) {
	paid, err := w.settlementService.RetryUnpaidWins(ctx)
	if err != nil {
		log.WithError(err).Error("Unpaid win reconciliation failed")
		return
	}
	if paid > 0 {
		log.WithField("paid", paid).Info("Reconciled unpaid win credits")
	}
}
