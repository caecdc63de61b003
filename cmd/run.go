package cmd

import (
	"context"
	"fmt"
	"time"

	"huay/application"
	"huay/config"
	"huay/database"
	"huay/domain/interfaces"
	"huay/domain/services"
	"huay/infrastructure"
	"huay/repository"
	"huay/repository/memory"

	log "github.com/sirupsen/logrus"
)

// App holds the wired service layer. Embedders use it to reach the
// betting, settlement and account operations directly.
type App struct {
	BettingService    interfaces.BettingService
	SettlementService interfaces.SettlementService
	AccountService    interfaces.AccountService

	db         *database.DB
	natsClient *infrastructure.NATSClient
	worker     *application.ReconciliationWorker
	stopWorker func()
}

// NewApp builds the full service stack from configuration: repositories
// (postgres or in-memory), event publisher, session schedule and services.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	var (
		accountRepo        interfaces.AccountRepository
		wagerRepo          interfaces.WagerRepository
		drawResultRepo     interfaces.DrawResultRepository
		balanceHistoryRepo interfaces.BalanceHistoryRepository
	)

	switch cfg.Store {
	case "memory":
		log.Info("Using in-memory store")
		store := memory.NewStore()
		accountRepo = store.Accounts()
		wagerRepo = store.Wagers()
		drawResultRepo = store.DrawResults()
		balanceHistoryRepo = store.BalanceHistory()

	default:
		log.Info("Connecting to database...")
		db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.db = db
		log.Info("Database connection established successfully")

		accountRepo = repository.NewAccountRepository(db)
		wagerRepo = repository.NewWagerRepository(db)
		drawResultRepo = repository.NewDrawResultRepository(db)
		balanceHistoryRepo = repository.NewBalanceHistoryRepository(db)
	}

	// Event publisher: NATS when configured, otherwise a no-op
	var eventPublisher interfaces.EventPublisher
	if cfg.NATSServers != "" {
		natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		app.natsClient = natsClient

		publisher := infrastructure.NewNATSEventPublisher(natsClient)
		if err := publisher.EnsureDomainEventStream(); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to ensure domain event stream: %w", err)
		}
		eventPublisher = publisher
	} else {
		log.Info("No NATS servers configured, events disabled")
		eventPublisher = infrastructure.NewNoopEventPublisher()
	}

	schedule, err := services.NewSessionSchedule(cfg.Timezone, cfg.MorningClose, cfg.EveningClose)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to build session schedule: %w", err)
	}

	ledger := services.NewLedgerService(accountRepo)
	app.BettingService = services.NewBettingService(schedule, cfg.MinStake, ledger, wagerRepo, balanceHistoryRepo, eventPublisher)
	app.SettlementService = services.NewSettlementService(ledger, wagerRepo, drawResultRepo, balanceHistoryRepo, eventPublisher)
	app.AccountService = services.NewAccountService(cfg.StartingBalance, accountRepo, ledger, balanceHistoryRepo, eventPublisher)

	app.worker = application.NewReconciliationWorker(app.SettlementService, time.Duration(cfg.ReconcileIntervalMinutes)*time.Minute)

	return app, nil
}

// Start launches the background reconciliation worker.
func (a *App) Start(ctx context.Context) {
	a.stopWorker = a.worker.Start(ctx)
}

// Close releases connections and stops background work.
func (a *App) Close() {
	if a.stopWorker != nil {
		a.stopWorker()
	}
	if a.natsClient != nil {
		a.natsClient.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// Run initializes the wagering core and blocks until the context is cancelled.
func Run(ctx context.Context) error {
	log.Info("Starting huay core...")

	cfg := config.Get()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Start(ctx)

	log.Infof("Core is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down...")
	return nil
}
