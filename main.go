package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"huay/cmd"
	"huay/config"
	"huay/database"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if present; real environments set variables directly
	_ = godotenv.Load()

	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error:", err)
		}
		return
	}

	// Check for top-up subcommand
	if len(os.Args) > 1 && os.Args[1] == "top-up" {
		if err := handleTopUp(); err != nil {
			log.Fatal("Top-up error:", err)
		}
		return
	}

	// Normal operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: huay migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

// handleTopUp credits an account from the command line, creating it if needed.
func handleTopUp() error {
	if len(os.Args) < 4 {
		return fmt.Errorf("usage: huay top-up account-id amount")
	}

	accountID := os.Args[2]
	amount, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", os.Args[3], err)
	}

	ctx := context.Background()
	cfg := config.Get()

	app, err := cmd.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := app.AccountService.GetOrCreateAccount(ctx, accountID); err != nil {
		return fmt.Errorf("failed to resolve account: %w", err)
	}

	newBalance, err := app.AccountService.TopUp(ctx, accountID, amount)
	if err != nil {
		return fmt.Errorf("failed to top up: %w", err)
	}

	log.Printf("Account %s topped up by %d, new balance %d", accountID, amount, newBalance)
	return nil
}
