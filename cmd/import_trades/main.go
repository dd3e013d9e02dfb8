package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tradeLedger/config"
	"tradeLedger/internal/adapters/logger"
	"tradeLedger/internal/adapters/sqlite"
	"tradeLedger/internal/app"
	"tradeLedger/internal/domain"
	"tradeLedger/internal/utils"
)

func main() {
	file := flag.String("file", "", "CSV file with a header row (id,symbol,outcome,pnl,rr,date,direction,extra_data)")
	accountID := flag.String("account", "", "existing account to import into")
	name := flag.String("name", "", "create a new account with this name and import into it")
	balance := flag.String("balance", "", "starting balance of the new account (default 10000)")
	flag.Parse()

	if *file == "" {
		log.Fatalf("-file is required")
	}
	if (*accountID == "") == (*name == "") {
		log.Fatalf("exactly one of -account or -name is required")
	}

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger, err := logger.NewZapLogger(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// 3. Initialize Repository
	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer repo.Close()

	svc, err := app.NewJournalService(cfg, appLogger, repo, repo)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize journal service: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := utils.ReadTradeRecordsFromFile(*file)
	if err != nil {
		appLogger.Error(ctx, err, "Error reading CSV", map[string]interface{}{"file": *file})
		log.Fatalf("Error reading CSV: %v", err)
	}
	appLogger.Info(ctx, "Read trade records", map[string]interface{}{"file": *file, "count": len(records)})

	if *name != "" {
		acc, err := svc.CreateAccount(ctx, app.NewAccount{Name: *name, StartingBalance: domain.Numeric(*balance)})
		if err != nil {
			log.Fatalf("Error creating account: %v", err)
		}
		*accountID = acc.ID
		fmt.Printf("Created account %q (%s)\n", acc.Name, acc.ID)
	}

	res, err := svc.ImportTrades(ctx, *accountID, records)
	if err != nil {
		log.Fatalf("Import stopped after %d trades: %v", res.Imported, err)
	}
	fmt.Printf("Imported %d trades into %s, rejected %d\n", res.Imported, *accountID, res.Rejected)
}
