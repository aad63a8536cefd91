package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledgerwallet_go/api"
	"ledgerwallet_go/blockchain"
	"ledgerwallet_go/config"
	"ledgerwallet_go/currency"
	"ledgerwallet_go/events"
	"ledgerwallet_go/mempool"
	"ledgerwallet_go/transfer"
	"ledgerwallet_go/utils"
)

func openLedger(cfg *config.AppConfig) (api.Ledger, func(), error) {
	if cfg.InMemory {
		utils.LogInfo("Using in-memory ledger")
		return currency.NewLedger(), func() {}, nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory %s: %w", cfg.DataDir, err)
	}
	ldb, err := blockchain.NewLedgerDB(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := ldb.Close(); err != nil {
			utils.LogError("Error closing ledger database: %v", err)
		}
	}
	return ldb, closeFn, nil
}

func main() {
	// 1. Load Configuration
	config.LoadEnvFiles()
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// 2. Setup Logging
	utils.InitLogger(cfg.Verbose, false)
	defer utils.Sync()
	utils.LogInfo("Application starting...")

	// 3. Initialize Core Application Components
	ledger, closeLedger, err := openLedger(cfg)
	if err != nil {
		log.Fatalf("Error initializing ledger: %v", err)
	}
	defer closeLedger()

	txMempool := mempool.NewMempool(cfg.MempoolCapacity)
	hub := events.NewHub(cfg.EventBuffer)
	authorizer := transfer.NewAuthorizer(ledger, txMempool,
		transfer.WithObserver(events.Observers{events.LogObserver{}, hub}))

	server := api.NewServer(cfg.Port, ledger, txMempool, authorizer, hub, cfg.FaucetAmount)

	// 4. Serve until signalled
	utils.PrintStartupMessage(fmt.Sprintf("localhost:%d", cfg.Port), cfg.Port)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		utils.LogInfo("Received %s, shutting down...", sig)
	case err := <-serverErr:
		if err != nil {
			utils.LogError("Server stopped: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Error during server shutdown: %v", err)
	}
	utils.LogInfo("Shutdown complete. Pending transactions dropped: %d", txMempool.GetSize())
}
