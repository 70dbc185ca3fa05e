package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-tracker-go/internal/api"
	"crypto-tracker-go/internal/coingecko"
	"crypto-tracker-go/internal/config"
	"crypto-tracker-go/internal/database"
	"crypto-tracker-go/internal/logger"
	"crypto-tracker-go/internal/market"
	"crypto-tracker-go/internal/portfolio"
	"crypto-tracker-go/internal/store"
	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "./configs", "directory containing config.yml")
	flag.Parse()

	// Load application configuration
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		// The logger depends on the config, so report on stderr.
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	restClient := coingecko.NewRestClient(&cfg.CoinGecko, log)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	if err := restClient.Ping(pingCtx); err != nil {
		// Analysis still works from stored prices, so keep serving.
		log.Warn("CoinGecko API not reachable at startup", zap.Error(err))
	} else {
		log.Info("Successfully connected to CoinGecko API.")
	}
	cancelPing()

	trades := store.NewTradeStore(db)
	service := portfolio.NewService(
		market.NewResolver(restClient, cfg.CoinGecko.RankedPageSize, log),
		market.NewPriceLookup(restClient),
		trades,
		log,
	)
	srv := api.NewServer(&cfg.Server, service, trades, restClient, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("API server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received, gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("API server shutdown failed", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Shutdown complete")
}
