package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toko-olahraga/internal/config"
	"toko-olahraga/internal/logger"
	"toko-olahraga/internal/router"
	"toko-olahraga/internal/services"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger(cfg.LogLevel)
	log.Info().Msg("Starting toko-olahraga")

	if cfg.UsingDefaultSecret() {
		log.Warn().Msg("JWT_SECRET not set, using default key")
	}

	accounts := services.NewAccountService(log, cfg.BcryptCost)
	catalog := services.NewCatalogService(log)
	ledger := services.NewLedgerService(catalog, accounts, log)
	auth := services.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, log)

	if err := services.Seed(accounts, catalog); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	r := router.SetupRouter(router.Services{
		Accounts: accounts,
		Catalog:  catalog,
		Ledger:   ledger,
		Auth:     auth,
	}, cfg, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
