package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/01moynul/shopsphere-golang/internal/catalog"
	"github.com/01moynul/shopsphere-golang/internal/config"
	"github.com/01moynul/shopsphere-golang/internal/database"
	"github.com/01moynul/shopsphere-golang/internal/handlers"
	"github.com/01moynul/shopsphere-golang/internal/logger"
	"github.com/01moynul/shopsphere-golang/internal/routes"
	"github.com/01moynul/shopsphere-golang/internal/seed"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// demoSeed fixes the generated demo data so every fresh database looks the same.
const demoSeed = 2024

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// 0. --- Configuration (.env + environment) ---
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", true)
		bootLog.Error().Err(err).Msg("failed to load configuration")
		return err
	}

	log := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. --- Main Database Connection (Read/Write) ---
	db, err := database.OpenDB(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to primary database")
		return err
	}
	defer db.Close()

	// 2. --- Schema ---
	if cfg.AutoMigrate {
		if err := database.Migrate(db, log); err != nil {
			log.Error().Err(err).Msg("failed to apply migrations")
			return err
		}
	}

	// 3. --- Catalog Service ---
	svc := catalog.NewService(db, log, cfg.PageSize)

	if cfg.SeedOnStart {
		if _, err := seed.Run(ctx, svc, log, demoSeed); err != nil {
			log.Error().Err(err).Msg("failed to seed demo data")
			return err
		}
	}

	// --- Router Setup ---
	app := handlers.New(svc, log)
	router := routes.SetupRouter(app, log, cfg.CORSOrigin)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// --- Start Server ---
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("env", cfg.Env).Msg("starting ShopSphere API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(server, cfg, log)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func shutdown(server *http.Server, cfg *config.Config, log zerolog.Logger) error {
	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}
