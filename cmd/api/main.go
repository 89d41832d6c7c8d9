package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Jospinra/gym-memberships-tracker/internal/api"
	"github.com/Jospinra/gym-memberships-tracker/internal/config"
	"github.com/Jospinra/gym-memberships-tracker/internal/domain"
	persistence "github.com/Jospinra/gym-memberships-tracker/internal/persistence/postgres"
	httptransport "github.com/Jospinra/gym-memberships-tracker/internal/transport/http"
	"github.com/Jospinra/gym-memberships-tracker/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The store is optional at startup: without it the process still serves
	// /health and /metrics, and /api degrades to 503.
	repo := connect(ctx, cfg, log)
	if repo != nil {
		defer repo.Close()
	}

	var store domain.Store
	var checker api.HealthChecker
	if repo != nil {
		store = repo
		checker = repo
	}

	memberships := domain.NewMembershipService(store)
	attendance := domain.NewAttendanceService(store)

	handler := api.NewHandler(memberships, attendance)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	wrapped := api.RequestLogger(log)(api.Availability(checker)(mux))

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, wrapped)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infof("gym tracker API listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("graceful shutdown failed: %v", err)
	}
}

// connect runs migrations and opens the pool, retrying a few times before
// giving up and returning nil so the API starts in degraded mode.
func connect(ctx context.Context, cfg config.Config, log *logrus.Logger) *persistence.Repository {
	if err := persistence.Migrate(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Warnf("migrations failed: %v", err)
	}

	for attempt := 1; attempt <= cfg.ConnectAttempts; attempt++ {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				log.Infof("database connection established")
				return persistence.NewRepository(pool)
			}
			pool.Close()
		}
		log.Warnf("database connection attempt %d/%d failed: %v", attempt, cfg.ConnectAttempts, err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	log.Warnf("continuing without database; API routes will return 503 until it is available")
	return nil
}
