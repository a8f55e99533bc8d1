package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/norkart1/EduLedger/internal/config"
	"github.com/norkart1/EduLedger/internal/handler"
	"github.com/norkart1/EduLedger/internal/logging"
	"github.com/norkart1/EduLedger/internal/middleware"
	"github.com/norkart1/EduLedger/internal/repository"
	"github.com/norkart1/EduLedger/internal/service"
	"github.com/norkart1/EduLedger/internal/service/ledger"
)

const adminTokenExpiry = 12 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("eduledger-api", cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()

	db, err := connectDB(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	writeTimeout := time.Duration(cfg.WriteTimeoutMS) * time.Millisecond
	ledgerSvc := ledger.NewService(accountRepo, transactionRepo, db, writeTimeout)
	accountSvc := service.NewAccountService(accountRepo)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, transactionRepo)
	adminSvc := service.NewAdminService(adminRepo)

	if err := adminSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("failed to ensure admin account", "error", err)
		os.Exit(1)
	}

	accountHandler := handler.NewAccountHandler(accountSvc)
	transactionHandler := handler.NewTransactionHandler(ledgerSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	authHandler := handler.NewAuthHandler(adminSvc, cfg.JWTSecret, adminTokenExpiry)

	adminOnly := middleware.AdminAuth(cfg.JWTSecret)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("POST /api/admin/login", authHandler.Login)

	mux.HandleFunc("POST /api/accounts", accountHandler.Create)
	mux.HandleFunc("GET /api/accounts", accountHandler.List)
	mux.HandleFunc("GET /api/accounts/{id}", accountHandler.Get)
	mux.HandleFunc("GET /api/accounts/{id}/transactions", transactionHandler.ListByAccount)

	mux.Handle("PATCH /api/accounts/{id}", adminOnly(http.HandlerFunc(accountHandler.Update)))
	mux.Handle("DELETE /api/accounts/{id}", adminOnly(http.HandlerFunc(accountHandler.Delete)))
	mux.Handle("POST /api/transactions", adminOnly(http.HandlerFunc(transactionHandler.Apply)))
	mux.Handle("GET /api/analytics", adminOnly(http.HandlerFunc(analyticsHandler.Overview)))
	mux.Handle("GET /api/analytics/transactions", adminOnly(http.HandlerFunc(analyticsHandler.TransactionsInRange)))
	mux.Handle("GET /api/reports/monthly", adminOnly(http.HandlerFunc(analyticsHandler.MonthlyReport)))
	mux.Handle("GET /api/reports/yearly", adminOnly(http.HandlerFunc(analyticsHandler.YearlyReport)))

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func connectDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	var lastErr error
	for i := range 30 {
		db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, pool)
		if err == nil {
			return db, nil
		}
		lastErr = err
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}
	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", lastErr)
}
