package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/config"
	dbRedis "github.com/kailas-cloud/prodex/internal/db/redis"
	logpkg "github.com/kailas-cloud/prodex/internal/logger"
	"github.com/kailas-cloud/prodex/internal/metrics"
	budgetrepo "github.com/kailas-cloud/prodex/internal/repository/budget"
	chiTransport "github.com/kailas-cloud/prodex/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/prodex/internal/transport/openai"
	completionuc "github.com/kailas-cloud/prodex/internal/usecase/completion"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/prodex/internal/usecase/search"
	usageuc "github.com/kailas-cloud/prodex/internal/usecase/usage"
	"github.com/kailas-cloud/prodex/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting prodex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("ai_enabled", cfg.Completion.Enabled()),
		zap.Bool("db_enabled", cfg.Database.Enabled()),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterCompletionMetrics()
	metrics.RegisterSearchMetrics()

	ctx := context.Background()

	// Optional store for budget counters. Redis and Valkey speak the same protocol.
	var store *dbRedis.Store
	if cfg.Database.Enabled() {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database",
			zap.String("driver", cfg.Database.Driver),
			zap.Strings("addrs", cfg.Database.Addrs),
		)
	}

	// Completer chain: OpenAI-compatible transport -> Instrumented (budget).
	// Pass nil interfaces (not typed nil pointers!) when a component is not configured.
	var (
		completer    searchuc.Completer
		budgetReader usageuc.BudgetReader
		checker      healthuc.CompletionChecker
		pinger       healthuc.DBPinger
	)
	if store != nil {
		pinger = store
	}
	if cfg.Completion.Enabled() {
		budget := buildBudget(ctx, cfg.Completion, store, logger)
		instrumented := buildCompleter(cfg.Completion, budget, logger)
		completer, budgetReader, checker = instrumented, budget, instrumented
		logger.Info("Completion provider configured",
			zap.String("provider", cfg.Completion.Provider),
			zap.String("model", cfg.Completion.Model),
			zap.Duration("timeout", cfg.Completion.Timeout()),
		)
	} else {
		logger.Info("No completion API key configured, every search uses the keyword scorer")
	}

	searchSvc := searchuc.New(completer, cfg.Completion.Timeout(), logger)
	usageSvc := usageuc.New(budgetReader)
	healthSvc := healthuc.New(pinger, checker)

	server := chiTransport.NewServer(searchSvc, usageSvc, healthSvc, chiTransport.Limits{
		MaxCatalogSize: cfg.Search.MaxCatalogSize,
		MaxQueryLength: cfg.Search.MaxQueryLength,
		MaxBodyBytes:   cfg.Search.MaxBodyBytes,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chiTransport.NewRouter(server, cfg.Auth.APIKeys),
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildBudget creates the process-wide token budget. Counters persist when a store is configured.
func buildBudget(
	ctx context.Context, cfg config.CompletionConfig, store *dbRedis.Store, logger *zap.Logger,
) *completionuc.BudgetTracker {
	action := completionuc.BudgetActionWarn
	if cfg.Budget.Action == "reject" {
		action = completionuc.BudgetActionReject
	}
	budget := completionuc.NewBudgetTracker(
		cfg.Provider, cfg.Budget.DailyTokenLimit, cfg.Budget.MonthlyTokenLimit, action, logger,
	)
	if store != nil {
		budget.WithStore(ctx, budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
	}
	return budget
}

// buildCompleter assembles the decorator chain: OpenAI -> Instrumented.
func buildCompleter(
	cfg config.CompletionConfig, budget completionuc.BudgetChecker, logger *zap.Logger,
) *completionuc.InstrumentedCompleter {
	base := openaiTransport.NewCompleter(&openaiTransport.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: *cfg.Temperature,
		TopP:        *cfg.TopP,
		MaxTokens:   cfg.MaxTokens,
		Provider:    cfg.Provider,
		Logger:      logger,
	})
	return completionuc.NewInstrumentedCompleter(base, cfg.Provider, cfg.Model, budget, logger)
}
