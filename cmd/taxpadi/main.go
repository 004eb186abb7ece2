package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taxpadi/taxpadi-engine-go/internal/config"
	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/handler"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/cache"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/client"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/observability"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/resilience"
	"github.com/taxpadi/taxpadi-engine-go/internal/rules"
	"github.com/taxpadi/taxpadi-engine-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("rules_override_url", cfg.RulesOverrideURL),
		zap.Duration("rules_refresh_interval", cfg.RulesRefreshInterval),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("result_cache_ttl", cfg.ResultCacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "taxpadi-engine")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Rule registry ---
	registry := rules.NewRegistry(logger)

	// --- Cache ---
	resultCache := cache.New[*domain.TaxResult](cfg.ResultCacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- Remote override source (optional) ---
	var fetcher rules.OverrideFetcher
	if cfg.RulesOverrideURL != "" {
		cb := resilience.NewCircuitBreaker("rule-overrides")
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		fetcher = client.NewOverridesClient(httpClient, cfg.RulesOverrideURL, cb, resilienceCfg)
		logger.Info("remote rule override source enabled", zap.String("url", cfg.RulesOverrideURL))
	} else {
		logger.Info("no remote rule override source configured, serving base rules")
	}

	// --- Services ---
	taxSvc := service.NewTaxService(registry, resultCache, bulkhead, metrics, logger)
	complianceSvc := service.NewComplianceService(registry, logger)
	advisorSvc := service.NewAdvisorService(registry, logger)
	rulesSvc := service.NewRulesService(registry, fetcher, cfg.RulesFetchTimeout, metrics, logger)

	authSvc, err := service.NewAuthService(
		cfg.AdminUsername,
		cfg.AdminPassword,
		cfg.AdminPasswordHash,
		cfg.JWTSecret,
		cfg.JWTAccessTTL,
		logger,
	)
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}

	// --- Background rule refresh ---
	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	if fetcher != nil && cfg.RulesRefreshInterval > 0 {
		go rulesSvc.RunRefreshLoop(refreshCtx, cfg.RulesRefreshInterval)
	}

	// --- Router ---
	router := handler.NewRouter(taxSvc, complianceSvc, advisorSvc, rulesSvc, authSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	stopRefresh()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
