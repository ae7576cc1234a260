package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/api"
	"github.com/ekaradag/shopsync/internal/config"
	"github.com/ekaradag/shopsync/internal/db"
	"github.com/ekaradag/shopsync/internal/dispatch"
	"github.com/ekaradag/shopsync/internal/metrics"
	"github.com/ekaradag/shopsync/internal/push"
	"github.com/ekaradag/shopsync/internal/repository"
	"github.com/ekaradag/shopsync/internal/scheduler"
	"github.com/ekaradag/shopsync/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ---- database ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	subRepo := repository.NewPgSubscriptionRepository(pool)
	campaignRepo := repository.NewPgCampaignRepository(pool)
	eventRepo := repository.NewPgCampaignEventRepository(pool)
	orderRepo := repository.NewPgOrderRepository(pool)
	saleRepo := repository.NewPgSaleRepository(pool)

	sender := push.NewWebPushSender(cfg.VAPIDSubject, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.PushTimeout)

	onSent, onFailed, onPruned, onDispatched := m.DispatchHooks()
	engine := dispatch.NewEngine(
		subRepo, campaignRepo, eventRepo, sender,
		cfg.DispatchConcurrency, cfg.DispatchRateLimit,
		logger, dispatch.MetricHooks{
			OnSent:       onSent,
			OnFailed:     onFailed,
			OnPruned:     onPruned,
			OnDispatched: onDispatched,
		},
	)

	// ---- scheduler ----
	// Context for all background goroutines; cancelled on shutdown signal.
	schedCtx, cancelSched := context.WithCancel(ctx)
	defer cancelSched()

	scheduledGauge := func(n int) { m.ScheduledCampaigns.Set(float64(n)) }
	sched := scheduler.New(campaignRepo, engine, cfg.SchedulerSweepInterval, logger, scheduledGauge)
	if err := sched.Rehydrate(schedCtx); err != nil {
		logger.Fatal("failed to rehydrate scheduler", zap.Error(err))
	}
	go sched.Run(schedCtx)

	// ---- services ----
	svcs := api.Services{
		Campaigns:     service.NewCampaignService(campaignRepo, eventRepo, engine, sched, logger),
		Subscriptions: service.NewSubscriptionService(subRepo, logger),
		Orders:        service.NewOrderService(orderRepo, logger, m.OrdersReceived.Inc),
		Sale:          service.NewSaleService(saleRepo, logger),
	}

	// ---- HTTP server ----
	router := api.NewRouter(svcs, cfg.AdminToken, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Stop the scheduler; armed timers are discarded, the scheduled
	// rows stay in the database for rehydration on next start.
	cancelSched()

	logger.Info("server stopped cleanly")
}
