package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/bus"
	"github.com/ekaradag/shopsync/internal/checkout"
	"github.com/ekaradag/shopsync/internal/config"
	"github.com/ekaradag/shopsync/internal/connectivity"
	"github.com/ekaradag/shopsync/internal/orders"
)

// The agent is the storefront's offline half: it owns the durable
// checkout queue and replays it against the server whenever
// connectivity allows.
func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.LoadAgent()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	store, err := checkout.Open(cfg.QueuePath)
	if err != nil {
		logger.Fatal("failed to open checkout queue", zap.Error(err))
	}
	logger.Info("checkout queue opened",
		zap.String("path", cfg.QueuePath),
		zap.Int("pending", store.Len()),
	)

	events := bus.New()
	client := orders.NewClient(cfg.ServerBaseURL, cfg.RequestTimeout)
	coordinator := checkout.NewCoordinator(store, client, events, logger)
	trigger := checkout.NewTrigger(coordinator, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go trigger.Run(ctx)

	// Connectivity edges and a periodic ticker both feed the same
	// single-flight trigger.
	watcher := connectivity.NewWatcher(
		cfg.ServerBaseURL, cfg.ConnectivityInterval, cfg.RequestTimeout,
		trigger.Request, logger,
	)
	go watcher.Run(ctx)

	go func() {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				trigger.Request()
			}
		}
	}()

	go logEvents(events.Subscribe(), logger)

	// Local control surface for the storefront page.
	handler := checkout.NewCommandHandler(store, trigger, events, logger)
	srv := &http.Server{
		Addr:    cfg.ControlAddr,
		Handler: newControlRouter(handler, store, logger),
	}
	go func() {
		logger.Info("control surface listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("control server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("control server shutdown error", zap.Error(err))
	}
	cancel()
	// Closing the bus ends the event logger's drain loop.
	events.Close()
	logger.Info("agent stopped cleanly")
}
