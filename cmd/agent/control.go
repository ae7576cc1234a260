package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/bus"
	"github.com/ekaradag/shopsync/internal/checkout"
)

// newControlRouter exposes the agent's command surface on localhost.
// The storefront page posts here; each route maps onto one bus command.
func newControlRouter(handler *checkout.CommandHandler, store *checkout.Store, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Post("/queue-checkout", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			ID      string          `json:"id"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if err := handler.Handle(bus.QueueCheckout{ID: body.ID, Payload: body.Payload}); err != nil {
			logger.Warn("queue checkout failed", zap.Error(err))
			http.Error(w, "could not queue order", http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]int{"pending": store.Len()})
	})

	r.Get("/sync-status", func(w http.ResponseWriter, req *http.Request) {
		_ = handler.Handle(bus.SyncStatusRequest{})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"pending": store.Len()})
	})

	r.Post("/trigger-sync", func(w http.ResponseWriter, req *http.Request) {
		_ = handler.Handle(bus.TriggerSync{})
		w.WriteHeader(http.StatusAccepted)
	})

	return r
}

// logEvents drains the bus so queue outcomes show up in the agent log.
func logEvents(events <-chan bus.Event, logger *zap.Logger) {
	for e := range events {
		switch ev := e.(type) {
		case bus.SyncPending:
			logger.Info("sync pending", zap.Int("count", ev.Count))
		case bus.SyncComplete:
			if ev.Success {
				logger.Info("order synced",
					zap.String("order_id", ev.OrderID),
					zap.String("status", ev.Receipt.Status),
				)
			} else {
				logger.Warn("order dropped",
					zap.String("order_id", ev.OrderID),
					zap.String("reason", ev.Reason),
				)
			}
		}
	}
}
