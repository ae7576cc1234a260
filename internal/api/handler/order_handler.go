package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/ekaradag/shopsync/internal/api/middleware"
	"github.com/ekaradag/shopsync/internal/domain"
	"github.com/ekaradag/shopsync/internal/service"
)

// OrderHandler accepts checkout orders, live or replayed.
type OrderHandler struct {
	svc    *service.OrderService
	logger *zap.Logger
}

func NewOrderHandler(svc *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, logger: logger}
}

// Create handles POST /orders
//
// The order ID is caller-supplied; resubmitting an ID returns the
// original receipt, which is what makes client-side replay safe.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	receipt, err := h.svc.Submit(r.Context(), &order)
	if err != nil {
		h.logger.Warn("order submit failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, receipt)
}
