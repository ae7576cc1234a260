package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/domain"
	"github.com/ekaradag/shopsync/internal/service"
)

// SaleHandler exposes the storefront sale state.
type SaleHandler struct {
	svc    *service.SaleService
	logger *zap.Logger
}

func NewSaleHandler(svc *service.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{svc: svc, logger: logger}
}

// Status handles GET /sale-status
func (h *SaleHandler) Status(w http.ResponseWriter, r *http.Request) {
	sale, err := h.svc.Status(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"isActive": sale.Active,
		"discount": sale.Discount,
	})
}

// Start handles POST /start-sale (admin only)
func (h *SaleHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req domain.StartSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sale, err := h.svc.Start(r.Context(), req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"isActive": sale.Active,
		"discount": sale.Discount,
	})
}

// End handles POST /end-sale (admin only)
func (h *SaleHandler) End(w http.ResponseWriter, r *http.Request) {
	sale, err := h.svc.End(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"isActive": sale.Active,
		"discount": sale.Discount,
	})
}
