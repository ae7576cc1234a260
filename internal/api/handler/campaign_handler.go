package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/ekaradag/shopsync/internal/api/middleware"
	"github.com/ekaradag/shopsync/internal/domain"
	"github.com/ekaradag/shopsync/internal/service"
)

// CampaignHandler owns campaign submission, listing, and the event log.
type CampaignHandler struct {
	svc    *service.CampaignService
	logger *zap.Logger
}

func NewCampaignHandler(svc *service.CampaignService, logger *zap.Logger) *CampaignHandler {
	return &CampaignHandler{svc: svc, logger: logger}
}

// Send handles POST /send-notification (admin only)
//
// Responds 200 when the campaign was dispatched immediately and 202 when
// it was scheduled for later; both bodies carry the campaignId.
func (h *CampaignHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, result, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.logger.Warn("send notification failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	if result != nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"campaignId": c.ID,
			"status":     c.Status,
			"audience":   result.AudienceCount,
			"delivered":  result.SuccessCount,
		})
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]any{
		"campaignId": c.ID,
		"status":     c.Status,
		"sendAt":     c.SendAt,
	})
}

// RecordEvent handles POST /campaign-events
func (h *CampaignHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.RecordEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	e, err := h.svc.RecordEvent(r.Context(), req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": e.ID})
}

// List handles GET /api/v1/campaigns
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := parseCampaignFilter(r)
	campaigns, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list campaigns")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  campaigns,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// GetByID handles GET /api/v1/campaigns/{id}
func (h *CampaignHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func parseCampaignFilter(r *http.Request) domain.CampaignFilter {
	q := r.URL.Query()
	filter := domain.CampaignFilter{Page: 1, Limit: 20}

	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		filter.Page = p
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l <= 100 {
		filter.Limit = l
	}
	if s := q.Get("status"); s != "" {
		st := domain.CampaignStatus(s)
		filter.Status = &st
	}
	return filter
}
