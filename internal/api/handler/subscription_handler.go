package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaradag/shopsync/internal/domain"
	"github.com/ekaradag/shopsync/internal/service"
)

// SubscriptionHandler owns the push subscription lifecycle endpoints.
type SubscriptionHandler struct {
	svc    *service.SubscriptionService
	logger *zap.Logger
}

func NewSubscriptionHandler(svc *service.SubscriptionService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc, logger: logger}
}

// Save handles POST /save-subscription
func (h *SubscriptionHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sub, err := h.svc.Save(r.Context(), req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"endpoint":    sub.Endpoint,
		"preferences": sub.Preferences,
	})
}

// UpdatePreferences handles POST /update-preferences
func (h *SubscriptionHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.svc.UpdatePreferences(r.Context(), req); err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// GetPreferences handles GET /get-preferences?endpoint=...
func (h *SubscriptionHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Query().Get("endpoint")
	prefs, err := h.svc.GetPreferences(r.Context(), endpoint)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

// Delete handles POST /delete-subscription
func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.svc.Delete(r.Context(), req.Endpoint); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
