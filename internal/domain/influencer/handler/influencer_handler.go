// Package handler exposes the influencer directory over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/harukimedia/giftflow/internal/domain/influencer"
)

// InfluencerHandler handles directory requests.
type InfluencerHandler struct {
	svc    *influencer.Service
	logger *slog.Logger
}

// NewInfluencerHandler creates a new influencer handler.
func NewInfluencerHandler(svc *influencer.Service, logger *slog.Logger) *InfluencerHandler {
	return &InfluencerHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /v1/influencers?brand=&q=&country=.
func (h *InfluencerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := influencer.ListFilter{
		Brand:   q.Get("brand"),
		Country: q.Get("country"),
	}

	influencers, err := h.svc.List(r.Context(), filter, q.Get("q"))
	if err != nil {
		h.logger.Error("failed to list influencers", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to list influencers")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"influencers": influencers})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
