// Package handler exposes scores and rankings over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/harukimedia/giftflow/internal/domain/scoring"
)

// ScoreHandler handles score and ranking requests.
type ScoreHandler struct {
	scoreSvc *scoring.Service
	logger   *slog.Logger
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(scoreSvc *scoring.Service, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{
		scoreSvc: scoreSvc,
		logger:   logger,
	}
}

// InfluencerScore handles GET /v1/influencers/{id}/score.
func (h *ScoreHandler) InfluencerScore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid influencer id")
		return
	}

	result, err := h.scoreSvc.InfluencerScore(r.Context(), id)
	if errors.Is(err, scoring.ErrNotFound) {
		writeError(w, http.StatusNotFound, "influencer not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to score influencer", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to score influencer")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Rankings handles GET /v1/rankings?brand=.
func (h *ScoreHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	brand := r.URL.Query().Get("brand")
	if brand == "" {
		writeError(w, http.StatusBadRequest, "brand query parameter is required")
		return
	}

	entries, err := h.scoreSvc.Rankings(r.Context(), brand)
	if err != nil {
		h.logger.Error("failed to load rankings", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to load rankings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"brand":    brand,
		"rankings": entries,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
