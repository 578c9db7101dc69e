// Package handler serves campaign report downloads.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/harukimedia/giftflow/internal/domain/export"
)

// ExportHandler handles report download requests.
type ExportHandler struct {
	svc    *export.Service
	logger *slog.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(svc *export.Service, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		svc:    svc,
		logger: logger,
	}
}

// Export handles GET /v1/campaigns/export?brand=&format=xlsx|csv.
// Format defaults to xlsx.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	brand := q.Get("brand")
	if brand == "" {
		writeError(w, http.StatusBadRequest, "brand query parameter is required")
		return
	}

	switch format := q.Get("format"); format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="campaigns.csv"`)
		if err := h.svc.WriteCSV(r.Context(), w, brand); err != nil {
			h.logger.Error("failed to export campaigns", slog.Any("error", err))
		}
	case "", "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="campaigns.xlsx"`)
		if err := h.svc.WriteXLSX(r.Context(), w, brand); err != nil {
			h.logger.Error("failed to export campaigns", slog.Any("error", err))
		}
	default:
		writeError(w, http.StatusBadRequest, "unsupported format: "+format)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
