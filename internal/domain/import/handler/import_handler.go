// Package handler exposes the import pipeline over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/harukimedia/giftflow/internal/domain/import/mapping"
	"github.com/harukimedia/giftflow/internal/domain/import/parser"
	importservice "github.com/harukimedia/giftflow/internal/domain/import/service"
)

// Uploads beyond this are campaign sheets in name only.
const maxUploadBytes = 20 << 20

// Defaults are the deployment-level import settings a form field can
// still override per upload.
type Defaults struct {
	DayFirst bool
	// InternationalShippingBrand turns the shipping override on for
	// uploads of this brand, with the country and cost below filling
	// rows that carry no values of their own.
	InternationalShippingBrand string
	ShippingCountry            string
	ShippingCost               decimal.Decimal
}

// ImportHandler handles sheet analyze and import requests.
type ImportHandler struct {
	importSvc *importservice.ImportService
	defaults  Defaults
	logger    *slog.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(importSvc *importservice.ImportService, defaults Defaults, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		importSvc: importSvc,
		defaults:  defaults,
		logger:    logger,
	}
}

// Analyze handles POST /v1/imports/analyze: a dry run returning the
// detected header mapping, warnings and duplicate findings.
func (h *ImportHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	file, filename, opts, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importSvc.Analyze(r.Context(), filename, file, opts)
	if err != nil {
		h.writeServiceError(w, "failed to analyze sheet", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Import handles POST /v1/imports: runs the pipeline and persists the
// rows.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	file, filename, opts, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	intlDefault := h.defaults.InternationalShippingBrand != "" &&
		strings.EqualFold(opts.Brand, h.defaults.InternationalShippingBrand)
	importOpts := importservice.ImportOptions{
		Options:                opts,
		SkipDuplicates:         formBoolDefault(r, "skipDuplicates", true),
		InternationalShipping:  formBoolDefault(r, "internationalShipping", intlDefault),
		DefaultShippingCountry: h.defaults.ShippingCountry,
		DefaultShippingCost:    h.defaults.ShippingCost,
	}

	summary, err := h.importSvc.Import(r.Context(), filename, file, importOpts)
	if err != nil {
		if summary != nil {
			// Cancelled mid-run; report what finished.
			writeJSON(w, http.StatusOK, summary)
			return
		}
		h.writeServiceError(w, "failed to import sheet", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// parseUpload reads the multipart file and the shared options. On
// failure it writes the error response and returns ok=false.
func (h *ImportHandler) parseUpload(w http.ResponseWriter, r *http.Request) (file multipart.File, filename string, opts importservice.Options, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, "", opts, false
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return nil, "", opts, false
	}

	opts = importservice.Options{
		Brand:    r.FormValue("brand"),
		DayFirst: formBoolDefault(r, "dayFirst", h.defaults.DayFirst),
	}
	if raw := r.FormValue("overrides"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts.Overrides); err != nil {
			f.Close()
			writeError(w, http.StatusBadRequest, "invalid overrides JSON")
			return nil, "", opts, false
		}
		for field := range opts.Overrides {
			if !mapping.KnownField(field) {
				f.Close()
				writeError(w, http.StatusBadRequest, "unknown field in overrides: "+string(field))
				return nil, "", opts, false
			}
		}
	}
	return f, header.Filename, opts, true
}

func (h *ImportHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, parser.ErrEmptyFile), errors.Is(err, parser.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(msg, slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func formBoolDefault(r *http.Request, key string, def bool) bool {
	raw := r.FormValue(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
