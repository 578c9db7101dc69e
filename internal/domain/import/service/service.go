// Package service orchestrates the sheet import pipeline: parse, map,
// flag, then persist.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/harukimedia/giftflow/internal/domain/import/dedup"
	"github.com/harukimedia/giftflow/internal/domain/import/mapping"
	"github.com/harukimedia/giftflow/internal/domain/import/normalizer"
	"github.com/harukimedia/giftflow/internal/domain/import/parser"
	"github.com/harukimedia/giftflow/internal/domain/import/repository"
	"github.com/harukimedia/giftflow/internal/metrics"
)

// Notifier delivers the post-import summary to the operator. Optional;
// a nil notifier skips delivery.
type Notifier interface {
	SendImportSummary(ctx context.Context, brand string, summary *Summary) error
}

// ImportService runs analyze and import for uploaded campaign sheets.
type ImportService struct {
	repo     repository.ImportRepository
	logger   *slog.Logger
	notifier Notifier
	tracer   trace.Tracer
}

// NewImportService creates a new import service.
func NewImportService(repo repository.ImportRepository, logger *slog.Logger) *ImportService {
	return &ImportService{
		repo:   repo,
		logger: logger,
		tracer: otel.Tracer("giftflow/import"),
	}
}

// SetNotifier enables import-summary delivery.
func (s *ImportService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Options carries the per-upload settings shared by analyze and import.
// Brand fills rows whose brand column is missing or empty and scopes
// duplicate lookups. DayFirst switches the slash-date reading for
// sheets from day-first locales.
type Options struct {
	Brand    string
	DayFirst bool
	// Overrides assigns headers to fields manually, on top of
	// auto-detection. An empty header clears the field.
	Overrides map[mapping.TargetField]string
}

func (o Options) dateOrder() normalizer.PatternOrder {
	if o.DayFirst {
		return normalizer.DayFirst
	}
	return normalizer.MonthFirst
}

// ImportOptions extends Options with executor switches.
type ImportOptions struct {
	Options
	// SkipDuplicates skips rows flagged by the duplicate detector.
	// The handler defaults it to true.
	SkipDuplicates bool
	// InternationalShipping keeps the shipping country and cost on
	// campaign rows. When off (the usual case) those fields persist
	// as NULL regardless of what the sheet carried.
	InternationalShipping bool
	// DefaultShippingCountry and DefaultShippingCost fill rows that
	// carry no shipping values of their own. Only read when
	// InternationalShipping is on.
	DefaultShippingCountry string
	DefaultShippingCost    decimal.Decimal
	// Progress, when set, fires after each processed row.
	Progress func(done, total int)
}

// UnmappedField names a field auto-detection could not place, with
// near-miss headers for the manual-assignment UI.
type UnmappedField struct {
	Field       mapping.TargetField  `json:"field"`
	Suggestions []mapping.Suggestion `json:"suggestions"`
}

// AnalyzeResult is the dry-run report returned before an import.
type AnalyzeResult struct {
	Headers      []string              `json:"headers"`
	Mapping      mapping.HeaderMapping `json:"mapping"`
	Unmapped     []UnmappedField       `json:"unmapped"`
	RowCount     int                   `json:"rowCount"`
	DroppedRows  int                   `json:"droppedRows"`
	Preview      []PreviewRow          `json:"preview"`
	CellWarnings []mapping.CellWarning `json:"cellWarnings"`
	RowWarnings  []mapping.RowWarning  `json:"rowWarnings"`
	Duplicates   *dedup.Result         `json:"duplicates"`
}

// analyzePreviewRows caps how many mapped rows the analyze response
// echoes back for the operator to eyeball.
const analyzePreviewRows = 5

// PreviewRow is one mapped record trimmed down for the analyze
// response.
type PreviewRow struct {
	Row          int               `json:"row"`
	Handle       string            `json:"handle"`
	Brand        string            `json:"brand"`
	ItemCode     string            `json:"itemCode"`
	Quantity     int               `json:"quantity"`
	SaleDate     string            `json:"saleDate"`
	AgreedAmount decimal.Decimal   `json:"agreedAmount"`
	Status       normalizer.Status `json:"status"`
}

func previewOf(records []mapping.Record) []PreviewRow {
	n := len(records)
	if n > analyzePreviewRows {
		n = analyzePreviewRows
	}
	preview := make([]PreviewRow, 0, n)
	for _, rec := range records[:n] {
		preview = append(preview, PreviewRow{
			Row:          rec.RowIndex,
			Handle:       rec.Handle(),
			Brand:        rec.Brand,
			ItemCode:     rec.ItemCode,
			Quantity:     rec.Quantity,
			SaleDate:     rec.SaleDate,
			AgreedAmount: rec.AgreedAmount,
			Status:       rec.Status,
		})
	}
	return preview
}

// Summary is the import outcome. Counts cover every mapped row exactly
// once.
type Summary struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// ImportResult is the import response: the outcome counts plus the
// findings and warnings the executor acted on.
type ImportResult struct {
	Summary
	Duplicates   *dedup.Result         `json:"duplicates"`
	CellWarnings []mapping.CellWarning `json:"cellWarnings"`
	RowWarnings  []mapping.RowWarning  `json:"rowWarnings"`
}

// Analyze runs the full pipeline without writing anything: parse the
// sheet, auto-map headers, map rows, and report warnings and duplicate
// findings for the operator to review.
func (s *ImportService) Analyze(ctx context.Context, filename string, file io.Reader, opts Options) (*AnalyzeResult, error) {
	ctx, span := s.tracer.Start(ctx, "import.Analyze",
		trace.WithAttributes(attribute.String("file", filename)))
	defer span.End()

	sheet, headerMap, records, warnings, err := s.prepare(ctx, filename, file, opts)
	if err != nil {
		return nil, err
	}

	findings, err := dedup.Check(ctx, s.repo, records)
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicates: %w", err)
	}

	result := &AnalyzeResult{
		Headers:      sheet.Headers,
		Mapping:      headerMap,
		RowCount:     len(records),
		DroppedRows:  len(sheet.Rows) - len(records),
		Preview:      previewOf(records),
		CellWarnings: warnings,
		RowWarnings:  mapping.ValidateRequiredFields(records),
		Duplicates:   findings,
	}
	for _, field := range mapping.Unmapped(headerMap) {
		result.Unmapped = append(result.Unmapped, UnmappedField{
			Field:       field,
			Suggestions: mapping.SuggestHeaders(field, sheet.Headers, headerMap, 3),
		})
	}

	s.logger.Info("sheet analyzed",
		slog.String("file", filename),
		slog.Int("rows", result.RowCount),
		slog.Int("dropped", result.DroppedRows),
		slog.Int("unmapped", len(result.Unmapped)),
		slog.Int("dupInFile", len(findings.InFile)),
		slog.Int("dupInStore", len(findings.InStore)))
	return result, nil
}

// Import runs the pipeline and persists the rows. Duplicate findings
// gate skipping only; nothing blocks the import. Rows are written
// strictly sequentially so influencer creation stays idempotent
// without locking; the context is checked between rows and a
// cancellation returns the partial summary alongside the error.
func (s *ImportService) Import(ctx context.Context, filename string, file io.Reader, opts ImportOptions) (*ImportResult, error) {
	ctx, span := s.tracer.Start(ctx, "import.Import",
		trace.WithAttributes(
			attribute.String("file", filename),
			attribute.String("brand", opts.Brand),
			attribute.Bool("skipDuplicates", opts.SkipDuplicates)))
	defer span.End()
	start := time.Now()

	_, _, records, warnings, err := s.prepare(ctx, filename, file, opts.Options)
	if err != nil {
		metrics.RecordImportDuration("failure", time.Since(start).Seconds())
		return nil, err
	}

	findings, err := dedup.Check(ctx, s.repo, records)
	if err != nil {
		metrics.RecordImportDuration("failure", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to check duplicates: %w", err)
	}

	summary, err := s.executeRows(ctx, records, findings, opts)
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.RecordImportDuration(status, time.Since(start).Seconds())

	s.logger.Info("import finished",
		slog.String("file", filename),
		slog.String("brand", opts.Brand),
		slog.Int("success", summary.Success),
		slog.Int("failed", summary.Failed),
		slog.Int("skipped", summary.Skipped))

	if err == nil && s.notifier != nil {
		if nerr := s.notifier.SendImportSummary(ctx, opts.Brand, summary); nerr != nil {
			s.logger.Warn("failed to send import summary", slog.Any("error", nerr))
		}
	}
	result := &ImportResult{
		Summary:      *summary,
		Duplicates:   findings,
		CellWarnings: warnings,
		RowWarnings:  mapping.ValidateRequiredFields(records),
	}
	return result, err
}

// prepare runs the read-only half of the pipeline shared by Analyze
// and Import.
func (s *ImportService) prepare(ctx context.Context, filename string, file io.Reader, opts Options) (*parser.Sheet, mapping.HeaderMapping, []mapping.Record, []mapping.CellWarning, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, nil, err
	}

	sheet, err := parser.Parse(filename, file)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	headerMap := mapping.AutoDetect(sheet.Headers)
	for field, header := range opts.Overrides {
		if header == "" {
			delete(headerMap, field)
			continue
		}
		headerMap[field] = header
	}

	records, warnings := mapping.MapRows(sheet.Rows, headerMap, sheet.Headers, mapping.RowOptions{
		Brand:     opts.Brand,
		DateOrder: opts.dateOrder(),
	})
	return sheet, headerMap, records, warnings, nil
}

// executeRows is the sequential write loop.
func (s *ImportService) executeRows(ctx context.Context, records []mapping.Record, findings *dedup.Result, opts ImportOptions) (*Summary, error) {
	summary := &Summary{Total: len(records)}
	flagged := findings.FlaggedRows()

	for i := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		rec := &records[i]

		if opts.SkipDuplicates && flagged[rec.RowIndex] {
			summary.Skipped++
			metrics.RecordImportRow("skipped")
			s.progress(opts, i+1, len(records))
			continue
		}

		if err := s.importRow(ctx, rec, opts); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("row %d (%s): %v", rec.RowIndex+1, rec.Handle(), err))
			metrics.RecordImportRow("failed")
			s.logger.Warn("row import failed",
				slog.Int("row", rec.RowIndex+1),
				slog.String("handle", rec.Handle()),
				slog.Any("error", err))
		} else {
			summary.Success++
			metrics.RecordImportRow("success")
		}
		s.progress(opts, i+1, len(records))
	}
	return summary, nil
}

func (s *ImportService) progress(opts ImportOptions, done, total int) {
	if opts.Progress != nil {
		opts.Progress(done, total)
	}
}

// importRow resolves or creates the influencer, then inserts the
// campaign. No rollback across rows: a failure marks this row failed
// and the loop moves on.
func (s *ImportService) importRow(ctx context.Context, rec *mapping.Record, opts ImportOptions) error {
	inf, err := s.resolveInfluencer(ctx, rec, opts.Brand)
	if err != nil {
		return err
	}
	return s.repo.CreateCampaign(ctx, buildCampaign(rec, inf, opts))
}

func (s *ImportService) resolveInfluencer(ctx context.Context, rec *mapping.Record, fallbackBrand string) (*repository.Influencer, error) {
	brand := rec.Brand
	if brand == "" {
		brand = fallbackBrand
	}

	inf, err := s.repo.FindInfluencer(ctx, brand, rec.Handle())
	if err != nil {
		return nil, err
	}
	if inf == nil {
		inf, err = s.repo.FindInfluencerAnyBrand(ctx, rec.Handle())
		if err != nil {
			return nil, err
		}
	}
	if inf != nil {
		return inf, nil
	}

	inf = &repository.Influencer{
		Brand:         brand,
		InstaName:     rec.InstaName,
		TikTokName:    rec.TikTokName,
		FollowerCount: rec.FollowerCount,
		Country:       rec.ShippingCountry,
	}
	if err := s.repo.CreateInfluencer(ctx, inf); err != nil {
		return nil, err
	}
	return inf, nil
}

func buildCampaign(rec *mapping.Record, inf *repository.Influencer, opts ImportOptions) *repository.Campaign {
	c := &repository.Campaign{
		InfluencerID:          inf.ID,
		Brand:                 rec.Brand,
		ItemCode:              rec.ItemCode,
		Quantity:              rec.Quantity,
		SaleDate:              parseDate(rec.SaleDate),
		DesiredPostDate:       parseDate(rec.DesiredPostDate),
		AgreedDate:            parseDate(rec.AgreedDate),
		ActualPostDate:        parseDate(rec.ActualPostDate),
		OfferedAmount:         rec.OfferedAmount,
		AgreedAmount:          rec.AgreedAmount,
		Status:                rec.Status,
		Likes:                 rec.Likes,
		Comments:              rec.Comments,
		ConsiderationComments: rec.ConsiderationComments,
		IsInternational:       rec.IsInternational,
	}
	if c.Brand == "" {
		c.Brand = opts.Brand
	}
	if opts.InternationalShipping {
		c.IsInternational = true
		country := rec.ShippingCountry
		if country == "" {
			country = opts.DefaultShippingCountry
		}
		if country != "" {
			c.ShippingCountry = &country
		}
		cost := rec.ShippingCost
		if cost.IsZero() {
			cost = opts.DefaultShippingCost
		}
		c.ShippingCost = &cost
	}
	return c
}

// parseDate converts a normalized ISO date to a nullable time. Empty
// stays NULL.
func parseDate(iso string) *time.Time {
	if iso == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return nil
	}
	return &t
}
