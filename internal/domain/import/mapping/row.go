package mapping

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/harukimedia/giftflow/internal/domain/import/normalizer"
)

// CellWarning records a non-empty cell that a coercer silently defaulted.
// Advisory only: the row still imports with the defaulted value.
type CellWarning struct {
	Row   int         `json:"row"`
	Field TargetField `json:"field"`
	Raw   string      `json:"raw"`
}

// RowOptions tunes the row mapper for one upload session.
type RowOptions struct {
	// Brand fills records whose brand column is unmapped or empty.
	Brand string
	// DateOrder resolves the slash-date ambiguity; zero value keeps the
	// legacy month-first order.
	DateOrder normalizer.PatternOrder
}

// MapRows converts raw sheet rows into typed import records using the
// header mapping. Rows that resolve neither an Instagram nor a TikTok
// handle are dropped; every other deficiency is advisory. The returned
// record row indices refer to positions in rawRows, so they stay stable
// across a re-map after a mapping override.
func MapRows(rawRows [][]string, m HeaderMapping, headers []string, opts RowOptions) ([]Record, []CellWarning) {
	cols := columnIndexes(m, headers)

	records := make([]Record, 0, len(rawRows))
	var warnings []CellWarning

	for i, row := range rawRows {
		rec, warns := mapRow(row, i, cols, opts)
		if rec == nil {
			continue
		}
		records = append(records, *rec)
		warnings = append(warnings, warns...)
	}
	return records, warnings
}

// columnIndexes resolves each mapped field to a column index via the
// header list. Duplicate headers resolve to the first occurrence.
func columnIndexes(m HeaderMapping, headers []string) map[TargetField]int {
	cols := make(map[TargetField]int, len(m))
	for field, header := range m {
		for i, h := range headers {
			if h == header {
				cols[field] = i
				break
			}
		}
	}
	return cols
}

func mapRow(row []string, rowIndex int, cols map[TargetField]int, opts RowOptions) (*Record, []CellWarning) {
	cell := func(f TargetField) string {
		idx, ok := cols[f]
		if !ok || idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	rec := &Record{
		RowIndex:      rowIndex,
		OfferedAmount: decimal.Zero,
		AgreedAmount:  decimal.Zero,
		ShippingCost:  decimal.Zero,
	}
	var warnings []CellWarning

	warn := func(f TargetField, raw string) {
		warnings = append(warnings, CellWarning{Row: rowIndex, Field: f, Raw: raw})
	}

	number := func(f TargetField) float64 {
		raw := cell(f)
		res := normalizer.CoerceNumber(raw)
		if res.Defaulted {
			warn(f, raw)
		}
		return res.Value
	}
	date := func(f TargetField) string {
		raw := cell(f)
		res := normalizer.NormalizeDate(raw, opts.DateOrder)
		if res.Defaulted {
			warn(f, raw)
		}
		return res.Value
	}

	rec.InstaName = normalizer.CleanHandle(cell(FieldInstaName))
	rec.TikTokName = normalizer.CleanHandle(cell(FieldTikTokName))
	if rec.InstaName == "" && rec.TikTokName == "" {
		// Not importable without an identifying handle.
		return nil, nil
	}

	rec.Brand = trimCell(cell(FieldBrand))
	if rec.Brand == "" {
		rec.Brand = opts.Brand
	}
	rec.ItemCode = trimCell(cell(FieldItemCode))
	rec.ShippingCountry = trimCell(cell(FieldShippingCountry))

	rec.Quantity = int(number(FieldQuantity))
	rec.FollowerCount = int(number(FieldFollowerCount))
	rec.Likes = int(number(FieldLikes))
	rec.Comments = int(number(FieldComments))
	rec.ConsiderationComments = int(number(FieldConsiderationComments))

	rec.SaleDate = date(FieldSaleDate)
	rec.DesiredPostDate = date(FieldDesiredPostDate)
	rec.AgreedDate = date(FieldAgreedDate)
	rec.ActualPostDate = date(FieldActualPostDate)

	rec.OfferedAmount = decimal.NewFromFloat(number(FieldOfferedAmount))
	rec.AgreedAmount = decimal.NewFromFloat(number(FieldAgreedAmount))
	rec.ShippingCost = decimal.NewFromFloat(number(FieldShippingCost))

	statusRaw := cell(FieldStatus)
	statusRes := normalizer.CoerceStatus(statusRaw)
	if statusRes.Defaulted {
		warn(FieldStatus, statusRaw)
	}
	rec.Status = statusRes.Value

	rec.IsInternational = normalizer.CoerceBool(cell(FieldIsInternational))

	return rec, warnings
}

func trimCell(s string) string {
	return strings.TrimSpace(s)
}
