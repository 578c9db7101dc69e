package mapping

// RowWarning flags a record missing business-required fields. Advisory:
// the row still imports with those fields empty; the operator sees the
// list and decides whether to fix the sheet and re-run.
type RowWarning struct {
	Row     int      `json:"row"`
	Handle  string   `json:"handle"`
	Missing []string `json:"missing"`
}

// ValidateRequiredFields checks the two business-required fields
// (quantity greater than zero, non-empty sale date) and accumulates
// one warning per deficient record.
func ValidateRequiredFields(records []Record) []RowWarning {
	var out []RowWarning
	for i := range records {
		rec := &records[i]
		var missing []string
		if rec.Quantity <= 0 {
			missing = append(missing, string(FieldQuantity))
		}
		if rec.SaleDate == "" {
			missing = append(missing, string(FieldSaleDate))
		}
		if len(missing) > 0 {
			out = append(out, RowWarning{Row: rec.RowIndex, Handle: rec.Handle(), Missing: missing})
		}
	}
	return out
}
