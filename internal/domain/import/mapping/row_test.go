package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harukimedia/giftflow/internal/domain/import/normalizer"
)

var testHeaders = []string{
	"Instagram名", "TikTok名", "ブランド", "品番", "数量",
	"販売日", "合意金額", "ステータス", "いいね数", "送料",
}

func testMapping() HeaderMapping {
	return AutoDetect(testHeaders)
}

func TestMapRows_Basic(t *testing.T) {
	rows := [][]string{
		{"@misaki_style", "", "Loom&Co", "LC-104", "2", "2024/3/4", "¥12,000", "OK", "1,250", "800"},
	}

	records, warnings := MapRows(rows, testMapping(), testHeaders, RowOptions{})

	require.Len(t, records, 1)
	assert.Empty(t, warnings)

	rec := records[0]
	assert.Equal(t, 0, rec.RowIndex)
	assert.Equal(t, "misaki_style", rec.InstaName)
	assert.Equal(t, "Loom&Co", rec.Brand)
	assert.Equal(t, "LC-104", rec.ItemCode)
	assert.Equal(t, 2, rec.Quantity)
	assert.Equal(t, "2024-03-04", rec.SaleDate)
	assert.Equal(t, "12000", rec.AgreedAmount.String())
	assert.Equal(t, normalizer.StatusAgree, rec.Status)
	assert.Equal(t, 1250, rec.Likes)
	assert.Equal(t, "800", rec.ShippingCost.String())
}

func TestMapRows_DropsHandlelessRows(t *testing.T) {
	rows := [][]string{
		{"@keep_me", "", "B", "X-1", "1", "", "", "", "", ""},
		{"", "", "B", "X-2", "1", "", "", "", "", ""},   // no handle at all
		{"@", "\"\"", "B", "X-3", "1", "", "", "", "", ""}, // handles empty after cleanup
		{"", "@tok_only", "B", "X-4", "1", "", "", "", "", ""},
	}

	records, _ := MapRows(rows, testMapping(), testHeaders, RowOptions{})

	require.Len(t, records, 2)
	assert.Equal(t, "keep_me", records[0].Handle())
	assert.Equal(t, "tok_only", records[1].Handle())
	// Row indices refer to the original sheet positions.
	assert.Equal(t, 0, records[0].RowIndex)
	assert.Equal(t, 3, records[1].RowIndex)
}

func TestMapRows_DefaultedCellsWarn(t *testing.T) {
	rows := [][]string{
		{"@a", "", "B", "X", "two", "someday", "abc", "garbage", "", ""},
	}

	records, warnings := MapRows(rows, testMapping(), testHeaders, RowOptions{})

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, 0, rec.Quantity)
	assert.Empty(t, rec.SaleDate)
	assert.Equal(t, "0", rec.AgreedAmount.String())
	assert.Equal(t, normalizer.StatusPending, rec.Status)

	fields := make(map[TargetField]bool)
	for _, w := range warnings {
		fields[w.Field] = true
	}
	assert.True(t, fields[FieldQuantity])
	assert.True(t, fields[FieldSaleDate])
	assert.True(t, fields[FieldAgreedAmount])
	assert.True(t, fields[FieldStatus])
}

func TestMapRows_BrandFallback(t *testing.T) {
	rows := [][]string{
		{"@a", "", "", "X", "1", "", "", "", "", ""},
	}

	records, _ := MapRows(rows, testMapping(), testHeaders, RowOptions{Brand: "Loom&Co"})

	require.Len(t, records, 1)
	assert.Equal(t, "Loom&Co", records[0].Brand)
}

func TestMapRows_MappingOverrideRemaps(t *testing.T) {
	headers := []string{"Account", "数量"}
	rows := [][]string{{"@a", "3"}}

	// Auto-detection cannot place "Account"; the row is dropped.
	m := AutoDetect(headers)
	records, _ := MapRows(rows, m, headers, RowOptions{})
	assert.Empty(t, records)

	// Operator assigns the header manually; a full re-map picks it up.
	m[FieldInstaName] = "Account"
	records, _ = MapRows(rows, m, headers, RowOptions{})
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].InstaName)
	assert.Equal(t, 3, records[0].Quantity)
}

func TestMapRows_ShortRows(t *testing.T) {
	// Rows shorter than the header set read missing cells as empty.
	rows := [][]string{{"@a", "", "B", "X", "1"}}

	records, warnings := MapRows(rows, testMapping(), testHeaders, RowOptions{})

	require.Len(t, records, 1)
	assert.Empty(t, warnings)
	assert.Empty(t, records[0].SaleDate)
}

func TestValidateRequiredFields(t *testing.T) {
	records := []Record{
		{RowIndex: 0, InstaName: "ok", Quantity: 1, SaleDate: "2024-03-04"},
		{RowIndex: 1, InstaName: "noqty", Quantity: 0, SaleDate: "2024-03-04"},
		{RowIndex: 2, InstaName: "nodate", Quantity: 2},
		{RowIndex: 3, TikTokName: "neither"},
	}

	warnings := ValidateRequiredFields(records)

	require.Len(t, warnings, 3)
	assert.Equal(t, 1, warnings[0].Row)
	assert.Equal(t, []string{"quantity"}, warnings[0].Missing)
	assert.Equal(t, []string{"sale_date"}, warnings[1].Missing)
	assert.Equal(t, 3, warnings[2].Row)
	assert.Equal(t, "neither", warnings[2].Handle)
	assert.ElementsMatch(t, []string{"quantity", "sale_date"}, warnings[2].Missing)
}
