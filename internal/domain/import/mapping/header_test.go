package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoDetect_JapaneseHeaders(t *testing.T) {
	headers := []string{"ブランド", "Instagram名", "品番"}

	m := AutoDetect(headers)

	assert.Equal(t, "ブランド", m[FieldBrand])
	assert.Equal(t, "Instagram名", m[FieldInstaName])
	assert.Equal(t, "品番", m[FieldItemCode])
}

func TestAutoDetect_MixedSheet(t *testing.T) {
	headers := []string{
		"Brand", "Instagram Name", "TikTok名", "数量", "販売日",
		"合意金額", "ステータス", "いいね数", "送料",
	}

	m := AutoDetect(headers)

	assert.Equal(t, "Brand", m[FieldBrand])
	assert.Equal(t, "Instagram Name", m[FieldInstaName])
	assert.Equal(t, "TikTok名", m[FieldTikTokName])
	assert.Equal(t, "数量", m[FieldQuantity])
	assert.Equal(t, "販売日", m[FieldSaleDate])
	assert.Equal(t, "合意金額", m[FieldAgreedAmount])
	assert.Equal(t, "ステータス", m[FieldStatus])
	assert.Equal(t, "いいね数", m[FieldLikes])
	assert.Equal(t, "送料", m[FieldShippingCost])
	_, ok := m[FieldSaleDate]
	assert.True(t, ok)
}

func TestAutoDetect_NormalizationVariants(t *testing.T) {
	// Underscores, hyphens and casing all collapse to the same alias.
	m := AutoDetect([]string{"Instagram_Name", "ITEM-CODE", "  agreed amount  "})

	assert.Equal(t, "Instagram_Name", m[FieldInstaName])
	assert.Equal(t, "ITEM-CODE", m[FieldItemCode])
	assert.Equal(t, "  agreed amount  ", m[FieldAgreedAmount])
}

func TestAutoDetect_ExactBeatsPartial(t *testing.T) {
	// "amount" is an exact alias of agreed_amount; the exact pass must
	// claim it before offered_amount's partial "offered amount" ⊃ "amount"
	// containment can.
	m := AutoDetect([]string{"Amount", "Offered Amount"})

	assert.Equal(t, "Amount", m[FieldAgreedAmount])
	assert.Equal(t, "Offered Amount", m[FieldOfferedAmount])
}

func TestAutoDetect_OneHeaderPerField(t *testing.T) {
	// Two headers loosely matching the same field: exactly one wins, the
	// other stays available for later fields.
	m := AutoDetect([]string{"Instagram", "Instagram アカウント名"})

	seen := make(map[string]TargetField)
	for f, h := range m {
		prev, dup := seen[h]
		require.Falsef(t, dup, "header %q mapped to both %s and %s", h, prev, f)
		seen[h] = f
	}
	assert.Equal(t, "Instagram", m[FieldInstaName])
}

func TestAutoDetect_PartialContainment(t *testing.T) {
	// Header contains an alias ("キャンペーン ステータス" ⊃ "ステータス").
	m := AutoDetect([]string{"キャンペーン ステータス"})
	assert.Equal(t, "キャンペーン ステータス", m[FieldStatus])

	// Alias contains the header ("instagram名" ⊃ "instagra").
	m = AutoDetect([]string{"instagra"})
	assert.Equal(t, "instagra", m[FieldInstaName])
}

func TestAutoDetect_UnmappedFieldsAbsent(t *testing.T) {
	m := AutoDetect([]string{"ブランド"})

	_, ok := m[FieldQuantity]
	assert.False(t, ok)

	unmapped := Unmapped(m)
	assert.Contains(t, unmapped, FieldQuantity)
	assert.NotContains(t, unmapped, FieldBrand)
}

func TestAutoDetect_EmptyAndDuplicateHeaders(t *testing.T) {
	m := AutoDetect([]string{"", "ブランド", "ブランド", ""})

	// Only one field mapping; both empty headers ignored.
	assert.Len(t, m, 1)
	assert.Equal(t, "ブランド", m[FieldBrand])
}

func TestSuggestHeaders(t *testing.T) {
	headers := []string{"instagramm", "品番", "quantity!!"}
	m := HeaderMapping{FieldItemCode: "品番"}

	suggestions := SuggestHeaders(FieldInstaName, headers, m, 3)

	require.NotEmpty(t, suggestions)
	assert.Equal(t, "instagramm", suggestions[0].Header)

	// Already-assigned headers never come back as suggestions.
	for _, s := range suggestions {
		assert.NotEqual(t, "品番", s.Header)
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Instagram_Name", "instagram name"},
		{"  agreed---amount ", "agreed amount"},
		{"ITEM  CODE", "item code"},
		{"ブランド", "ブランド"},
		{"", ""},
		{"___", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeHeader(tt.in), tt.in)
	}
}
