package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      float64
		defaulted bool
	}{
		{"yen with comma", "¥12,000", 12000, false},
		{"full width yen", "￥3,500", 3500, false},
		{"trailing yen kanji", "12000円", 12000, false},
		{"dollar", "$1,234.50", 1234.5, false},
		{"plain", "42", 42, false},
		{"spaces", " 1 000 ", 1000, false},
		{"empty", "", 0, false},
		{"garbage", "abc", 0, true},
		{"only noise", "¥,", 0, true},
		{"negative", "-500", -500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceNumber(tt.input)
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.defaulted, got.Defaulted)
		})
	}
}

func TestCoerceStatus(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Status
		defaulted bool
	}{
		{"OK uppercase", "OK", StatusAgree, false},
		{"yes", "yes", StatusAgree, false},
		{"kanji agree", "合意", StatusAgree, false},
		{"maru", "○", StatusAgree, false},
		{"ng", "NG", StatusDisagree, false},
		{"kanji decline", "辞退", StatusDisagree, false},
		{"katakana cancel", "キャンセル", StatusCancelled, false},
		{"canceled american spelling", "canceled", StatusCancelled, false},
		{"explicit pending", "保留", StatusPending, false},
		{"empty defaults quietly", "", StatusPending, false},
		{"garbage defaults loudly", "garbage", StatusPending, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceStatus(tt.input)
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.defaulted, got.Defaulted)
		})
	}
}

func TestCleanHandle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"@misaki_style", "misaki_style"},
		{"  @tokyo.fit  ", "tokyo.fit"},
		{"\"quoted\"", "quoted"},
		{"line\nbreak", "linebreak"},
		{"plain", "plain"},
		{"@", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanHandle(tt.input))
		})
	}
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusAgree, ParseStatus("agree"))
	assert.Equal(t, StatusPending, ParseStatus("whatever"))
	assert.Equal(t, StatusPending, ParseStatus(""))
}
