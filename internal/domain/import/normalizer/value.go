package normalizer

import (
	"strconv"
	"strings"
)

// Status is the negotiation state of a gifting campaign.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAgree     Status = "agree"
	StatusDisagree  Status = "disagree"
	StatusCancelled Status = "cancelled"
)

// NumberResult is the outcome of a numeric coercion.
type NumberResult struct {
	Value     float64
	Defaulted bool // true when a non-empty input could not be parsed
}

// StatusResult is the outcome of a status coercion.
type StatusResult struct {
	Value     Status
	Defaulted bool // true when a non-empty input matched no synonym
}

// numericNoise holds the characters stripped before parsing a number:
// thousands separators, spaces (half and full width) and currency symbols.
var numericNoise = strings.NewReplacer(
	",", "",
	" ", "",
	"　", "", // full-width space
	"¥", "",
	"￥", "",
	"円", "",
	"$", "",
	"€", "",
	"£", "",
)

// CoerceNumber strips currency noise and parses the remainder as a float.
// Empty input is a plain zero; non-empty unparseable input is a defaulted
// zero. Never returns NaN.
func CoerceNumber(raw string) NumberResult {
	s := strings.TrimSpace(raw)
	if s == "" {
		return NumberResult{}
	}
	s = numericNoise.Replace(s)
	if s == "" {
		return NumberResult{Defaulted: true}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NumberResult{Defaulted: true}
	}
	return NumberResult{Value: f}
}

// statusSynonyms maps normalized free-text values onto the status enum.
// The lists are curated from real operator spreadsheets; anything
// unrecognized falls back to pending.
var statusSynonyms = map[string]Status{
	// agree
	"agree": StatusAgree, "agreed": StatusAgree, "ok": StatusAgree,
	"yes": StatusAgree, "y": StatusAgree, "done": StatusAgree,
	"合意": StatusAgree, "承諾": StatusAgree, "快諾": StatusAgree,
	"○": StatusAgree, "〇": StatusAgree, "◯": StatusAgree,

	// disagree
	"disagree": StatusDisagree, "declined": StatusDisagree, "no": StatusDisagree,
	"n": StatusDisagree, "ng": StatusDisagree,
	"拒否": StatusDisagree, "辞退": StatusDisagree, "不可": StatusDisagree,
	"×": StatusDisagree, "✕": StatusDisagree,

	// cancelled
	"cancel": StatusCancelled, "cancelled": StatusCancelled, "canceled": StatusCancelled,
	"キャンセル": StatusCancelled, "中止": StatusCancelled, "取消": StatusCancelled,

	// pending (explicit)
	"pending": StatusPending, "wip": StatusPending,
	"保留": StatusPending, "未定": StatusPending, "交渉中": StatusPending, "検討中": StatusPending,
}

// CoerceStatus matches free text against the synonym lists,
// case-insensitively. Empty input is a plain pending; unmatched input is a
// defaulted pending.
func CoerceStatus(raw string) StatusResult {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return StatusResult{Value: StatusPending}
	}
	if st, ok := statusSynonyms[s]; ok {
		return StatusResult{Value: st}
	}
	return StatusResult{Value: StatusPending, Defaulted: true}
}

// boolSynonyms are the values read as true for flag columns like the
// international-shipping marker. Anything else is false.
var boolSynonyms = map[string]struct{}{
	"true": {}, "1": {}, "yes": {}, "y": {}, "ok": {},
	"有": {}, "海外": {}, "○": {}, "〇": {}, "◯": {},
}

// CoerceBool reads a flag cell. Empty or unrecognized input is false and
// never flagged as defaulted; flags are optional by nature.
func CoerceBool(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	_, ok := boolSynonyms[s]
	return ok
}

// handleNoise holds the characters stripped out of influencer handles:
// quotes and stray newlines pasted in from other tools.
var handleNoise = strings.NewReplacer(
	"\"", "",
	"'", "",
	"\n", "",
	"\r", "",
)

// CleanHandle trims a social-media handle and strips a leading @ plus
// embedded quote and newline characters.
func CleanHandle(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "@")
	s = handleNoise.Replace(s)
	return strings.TrimSpace(s)
}

// ParseStatus converts a stored status string back to the enum, for rows
// read from the database. Unknown values read as pending.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusAgree, StatusDisagree, StatusCancelled, StatusPending:
		return Status(s)
	default:
		return StatusPending
	}
}
