// Package normalizer converts raw spreadsheet cell values into canonical
// forms: ISO dates, plain numbers, status enums and clean handles.
// All coercions are best-effort and never return an error; a value that
// cannot be parsed degrades to its zero form with Defaulted set so callers
// can surface soft warnings.
package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateResult is the outcome of a date coercion.
type DateResult struct {
	Value     string // YYYY-MM-DD, or "" when the input could not be parsed
	Defaulted bool   // true when a non-empty input was discarded
}

// PatternOrder selects which side of the slash-date ambiguity wins.
// Patterns like "03/04/2024" parse as month-first under MonthFirst and as
// day-first under DayFirst. MonthFirst matches the legacy behavior and is
// the default everywhere.
type PatternOrder int

const (
	MonthFirst PatternOrder = iota
	DayFirst
)

// serialEpoch is 25569 days before the Unix epoch (1899-12-30), the
// 1900-based spreadsheet date origin.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

type datePattern struct {
	re    *regexp.Regexp
	build func(m []string, now time.Time) (year, month, day int)
}

var (
	reMonthDay     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
	reMDY          = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	reYMDSlash     = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)
	reYMDDash      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	reDMY          = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	reKanjiFull    = regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日$`)
	reKanjiNoYear  = regexp.MustCompile(`^(\d{1,2})月(\d{1,2})日$`)
	reNumericValue = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// monthFirstPatterns is the legacy pattern list, tried strictly in order.
// M/D/YYYY appears before D/M/YYYY, so an input like "03/04/2024" always
// reads as March 4th regardless of locale. The ambiguity is intentional;
// use DayFirst to flip it per import.
var monthFirstPatterns = []datePattern{
	{reMonthDay, func(m []string, now time.Time) (int, int, int) {
		return now.Year(), atoi(m[1]), atoi(m[2])
	}},
	{reMDY, func(m []string, _ time.Time) (int, int, int) {
		return atoi(m[3]), atoi(m[1]), atoi(m[2])
	}},
	{reYMDSlash, func(m []string, _ time.Time) (int, int, int) {
		return atoi(m[1]), atoi(m[2]), atoi(m[3])
	}},
	{reYMDDash, func(m []string, _ time.Time) (int, int, int) {
		return atoi(m[1]), atoi(m[2]), atoi(m[3])
	}},
	{reDMY, func(m []string, _ time.Time) (int, int, int) {
		return atoi(m[3]), atoi(m[2]), atoi(m[1])
	}},
	{reKanjiFull, func(m []string, _ time.Time) (int, int, int) {
		return atoi(m[1]), atoi(m[2]), atoi(m[3])
	}},
	{reKanjiNoYear, func(m []string, now time.Time) (int, int, int) {
		return now.Year(), atoi(m[1]), atoi(m[2])
	}},
}

// dayFirstPatterns swaps the two ambiguous slash patterns.
var dayFirstPatterns = []datePattern{
	monthFirstPatterns[0],
	monthFirstPatterns[4], // D/M/YYYY
	monthFirstPatterns[2],
	monthFirstPatterns[3],
	monthFirstPatterns[1], // M/D/YYYY
	monthFirstPatterns[5],
	monthFirstPatterns[6],
}

// fallbackLayouts are tried when no fixed pattern matches.
var fallbackLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006.01.02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// NormalizeDate converts a raw cell value to a YYYY-MM-DD string.
// Numeric input is read as a spreadsheet date serial. String input is tried
// against the fixed pattern list in declaration order; the first pattern
// whose components form a real calendar date wins. Unparseable input yields
// an empty value, never an error.
func NormalizeDate(raw any, order PatternOrder) DateResult {
	return normalizeDateAt(raw, order, time.Now())
}

func normalizeDateAt(raw any, order PatternOrder, now time.Time) DateResult {
	switch v := raw.(type) {
	case nil:
		return DateResult{}
	case float64:
		return serialToDate(v)
	case float32:
		return serialToDate(float64(v))
	case int:
		return serialToDate(float64(v))
	case int64:
		return serialToDate(float64(v))
	case time.Time:
		return DateResult{Value: v.Format("2006-01-02")}
	case string:
		return normalizeDateString(v, order, now)
	default:
		return DateResult{Defaulted: true}
	}
}

func normalizeDateString(s string, order PatternOrder, now time.Time) DateResult {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateResult{}
	}

	// Raw-value exports hand us serials as strings. Restrict the range so a
	// bare year like "2024" is not mistaken for 1905.
	if reNumericValue.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 20000 && f < 80000 {
			return serialToDate(f)
		}
		return DateResult{Defaulted: true}
	}

	patterns := monthFirstPatterns
	if order == DayFirst {
		patterns = dayFirstPatterns
	}
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		year, month, day := p.build(m, now)
		if iso, ok := calendarDate(year, month, day); ok {
			return DateResult{Value: iso}
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateResult{Value: t.Format("2006-01-02")}
		}
	}

	return DateResult{Defaulted: true}
}

// serialToDate converts a 1900-epoch day serial into an ISO date.
// Fractional day parts (time of day) are discarded.
func serialToDate(serial float64) DateResult {
	if serial <= 0 || serial >= 2958466 { // excel's upper bound, year 9999
		return DateResult{Defaulted: true}
	}
	d := serialEpoch.AddDate(0, 0, int(serial))
	return DateResult{Value: d.Format("2006-01-02")}
}

// calendarDate validates the components and formats them, rejecting
// impossible dates like February 30th via time.Date round-trip.
func calendarDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
