package mapping

import (
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// HeaderMapping associates target fields with the spreadsheet's actual
// column headers for one uploaded file. Fields with no confident match are
// absent; the caller surfaces them for manual assignment.
type HeaderMapping map[TargetField]string

// aliasMatcher is a prebuilt Aho-Corasick automaton over every alias in
// the schema, used by the partial pass to find alias-inside-header hits in
// a single scan per header instead of one Contains call per alias.
type aliasMatcher struct {
	matcher *ahocorasick.Matcher
	// aliasOwner[i] is the Fields index owning pattern i.
	aliasOwner []int
	aliasText  []string
}

var partialMatcher = buildAliasMatcher()

func buildAliasMatcher() *aliasMatcher {
	am := &aliasMatcher{}
	var patterns [][]byte
	for fi, spec := range Fields {
		for _, alias := range spec.Aliases {
			norm := NormalizeHeader(alias)
			patterns = append(patterns, []byte(norm))
			am.aliasOwner = append(am.aliasOwner, fi)
			am.aliasText = append(am.aliasText, norm)
		}
	}
	am.matcher = ahocorasick.NewMatcher(patterns)
	return am
}

// fieldsContainedIn returns the set of Fields indices that have at least
// one alias appearing as a substring of the normalized header.
func (am *aliasMatcher) fieldsContainedIn(normHeader string) map[int]bool {
	hits := am.matcher.Match([]byte(normHeader))
	if len(hits) == 0 {
		return nil
	}
	out := make(map[int]bool, len(hits))
	for _, h := range hits {
		out[am.aliasOwner[h]] = true
	}
	return out
}

// AutoDetect maps raw spreadsheet headers onto target fields.
//
// Two passes: an exact pass first, then a partial (substring, both
// directions) pass over whatever remains. Exact-first matters: a generic
// short alias like "amount" must not capture a header that exactly matches
// a more specific field. Within each pass, fields are tried in declaration
// order and the first alias hit wins. Each header is consumed by at most
// one field and each field receives at most one header.
func AutoDetect(headers []string) HeaderMapping {
	result := make(HeaderMapping)
	usedHeader := make([]bool, len(headers))
	usedField := make(map[TargetField]bool, len(Fields))

	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = NormalizeHeader(h)
	}

	// Exact pass. Aliases compare against both the normalized and the raw
	// header so an alias containing punctuation still matches verbatim.
	for hi, h := range headers {
		if usedHeader[hi] || norm[hi] == "" {
			continue
		}
		for _, spec := range Fields {
			if usedField[spec.Field] {
				continue
			}
			if aliasEquals(spec.Aliases, norm[hi], h) {
				result[spec.Field] = h
				usedHeader[hi] = true
				usedField[spec.Field] = true
				break
			}
		}
	}

	// Partial pass: header contains alias, or alias contains header.
	for hi, h := range headers {
		if usedHeader[hi] || norm[hi] == "" {
			continue
		}
		contained := partialMatcher.fieldsContainedIn(norm[hi])
		for fi, spec := range Fields {
			if usedField[spec.Field] {
				continue
			}
			if contained[fi] || aliasContainsHeader(spec.Aliases, norm[hi]) {
				result[spec.Field] = h
				usedHeader[hi] = true
				usedField[spec.Field] = true
				break
			}
		}
	}

	return result
}

func aliasEquals(aliases []string, normHeader, rawHeader string) bool {
	for _, a := range aliases {
		if NormalizeHeader(a) == normHeader || a == rawHeader {
			return true
		}
	}
	return false
}

func aliasContainsHeader(aliases []string, normHeader string) bool {
	for _, a := range aliases {
		if strings.Contains(NormalizeHeader(a), normHeader) {
			return true
		}
	}
	return false
}

// Unmapped lists the target fields absent from the mapping, in declaration
// order, for the manual-assignment prompt.
func Unmapped(m HeaderMapping) []TargetField {
	var out []TargetField
	for _, spec := range Fields {
		if _, ok := m[spec.Field]; !ok {
			out = append(out, spec.Field)
		}
	}
	return out
}

// Suggestion pairs a candidate header with its distance to the closest
// alias (lower is better).
type Suggestion struct {
	Header   string `json:"header"`
	Distance int    `json:"distance"`
}

// SuggestHeaders fuzzy-ranks still-unassigned headers against a field's
// aliases for the manual-assignment UI. Purely advisory; it never feeds
// back into AutoDetect.
func SuggestHeaders(field TargetField, headers []string, m HeaderMapping, limit int) []Suggestion {
	assigned := make(map[string]bool, len(m))
	for _, h := range m {
		assigned[h] = true
	}
	var spec *FieldSpec
	for i := range Fields {
		if Fields[i].Field == field {
			spec = &Fields[i]
			break
		}
	}
	if spec == nil {
		return nil
	}

	best := make(map[string]int)
	for _, h := range headers {
		if assigned[h] || strings.TrimSpace(h) == "" {
			continue
		}
		nh := NormalizeHeader(h)
		for _, alias := range spec.Aliases {
			ranks := fuzzy.RankFindNormalizedFold(NormalizeHeader(alias), []string{nh})
			if len(ranks) == 0 {
				continue
			}
			if d, ok := best[h]; !ok || ranks[0].Distance < d {
				best[h] = ranks[0].Distance
			}
		}
	}

	out := make([]Suggestion, 0, len(best))
	for h, d := range best {
		out = append(out, Suggestion{Header: h, Distance: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Header < out[j].Header
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
