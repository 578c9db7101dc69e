// Package scoring computes influencer scores and ranks from campaign
// history.
package scoring

import "math"

// Rank is the letter grade shown on the dashboard.
type Rank string

const (
	RankS Rank = "S"
	RankA Rank = "A"
	RankB Rank = "B"
	RankC Rank = "C"
)

// Component weights and normalization anchors. Hand-chosen values the
// dashboard has always used; historical scores are only comparable if
// these stay fixed.
const (
	weightConsideration = 0.40
	weightEngagement    = 0.25
	weightEfficiency    = 0.20
	weightReliability   = 0.15

	fullConsiderationComments = 50.0
	fullEngagementLikes       = 1000.0
	efficiencyCeilingCost     = 200.0
	efficiencyCostRange       = 150.0
	neutralEfficiency         = 50.0

	// DefaultOnTimeRate stands in when history has no dated posts.
	DefaultOnTimeRate = 80.0
)

// Input is the per-influencer aggregate the score is computed from.
type Input struct {
	AvgConsiderationComments float64 `json:"avgConsiderationComments"`
	AvgLikes                 float64 `json:"avgLikes"`
	CostPerLike              float64 `json:"costPerLike"`
	OnTimeRate               float64 `json:"onTimeRate"`
}

// Score is the weighted result with its component breakdown, each
// component on a 0-100 scale before weighting.
type Score struct {
	Total         int     `json:"total"`
	Rank          Rank    `json:"rank"`
	Consideration float64 `json:"consideration"`
	Engagement    float64 `json:"engagement"`
	Efficiency    float64 `json:"efficiency"`
	Reliability   float64 `json:"reliability"`
}

// Compute derives the 0-100 total and letter rank. Pure; callers
// aggregate history into Input however they store it.
func Compute(in Input) Score {
	s := Score{
		Consideration: math.Min(100, in.AvgConsiderationComments/fullConsiderationComments*100),
		Engagement:    math.Min(100, in.AvgLikes/fullEngagementLikes*100),
		Efficiency:    efficiency(in.CostPerLike),
		Reliability:   in.OnTimeRate,
	}
	total := s.Consideration*weightConsideration +
		s.Engagement*weightEngagement +
		s.Efficiency*weightEfficiency +
		s.Reliability*weightReliability
	s.Total = int(math.Round(total))
	s.Rank = rankFor(s.Total)
	return s
}

// efficiency maps cost-per-like onto 0-100. Zero or unknown cost reads
// as neutral, not free: a brand-new influencer with no spend history
// should not outrank proven cheap reach.
func efficiency(costPerLike float64) float64 {
	if costPerLike <= 0 {
		return neutralEfficiency
	}
	v := (efficiencyCeilingCost - costPerLike) / efficiencyCostRange * 100
	return math.Max(0, math.Min(100, v))
}

func rankFor(total int) Rank {
	switch {
	case total >= 75:
		return RankS
	case total >= 55:
		return RankA
	case total >= 35:
		return RankB
	default:
		return RankC
	}
}
