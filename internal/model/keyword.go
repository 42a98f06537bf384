// Package model defines the records exchanged between the forecasting core and
// its collaborators (ingestion, export, storage, HTTP and CLI surfaces).
package model

import "math"

// DifficultyMax is the hardest difficulty score. Difficulty runs from 0
// (full desired improvement) to DifficultyMax (no improvement).
const DifficultyMax = 10.0

// Keyword is one row of forecast input.
type Keyword struct {
	Term           string  `json:"term" yaml:"term" csv:"keyword"`
	SearchVolume   int     `json:"search_volume" yaml:"search_volume" csv:"search_volume"`
	Position       int     `json:"position" yaml:"position" csv:"position"`
	TargetPosition int     `json:"target_position" yaml:"target_position" csv:"target_position"`
	Difficulty     float64 `json:"difficulty" yaml:"difficulty" csv:"difficulty"`
}

// Sanitized returns a copy with negative volumes clamped to zero and
// positions clamped to at least 1.
func (k Keyword) Sanitized() Keyword {
	if k.SearchVolume < 0 {
		k.SearchVolume = 0
	}
	if k.Position < 1 {
		k.Position = 1
	}
	if k.TargetPosition < 1 {
		k.TargetPosition = 1
	}
	return k
}

// ClampedDifficulty returns the difficulty limited to [0, DifficultyMax].
// NaN counts as the easiest score.
func (k Keyword) ClampedDifficulty() float64 {
	if math.IsNaN(k.Difficulty) {
		return 0
	}
	return math.Min(DifficultyMax, math.Max(0, k.Difficulty))
}

// KeywordResult holds the derived per-keyword figures of a forecast run.
type KeywordResult struct {
	Keyword

	AdjustedTargetPosition int     `json:"adjusted_target_position" csv:"adjusted_target_position"`
	CurrentCTR             float64 `json:"current_ctr" csv:"current_ctr"`
	TargetCTR              float64 `json:"target_ctr" csv:"target_ctr"`
	CurrentTraffic         float64 `json:"current_traffic" csv:"current_traffic"`
	TargetTraffic          float64 `json:"target_traffic" csv:"target_traffic"`
	TrafficGain            float64 `json:"traffic_gain" csv:"traffic_gain"`
	TrafficGainPct         float64 `json:"traffic_gain_pct" csv:"traffic_gain_pct"`
	ConversionGain         float64 `json:"conversion_gain" csv:"conversion_gain"`
	RevenueGain            float64 `json:"revenue_gain" csv:"revenue_gain"`

	CurrentTrafficStd float64 `json:"current_traffic_std" csv:"current_traffic_std"`
	TargetTrafficStd  float64 `json:"target_traffic_std" csv:"target_traffic_std"`
	TrafficGainStd    float64 `json:"traffic_gain_std" csv:"traffic_gain_std"`
}

// AverageDifficulty returns the mean clamped difficulty of the keyword list,
// or 0 for an empty list.
func AverageDifficulty(keywords []Keyword) float64 {
	if len(keywords) == 0 {
		return 0
	}
	var sum float64
	for _, k := range keywords {
		sum += k.ClampedDifficulty()
	}
	return sum / float64(len(keywords))
}
