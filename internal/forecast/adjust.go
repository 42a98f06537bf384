// Package forecast computes traffic, conversion and revenue gains for a
// keyword list moving from its current ranks to achievable target ranks.
package forecast

import (
	"math"

	"github.com/sells-group/seo-forecast/internal/model"
)

// DifficultyScaleMax is the hardest difficulty score.
const DifficultyScaleMax = model.DifficultyMax

// Adjuster decides which rank a keyword realistically reaches.
type Adjuster interface {
	Adjust(k model.Keyword) int
}

// DifficultyAdjuster damps the desired improvement by keyword difficulty:
//
//	adjusted = max(1, min(p, round(p - (p - t) * (1 - d/ScaleMax))))
//
// The min(p, ...) clamp only applies when the target is an improvement, so a
// target worse than the current rank still yields a negative gain.
type DifficultyAdjuster struct {
	ScaleMax float64
}

// NewDifficultyAdjuster returns the adjuster used by regular forecast runs.
func NewDifficultyAdjuster() DifficultyAdjuster {
	return DifficultyAdjuster{ScaleMax: DifficultyScaleMax}
}

// Adjust implements Adjuster.
func (a DifficultyAdjuster) Adjust(k model.Keyword) int {
	scale := a.ScaleMax
	if scale <= 0 {
		scale = DifficultyScaleMax
	}
	d := math.Min(scale, k.ClampedDifficulty())
	return AdjustTarget(k.Position, k.TargetPosition, 1-d/scale)
}

// FlatAdjuster realizes a fixed fraction of every keyword's desired
// improvement and ignores difficulty. What-if sweeps over target positions use
// it instead of DifficultyAdjuster.
type FlatAdjuster struct {
	Fraction float64
}

// Adjust implements Adjuster.
func (a FlatAdjuster) Adjust(k model.Keyword) int {
	return AdjustTarget(k.Position, k.TargetPosition, a.Fraction)
}

// AdjustTarget moves from current rank p towards t by fraction of the
// distance, rounding half away from zero.
func AdjustTarget(p, t int, fraction float64) int {
	if p < 1 {
		p = 1
	}
	if t < 1 {
		t = 1
	}
	adjusted := int(math.Round(float64(p) - float64(p-t)*fraction))
	if t <= p && adjusted > p {
		adjusted = p
	}
	if adjusted < 1 {
		adjusted = 1
	}
	return adjusted
}
