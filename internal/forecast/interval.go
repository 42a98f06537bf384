package forecast

import (
	"math"

	"github.com/sells-group/seo-forecast/internal/model"
)

const (
	// CTRRelativeStdDev is the assumed relative standard deviation of every
	// CTR estimate.
	CTRRelativeStdDev = 0.10
	// DefaultConfidenceLevel is used when none is configured.
	DefaultConfidenceLevel = 0.95
)

// zScores pins the conventional two-sided z values so the common levels match
// published tables exactly.
var zScores = map[float64]float64{
	0.80: 1.2816,
	0.90: 1.6449,
	0.95: 1.96,
	0.99: 2.5758,
}

// ZScore returns the two-sided z value for a confidence level in (0,1).
// Levels outside that range use DefaultConfidenceLevel.
func ZScore(level float64) float64 {
	if level <= 0 || level >= 1 {
		level = DefaultConfidenceLevel
	}
	for l, z := range zScores {
		if math.Abs(l-level) < 1e-9 {
			return z
		}
	}
	return math.Sqrt2 * math.Erfinv(level)
}

// Quadrature combines independent standard deviations.
func Quadrature(sigmas ...float64) float64 {
	var sum float64
	for _, s := range sigmas {
		sum += s * s
	}
	return math.Sqrt(sum)
}

// NewInterval builds point ± z·sigma. A negative sigma is treated as its
// absolute value so Lower <= Point <= Upper always holds.
func NewInterval(point, sigma, z float64) model.Interval {
	sigma = math.Abs(sigma)
	z = math.Abs(z)
	return model.Interval{
		Lower:  point - z*sigma,
		Point:  point,
		Upper:  point + z*sigma,
		StdDev: sigma,
	}
}
