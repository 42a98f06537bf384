package projection

import "math"

const (
	// GrowthDelay is the horizon fraction at which ramp-up reaches its midpoint.
	GrowthDelay = 0.2
	// SteepnessBase is the sigmoid steepness for zero-difficulty keywords.
	SteepnessBase = 10.0
)

// Steepness returns the ramp-up steepness for an average keyword difficulty.
// Harder keyword sets ramp up more slowly.
func Steepness(avgDifficulty float64) float64 {
	if avgDifficulty < 0 {
		avgDifficulty = 0
	}
	return SteepnessBase / (1 + avgDifficulty/2)
}

// Growth returns the sigmoid ramp-up factor for 0-based month i of a horizon.
func Growth(i, months int, k float64) float64 {
	progress := 1.0
	if months > 1 {
		progress = float64(i) / float64(months-1)
	}
	return 1 / (1 + math.Exp(-k*(progress-GrowthDelay)))
}
