package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/seo-forecast/internal/model"
)

func TestSteepness(t *testing.T) {
	assert.InDelta(t, 10, Steepness(0), 1e-9)
	assert.InDelta(t, 5, Steepness(2), 1e-9)
	assert.InDelta(t, 10.0/6, Steepness(10), 1e-9)
	assert.InDelta(t, 10, Steepness(-3), 1e-9)
}

func TestGrowth_IncreasesOverHorizon(t *testing.T) {
	k := Steepness(4)
	prev := 0.0
	for i := range 12 {
		g := Growth(i, 12, k)
		assert.Greater(t, g, prev)
		assert.Less(t, g, 1.0)
		prev = g
	}
	// The midpoint sits at GrowthDelay of the horizon.
	assert.InDelta(t, 0.5, Growth(1, 6, k), 1e-9)
}

func TestFactor(t *testing.T) {
	f, err := Factor(model.CategoryChristmas, time.December)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, f, 1e-9)

	f, err = Factor(model.CategoryGardening, time.May)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, f, 1e-9)

	_, err = Factor(model.CategoryBBQ, 13)
	require.Error(t, err)
	_, err = Factor("toys", time.May)
	require.Error(t, err)
}

func TestSeasonality_CoversEveryCategory(t *testing.T) {
	for _, c := range model.Categories() {
		s, err := Seasonality(c)
		require.NoError(t, err, c)
		for _, v := range s {
			assert.Greater(t, v, 0.0)
		}
	}
}
