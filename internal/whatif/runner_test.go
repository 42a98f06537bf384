package whatif

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/seo-forecast/internal/model"
)

func sampleKeywords() []model.Keyword {
	return []model.Keyword{
		{Term: "gas bbq", SearchVolume: 8000, Position: 8, TargetPosition: 1, Difficulty: 5},
		{Term: "charcoal bbq", SearchVolume: 6500, Position: 12, TargetPosition: 3, Difficulty: 4},
		{Term: "bbq grill", SearchVolume: 5000, Position: 9, TargetPosition: 2, Difficulty: 6},
		{Term: "bbq accessories", SearchVolume: 3000, Position: 15, TargetPosition: 5, Difficulty: 3},
	}
}

func TestRun_ConversionRateSweepIncreasesRevenue(t *testing.T) {
	values, err := LinSpace(1, 5, DefaultSteps)
	require.NoError(t, err)

	rows, err := NewRunner(sampleKeywords(), model.DefaultSettings(), WithConcurrency(2)).
		Run(context.Background(), Sweep{Variable: model.SweepConversionRate, Values: values})
	require.NoError(t, err)
	require.Len(t, rows, 5)

	for i, r := range rows {
		assert.Equal(t, model.SweepConversionRate, r.Variable)
		assert.InDelta(t, values[i], r.Value, 1e-9)
		// Traffic does not depend on the conversion rate.
		assert.InDelta(t, rows[0].TrafficGain, r.TrafficGain, 1e-9)
		if i > 0 {
			assert.Greater(t, r.RevenueGain, rows[i-1].RevenueGain)
			assert.Greater(t, r.ROI, rows[i-1].ROI)
		}
	}
}

func TestRun_AOVSweepIsLinear(t *testing.T) {
	rows, err := NewRunner(sampleKeywords(), model.DefaultSettings()).
		Run(context.Background(), Sweep{Variable: model.SweepAOV, Values: []float64{100, 200, 400}})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.InDelta(t, rows[0].RevenueGain*2, rows[1].RevenueGain, 1e-6)
	assert.InDelta(t, rows[0].RevenueGain*4, rows[2].RevenueGain, 1e-6)
	assert.InDelta(t, rows[0].ConversionGain, rows[2].ConversionGain, 1e-9)
}

func TestRun_TargetPositionsDefaultImprovements(t *testing.T) {
	rows, err := NewRunner(sampleKeywords(), model.DefaultSettings()).
		Run(context.Background(), Sweep{Variable: model.SweepTargetPositions})
	require.NoError(t, err)
	require.Len(t, rows, len(DefaultImprovements))

	for i, r := range rows {
		assert.InDelta(t, DefaultImprovements[i], r.Value, 1e-9)
		if i > 0 {
			assert.GreaterOrEqual(t, r.TrafficGain, rows[i-1].TrafficGain)
		}
	}
}

func TestRun_FullImprovementReachesTarget(t *testing.T) {
	kw := []model.Keyword{{Term: "hard", SearchVolume: 1000, Position: 10, TargetPosition: 1, Difficulty: 10}}
	rows, err := NewRunner(kw, model.DefaultSettings()).
		Run(context.Background(), Sweep{Variable: model.SweepTargetPositions, Values: []float64{0, 100}})
	require.NoError(t, err)

	assert.InDelta(t, 0, rows[0].TrafficGain, 1e-9)
	// Ecommerce: rank 10 = 0.01, rank 1 = 0.30, difficulty ignored.
	assert.InDelta(t, 290, rows[1].TrafficGain, 1e-9)
}

func TestRun_BreakEvenFollowsRevenue(t *testing.T) {
	s := model.DefaultSettings()
	s.ImplementationCost = 1e9
	rows, err := NewRunner(sampleKeywords(), s).
		Run(context.Background(), Sweep{Variable: model.SweepAOV, Values: []float64{1, 1e6}})
	require.NoError(t, err)

	assert.Nil(t, rows[0].BreakEvenMonth)
	require.NotNil(t, rows[1].BreakEvenMonth)
	assert.GreaterOrEqual(t, *rows[1].BreakEvenMonth, 1)
}

func TestRun_EmptyKeywords(t *testing.T) {
	rows, err := NewRunner(nil, model.DefaultSettings()).
		Run(context.Background(), Sweep{Variable: model.SweepAOV, Values: []float64{10, 20}})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.InDelta(t, 0, r.TrafficGain, 1e-9)
		assert.Nil(t, r.BreakEvenMonth)
	}
}

func TestRun_Errors(t *testing.T) {
	bad := model.DefaultSettings()
	bad.Months = 7

	tests := []struct {
		name     string
		settings model.Settings
		sweep    Sweep
		errMsg   string
	}{
		{"unknown variable", model.DefaultSettings(), Sweep{Variable: "clicks", Values: []float64{1}}, "unknown variable"},
		{"no values", model.DefaultSettings(), Sweep{Variable: model.SweepAOV}, "no values"},
		{"rate out of range", model.DefaultSettings(), Sweep{Variable: model.SweepConversionRate, Values: []float64{1, 120}}, "outside [0,100]"},
		{"negative aov", model.DefaultSettings(), Sweep{Variable: model.SweepAOV, Values: []float64{-1}}, "must be >= 0"},
		{"bad improvement", model.DefaultSettings(), Sweep{Variable: model.SweepTargetPositions, Values: []float64{150}}, "improvement"},
		{"invalid settings", bad, Sweep{Variable: model.SweepAOV, Values: []float64{1}}, "months must be 6 or 12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(sampleKeywords(), tt.settings).Run(context.Background(), tt.sweep)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(sampleKeywords(), model.DefaultSettings()).
		Run(ctx, Sweep{Variable: model.SweepAOV, Values: []float64{1, 2, 3}})
	require.Error(t, err)
}

func TestLinSpace(t *testing.T) {
	got, err := LinSpace(1, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, got)

	got, err = LinSpace(0.5, 1.5, 3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 1.0, 1.5}, got, 1e-12)

	_, err = LinSpace(5, 5, 5)
	require.Error(t, err)
	_, err = LinSpace(6, 5, 5)
	require.Error(t, err)
	_, err = LinSpace(1, 5, 1)
	require.Error(t, err)
}
