package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/seo-forecast/internal/model"
)

func TestDifficultyAdjuster(t *testing.T) {
	t.Parallel()
	adj := NewDifficultyAdjuster()

	tests := []struct {
		name string
		kw   model.Keyword
		want int
	}{
		{"gas bbq example", model.Keyword{Position: 8, TargetPosition: 3, Difficulty: 5}, 6},
		{"easiest reaches target", model.Keyword{Position: 20, TargetPosition: 4, Difficulty: 0}, 4},
		{"hardest stays put", model.Keyword{Position: 20, TargetPosition: 4, Difficulty: 10}, 20},
		{"difficulty above scale clamped", model.Keyword{Position: 20, TargetPosition: 4, Difficulty: 40}, 20},
		{"negative difficulty clamped", model.Keyword{Position: 20, TargetPosition: 4, Difficulty: -3}, 4},
		{"never below rank 1", model.Keyword{Position: 2, TargetPosition: 1, Difficulty: 0}, 1},
		{"target equals current", model.Keyword{Position: 7, TargetPosition: 7, Difficulty: 3}, 7},
		{"worse target allowed", model.Keyword{Position: 3, TargetPosition: 9, Difficulty: 0}, 9},
		{"half rounds away from zero", model.Keyword{Position: 4, TargetPosition: 1, Difficulty: 5}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, adj.Adjust(tt.kw))
		})
	}
}

func TestDifficultyAdjuster_NonDecreasingInDifficulty(t *testing.T) {
	adj := NewDifficultyAdjuster()
	for p := 2; p <= 40; p += 3 {
		for tgt := 1; tgt < p; tgt += 2 {
			prev := 0
			for d := 0.0; d <= DifficultyScaleMax; d += 0.5 {
				got := adj.Adjust(model.Keyword{Position: p, TargetPosition: tgt, Difficulty: d})
				assert.GreaterOrEqual(t, got, prev, "p=%d t=%d d=%.1f", p, tgt, d)
				assert.GreaterOrEqual(t, got, tgt)
				assert.LessOrEqual(t, got, p)
				prev = got
			}
		}
	}
}

func TestDifficultyAdjuster_ZeroScaleUsesDefault(t *testing.T) {
	adj := DifficultyAdjuster{}
	assert.Equal(t, 6, adj.Adjust(model.Keyword{Position: 8, TargetPosition: 3, Difficulty: 5}))
}

func TestFlatAdjuster(t *testing.T) {
	kw := model.Keyword{Position: 11, TargetPosition: 1, Difficulty: 10}
	assert.Equal(t, 9, FlatAdjuster{Fraction: 0.2}.Adjust(kw))
	assert.Equal(t, 5, FlatAdjuster{Fraction: 0.6}.Adjust(kw))
	assert.Equal(t, 1, FlatAdjuster{Fraction: 1}.Adjust(kw))
	assert.Equal(t, 11, FlatAdjuster{Fraction: 0}.Adjust(kw))
}

func TestZScore(t *testing.T) {
	assert.InDelta(t, 1.96, ZScore(0.95), 1e-9)
	assert.InDelta(t, 1.2816, ZScore(0.80), 1e-9)
	assert.InDelta(t, 2.5758, ZScore(0.99), 1e-9)
	assert.InDelta(t, 1.96, ZScore(0), 1e-9)
	assert.InDelta(t, 1.96, ZScore(1.5), 1e-9)
	// Derived from the inverse error function.
	assert.InDelta(t, 1.0364, ZScore(0.70), 1e-3)
}

func TestQuadratureAndInterval(t *testing.T) {
	assert.InDelta(t, 5, Quadrature(3, 4), 1e-9)
	assert.InDelta(t, 0, Quadrature(), 1e-9)

	iv := NewInterval(100, -10, 2)
	assert.InDelta(t, 80, iv.Lower, 1e-9)
	assert.InDelta(t, 120, iv.Upper, 1e-9)
	assert.InDelta(t, 10, iv.StdDev, 1e-9)
	assert.False(t, math.IsNaN(iv.Point))
}
