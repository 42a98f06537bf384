package ctr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/seo-forecast/internal/model"
)

func mustBuiltin(t *testing.T, name model.CTRProfile) Profile {
	t.Helper()
	p, err := Builtin(name)
	require.NoError(t, err)
	return p
}

func TestRate_ExactLookup(t *testing.T) {
	m := NewModel(mustBuiltin(t, model.CTRProfileDefault), model.SERPFeatures{})
	assert.InDelta(t, 0.25, m.Rate(1), 1e-9)
	assert.InDelta(t, 0.03, m.Rate(8), 1e-9)
	assert.InDelta(t, 0.005, m.Rate(21), 1e-9)
}

func TestRate_FallsBackToNearestLowerRank(t *testing.T) {
	m := NewModel(mustBuiltin(t, model.CTRProfileEcommerce), model.SERPFeatures{})
	// 12..19 are missing, so rank 11 applies.
	assert.InDelta(t, 0.008, m.Rate(15), 1e-9)
	// Far beyond the table, rank 21 applies.
	assert.InDelta(t, 0.002, m.Rate(500), 1e-9)
}

func TestRate_SearchesUpwardWhenNoLowerRank(t *testing.T) {
	p := Profile{Name: "sparse", Rates: map[int]float64{3: 0.2, 5: 0.1}}
	m := NewModel(p, model.SERPFeatures{})
	assert.InDelta(t, 0.2, m.Rate(1), 1e-9)
	assert.InDelta(t, 0.2, m.Rate(4), 1e-9)
}

func TestRate_EmptyTableUsesFallback(t *testing.T) {
	m := NewModel(Profile{Name: "empty", Rates: map[int]float64{}}, model.SERPFeatures{})
	assert.InDelta(t, FallbackRate, m.Rate(7), 1e-9)
}

func TestRate_NonPositiveRankTreatedAsFirst(t *testing.T) {
	m := NewModel(mustBuiltin(t, model.CTRProfileDefault), model.SERPFeatures{})
	assert.InDelta(t, 0.25, m.Rate(0), 1e-9)
	assert.InDelta(t, 0.25, m.Rate(-4), 1e-9)
}

func TestRate_BuiltinProfilesMonotonic(t *testing.T) {
	for _, name := range BuiltinNames() {
		t.Run(string(name), func(t *testing.T) {
			p := mustBuiltin(t, name)
			m := NewModel(p, model.SERPFeatures{})
			for r := 1; r < p.MaxRank(); r++ {
				assert.GreaterOrEqual(t, m.Rate(r), m.Rate(r+1), "rank %d vs %d", r, r+1)
			}
			assert.Empty(t, p.Check())
		})
	}
}

func TestRate_AlwaysWithinBounds(t *testing.T) {
	serps := []model.SERPFeatures{
		{},
		{FeaturedSnippet: true, OwnsFeaturedSnippet: true, FAQ: true, OwnsFAQ: true},
		{FeaturedSnippet: true, FAQ: true},
	}
	for _, name := range BuiltinNames() {
		p := mustBuiltin(t, name)
		for _, serp := range serps {
			m := NewModel(p, serp)
			for _, r := range []int{-1, 0, 1, 2, 5, 10, 11, 19, 21, 100, 500} {
				v := m.Rate(r)
				assert.GreaterOrEqual(t, v, FloorRate)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}
}

func TestRate_SERPAdjustments(t *testing.T) {
	p := mustBuiltin(t, model.CTRProfileDefault)

	tests := []struct {
		name string
		serp model.SERPFeatures
		rank int
		want float64
	}{
		{"snippet owned rank 1", model.SERPFeatures{FeaturedSnippet: true, OwnsFeaturedSnippet: true}, 1, 0.25 * 1.10},
		{"snippet not owned rank 1", model.SERPFeatures{FeaturedSnippet: true}, 1, 0.25 * 0.80},
		{"snippet rank 3", model.SERPFeatures{FeaturedSnippet: true, OwnsFeaturedSnippet: true}, 3, 0.10 * 0.90},
		{"snippet rank 6 untouched", model.SERPFeatures{FeaturedSnippet: true}, 6, 0.03},
		{"faq owned rank 1", model.SERPFeatures{FAQ: true, OwnsFAQ: true}, 1, 0.25 * 1.10},
		{"faq not owned rank 1", model.SERPFeatures{FAQ: true}, 1, 0.25 * 0.90},
		{"faq rank 2 untouched", model.SERPFeatures{FAQ: true}, 2, 0.15},
		{"both compose", model.SERPFeatures{FeaturedSnippet: true, FAQ: true, OwnsFAQ: true}, 1, 0.25 * 0.80 * 1.10},
		{"ownership ignored without feature", model.SERPFeatures{OwnsFeaturedSnippet: true, OwnsFAQ: true}, 1, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NewModel(p, tt.serp).Rate(tt.rank), 1e-9)
		})
	}
}

func TestRate_CustomProfile(t *testing.T) {
	p := NewCustom(model.CustomCTR{
		Top:    []float64{0.4, 0.2, 0.1, 0.05, 0.05, 0.04, 0.03, 0.02, 0.02, 0.01},
		Beyond: 0.004,
	})
	serp := model.SERPFeatures{FeaturedSnippet: true, FAQ: true}
	m := NewModel(p, serp)

	// No SERP adjustment for custom profiles.
	assert.InDelta(t, 0.4, m.Rate(1), 1e-9)
	assert.InDelta(t, 0.2, m.Rate(2), 1e-9)
	assert.InDelta(t, 0.004, m.Rate(11), 1e-9)
	assert.InDelta(t, 0.004, m.Rate(90), 1e-9)
}

func TestRate_CustomZeroFloored(t *testing.T) {
	p := NewCustom(model.CustomCTR{Top: []float64{0}, Beyond: 0})
	m := NewModel(p, model.SERPFeatures{})
	assert.InDelta(t, FloorRate, m.Rate(1), 1e-9)
	assert.InDelta(t, FloorRate, m.Rate(40), 1e-9)
}

func TestForSettings(t *testing.T) {
	s := model.DefaultSettings()
	p, err := ForSettings(s)
	require.NoError(t, err)
	assert.Equal(t, model.CTRProfileEcommerce, p.Name)
	assert.False(t, p.Custom)

	s.CTRProfile = model.CTRProfileCustom
	p, err = ForSettings(s)
	require.NoError(t, err)
	assert.True(t, p.Custom)
	assert.Len(t, p.Rates, 10)

	_, err = Builtin(model.CTRProfileCustom)
	require.Error(t, err)
}

func TestBuiltin_ReturnsCopy(t *testing.T) {
	p := mustBuiltin(t, model.CTRProfileDefault)
	p.Rates[1] = 0.99

	again := mustBuiltin(t, model.CTRProfileDefault)
	assert.InDelta(t, 0.25, again.Rates[1], 1e-9)
}

func TestCheck_Warnings(t *testing.T) {
	p := NewCustom(model.CustomCTR{Top: []float64{0.1, 0.3, 0}, Beyond: 0.5})
	warnings := p.Check()

	joined := ""
	for _, w := range warnings {
		joined += w + "\n"
	}
	assert.Contains(t, joined, "rank 2 rate 0.3000 exceeds rank 1")
	assert.Contains(t, joined, "rank 3 rate 0.0000 outside")
	assert.Contains(t, joined, "rank 4 missing")
}
