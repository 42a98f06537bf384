package ctr

import (
	"math"

	"github.com/sells-group/seo-forecast/internal/model"
)

// SERP feature multipliers.
const (
	SnippetOwnedMul    = 1.10
	SnippetNotOwnedMul = 0.80
	SnippetBelowMul    = 0.90 // ranks 2-5 when a snippet is present
	FAQOwnedMul        = 1.10
	FAQNotOwnedMul     = 0.90
)

// Model evaluates a profile under a fixed set of SERP features.
type Model struct {
	profile Profile
	serp    model.SERPFeatures
}

// NewModel creates a Model for the given profile and SERP features.
func NewModel(p Profile, serp model.SERPFeatures) *Model {
	return &Model{profile: p, serp: serp}
}

// Profile returns the underlying profile.
func (m *Model) Profile() Profile {
	return m.profile
}

// Rate returns the expected CTR for rank, always within [FloorRate, 1].
func (m *Model) Rate(rank int) float64 {
	if rank < 1 {
		rank = 1
	}

	var rate float64
	if m.profile.Custom {
		rate = m.customRate(rank)
	} else {
		rate = m.tableRate(rank)
		rate *= m.serpMultiplier(rank)
	}

	return math.Min(1, math.Max(FloorRate, rate))
}

// Rate is a convenience wrapper for one-off lookups.
func Rate(p Profile, serp model.SERPFeatures, rank int) float64 {
	return NewModel(p, serp).Rate(rank)
}

func (m *Model) customRate(rank int) float64 {
	if v, ok := m.profile.Rates[rank]; ok {
		return v
	}
	return m.profile.Beyond
}

// tableRate looks up rank exactly, then searches down towards rank 1, then up
// to the largest explicit rank.
func (m *Model) tableRate(rank int) float64 {
	rates := m.profile.Rates
	if v, ok := rates[rank]; ok {
		return v
	}
	for r := rank - 1; r >= 1; r-- {
		if v, ok := rates[r]; ok {
			return v
		}
	}
	for r, top := rank+1, m.profile.MaxRank(); r <= top; r++ {
		if v, ok := rates[r]; ok {
			return v
		}
	}
	return FallbackRate
}

func (m *Model) serpMultiplier(rank int) float64 {
	mul := 1.0
	if m.serp.FeaturedSnippet {
		switch {
		case rank == 1 && m.serp.OwnsFeaturedSnippet:
			mul *= SnippetOwnedMul
		case rank == 1:
			mul *= SnippetNotOwnedMul
		case rank >= 2 && rank <= 5:
			mul *= SnippetBelowMul
		}
	}
	if m.serp.FAQ && rank == 1 {
		if m.serp.OwnsFAQ {
			mul *= FAQOwnedMul
		} else {
			mul *= FAQNotOwnedMul
		}
	}
	return mul
}
