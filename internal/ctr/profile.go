// Package ctr maps search-result ranks to expected click-through rates.
package ctr

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/seo-forecast/internal/model"
)

const (
	// FloorRate is the lowest CTR ever returned.
	FloorRate = 0.001
	// FallbackRate is used when a built-in table has no usable rank at all.
	FallbackRate = 0.005
	// CustomRanks is the number of explicit ranks in a custom profile.
	CustomRanks = 10
)

// Profile is a named rank -> click probability table.
type Profile struct {
	Name  model.CTRProfile
	Rates map[int]float64

	// Beyond applies to ranks without an explicit entry. Only custom
	// profiles use it.
	Beyond float64
	Custom bool
}

// Builtin returns a copy of a built-in profile.
func Builtin(name model.CTRProfile) (Profile, error) {
	rates, ok := builtinRates[name]
	if !ok {
		return Profile{}, eris.Errorf("ctr: no built-in profile %q", name)
	}
	cp := make(map[int]float64, len(rates))
	for k, v := range rates {
		cp[k] = v
	}
	return Profile{Name: name, Rates: cp}, nil
}

// NewCustom builds a custom profile from ranks 1..10 and a catch-all value.
// Missing trailing ranks fall through to Beyond.
func NewCustom(c model.CustomCTR) Profile {
	rates := make(map[int]float64, CustomRanks)
	for i, v := range c.Top {
		if i >= CustomRanks {
			break
		}
		rates[i+1] = v
	}
	return Profile{Name: model.CTRProfileCustom, Rates: rates, Beyond: c.Beyond, Custom: true}
}

// ForSettings resolves the profile selected by s.
func ForSettings(s model.Settings) (Profile, error) {
	if s.CTRProfile == model.CTRProfileCustom {
		return NewCustom(s.CustomCTR), nil
	}
	return Builtin(s.CTRProfile)
}

// Ranks returns the explicit ranks of the table in ascending order.
func (p Profile) Ranks() []int {
	ranks := make([]int, 0, len(p.Rates))
	for r := range p.Rates {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)
	return ranks
}

// MaxRank returns the largest explicit rank, or 0 for an empty table.
func (p Profile) MaxRank() int {
	m := 0
	for r := range p.Rates {
		if r > m {
			m = r
		}
	}
	return m
}

// Check returns data-quality warnings for the table. Problems never make the
// profile unusable; the lookup falls back gracefully.
func (p Profile) Check() []string {
	var warnings []string

	ranks := p.Ranks()
	for _, r := range ranks {
		v := p.Rates[r]
		if v <= 0 || v > 1 {
			warnings = append(warnings, fmt.Sprintf("ctr profile %s: rank %d rate %.4f outside (0,1]", p.Name, r, v))
		}
	}
	for i := 1; i < len(ranks); i++ {
		prev, cur := p.Rates[ranks[i-1]], p.Rates[ranks[i]]
		if cur > prev {
			warnings = append(warnings, fmt.Sprintf("ctr profile %s: rank %d rate %.4f exceeds rank %d rate %.4f",
				p.Name, ranks[i], cur, ranks[i-1], prev))
		}
	}

	if p.Custom {
		for r := 1; r <= CustomRanks; r++ {
			if _, ok := p.Rates[r]; !ok {
				warnings = append(warnings, fmt.Sprintf("ctr profile %s: rank %d missing, using beyond-10 rate", p.Name, r))
			}
		}
		if last, ok := p.Rates[CustomRanks]; ok && p.Beyond > last {
			warnings = append(warnings, fmt.Sprintf("ctr profile %s: beyond-10 rate %.4f exceeds rank 10 rate %.4f", p.Name, p.Beyond, last))
		}
	}
	return warnings
}
