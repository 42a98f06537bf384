package model

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
)

// Category selects a seasonality profile.
type Category string

const (
	CategoryBBQ         Category = "bbq"
	CategoryChristmas   Category = "christmas"
	CategoryFashion     Category = "fashion"
	CategoryElectronics Category = "electronics"
	CategoryGardening   Category = "gardening"
	CategoryFurniture   Category = "furniture"
)

var categoryNames = map[Category]string{
	CategoryBBQ:         "BBQ & Outdoor Cooking",
	CategoryChristmas:   "Christmas & Seasonal",
	CategoryFashion:     "Fashion & Apparel",
	CategoryElectronics: "Electronics & Technology",
	CategoryGardening:   "Gardening & Outdoor",
	CategoryFurniture:   "Furniture & Home",
}

// Categories returns every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryBBQ, CategoryChristmas, CategoryFashion,
		CategoryElectronics, CategoryGardening, CategoryFurniture,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// DisplayName returns the human-readable category name.
func (c Category) DisplayName() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return string(c)
}

// ParseCategory accepts either the slug ("bbq") or the display name
// ("BBQ & Outdoor Cooking"), case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for c, name := range categoryNames {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, name) {
			return c, nil
		}
	}
	return "", eris.Errorf("model: unknown category %q", s)
}

// CTRProfile names a click-through-rate curve.
type CTRProfile string

const (
	CTRProfileDefault       CTRProfile = "default"
	CTRProfileEcommerce     CTRProfile = "ecommerce"
	CTRProfileInformational CTRProfile = "informational"
	CTRProfileCustom        CTRProfile = "custom"
)

// CTRProfiles returns every known profile name.
func CTRProfiles() []CTRProfile {
	return []CTRProfile{CTRProfileDefault, CTRProfileEcommerce, CTRProfileInformational, CTRProfileCustom}
}

// Valid reports whether p is a known profile.
func (p CTRProfile) Valid() bool {
	switch p {
	case CTRProfileDefault, CTRProfileEcommerce, CTRProfileInformational, CTRProfileCustom:
		return true
	}
	return false
}

// ParseCTRProfile accepts the slug or the legacy display names ("E-commerce").
func ParseCTRProfile(s string) (CTRProfile, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "")
	p := CTRProfile(norm)
	if !p.Valid() {
		return "", eris.Errorf("model: unknown ctr profile %q", s)
	}
	return p, nil
}

// Currency is used for display only; all figures are unit-less amounts.
type Currency string

const (
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyAED Currency = "AED"
	CurrencySAR Currency = "SAR"
)

var currencySymbols = map[Currency]string{
	CurrencyGBP: "£",
	CurrencyEUR: "€",
	CurrencyUSD: "$",
	CurrencyAED: "د.إ",
	CurrencySAR: "﷼",
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	_, ok := currencySymbols[c]
	return ok
}

// Symbol returns the currency symbol, or the code itself when unknown.
func (c Currency) Symbol() string {
	if s, ok := currencySymbols[c]; ok {
		return s
	}
	return string(c)
}

// Supported projection horizons in months.
const (
	HorizonShort = 6
	HorizonLong  = 12
)

// SERPFeatures describes search-result features that shift rank-1..5 CTR.
// Ownership flags only matter when the matching feature is present.
type SERPFeatures struct {
	FeaturedSnippet     bool `json:"featured_snippet" yaml:"featured_snippet" mapstructure:"featured_snippet"`
	OwnsFeaturedSnippet bool `json:"owns_featured_snippet" yaml:"owns_featured_snippet" mapstructure:"owns_featured_snippet"`
	FAQ                 bool `json:"faq" yaml:"faq" mapstructure:"faq"`
	OwnsFAQ             bool `json:"owns_faq" yaml:"owns_faq" mapstructure:"owns_faq"`
}

// CustomCTR is a user-defined CTR curve: Top holds ranks 1..10 in order and
// Beyond applies to every rank past 10.
type CustomCTR struct {
	Top    []float64 `json:"top" yaml:"top" mapstructure:"top"`
	Beyond float64   `json:"beyond" yaml:"beyond" mapstructure:"beyond"`
}

// Settings is the flat configuration bundle for one forecast run.
type Settings struct {
	Category           Category     `json:"category" yaml:"category" mapstructure:"category"`
	Months             int          `json:"months" yaml:"months" mapstructure:"months"`
	ConversionRate     float64      `json:"conversion_rate" yaml:"conversion_rate" mapstructure:"conversion_rate"` // percent
	AOV                float64      `json:"aov" yaml:"aov" mapstructure:"aov"`
	ImplementationCost float64      `json:"implementation_cost" yaml:"implementation_cost" mapstructure:"implementation_cost"`
	Currency           Currency     `json:"currency" yaml:"currency" mapstructure:"currency"`
	CTRProfile         CTRProfile   `json:"ctr_profile" yaml:"ctr_profile" mapstructure:"ctr_profile"`
	CustomCTR          CustomCTR    `json:"custom_ctr" yaml:"custom_ctr" mapstructure:"custom_ctr"`
	SERP               SERPFeatures `json:"serp" yaml:"serp" mapstructure:"serp"`
	ConfidenceLevel    float64      `json:"confidence_level" yaml:"confidence_level" mapstructure:"confidence_level"`
}

// DefaultSettings returns the application-wide defaults.
func DefaultSettings() Settings {
	return Settings{
		Category:           CategoryBBQ,
		Months:             HorizonShort,
		ConversionRate:     3.0,
		AOV:                250,
		ImplementationCost: 5000,
		Currency:           CurrencyUSD,
		CTRProfile:         CTRProfileEcommerce,
		CustomCTR: CustomCTR{
			Top:    []float64{0.30, 0.20, 0.12, 0.08, 0.06, 0.04, 0.03, 0.02, 0.02, 0.01},
			Beyond: 0.005,
		},
		ConfidenceLevel: 0.95,
	}
}

// Clone returns a copy of s that shares no memory with it.
func (s Settings) Clone() Settings {
	s.CustomCTR.Top = slices.Clone(s.CustomCTR.Top)
	return s
}

// Validate checks that the settings satisfy the forecasting contract. It
// reports every problem at once.
func (s Settings) Validate() error {
	var errs []string

	if !s.Category.Valid() {
		errs = append(errs, fmt.Sprintf("unknown category %q", s.Category))
	}
	if s.Months != HorizonShort && s.Months != HorizonLong {
		errs = append(errs, fmt.Sprintf("months must be %d or %d, got %d", HorizonShort, HorizonLong, s.Months))
	}
	if !(s.ConversionRate >= 0 && s.ConversionRate <= 100) {
		errs = append(errs, fmt.Sprintf("conversion_rate must be between 0 and 100, got %.2f", s.ConversionRate))
	}
	if !finiteNonNegative(s.AOV) {
		errs = append(errs, "aov must be a finite number >= 0")
	}
	if !finiteNonNegative(s.ImplementationCost) {
		errs = append(errs, "implementation_cost must be a finite number >= 0")
	}
	if s.Currency != "" && !s.Currency.Valid() {
		errs = append(errs, fmt.Sprintf("unknown currency %q", s.Currency))
	}
	if !s.CTRProfile.Valid() {
		errs = append(errs, fmt.Sprintf("unknown ctr_profile %q", s.CTRProfile))
	}
	if s.CTRProfile == CTRProfileCustom {
		if len(s.CustomCTR.Top) == 0 {
			errs = append(errs, "custom_ctr.top is required for the custom profile")
		}
		if slices.ContainsFunc(s.CustomCTR.Top, math.IsNaN) || math.IsNaN(s.CustomCTR.Beyond) {
			errs = append(errs, "custom_ctr rates must be numbers")
		}
	}
	if !(s.ConfidenceLevel > 0 && s.ConfidenceLevel < 1) {
		errs = append(errs, fmt.Sprintf("confidence_level must be in (0,1), got %.3f", s.ConfidenceLevel))
	}

	if len(errs) > 0 {
		return eris.Errorf("model: invalid settings: %s", strings.Join(errs, "; "))
	}
	return nil
}

// finiteNonNegative rejects NaN and infinities along with negatives.
func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
