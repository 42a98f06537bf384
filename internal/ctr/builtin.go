package ctr

import "github.com/sells-group/seo-forecast/internal/model"

// builtinRates holds the shipped CTR curves. Ranks 12-19 are intentionally
// absent; lookups fall back to rank 11.
var builtinRates = map[model.CTRProfile]map[int]float64{
	model.CTRProfileDefault: {
		1: 0.25, 2: 0.15, 3: 0.10, 4: 0.07, 5: 0.07,
		6: 0.03, 7: 0.03, 8: 0.03, 9: 0.03, 10: 0.03,
		11: 0.01, 20: 0.01, 21: 0.005,
	},
	model.CTRProfileEcommerce: {
		1: 0.30, 2: 0.20, 3: 0.12, 4: 0.08, 5: 0.06,
		6: 0.04, 7: 0.03, 8: 0.02, 9: 0.02, 10: 0.01,
		11: 0.008, 20: 0.005, 21: 0.002,
	},
	model.CTRProfileInformational: {
		1: 0.35, 2: 0.25, 3: 0.15, 4: 0.10, 5: 0.08,
		6: 0.05, 7: 0.04, 8: 0.03, 9: 0.02, 10: 0.01,
		11: 0.005, 20: 0.003, 21: 0.001,
	},
}

// BuiltinNames lists the built-in profiles.
func BuiltinNames() []model.CTRProfile {
	return []model.CTRProfile{model.CTRProfileDefault, model.CTRProfileEcommerce, model.CTRProfileInformational}
}
