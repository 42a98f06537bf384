// Package projection spreads a forecast's total gain over a month-by-month
// horizon using a sigmoid ramp-up and category seasonality.
package projection

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/seo-forecast/internal/model"
)

// seasonality holds demand multipliers indexed January..December.
var seasonality = map[model.Category][12]float64{
	model.CategoryBBQ:         {0.4, 0.5, 0.7, 1.0, 1.5, 2.0, 2.0, 1.5, 1.0, 0.7, 0.7, 0.6},
	model.CategoryChristmas:   {0.2, 0.2, 0.2, 0.2, 0.3, 0.3, 0.4, 0.6, 1.0, 1.5, 2.0, 2.5},
	model.CategoryFashion:     {1.0, 0.8, 1.2, 1.5, 1.3, 1.0, 1.0, 1.5, 1.8, 1.3, 2.0, 1.8},
	model.CategoryElectronics: {1.0, 0.8, 0.8, 0.9, 0.9, 0.9, 0.9, 1.0, 1.1, 1.3, 2.2, 2.5},
	model.CategoryGardening:   {0.5, 0.7, 1.3, 1.8, 2.0, 1.8, 1.5, 1.3, 1.1, 0.8, 0.6, 0.5},
	model.CategoryFurniture:   {1.2, 1.0, 1.1, 1.2, 1.3, 1.3, 1.2, 1.2, 1.3, 1.2, 1.2, 0.9},
}

// Seasonality returns the twelve monthly multipliers of a category.
func Seasonality(cat model.Category) ([12]float64, error) {
	s, ok := seasonality[cat]
	if !ok {
		return [12]float64{}, eris.Errorf("projection: unknown category %q", cat)
	}
	return s, nil
}

// Factor returns the seasonal multiplier of a category in calendar month m.
func Factor(cat model.Category, m time.Month) (float64, error) {
	if m < time.January || m > time.December {
		return 0, eris.Errorf("projection: invalid month %d", m)
	}
	s, err := Seasonality(cat)
	if err != nil {
		return 0, err
	}
	return s[m-1], nil
}
