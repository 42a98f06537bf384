package projection

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/seo-forecast/internal/model"
)

// MaxMonths bounds the horizon a Distributor accepts.
const MaxMonths = 60

// Input is the aggregate forecast to distribute.
type Input struct {
	TrafficGain        float64
	ConversionGain     float64
	RevenueGain        float64
	Category           model.Category
	Months             int
	ImplementationCost float64
	AvgDifficulty      float64
}

// Distributor produces monthly projections starting from a calendar month.
type Distributor struct {
	Start time.Month
}

// NewDistributor returns a Distributor whose first projected month is start.
func NewDistributor(start time.Month) Distributor {
	return Distributor{Start: start}
}

// Project splits the totals of in over in.Months months. Monthly shares sum
// to one, so the month rows always add back up to the input totals.
func (d Distributor) Project(in Input) (*model.Projection, error) {
	if in.Months < 1 || in.Months > MaxMonths {
		return nil, eris.Errorf("projection: months must be between 1 and %d, got %d", MaxMonths, in.Months)
	}
	seasons, err := Seasonality(in.Category)
	if err != nil {
		return nil, err
	}

	start := d.Start
	if start < time.January || start > time.December {
		start = time.January
	}

	k := Steepness(in.AvgDifficulty)
	growth := make([]float64, in.Months)
	season := make([]float64, in.Months)
	months := make([]time.Month, in.Months)
	var weightSum float64
	for i := range in.Months {
		idx := (int(start) - 1 + i) % 12
		months[i] = time.Month(idx + 1)
		growth[i] = Growth(i, in.Months, k)
		season[i] = seasons[idx]
		weightSum += growth[i] * season[i]
	}

	cost := in.ImplementationCost
	proj := &model.Projection{
		Months: in.Months,
		Rows:   make([]model.MonthlyRow, 0, in.Months),
	}
	var cumTraffic, cumConv, cumRev float64
	for i := range in.Months {
		share := 1 / float64(in.Months)
		if weightSum > 0 {
			share = growth[i] * season[i] / weightSum
		}
		row := model.MonthlyRow{
			Index:          i + 1,
			Label:          monthLabel(months[i], i, in.Months),
			CalendarMonth:  months[i],
			GrowthFactor:   growth[i],
			SeasonalFactor: season[i],
			Share:          share,
			TrafficGain:    in.TrafficGain * share,
			ConversionGain: in.ConversionGain * share,
			RevenueGain:    in.RevenueGain * share,
		}
		cumTraffic += row.TrafficGain
		cumConv += row.ConversionGain
		cumRev += row.RevenueGain
		row.CumulativeTraffic = cumTraffic
		row.CumulativeConversions = cumConv
		row.CumulativeRevenue = cumRev

		spent := 0.0
		if i == 0 {
			spent = cost
		}
		row.ROI = roi(row.RevenueGain-spent, cost)
		row.CumulativeROI = roi(cumRev-cost, cost)

		if proj.BreakEvenMonth == nil && cumRev >= cost {
			m := i + 1
			proj.BreakEvenMonth = &m
			proj.BreakEvenRevenue = cumRev
		}
		proj.Rows = append(proj.Rows, row)
	}

	proj.Total = model.MonthlyRow{
		Label:                 model.TotalLabel,
		Share:                 1,
		TrafficGain:           cumTraffic,
		ConversionGain:        cumConv,
		RevenueGain:           cumRev,
		CumulativeTraffic:     cumTraffic,
		CumulativeConversions: cumConv,
		CumulativeRevenue:     cumRev,
		ROI:                   roi(cumRev-cost, cost),
		CumulativeROI:         roi(cumRev-cost, cost),
	}
	return proj, nil
}

func roi(net, cost float64) float64 {
	if cost == 0 {
		return 0
	}
	return net / cost * 100
}

// monthLabel abbreviates the calendar month and adds a year marker once the
// horizon wraps past twelve months.
func monthLabel(m time.Month, i, months int) string {
	abbr := m.String()[:3]
	if months <= 12 {
		return abbr
	}
	return fmt.Sprintf("%s Y%d", abbr, i/12+1)
}
