package model

import (
	"time"
)

// Interval is a symmetric confidence band around a point estimate.
type Interval struct {
	Lower  float64 `json:"lower"`
	Point  float64 `json:"point"`
	Upper  float64 `json:"upper"`
	StdDev float64 `json:"std_dev"`
}

// Totals aggregates the per-keyword figures of a forecast.
type Totals struct {
	CurrentTraffic float64 `json:"current_traffic"`
	TargetTraffic  float64 `json:"target_traffic"`
	TrafficGain    float64 `json:"traffic_gain"`
	ConversionGain float64 `json:"conversion_gain"`
	RevenueGain    float64 `json:"revenue_gain"`

	TrafficChangePct    float64 `json:"traffic_change_pct"`
	ConversionChangePct float64 `json:"conversion_change_pct"`
	RevenueChangePct    float64 `json:"revenue_change_pct"`
}

// Confidence groups the intervals for the three gain figures.
type Confidence struct {
	Level      float64  `json:"level"`
	ZScore     float64  `json:"z_score"`
	Traffic    Interval `json:"traffic"`
	Conversion Interval `json:"conversion"`
	Revenue    Interval `json:"revenue"`
}

// TotalLabel marks the synthetic aggregate row of a projection.
const TotalLabel = "TOTAL"

// MonthlyRow is one month of a projection. Index is 1-based.
type MonthlyRow struct {
	Index          int        `json:"index" csv:"index"`
	Label          string     `json:"label" csv:"month"`
	CalendarMonth  time.Month `json:"calendar_month" csv:"-"`
	GrowthFactor   float64    `json:"growth_factor" csv:"growth_factor"`
	SeasonalFactor float64    `json:"seasonal_factor" csv:"seasonal_factor"`
	Share          float64    `json:"share" csv:"share"`

	TrafficGain    float64 `json:"traffic_gain" csv:"traffic_gain"`
	ConversionGain float64 `json:"conversion_gain" csv:"conversion_gain"`
	RevenueGain    float64 `json:"revenue_gain" csv:"revenue_gain"`

	CumulativeTraffic     float64 `json:"cumulative_traffic" csv:"cumulative_traffic"`
	CumulativeConversions float64 `json:"cumulative_conversions" csv:"cumulative_conversions"`
	CumulativeRevenue     float64 `json:"cumulative_revenue" csv:"cumulative_revenue"`

	ROI           float64 `json:"roi" csv:"roi"`
	CumulativeROI float64 `json:"cumulative_roi" csv:"cumulative_roi"`
}

// Projection is the month-by-month distribution of a forecast. BreakEvenMonth
// is nil when cumulative revenue never reaches the implementation cost.
type Projection struct {
	Months           int          `json:"months"`
	Rows             []MonthlyRow `json:"rows"`
	Total            MonthlyRow   `json:"total"`
	BreakEvenMonth   *int         `json:"break_even_month,omitempty"`
	BreakEvenRevenue float64      `json:"break_even_revenue,omitempty"`
}

// BreakEvenReached reports whether the projection recovers its cost.
func (p *Projection) BreakEvenReached() bool {
	return p != nil && p.BreakEvenMonth != nil
}

// Report is the complete output of one forecast run.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Settings    Settings        `json:"settings"`
	NoKeywords  bool            `json:"no_keywords"`
	Keywords    []KeywordResult `json:"keywords"`
	Totals      Totals          `json:"totals"`
	Confidence  Confidence      `json:"confidence"`
	CPA         *float64        `json:"cpa,omitempty"` // nil when there is no conversion gain
	ROI         float64         `json:"roi"`
	Projection  *Projection     `json:"projection,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// SweepVariable is the parameter varied by a what-if sweep.
type SweepVariable string

const (
	SweepConversionRate  SweepVariable = "conversion_rate"
	SweepAOV             SweepVariable = "aov"
	SweepTargetPositions SweepVariable = "target_positions"
)

// Valid reports whether v is a supported sweep variable.
func (v SweepVariable) Valid() bool {
	switch v {
	case SweepConversionRate, SweepAOV, SweepTargetPositions:
		return true
	}
	return false
}

// WhatIfRow is one sample of a what-if sweep.
type WhatIfRow struct {
	Variable       SweepVariable `json:"variable" csv:"variable"`
	Value          float64       `json:"value" csv:"value"`
	TrafficGain    float64       `json:"traffic_gain" csv:"traffic_gain"`
	ConversionGain float64       `json:"conversion_gain" csv:"conversion_gain"`
	RevenueGain    float64       `json:"revenue_gain" csv:"revenue_gain"`
	ROI            float64       `json:"roi" csv:"roi"`
	BreakEvenMonth *int          `json:"break_even_month,omitempty" csv:"break_even_month,omitempty"`
}

// Run is a persisted forecast report.
type Run struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Report    Report    `json:"report"`
	CreatedAt time.Time `json:"created_at"`
}
