// Package whatif re-runs a forecast while sweeping one input parameter.
package whatif

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/seo-forecast/internal/ctr"
	"github.com/sells-group/seo-forecast/internal/forecast"
	"github.com/sells-group/seo-forecast/internal/model"
	"github.com/sells-group/seo-forecast/internal/projection"
)

const (
	// DefaultSteps is the number of samples in a ranged sweep.
	DefaultSteps = 5
	// DefaultConcurrency bounds parallel sample evaluation.
	DefaultConcurrency = 4
)

// DefaultImprovements are the target-position improvement percentages
// sampled when none are given.
var DefaultImprovements = []float64{20, 40, 60, 80}

// Sweep names the variable to vary and the values to try, in output order.
type Sweep struct {
	Variable model.SweepVariable `json:"variable"`
	Values   []float64           `json:"values"`
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency sets how many samples are evaluated at once.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithStartMonth sets the first calendar month of each sample's projection.
func WithStartMonth(m time.Month) Option {
	return func(r *Runner) { r.start = m }
}

// Runner evaluates sweeps against a fixed keyword list and base settings.
type Runner struct {
	keywords    []model.Keyword
	settings    model.Settings
	start       time.Month
	concurrency int
}

// NewRunner creates a Runner. The keyword slice is not copied and must not
// be modified while a sweep is running.
func NewRunner(keywords []model.Keyword, settings model.Settings, opts ...Option) *Runner {
	r := &Runner{
		keywords:    keywords,
		settings:    settings,
		start:       time.January,
		concurrency: DefaultConcurrency,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run evaluates every value of the sweep. Rows come back in the order of
// sweep.Values regardless of completion order.
func (r *Runner) Run(ctx context.Context, sweep Sweep) ([]model.WhatIfRow, error) {
	if !sweep.Variable.Valid() {
		return nil, eris.Errorf("whatif: unknown variable %q", sweep.Variable)
	}
	if err := r.settings.Validate(); err != nil {
		return nil, eris.Wrap(err, "whatif: base settings")
	}
	values := sweep.Values
	if len(values) == 0 && sweep.Variable == model.SweepTargetPositions {
		values = DefaultImprovements
	}
	if len(values) == 0 {
		return nil, eris.Errorf("whatif: no values for %s", sweep.Variable)
	}
	for _, v := range values {
		if err := checkValue(sweep.Variable, v); err != nil {
			return nil, err
		}
	}

	profile, err := ctr.ForSettings(r.settings)
	if err != nil {
		return nil, eris.Wrap(err, "whatif: resolve ctr profile")
	}
	ctrModel := ctr.NewModel(profile, r.settings.SERP)
	avgDiff := model.AverageDifficulty(r.keywords)

	rows := make([]model.WhatIfRow, len(values))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, v := range values {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			row, err := r.sample(ctrModel, avgDiff, sweep.Variable, v)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "whatif: sweep")
	}

	zap.L().Debug("whatif: sweep complete",
		zap.String("variable", string(sweep.Variable)),
		zap.Int("samples", len(rows)),
	)
	return rows, nil
}

func (r *Runner) sample(m *ctr.Model, avgDiff float64, variable model.SweepVariable, v float64) (model.WhatIfRow, error) {
	s := r.settings
	var adj forecast.Adjuster
	switch variable {
	case model.SweepConversionRate:
		s.ConversionRate = v
	case model.SweepAOV:
		s.AOV = v
	case model.SweepTargetPositions:
		adj = forecast.FlatAdjuster{Fraction: v / 100}
	}

	res := forecast.NewCalculator(m, adj).Calculate(r.keywords, forecast.ParamsFromSettings(s))
	row := model.WhatIfRow{
		Variable:       variable,
		Value:          v,
		TrafficGain:    res.Totals.TrafficGain,
		ConversionGain: res.Totals.ConversionGain,
		RevenueGain:    res.Totals.RevenueGain,
		ROI:            res.ROI,
	}
	if res.NoKeywords {
		return row, nil
	}

	proj, err := projection.NewDistributor(r.start).Project(projection.Input{
		TrafficGain:        res.Totals.TrafficGain,
		ConversionGain:     res.Totals.ConversionGain,
		RevenueGain:        res.Totals.RevenueGain,
		Category:           s.Category,
		Months:             s.Months,
		ImplementationCost: s.ImplementationCost,
		AvgDifficulty:      avgDiff,
	})
	if err != nil {
		return model.WhatIfRow{}, eris.Wrapf(err, "whatif: project %s=%g", variable, v)
	}
	row.BreakEvenMonth = proj.BreakEvenMonth
	return row, nil
}

func checkValue(variable model.SweepVariable, v float64) error {
	switch variable {
	case model.SweepConversionRate:
		if v < 0 || v > 100 {
			return eris.Errorf("whatif: conversion rate %g outside [0,100]", v)
		}
	case model.SweepAOV:
		if v < 0 {
			return eris.Errorf("whatif: aov %g must be >= 0", v)
		}
	case model.SweepTargetPositions:
		if v < 0 || v > 100 {
			return eris.Errorf("whatif: improvement %g%% outside [0,100]", v)
		}
	}
	return nil
}

// LinSpace returns n evenly spaced values from lo to hi inclusive.
func LinSpace(lo, hi float64, n int) ([]float64, error) {
	if lo >= hi {
		return nil, eris.Errorf("whatif: min %g must be less than max %g", lo, hi)
	}
	if n < 2 {
		return nil, eris.Errorf("whatif: need at least 2 steps, got %d", n)
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out, nil
}
