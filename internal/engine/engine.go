// Package engine composes the forecasting core into a single report-producing
// run: settings validation, CTR model, gain calculation and projection.
package engine

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/seo-forecast/internal/ctr"
	"github.com/sells-group/seo-forecast/internal/forecast"
	"github.com/sells-group/seo-forecast/internal/model"
	"github.com/sells-group/seo-forecast/internal/projection"
)

// Clock returns the current time.
type Clock func() time.Time

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for the report timestamp and the first
// projected month.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.now = c
		}
	}
}

// WithAdjuster replaces the difficulty-driven target-rank adjuster.
func WithAdjuster(a forecast.Adjuster) Option {
	return func(e *Engine) { e.adjuster = a }
}

// Engine runs forecasts. It holds no per-run state and is safe for
// concurrent use.
type Engine struct {
	now      Clock
	adjuster forecast.Adjuster
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Forecast validates settings and produces a full report for keywords.
// Invalid settings fail fast; data problems in keywords surface as warnings.
func (e *Engine) Forecast(keywords []model.Keyword, settings model.Settings) (*model.Report, error) {
	if err := settings.Validate(); err != nil {
		return nil, eris.Wrap(err, "engine: validate settings")
	}
	profile, err := ctr.ForSettings(settings)
	if err != nil {
		return nil, eris.Wrap(err, "engine: resolve ctr profile")
	}

	now := e.now()
	report := &model.Report{
		GeneratedAt: now.UTC(),
		Settings:    settings,
		Warnings:    profile.Check(),
	}

	calc := forecast.NewCalculator(ctr.NewModel(profile, settings.SERP), e.adjuster)
	res := calc.Calculate(keywords, forecast.ParamsFromSettings(settings))
	report.NoKeywords = res.NoKeywords
	report.Keywords = res.Keywords
	report.Totals = res.Totals
	report.Confidence = res.Confidence
	report.CPA = res.CPA
	report.ROI = res.ROI

	if res.NoKeywords {
		zap.L().Info("engine: no keywords to forecast")
		return report, nil
	}
	report.Warnings = append(report.Warnings, keywordWarnings(keywords)...)

	proj, err := projection.NewDistributor(now.Month()).Project(projection.Input{
		TrafficGain:        res.Totals.TrafficGain,
		ConversionGain:     res.Totals.ConversionGain,
		RevenueGain:        res.Totals.RevenueGain,
		Category:           settings.Category,
		Months:             settings.Months,
		ImplementationCost: settings.ImplementationCost,
		AvgDifficulty:      model.AverageDifficulty(keywords),
	})
	if err != nil {
		return nil, eris.Wrap(err, "engine: project")
	}
	report.Projection = proj

	for _, w := range report.Warnings {
		zap.L().Warn("engine: data quality", zap.String("warning", w))
	}
	for _, kr := range report.Keywords {
		zap.L().Debug("engine: keyword",
			zap.String("term", kr.Term),
			zap.Int("position", kr.Position),
			zap.Int("adjusted_target", kr.AdjustedTargetPosition),
			zap.Float64("traffic_gain", kr.TrafficGain),
		)
	}

	fields := []zap.Field{
		zap.Int("keywords", len(report.Keywords)),
		zap.String("category", string(settings.Category)),
		zap.String("ctr_profile", string(settings.CTRProfile)),
		zap.Float64("traffic_gain", report.Totals.TrafficGain),
		zap.Float64("revenue_gain", report.Totals.RevenueGain),
		zap.Float64("roi", report.ROI),
	}
	if proj.BreakEvenMonth != nil {
		fields = append(fields, zap.Int("break_even_month", *proj.BreakEvenMonth))
	}
	zap.L().Info("engine: forecast complete", fields...)
	return report, nil
}

func keywordWarnings(keywords []model.Keyword) []string {
	var warnings []string
	for i, k := range keywords {
		label := k.Term
		if label == "" {
			label = fmt.Sprintf("row %d", i+1)
		}
		if k.SearchVolume <= 0 {
			warnings = append(warnings, fmt.Sprintf("keyword %q: zero search volume", label))
		}
		if k.TargetPosition > k.Position {
			warnings = append(warnings, fmt.Sprintf("keyword %q: target position %d is worse than current %d", label, k.TargetPosition, k.Position))
		}
		if k.Difficulty < 0 || k.Difficulty > forecast.DifficultyScaleMax {
			warnings = append(warnings, fmt.Sprintf("keyword %q: difficulty %.1f outside 0-%.0f, clamped", label, k.Difficulty, forecast.DifficultyScaleMax))
		}
	}
	return warnings
}
