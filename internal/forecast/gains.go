package forecast

import (
	"math"

	"github.com/sells-group/seo-forecast/internal/ctr"
	"github.com/sells-group/seo-forecast/internal/model"
)

// Params are the scalar inputs of a gain calculation.
type Params struct {
	ConversionRate     float64 // percent
	AOV                float64
	ImplementationCost float64
	ConfidenceLevel    float64
}

// ParamsFromSettings extracts Params from a settings bundle.
func ParamsFromSettings(s model.Settings) Params {
	return Params{
		ConversionRate:     s.ConversionRate,
		AOV:                s.AOV,
		ImplementationCost: s.ImplementationCost,
		ConfidenceLevel:    s.ConfidenceLevel,
	}
}

// Result is the output of Calculate.
type Result struct {
	NoKeywords bool
	Keywords   []model.KeywordResult
	Totals     model.Totals
	Confidence model.Confidence
	CPA        *float64
	ROI        float64
}

// Calculator computes gains for a keyword list under one CTR model and one
// target-rank policy. It holds no state between calls.
type Calculator struct {
	ctr      *ctr.Model
	adjuster Adjuster
}

// NewCalculator creates a Calculator. A nil adjuster defaults to the
// difficulty-driven one.
func NewCalculator(m *ctr.Model, adj Adjuster) *Calculator {
	if adj == nil {
		adj = NewDifficultyAdjuster()
	}
	return &Calculator{ctr: m, adjuster: adj}
}

// Calculate runs the per-keyword and aggregate gain calculation. keywords is
// never modified. An empty list yields a zero result with NoKeywords set.
func (c *Calculator) Calculate(keywords []model.Keyword, p Params) Result {
	z := ZScore(p.ConfidenceLevel)
	level := p.ConfidenceLevel
	if level <= 0 || level >= 1 {
		level = DefaultConfidenceLevel
	}

	res := Result{Confidence: model.Confidence{Level: level, ZScore: z}}
	if len(keywords) == 0 {
		res.NoKeywords = true
		res.Keywords = []model.KeywordResult{}
		return res
	}

	rate := p.ConversionRate / 100
	res.Keywords = make([]model.KeywordResult, 0, len(keywords))

	var totalVar float64
	for _, raw := range keywords {
		kr := c.keyword(raw.Sanitized(), rate, p.AOV)
		res.Keywords = append(res.Keywords, kr)

		res.Totals.CurrentTraffic += kr.CurrentTraffic
		res.Totals.TargetTraffic += kr.TargetTraffic
		res.Totals.TrafficGain += kr.TrafficGain
		res.Totals.ConversionGain += kr.ConversionGain
		res.Totals.RevenueGain += kr.RevenueGain
		totalVar += kr.TrafficGainStd * kr.TrafficGainStd
	}

	trafficSigma := math.Sqrt(totalVar)
	conversionSigma := trafficSigma * rate
	revenueSigma := conversionSigma * p.AOV

	res.Confidence.Traffic = NewInterval(res.Totals.TrafficGain, trafficSigma, z)
	res.Confidence.Conversion = NewInterval(res.Totals.ConversionGain, conversionSigma, z)
	res.Confidence.Revenue = NewInterval(res.Totals.RevenueGain, revenueSigma, z)

	current := res.Totals.CurrentTraffic
	res.Totals.TrafficChangePct = percent(res.Totals.TrafficGain, current)
	res.Totals.ConversionChangePct = percent(res.Totals.ConversionGain, current*rate)
	res.Totals.RevenueChangePct = percent(res.Totals.RevenueGain, current*rate*p.AOV)

	res.CPA = CostPerAcquisition(p.ImplementationCost, res.Totals.ConversionGain)
	res.ROI = ROI(res.Totals.RevenueGain, p.ImplementationCost)
	return res
}

// Preview returns only the aggregate monthly traffic gain.
func (c *Calculator) Preview(keywords []model.Keyword) float64 {
	var gain float64
	for _, raw := range keywords {
		k := raw.Sanitized()
		target := c.adjuster.Adjust(k)
		gain += float64(k.SearchVolume) * (c.ctr.Rate(target) - c.ctr.Rate(k.Position))
	}
	return gain
}

func (c *Calculator) keyword(k model.Keyword, rate, aov float64) model.KeywordResult {
	volume := float64(k.SearchVolume)
	adjusted := c.adjuster.Adjust(k)

	kr := model.KeywordResult{
		Keyword:                k,
		AdjustedTargetPosition: adjusted,
		CurrentCTR:             c.ctr.Rate(k.Position),
		TargetCTR:              c.ctr.Rate(adjusted),
	}
	kr.CurrentTraffic = volume * kr.CurrentCTR
	kr.TargetTraffic = volume * kr.TargetCTR
	kr.TrafficGain = kr.TargetTraffic - kr.CurrentTraffic
	kr.TrafficGainPct = percent(kr.TrafficGain, kr.CurrentTraffic)
	kr.ConversionGain = kr.TrafficGain * rate
	kr.RevenueGain = kr.ConversionGain * aov

	kr.CurrentTrafficStd = kr.CurrentTraffic * CTRRelativeStdDev
	kr.TargetTrafficStd = kr.TargetTraffic * CTRRelativeStdDev
	kr.TrafficGainStd = Quadrature(kr.CurrentTrafficStd, kr.TargetTrafficStd)
	return kr
}

// CostPerAcquisition returns cost per gained conversion, or nil when there
// is no positive conversion gain.
func CostPerAcquisition(cost, conversions float64) *float64 {
	if conversions <= 0 {
		return nil
	}
	v := cost / conversions
	return &v
}

// ROI returns (revenue - cost) / cost as a percentage, 0 when cost is 0.
func ROI(revenue, cost float64) float64 {
	if cost == 0 {
		return 0
	}
	return (revenue - cost) / cost * 100
}

func percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}
