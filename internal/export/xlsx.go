package export

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/seo-forecast/internal/model"
)

// Workbook sheet names.
const (
	SheetKeywords = "Keywords"
	SheetMonthly  = "Monthly"
	SheetSummary  = "Summary"
)

var keywordColumns = []string{
	"Keyword", "Search Volume", "Position", "Target Position", "Difficulty",
	"Adjusted Target", "Current CTR", "Target CTR", "Current Traffic",
	"Target Traffic", "Traffic Gain", "Conversion Gain", "Revenue Gain",
}

var monthlyColumns = []string{
	"Month", "Growth", "Seasonality", "Share", "Traffic Gain", "Conversion Gain",
	"Revenue Gain", "Cumulative Traffic", "Cumulative Conversions",
	"Cumulative Revenue", "ROI %", "Cumulative ROI %",
}

// WriteXLSX writes a workbook with Keywords, Monthly and Summary sheets.
func WriteXLSX(w io.Writer, r *model.Report) error {
	f := xlsx.NewFile()

	kw, err := f.AddSheet(SheetKeywords)
	if err != nil {
		return eris.Wrap(err, "export: add keywords sheet")
	}
	addHeader(kw, keywordColumns)
	for _, k := range r.Keywords {
		row := kw.AddRow()
		row.AddCell().SetString(k.Term)
		row.AddCell().SetInt(k.SearchVolume)
		row.AddCell().SetInt(k.Position)
		row.AddCell().SetInt(k.TargetPosition)
		row.AddCell().SetFloat(k.Difficulty)
		row.AddCell().SetInt(k.AdjustedTargetPosition)
		addFloats(row, k.CurrentCTR, k.TargetCTR, k.CurrentTraffic, k.TargetTraffic,
			k.TrafficGain, k.ConversionGain, k.RevenueGain)
	}

	monthly, err := f.AddSheet(SheetMonthly)
	if err != nil {
		return eris.Wrap(err, "export: add monthly sheet")
	}
	addHeader(monthly, monthlyColumns)
	if r.Projection != nil {
		for _, m := range append(append([]model.MonthlyRow{}, r.Projection.Rows...), r.Projection.Total) {
			row := monthly.AddRow()
			row.AddCell().SetString(m.Label)
			addFloats(row, m.GrowthFactor, m.SeasonalFactor, m.Share, m.TrafficGain,
				m.ConversionGain, m.RevenueGain, m.CumulativeTraffic,
				m.CumulativeConversions, m.CumulativeRevenue, m.ROI, m.CumulativeROI)
		}
	}

	summary, err := f.AddSheet(SheetSummary)
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	for _, line := range summaryLines(r) {
		row := summary.AddRow()
		row.AddCell().SetString(line[0])
		row.AddCell().SetString(line[1])
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, cols []string) {
	row := sheet.AddRow()
	for _, c := range cols {
		row.AddCell().SetString(c)
	}
}

func addFloats(row *xlsx.Row, vals ...float64) {
	for _, v := range vals {
		row.AddCell().SetFloat(v)
	}
}

// summaryLines returns label/value pairs shared by the workbook summary and
// the text renderings.
func summaryLines(r *model.Report) [][2]string {
	cur := r.Settings.Currency
	lines := [][2]string{
		{"Category", r.Settings.Category.DisplayName()},
		{"CTR profile", string(r.Settings.CTRProfile)},
		{"Horizon", fmt.Sprintf("%d months", r.Settings.Months)},
		{"Keywords", Count(float64(len(r.Keywords)))},
		{"Traffic gain", Count(r.Totals.TrafficGain) + " (" + Percent(r.Totals.TrafficChangePct) + ")"},
		{"Conversion gain", Count(r.Totals.ConversionGain) + " (" + Percent(r.Totals.ConversionChangePct) + ")"},
		{"Revenue gain", Money(r.Totals.RevenueGain, cur) + " (" + Percent(r.Totals.RevenueChangePct) + ")"},
		{confidenceLabel(r, "Traffic"), Count(r.Confidence.Traffic.Lower) + " to " + Count(r.Confidence.Traffic.Upper)},
		{confidenceLabel(r, "Revenue"), Money(r.Confidence.Revenue.Lower, cur) + " to " + Money(r.Confidence.Revenue.Upper, cur)},
		{"Implementation cost", Money(r.Settings.ImplementationCost, cur)},
		{"CPA", cpa(r)},
		{"ROI", Percent(r.ROI)},
	}
	if r.Projection != nil {
		lines = append(lines, [2]string{"Break-even", breakEven(r.Projection)})
	}
	return lines
}

func confidenceLabel(r *model.Report, what string) string {
	return what + " " + Count(r.Confidence.Level*100) + "% CI"
}
