package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/sells-group/seo-forecast/internal/model"
)

// Markdown renders a report summary with keyword and monthly tables.
func Markdown(r *model.Report) string {
	var b strings.Builder
	cur := r.Settings.Currency

	fmt.Fprintf(&b, "# SEO forecast: %s\n\n", r.Settings.Category.DisplayName())
	fmt.Fprintf(&b, "Generated %s.\n\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))

	if r.NoKeywords {
		b.WriteString("No keywords to forecast.\n")
		return b.String()
	}

	b.WriteString("## Summary\n\n| Metric | Value |\n|---|---|\n")
	for _, line := range summaryLines(r) {
		fmt.Fprintf(&b, "| %s | %s |\n", line[0], mdEscape(line[1]))
	}

	b.WriteString("\n## Keywords\n\n")
	b.WriteString("| Keyword | Volume | Position | Target | Adjusted | Current CTR | Target CTR | Traffic gain | Revenue gain |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, k := range r.Keywords {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %s | %s | %s | %s |\n",
			mdEscape(k.Term), Count(float64(k.SearchVolume)), k.Position, k.TargetPosition,
			k.AdjustedTargetPosition, Rate(k.CurrentCTR), Rate(k.TargetCTR),
			Count(k.TrafficGain), Money(k.RevenueGain, cur))
	}

	if p := r.Projection; p != nil {
		b.WriteString("\n## Monthly projection\n\n")
		b.WriteString("| Month | Traffic | Conversions | Revenue | Cumulative revenue | ROI | Cumulative ROI |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
		for _, m := range append(append([]model.MonthlyRow{}, p.Rows...), p.Total) {
			label := m.Label
			if label == model.TotalLabel {
				label = "**" + label + "**"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				label, Count(m.TrafficGain), Count(m.ConversionGain), Money(m.RevenueGain, cur),
				Money(m.CumulativeRevenue, cur), Percent(m.ROI), Percent(m.CumulativeROI))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", mdEscape(w))
		}
	}
	return b.String()
}

// WriteHTML renders the Markdown summary as a standalone HTML page.
func WriteHTML(w io.Writer, r *model.Report) error {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(r)), &body); err != nil {
		return eris.Wrap(err, "export: render html")
	}

	title := html.EscapeString("SEO forecast: " + r.Settings.Category.DisplayName())
	_, err := fmt.Fprintf(w, htmlPage, title, body.String())
	if err != nil {
		return eris.Wrap(err, "export: write html")
	}
	return nil
}

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { border: 1px solid #ccc; padding: 4px 8px; }
th { background: #f3f6fb; }
</style>
</head>
<body>
%s</body>
</html>
`

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
