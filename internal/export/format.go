// Package export renders forecast reports for people and spreadsheets.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rotisserie/eris"

	"github.com/sells-group/seo-forecast/internal/model"
)

// Format is an output encoding for a report.
type Format string

const (
	FormatTable      Format = "table"
	FormatJSON       Format = "json"
	FormatCSV        Format = "csv"
	FormatMonthlyCSV Format = "monthly-csv"
	FormatXLSX       Format = "xlsx"
	FormatMarkdown   Format = "md"
	FormatHTML       Format = "html"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatCSV, FormatMonthlyCSV, FormatXLSX, FormatMarkdown, FormatHTML}
}

// ParseFormat resolves a format name. "markdown" is accepted for md.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "markdown" {
		return FormatMarkdown, nil
	}
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", eris.Errorf("export: unknown format %q", s)
}

// Binary reports whether the format produces non-text output.
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// Write renders r to w in format f.
func Write(w io.Writer, f Format, r *model.Report) error {
	switch f {
	case FormatTable:
		return WriteTable(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatCSV:
		return WriteKeywordsCSV(w, r.Keywords)
	case FormatMonthlyCSV:
		return WriteMonthlyCSV(w, r.Projection)
	case FormatXLSX:
		return WriteXLSX(w, r)
	case FormatMarkdown:
		if _, err := io.WriteString(w, Markdown(r)); err != nil {
			return eris.Wrap(err, "export: write markdown")
		}
		return nil
	case FormatHTML:
		return WriteHTML(w, r)
	}
	return eris.Errorf("export: unknown format %q", f)
}

// Money formats an amount with thousands separators and the currency symbol.
func Money(v float64, c model.Currency) string {
	if c == "" {
		c = model.CurrencyUSD
	}
	sign := ""
	if v < 0 {
		sign = "-"
	}
	return sign + c.Symbol() + humanize.FormatFloat("#,###.##", math.Abs(v))
}

// Count formats a figure rounded to a whole number with separators.
func Count(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// Percent formats a signed percentage with one decimal.
func Percent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

// Rate formats a fraction such as a CTR as a percentage.
func Rate(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func breakEven(p *model.Projection) string {
	if !p.BreakEvenReached() {
		return "not reached"
	}
	return fmt.Sprintf("month %d", *p.BreakEvenMonth)
}

func cpa(r *model.Report) string {
	if r.CPA == nil {
		return "N/A"
	}
	return Money(*r.CPA, r.Settings.Currency)
}
