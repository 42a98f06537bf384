package export

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/seo-forecast/internal/model"
)

// WriteTable writes an aligned plain-text report for terminals.
func WriteTable(w io.Writer, r *model.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	cur := r.Settings.Currency

	if r.NoKeywords {
		fmt.Fprintln(tw, "No keywords to forecast.")
		return flush(tw)
	}

	for _, line := range summaryLines(r) {
		fmt.Fprintf(tw, "%s:\t%s\n", line[0], line[1])
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "KEYWORD\tVOLUME\tPOS\tTARGET\tADJ\tCTR NOW\tCTR TARGET\tTRAFFIC GAIN\tREVENUE GAIN")
	for _, k := range r.Keywords {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
			truncate(k.Term, 40), Count(float64(k.SearchVolume)), k.Position, k.TargetPosition,
			k.AdjustedTargetPosition, Rate(k.CurrentCTR), Rate(k.TargetCTR),
			Count(k.TrafficGain), Money(k.RevenueGain, cur))
	}

	if p := r.Projection; p != nil {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "MONTH\tTRAFFIC\tCONVERSIONS\tREVENUE\tCUM REVENUE\tROI\tCUM ROI")
		for _, m := range append(append([]model.MonthlyRow{}, p.Rows...), p.Total) {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				m.Label, Count(m.TrafficGain), Count(m.ConversionGain), Money(m.RevenueGain, cur),
				Money(m.CumulativeRevenue, cur), Percent(m.ROI), Percent(m.CumulativeROI))
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(tw)
		for _, warn := range r.Warnings {
			fmt.Fprintf(tw, "warning: %s\n", warn)
		}
	}
	return flush(tw)
}

// WriteWhatIfTable writes sweep rows as an aligned table.
func WriteWhatIfTable(w io.Writer, rows []model.WhatIfRow, cur model.Currency) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIABLE\tVALUE\tTRAFFIC GAIN\tCONVERSIONS\tREVENUE GAIN\tROI\tBREAK-EVEN")
	for _, r := range rows {
		be := "-"
		if r.BreakEvenMonth != nil {
			be = fmt.Sprintf("month %d", *r.BreakEvenMonth)
		}
		fmt.Fprintf(tw, "%s\t%g\t%s\t%s\t%s\t%s\t%s\n",
			r.Variable, r.Value, Count(r.TrafficGain), Count(r.ConversionGain),
			Money(r.RevenueGain, cur), Percent(r.ROI), be)
	}
	return flush(tw)
}

func flush(tw *tabwriter.Writer) error {
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "export: flush table")
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
