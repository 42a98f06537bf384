package export

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/seo-forecast/internal/model"
)

// WriteKeywordsCSV writes one row per keyword result.
func WriteKeywordsCSV(w io.Writer, rows []model.KeywordResult) error {
	return writeCSV(w, rows, model.KeywordResult{})
}

// WriteMonthlyCSV writes the projection rows followed by the TOTAL row.
// A nil projection writes the header only.
func WriteMonthlyCSV(w io.Writer, p *model.Projection) error {
	var rows []model.MonthlyRow
	if p != nil {
		rows = append(rows, p.Rows...)
		rows = append(rows, p.Total)
	}
	return writeCSV(w, rows, model.MonthlyRow{})
}

// WriteWhatIfCSV writes what-if sweep rows.
func WriteWhatIfCSV(w io.Writer, rows []model.WhatIfRow) error {
	return writeCSV(w, rows, model.WhatIfRow{})
}

func writeCSV[T any](w io.Writer, rows []T, zero T) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if len(rows) == 0 {
		if err := enc.EncodeHeader(zero); err != nil {
			return eris.Wrap(err, "export: write csv header")
		}
	} else if err := enc.Encode(rows); err != nil {
		return eris.Wrap(err, "export: write csv rows")
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}
