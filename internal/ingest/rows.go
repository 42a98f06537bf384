package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sourceRow is one record plus its 1-based line in the source file.
type sourceRow struct {
	Line  int
	Cells []string
}

// readCSVRows reads every record of a CSV stream. A UTF-8 or UTF-16 byte
// order mark is honoured and stripped. Blank lines are skipped by the
// reader, so Line keeps the original numbering.
func readCSVRows(r io.Reader) ([]sourceRow, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows []sourceRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, sourceRow{Line: line, Cells: trimAll(record)})
	}
	return rows, nil
}

// readXLSXRows reads the first sheet of a workbook.
func readXLSXRows(path string) ([]sourceRow, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("ingest: workbook has no sheets")
	}

	var rows []sourceRow
	for i, row := range f.Sheets[0].Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, sourceRow{Line: i + 1, Cells: trimAll(cells)})
	}
	return rows, nil
}

func trimAll(record []string) []string {
	for i, field := range record {
		record[i] = strings.TrimSpace(field)
	}
	return record
}

func blank(record []string) bool {
	for _, f := range record {
		if f != "" {
			return false
		}
	}
	return true
}
