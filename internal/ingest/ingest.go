// Package ingest imports keyword lists from CSV and XLSX files and forecast
// scenarios from YAML.
package ingest

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/seo-forecast/internal/model"
)

// Import defaults for missing or unparseable values.
const (
	DefaultPosition   = 20
	DefaultDifficulty = 5.0
	MinDifficulty     = 1.0
	MaxDifficulty     = 10.0
	// TargetFraction derives a target rank from the current one when the file
	// has no target column.
	TargetFraction = 0.5
)

// ErrUnsupportedFormat is returned for file extensions ingest cannot read.
var ErrUnsupportedFormat = eris.New("ingest: unsupported file format")

// ParseError describes a per-row problem. Rows with errors are either
// skipped or imported with a default value, depending on the field.
type ParseError struct {
	Row    int    `json:"row"` // 1-based line in the source, header is line 1
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (e ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d, column %q: %s (value %q)", e.Row, e.Column, e.Reason, e.Value)
}

// Import is the result of reading a keyword file.
type Import struct {
	Keywords []model.Keyword `json:"keywords"`
	Errors   []ParseError    `json:"errors,omitempty"`
	Header   []string        `json:"header"`
	Mapping  Mapping         `json:"mapping"`
}

// ReadFile imports keywords from path, choosing the reader by extension.
func ReadFile(path string) (*Import, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "ingest: %s", filepath.Base(path))
	}
}

// ReadCSV imports keywords from a CSV stream with a header row.
func ReadCSV(r io.Reader) (*Import, error) {
	rows, err := readCSVRows(r)
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}

// ReadXLSX imports keywords from the first sheet of an XLSX workbook.
func ReadXLSX(path string) (*Import, error) {
	rows, err := readXLSXRows(path)
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}

func parseRows(rows []sourceRow) (*Import, error) {
	start := 0
	for start < len(rows) && blank(rows[start].Cells) {
		start++
	}
	if start == len(rows) {
		return nil, eris.New("ingest: file is empty")
	}
	header := rows[start].Cells

	imp := &Import{
		Keywords: []model.Keyword{},
		Header:   header,
		Mapping:  DetectColumns(header),
	}
	for _, row := range rows[start+1:] {
		if blank(row.Cells) {
			continue
		}
		kw, errs, ok := imp.parseRecord(row.Line, row.Cells)
		imp.Errors = append(imp.Errors, errs...)
		if ok {
			imp.Keywords = append(imp.Keywords, kw)
		}
	}

	zap.L().Debug("ingest: parsed keywords",
		zap.Int("keywords", len(imp.Keywords)),
		zap.Int("errors", len(imp.Errors)),
	)
	return imp, nil
}

func (imp *Import) parseRecord(line int, record []string) (model.Keyword, []ParseError, bool) {
	m := imp.Mapping
	var errs []ParseError
	fail := func(col int, value, reason string) {
		errs = append(errs, ParseError{Row: line, Column: field(imp.Header, col), Value: value, Reason: reason})
	}

	term := cell(record, m.Term)
	if term == "" {
		fail(m.Term, "", "empty keyword, row skipped")
		return model.Keyword{}, errs, false
	}
	kw := model.Keyword{Term: term, Position: DefaultPosition, Difficulty: DefaultDifficulty}

	if raw := cell(record, m.Volume); m.Volume >= 0 {
		if v, ok := parseNumber(raw); ok && v >= 0 {
			kw.SearchVolume = int(v)
		} else {
			fail(m.Volume, raw, "invalid search volume, using 0")
		}
	}

	if raw := cell(record, m.Position); m.Position >= 0 {
		if v, ok := parseNumber(raw); ok && v >= 1 {
			kw.Position = int(v)
		} else {
			fail(m.Position, raw, fmt.Sprintf("invalid position, using %d", DefaultPosition))
		}
	}

	kw.TargetPosition = max(1, int(float64(kw.Position)*TargetFraction))
	if raw := cell(record, m.Target); m.Target >= 0 && raw != "" {
		if v, ok := parseNumber(raw); ok && v >= 1 {
			kw.TargetPosition = int(v)
		} else {
			fail(m.Target, raw, fmt.Sprintf("invalid target position, using %d", kw.TargetPosition))
		}
	}

	if raw := cell(record, m.Difficulty); m.Difficulty >= 0 && raw != "" {
		if v, ok := parseNumber(raw); ok {
			kw.Difficulty = math.Min(MaxDifficulty, math.Max(MinDifficulty, v))
		} else {
			fail(m.Difficulty, raw, fmt.Sprintf("invalid difficulty, using %.0f", DefaultDifficulty))
		}
	}
	return kw, errs, true
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// parseNumber accepts plain and thousands-separated numbers ("8,000",
// "1 200", "12.0").
func parseNumber(s string) (float64, bool) {
	s = strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
