package ingest

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions selects the sheet to convert.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// SheetOption parses a --sheet flag value: a zero-based index when numeric,
// otherwise a sheet name. Empty selects the first sheet.
func SheetOption(s string) XLSXOptions {
	s = strings.TrimSpace(s)
	if s == "" {
		return XLSXOptions{}
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 {
		return XLSXOptions{SheetIndex: i}
	}
	return XLSXOptions{SheetName: s}
}

// ReadXLSX reads a workbook sheet and returns all rows as string slices.
func ReadXLSX(path string, opts XLSXOptions) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

// XLSXToCSV converts a workbook sheet to comma-separated text, quoting cells
// that contain delimiters or quotes.
func XLSXToCSV(path string, opts XLSXOptions) (string, error) {
	rows, err := ReadXLSX(path, opts)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.WriteAll(rows); err != nil {
		return "", eris.Wrap(err, "xlsx: write csv")
	}
	return b.String(), nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
