// Package metric holds the static metric tables and scores CSV rows against them.
package metric

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.\-]`)
	leadingNumber = regexp.MustCompile(`^-?(?:[0-9]+\.?[0-9]*|\.[0-9]+)`)
)

// ParseValue coerces a raw cell into a number. Thousands separators, percent
// signs and stray unit text are stripped. It returns nil for missing cells,
// empty cells, a lone "-", and anything without a leading numeric prefix.
// Malformed input such as "1.2.3" yields its longest valid prefix (1.2).
func ParseValue(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" || s == "-" {
		return nil
	}
	m := leadingNumber.FindString(nonNumeric.ReplaceAllString(s, ""))
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Cell returns a pointer to row[i], or nil when the row is too short.
func Cell(row []string, i int) *string {
	if i < 0 || i >= len(row) {
		return nil
	}
	return &row[i]
}
