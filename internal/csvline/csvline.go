// Package csvline tokenizes single CSV lines the way spreadsheet exports and
// pasted tables actually arrive: quoted fields, doubled quotes, stray tabs,
// unbalanced quotes. Nothing here returns an error.
package csvline

import (
	"strings"
	"unicode"
)

// Split breaks one line into fields. A double quote toggles quoting; a doubled
// quote inside a quoted section is a literal quote. Commas and tabs outside
// quotes end a field. Fields are not trimmed.
func Split(line string) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case (c == ',' || c == '\t') && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(c)
		}
	}
	return append(fields, field.String())
}

// Lines splits text on \n or \r\n and drops lines that are blank after trimming.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Clean trims whitespace, byte order marks and other control or format
// characters from both ends of s, then removes one layer of wrapping quotes.
func Clean(s string) string {
	s = strings.TrimFunc(s, junk)
	if len(s) >= 2 {
		for _, q := range [][2]string{{`"`, `"`}, {`'`, `'`}, {"“", "”"}} {
			if strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) {
				s = strings.TrimFunc(s[len(q[0]):len(s)-len(q[1])], junk)
				break
			}
		}
	}
	return s
}

// Field returns the cleaned value at index i, or "" when the row is too short.
func Field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return Clean(row[i])
}

func junk(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r) || r == '\uFEFF'
}
