// Package ingest turns uploaded files into the decoded CSV text the report
// pipeline consumes. Spreadsheet exports arrive as UTF-8 (with or without a
// BOM), UTF-16, GB18030 or .xlsx.
package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/simplifiedchinese"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names the source encoding Decode detected.
type Encoding string

const (
	EncodingUTF8    Encoding = "utf-8"
	EncodingBOM     Encoding = "bom"
	EncodingGB18030 Encoding = "gb18030"
)

var boms = [][]byte{
	{0xEF, 0xBB, 0xBF},
	{0xFF, 0xFE},
	{0xFE, 0xFF},
}

// Decode converts raw file bytes to text. A byte order mark selects UTF-8 or
// UTF-16; otherwise valid UTF-8 is returned as is and anything else is read
// as GB18030.
func Decode(b []byte) (string, Encoding, error) {
	for _, bom := range boms {
		if bytes.HasPrefix(b, bom) {
			out, _, err := transform.Bytes(xunicode.BOMOverride(transform.Nop), b)
			if err != nil {
				return "", EncodingBOM, eris.Wrap(err, "ingest: decode bom text")
			}
			return string(out), EncodingBOM, nil
		}
	}
	if utf8.Valid(b) {
		return string(b), EncodingUTF8, nil
	}
	out, _, err := transform.Bytes(simplifiedchinese.GB18030.NewDecoder(), b)
	if err != nil {
		return "", EncodingGB18030, eris.Wrap(err, "ingest: decode gb18030")
	}
	return string(out), EncodingGB18030, nil
}

// ReadFile loads path as CSV text. .xlsx workbooks are converted from the
// sheet opts selects; opts is ignored for other files.
func ReadFile(path string, opts XLSXOptions) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		text, err := XLSXToCSV(path, opts)
		if err != nil {
			return "", err
		}
		zap.L().Debug("ingest: converted workbook", zap.String("path", path), zap.Int("bytes", len(text)))
		return text, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "ingest: read %s", path)
	}
	text, enc, err := Decode(b)
	if err != nil {
		return "", eris.Wrapf(err, "ingest: decode %s", path)
	}
	zap.L().Debug("ingest: decoded file",
		zap.String("path", path),
		zap.String("encoding", string(enc)),
		zap.Int("bytes", len(b)),
	)
	return text, nil
}
