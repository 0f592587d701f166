package files

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText turns spreadsheet exports into UTF-8. UTF-8 with or without a
// BOM is taken as is; anything else is read as Shift_JIS, the encoding Excel
// uses for Japanese CSV exports.
func decodeText(data []byte) (string, error) {
	var dec transform.Transformer
	if utf8.Valid(bytes.TrimPrefix(data, utf8BOM)) {
		dec = unicode.BOMOverride(unicode.UTF8.NewDecoder())
	} else {
		dec = japanese.ShiftJIS.NewDecoder()
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), dec))
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(out), nil
}
