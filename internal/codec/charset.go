package codec

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// textReader returns data decoded to UTF-8 for the CSV parser.
//
// A byte order mark wins: UTF-8 BOMs are dropped and UTF-16 files (Excel's
// "Unicode Text") are transcoded. Without a BOM, valid UTF-8 passes through
// and anything else is read as Windows-1252, which is what Excel on Windows
// writes for "CSV (Comma delimited)".
func textReader(data []byte) io.Reader {
	return transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(fallbackDecoder(data)))
}

func fallbackDecoder(data []byte) transform.Transformer {
	if utf8.Valid(data) {
		return encoding.Nop.NewDecoder()
	}
	return charmap.Windows1252.NewDecoder()
}
