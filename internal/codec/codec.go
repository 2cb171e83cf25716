// Package codec converts between spreadsheet files and core.RawRow slices.
//
// Two formats are supported: Office Open XML workbooks (xlsx, via excelize)
// and CSV. Auto sniffs the format on decode. Only literal cell values are
// read; formulas are never evaluated.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/LabMaster/internal/core"
)

// Format names a spreadsheet file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ContentType returns the MIME type for downloads.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ErrUnsupportedFormat is returned for format names other than xlsx and csv.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ParseFormat maps user input ("xlsx", ".CSV", "") to a Format.
// An empty name selects xlsx.
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "", "xlsx":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Error is a CodecError: the file could not be decoded or encoded.
type Error struct {
	Format Format
	Op     string // "decode" or "encode"
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid spreadsheet (%s %s): %v", e.Format, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns the codec for a format.
func New(f Format) core.Codec {
	if f == FormatCSV {
		return CSV{}
	}
	return XLSX{}
}

// Auto decodes either format, choosing by content, and encodes as Default.
type Auto struct {
	Default Format
}

// zipMagic starts every xlsx file (it is a zip archive).
var zipMagic = []byte("PK\x03\x04")

// Detect guesses the format of a file from its first bytes.
func Detect(data []byte) Format {
	if bytes.HasPrefix(data, zipMagic) {
		return FormatXLSX
	}
	return FormatCSV
}

// Decode implements core.Codec.
func (a Auto) Decode(data []byte) ([]core.RawRow, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return New(Detect(data)).Decode(data)
}

// Encode implements core.Codec.
func (a Auto) Encode(header []string, rows []core.RawRow) ([]byte, error) {
	return New(a.Default).Encode(header, rows)
}

// buildRows turns a decoded grid into RawRows. The first row is the header;
// every following row is numbered from 1. Trailing blank header cells are
// dropped so ragged exports don't create phantom columns.
func buildRows(grid [][]string) []core.RawRow {
	if len(grid) == 0 {
		return nil
	}

	header := grid[0]
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}

	rows := make([]core.RawRow, 0, len(grid)-1)
	for i, values := range grid[1:] {
		rows = append(rows, core.RawRow{
			Number:  i + 1,
			Headers: header,
			Values:  values,
		})
	}
	return rows
}
