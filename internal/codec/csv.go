package codec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/JonMunkholm/LabMaster/internal/core"
)

// CSV reads and writes comma-separated files.
// Input is transcoded to UTF-8 first; see textReader.
type CSV struct{}

// Decode implements core.Codec. Completely empty lines are skipped by
// encoding/csv; lines of empty cells ("",,) are kept as blank rows.
func (CSV) Decode(data []byte) ([]core.RawRow, error) {
	r := csv.NewReader(textReader(data))
	r.FieldsPerRecord = -1 // rows may be ragged
	r.LazyQuotes = true
	r.ReuseRecord = false

	var grid [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &Error{Format: FormatCSV, Op: "decode", Err: err}
		}
		grid = append(grid, record)
	}
	return buildRows(grid), nil
}

// Encode implements core.Codec. Every row is padded or cut to the header width.
func (CSV) Encode(header []string, rows []core.RawRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, &Error{Format: FormatCSV, Op: "encode", Err: err}
	}
	for _, row := range rows {
		if err := w.Write(fitRow(row.Values, len(header))); err != nil {
			return nil, &Error{Format: FormatCSV, Op: "encode", Err: err}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, &Error{Format: FormatCSV, Op: "encode", Err: err}
	}
	return buf.Bytes(), nil
}

// fitRow returns values resized to width.
func fitRow(values []string, width int) []string {
	out := make([]string, width)
	copy(out, values)
	return out
}
