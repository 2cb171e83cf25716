package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/LabMaster/internal/core"
)

// SheetName is the worksheet written by XLSX.Encode.
const SheetName = "Data"

// XLSX reads and writes Office Open XML workbooks.
// Decode reads the first worksheet. Formula cells yield their cached value.
type XLSX struct{}

// Decode implements core.Codec.
func (XLSX) Decode(data []byte) ([]core.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Format: FormatXLSX, Op: "decode", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &Error{Format: FormatXLSX, Op: "decode", Err: errors.New("workbook has no sheets")}
	}

	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &Error{Format: FormatXLSX, Op: "decode", Err: fmt.Errorf("sheet %q: %w", sheets[0], err)}
	}
	return buildRows(grid), nil
}

// Encode implements core.Codec. Cells are written as text so codes with
// leading zeros survive; the header row is bold and frozen.
func (XLSX) Encode(header []string, rows []core.RawRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	wrap := func(err error) error {
		return &Error{Format: FormatXLSX, Op: "encode", Err: err}
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, wrap(err)
	}

	if err := writeRow(f, 1, header); err != nil {
		return nil, wrap(err)
	}
	for i, row := range rows {
		if err := writeRow(f, i+2, fitRow(row.Values, len(header))); err != nil {
			return nil, wrap(err)
		}
	}

	if len(header) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, wrap(err)
		}
		if err := f.SetRowStyle(SheetName, 1, 1, style); err != nil {
			return nil, wrap(err)
		}

		lastCol, err := excelize.ColumnNumberToName(len(header))
		if err != nil {
			return nil, wrap(err)
		}
		if err := f.SetColWidth(SheetName, "A", lastCol, 20); err != nil {
			return nil, wrap(err)
		}
		if err := f.SetPanes(SheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, wrap(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, wrap(err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, rowNum int, values []string) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(SheetName, cell, &row)
}
