package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/LabMaster/internal/core"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatXLSX},
		{in: "xlsx", want: FormatXLSX},
		{in: ".CSV", want: FormatCSV},
		{in: " csv ", want: FormatCSV},
		{in: "ods", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSV_Decode(t *testing.T) {
	data := []byte("\xEF\xBB\xBFName *,Code\nCash,CSH\n,\nUPI,UPI,extra\n")

	rows, err := CSV{}.Decode(data)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Name *", "Code"}, rows[0].Headers)
	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, []string{"Cash", "CSH"}, rows[0].Values)

	assert.Equal(t, 2, rows[1].Number)
	assert.True(t, rows[1].IsBlank())

	assert.Equal(t, 3, rows[2].Number)
	assert.Equal(t, "UPI", rows[2].Cell(0))
	assert.Equal(t, "", rows[2].Cell(9))
}

func TestCSV_DecodeHeaderOnly(t *testing.T) {
	rows, err := CSV{}.Decode([]byte("Name,Code\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSV_EncodePadsRows(t *testing.T) {
	data, err := CSV{}.Encode([]string{"Name", "Code"}, []core.RawRow{
		{Values: []string{"Cash"}},
		{Values: []string{"Card", "CRD", "ignored"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Name,Code\nCash,\nCard,CRD\n", string(data))
}

func TestXLSX_RoundTrip(t *testing.T) {
	header := []string{"Name *", "Code", "Price"}
	in := []core.RawRow{
		{Values: []string{"Glucose", "0042", "12.50"}},
		{Values: []string{"Lipid Panel", "", "40"}},
	}

	data, err := XLSX{}.Encode(header, in)
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, Detect(data))

	rows, err := XLSX{}.Decode(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, header, rows[0].Headers)
	assert.Equal(t, "0042", rows[0].Cell(1), "leading zeros survive")
	assert.Equal(t, "Lipid Panel", rows[1].Cell(0))
	assert.Equal(t, "40", rows[1].Cell(2))
}

func TestXLSX_TemplateHasNoDataRows(t *testing.T) {
	data, err := XLSX{}.Encode([]string{"Name *"}, nil)
	require.NoError(t, err)

	rows, err := XLSX{}.Decode(data)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestXLSX_DecodeBlankRowInMiddle(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Name"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "Cash"))
	require.NoError(t, f.SetCellValue(sheet, "A4", "UPI"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := XLSX{}.Decode(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[1].IsBlank())
	assert.Equal(t, 3, rows[2].Number)
}

func TestXLSX_DecodeGarbage(t *testing.T) {
	_, err := XLSX{}.Decode([]byte("PK\x03\x04 definitely not a workbook"))
	require.Error(t, err)

	var codecErr *Error
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, "decode", codecErr.Op)
	assert.Contains(t, err.Error(), "invalid spreadsheet")
}

func TestAuto_Decode(t *testing.T) {
	auto := Auto{Default: FormatXLSX}

	t.Run("empty input yields no rows", func(t *testing.T) {
		rows, err := auto.Decode(nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("csv detected", func(t *testing.T) {
		rows, err := auto.Decode([]byte("Name\nCash\n"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Cash", rows[0].Cell(0))
	})

	t.Run("xlsx detected", func(t *testing.T) {
		data, err := XLSX{}.Encode([]string{"Name"}, []core.RawRow{{Values: []string{"Card"}}})
		require.NoError(t, err)

		rows, err := auto.Decode(data)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Card", rows[0].Cell(0))
	})

	t.Run("encodes with default format", func(t *testing.T) {
		data, err := Auto{Default: FormatCSV}.Encode([]string{"Name"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Name\n", string(data))
	})
}
