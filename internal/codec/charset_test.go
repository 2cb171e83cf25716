package codec

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextReader(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "plain utf-8", in: []byte("Name\nCafé\n"), want: "Name\nCafé\n"},
		{name: "utf-8 bom dropped", in: []byte("\xEF\xBB\xBFName\n"), want: "Name\n"},
		{name: "windows-1252", in: []byte("Name\nCaf\xE9 \x80\n"), want: "Name\nCafé €\n"},
		{name: "utf-16le with bom", in: []byte("\xFF\xFEN\x00o\x00\n\x00"), want: "No\n"},
		{name: "empty", in: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(textReader(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestCSV_DecodeWindows1252(t *testing.T) {
	rows, err := CSV{}.Decode([]byte("Name,Symbol\nMicrogram,\xB5g\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "µg", rows[0].Cell(1))
}
