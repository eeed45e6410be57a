package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTransactionID(t *testing.T) {
	nz := time.FixedZone("NZDT", 13*3600)
	tests := []struct {
		date      time.Time
		file, row int
		want      string
	}{
		{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 0, 0, "tx_2024-03-01T00:00:00Z_0_0"},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 2, 17, "tx_2024-12-31T00:00:00Z_2_17"},
		{time.Date(2024, 1, 5, 0, 0, 0, 0, nz), 1, 3, "tx_2024-01-05T00:00:00+13:00_1_3"},
	}
	for _, tt := range tests {
		got := FormatTransactionID(tt.date, tt.file, tt.row)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseTransactionID(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	gotDate, file, row, err := ParseTransactionID(FormatTransactionID(date, 4, 12))
	require.NoError(t, err)
	assert.True(t, date.Equal(gotDate))
	assert.Equal(t, 4, file)
	assert.Equal(t, 12, row)
}

func TestParseTransactionID_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"tx_2024-03-01T00:00:00Z_0",
		"id_2024-03-01T00:00:00Z_0_0",
		"tx_2024-03-01_0_0",
		"tx_2024-03-01T00:00:00Z_a_0",
		"tx_2024-03-01T00:00:00Z_0_b",
	}
	for _, input := range badInputs {
		_, _, _, err := ParseTransactionID(input)
		assert.Error(t, err, "input: %q", input)
	}
}
