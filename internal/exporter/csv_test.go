package exporter

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridepulse/internal/shared/testutil"
)

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	data = bytes.TrimPrefix(data, utf8BOM)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestViewRecords(t *testing.T) {
	records := ViewRecords(sampleViewModel())

	require.GreaterOrEqual(t, len(records), 3)
	assert.Equal(t, []string{"meta", "view", "VEHICLE_TYPE", "", "", "", ""}, records[0])
	assert.Equal(t, []string{"meta", "range", "2024-01-01..2024-01-31", "", "", "", ""}, records[1])
	assert.Equal(t, []string{"meta", "row_count", "", "", "3", "", ""}, records[2])

	assert.Contains(t, records, []string{"kpi", "total_booking_value", "Total Booking Value", "", "430.00", "", "INR"})
	assert.Contains(t, records, []string{"revenue_share", "Revenue Share", "go sedan", "", "150.00", "", ""})
	assert.Contains(t, records, []string{"revenue_vs_distance", "Vehicle Type", "auto", "10.00", "200.00", "1.00", ""})
	assert.Contains(t, records, []string{"vehicle_breakdown", "Total Value", "auto", "", "200.00", "", ""})

	for _, r := range records {
		assert.Len(t, r, len(ViewHeaders))
	}

	// 3 meta + 2 cards + 3 points + 2 rows * 2 cells
	assert.Len(t, records, 12)
}

func TestViewRecords_Nil(t *testing.T) {
	assert.Nil(t, ViewRecords(nil))
}

func TestEncodeCSV(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		wantBOM bool
		want    [][]string
	}{
		{
			name:    "with BOM",
			options: WriteOptions{Headers: []string{"a", "b"}, Records: [][]string{{"1", "2"}}, BOMPrefix: true},
			wantBOM: true,
			want:    [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:    "records only",
			options: WriteOptions{Records: [][]string{{"x, y", "z"}}},
			want:    [][]string{{"x, y", "z"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, EncodeCSV(&buf, tt.options))
			assert.Equal(t, tt.wantBOM, bytes.HasPrefix(buf.Bytes(), utf8BOM))
			assert.Equal(t, tt.want, readCSV(t, buf.Bytes()))
		})
	}
}

func TestCSVWriter_WriteView(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	dir := t.TempDir()
	w := NewCSVWriter(dir, logger)

	require.NoError(t, w.WriteView("exports/vehicle.csv", sampleViewModel()))

	data, err := os.ReadFile(filepath.Join(dir, "exports", "vehicle.csv"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM))

	records := readCSV(t, data)
	assert.Equal(t, ViewHeaders, records[0])
	assert.Len(t, records, 13)
}

func TestCSVWriter_Append(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	dir := t.TempDir()
	w := NewCSVWriter(dir, logger)

	require.NoError(t, w.WriteCSV("log.csv", WriteOptions{Headers: []string{"h"}, Records: [][]string{{"1"}}, BOMPrefix: true}))
	require.NoError(t, w.WriteCSV("log.csv", WriteOptions{Headers: []string{"h"}, Records: [][]string{{"2"}}, Append: true, BOMPrefix: true}))

	data, err := os.ReadFile(filepath.Join(dir, "log.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(data, utf8BOM))
	assert.Equal(t, [][]string{{"h"}, {"1"}, {"2"}}, readCSV(t, data))
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	target := filepath.Join(t.TempDir(), "abs.csv")
	w := NewCSVWriter("ignored", logger)

	require.NoError(t, w.WriteCSV(target, WriteOptions{Records: [][]string{{"ok"}}}))
	assert.FileExists(t, target)
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0.00"},
		{13.4, "13.40"},
		{-2.5, "-2.50"},
		{1234.567, "1234.57"},
		{math.Copysign(0, -1), "0.00"},
		{math.NaN(), ""},
		{math.Inf(1), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatFloat(tt.input))
	}
	assert.Equal(t, "", formatOptional(0))
	assert.Equal(t, "42", formatInt(42))
}
