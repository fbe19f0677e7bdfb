package exporter

import (
	"math"
	"strconv"
)

// formatFloat writes two fixed decimals so spreadsheet columns line up.
// NaN and infinities, which only appear for empty aggregates, are blank.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f), math.IsInf(f, 0):
		return ""
	case f == 0:
		f = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatInt(i int) string { return strconv.Itoa(i) }

// formatOptional leaves zero blank, for bubble sizes and similar
func formatOptional(f float64) string {
	if f == 0 {
		return ""
	}
	return formatFloat(f)
}
