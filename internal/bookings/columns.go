package bookings

import "strings"

// Source column names
const (
	ColDate           = "Date"
	ColTime           = "Time"
	ColBookingID      = "Booking ID"
	ColStatus         = "Booking Status"
	ColVehicleType    = "Vehicle Type"
	ColRideDistance   = "Ride Distance"
	ColBookingValue   = "Booking Value"
	ColDriverRating   = "Driver Ratings"
	ColCustomerRating = "Customer Rating"
	ColPaymentMethod  = "Payment Method"
	ColCustomerID     = "Customer ID"
	ColCustomerReason = "Reason for cancelling by Customer"
	ColDriverReason   = "Driver Cancellation Reason"
)

// RequiredColumns lists every column the loader insists on, in report order
var RequiredColumns = []string{
	ColDate, ColTime, ColBookingID, ColStatus, ColVehicleType,
	ColRideDistance, ColBookingValue, ColDriverRating, ColCustomerRating,
	ColPaymentMethod, ColCustomerID, ColCustomerReason, ColDriverReason,
}

// naTokens are cell values treated as missing
var naTokens = map[string]struct{}{
	"": {}, "null": {}, "NULL": {}, "Null": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NA": {}, "N/A": {}, "n/a": {}, "#N/A": {}, "None": {}, "<NA>": {},
}

func isNA(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// columnIndex maps a column name to its position in the header row
type columnIndex map[string]int

// findColumnIndices locates required columns by trimmed, case-insensitive header
// name and reports the ones that are absent.
func findColumnIndices(header []string) (columnIndex, []string) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	cols := make(columnIndex, len(RequiredColumns))
	var missing []string
	for _, name := range RequiredColumns {
		idx, ok := positions[strings.ToLower(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = idx
	}
	return cols, missing
}

// cell returns the named column of a row, tolerating short rows
func (c columnIndex) cell(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
