package bookings

import (
	"fmt"
	"strings"
	"time"

	"ridepulse/pkg/contracts/domain"
)

// dateLayouts are tried in order when parsing the Date column
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	time.RFC3339,
}

// TimeLayout is the only accepted Time column format
const TimeLayout = "15:04:05"

// vehicleRenames holds the one vehicle-type spelling fix applied after lower-casing
var vehicleRenames = strings.NewReplacer("e-bike", "ebike")

// Derive enriches raw records with calendar fields and fills missing numerics.
// It is pure: the input is not modified and the output has one row per input row.
func Derive(raw *RawDataset) (*Table, error) {
	if raw == nil {
		return nil, missingColumns("", RequiredColumns)
	}

	driverMean := columnMean(raw.Records, func(r RawRecord) NullFloat { return r.DriverRating })
	customerMean := columnMean(raw.Records, func(r RawRecord) NullFloat { return r.CustomerRating })

	out := make([]domain.Booking, len(raw.Records))
	for i, rec := range raw.Records {
		date, err := ParseBookingDate(rec.Date)
		if err != nil {
			return nil, badCell(raw.Source, rec.Row, ColDate, err)
		}
		clock, err := time.Parse(TimeLayout, rec.Time)
		if err != nil {
			return nil, badCell(raw.Source, rec.Row, ColTime, fmt.Errorf("invalid time %q: expected HH:MM:SS", rec.Time))
		}

		weekday := date.Weekday()
		out[i] = domain.Booking{
			BookingID:            rec.BookingID,
			Date:                 date,
			Time:                 clock.Format(TimeLayout),
			Status:               rec.Status,
			VehicleType:          NormalizeVehicleType(rec.VehicleType),
			RideDistance:         valueOr(rec.RideDistance, 0),
			BookingValue:         valueOr(rec.BookingValue, 0),
			DriverRating:         valueOr(rec.DriverRating, driverMean),
			CustomerRating:       valueOr(rec.CustomerRating, customerMean),
			PaymentMethod:        rec.PaymentMethod,
			CustomerID:           rec.CustomerID,
			CustomerCancelReason: rec.CustomerReason,
			DriverCancelReason:   rec.DriverReason,

			Year:      date.Year(),
			Month:     date.Month().String(),
			Weekday:   weekday.String(),
			Hour:      clock.Hour(),
			IsWeekend: weekday == time.Saturday || weekday == time.Sunday,
			DateOnly:  domain.NewDate(date),
		}
	}

	return NewTable(out, raw.Source, raw.Fingerprint, raw.LoadedAt), nil
}

// ParseBookingDate parses the Date column in any of the accepted layouts
func ParseBookingDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// NormalizeVehicleType lower-cases a vehicle type and applies the spelling fix
func NormalizeVehicleType(s string) string {
	return vehicleRenames.Replace(strings.ToLower(s))
}

// columnMean averages the present values of a numeric column; 0 when none are present
func columnMean(records []RawRecord, get func(RawRecord) NullFloat) float64 {
	var sum float64
	var n int
	for _, r := range records {
		if v := get(r); v.Valid {
			sum += v.Value
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func valueOr(v NullFloat, fallback float64) float64 {
	if v.Valid {
		return v.Value
	}
	return fallback
}
