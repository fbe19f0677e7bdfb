package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day. The zero value means "unset".
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// MustParseDate parses a YYYY-MM-DD string and panics on failure. Intended for constants and tests.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// String formats the date as YYYY-MM-DD, or "" when unset
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Before reports whether d is strictly before other
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// After reports whether d is strictly after other
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

// MarshalJSON encodes the date as "YYYY-MM-DD" or null when unset
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD", "" or null
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Booking is one enriched ride booking record. Fields after CustomerCancelReason
// are derived once at load time from Date and Time.
type Booking struct {
	BookingID            string    `json:"booking_id"`
	Date                 time.Time `json:"date"`
	Time                 string    `json:"time"`
	Status               string    `json:"booking_status"`
	VehicleType          string    `json:"vehicle_type"`
	RideDistance         float64   `json:"ride_distance"`
	BookingValue         float64   `json:"booking_value"`
	DriverRating         float64   `json:"driver_rating"`
	CustomerRating       float64   `json:"customer_rating"`
	PaymentMethod        string    `json:"payment_method"`
	CustomerID           string    `json:"customer_id"`
	CustomerCancelReason string    `json:"customer_cancel_reason,omitempty"`
	DriverCancelReason   string    `json:"driver_cancel_reason,omitempty"`

	Year      int    `json:"year"`
	Month     string `json:"month"`
	Weekday   string `json:"weekday"`
	Hour      int    `json:"hour"`
	IsWeekend bool   `json:"is_weekend"`
	DateOnly  Date   `json:"date_only"`
}

// Well-known booking statuses
const (
	StatusCompleted           = "Completed"
	StatusCancelledByCustomer = "Cancelled by Customer"
	StatusCancelledByDriver   = "Cancelled by Driver"
	cancelledMarker           = "Cancelled"
)

// IsCancelled reports whether the status is any cancellation status
func (b Booking) IsCancelled() bool {
	return strings.Contains(b.Status, cancelledMarker)
}

// MonthNames lists calendar months in display order
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// WeekdayNames lists weekdays Monday first
var WeekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}
