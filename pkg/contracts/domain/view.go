package domain

import "strings"

// View identifies one of the fixed dashboard panels
type View string

const (
	ViewOverview     View = "OVERVIEW"
	ViewVehicleType  View = "VEHICLE_TYPE"
	ViewRevenue      View = "REVENUE"
	ViewCancellation View = "CANCELLATION"
	ViewRatings      View = "RATINGS"
)

// Views lists every view in menu order
var Views = []View{ViewOverview, ViewVehicleType, ViewRevenue, ViewCancellation, ViewRatings}

// DefaultView is the view a new session starts on
const DefaultView = ViewOverview

// AllOption is the categorical sentinel meaning "no constraint"
const AllOption = "All"

// Valid reports whether v is a known view
func (v View) Valid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// ParseView normalizes menu labels such as "vehicle type", "vehicle-type" or
// "OVERALL" into a View.
func ParseView(s string) (View, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	if norm == "OVERALL" {
		norm = string(ViewOverview)
	}
	v := View(norm)
	return v, v.Valid()
}

// Filters is the picker state of a single view. Unset dates fall back to the
// view's default range; empty or "All" categoricals impose no constraint.
type Filters struct {
	Start         Date   `json:"start"`
	End           Date   `json:"end"`
	VehicleType   string `json:"vehicle_type,omitempty"`
	Status        string `json:"status,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

// HasCategorical reports whether any categorical constraint is active
func (f Filters) HasCategorical() bool {
	return IsConstrained(f.VehicleType) || IsConstrained(f.Status) || IsConstrained(f.PaymentMethod)
}

// IsConstrained reports whether a categorical selection narrows the data
func IsConstrained(value string) bool {
	return value != "" && value != AllOption
}

// DateRange is an inclusive calendar-date range
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// FilterOptions holds distinct categorical values in encounter order. Dropdowns
// prepend AllOption when presenting them.
type FilterOptions struct {
	VehicleTypes   []string `json:"vehicle_types"`
	Statuses       []string `json:"statuses"`
	PaymentMethods []string `json:"payment_methods"`
}

// ViewDescriptor describes what a view accepts
type ViewDescriptor struct {
	View               View      `json:"view"`
	Title              string    `json:"title"`
	DefaultRange       DateRange `json:"default_range"`
	AcceptsCategorical bool      `json:"accepts_categorical"`
}

// DatasetInfo summarizes the loaded enriched table
type DatasetInfo struct {
	Source      string        `json:"source"`
	Rows        int           `json:"rows"`
	Bounds      DateRange     `json:"bounds"`
	Fingerprint string        `json:"fingerprint"`
	Options     FilterOptions `json:"options"`
}
