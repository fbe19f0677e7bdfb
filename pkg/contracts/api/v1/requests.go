// Package api contains the HTTP request and response contracts of the
// RidePulse dashboard. Version v1 represents the current stable API version.
package api

import (
	"fmt"
	"net/url"

	"ridepulse/pkg/contracts/domain"
)

// Query parameter and body field names
const (
	ParamStart         = "start"
	ParamEnd           = "end"
	ParamVehicleType   = "vehicle_type"
	ParamStatus        = "status"
	ParamPaymentMethod = "payment_method"
	ParamFormat        = "format"
	ParamView          = "view"
	ParamSession       = "session"
)

// DateRangeRequest represents a picker date range. Dates are YYYY-MM-DD;
// blank means the view default.
type DateRangeRequest struct {
	Start string `json:"start,omitempty" query:"start" validate:"omitempty,isodate"`
	End   string `json:"end,omitempty" query:"end" validate:"omitempty,isodate"`
}

// FilterRequest carries the picker state of one view. Categorical values
// of "All" or blank impose no constraint.
type FilterRequest struct {
	DateRangeRequest
	VehicleType   string `json:"vehicle_type,omitempty" query:"vehicle_type" validate:"omitempty,max=64"`
	Status        string `json:"status,omitempty" query:"status" validate:"omitempty,max=64"`
	PaymentMethod string `json:"payment_method,omitempty" query:"payment_method" validate:"omitempty,max=64"`
}

// FilterRequestFromQuery reads a FilterRequest from URL query parameters
func FilterRequestFromQuery(q url.Values) FilterRequest {
	return FilterRequest{
		DateRangeRequest: DateRangeRequest{
			Start: q.Get(ParamStart),
			End:   q.Get(ParamEnd),
		},
		VehicleType:   q.Get(ParamVehicleType),
		Status:        q.Get(ParamStatus),
		PaymentMethod: q.Get(ParamPaymentMethod),
	}
}

// ToFilters converts a validated request into domain filters
func (r FilterRequest) ToFilters() (domain.Filters, error) {
	f := domain.Filters{
		VehicleType:   r.VehicleType,
		Status:        r.Status,
		PaymentMethod: r.PaymentMethod,
	}
	if r.Start != "" {
		d, err := domain.ParseDate(r.Start)
		if err != nil {
			return domain.Filters{}, fmt.Errorf("start: %w", err)
		}
		f.Start = d
	}
	if r.End != "" {
		d, err := domain.ParseDate(r.End)
		if err != nil {
			return domain.Filters{}, fmt.Errorf("end: %w", err)
		}
		f.End = d
	}
	return f, nil
}

// ExportRequest selects the download format of a view
type ExportRequest struct {
	Format string `json:"format" query:"format" validate:"omitempty,oneof=csv xlsx json"`
}

// SelectViewRequest switches the active view of a session
type SelectViewRequest struct {
	View string `json:"view" validate:"required,dashview"`
}

// SetFiltersRequest stores filters for a session view. View defaults to
// the active view.
type SetFiltersRequest struct {
	View string `json:"view,omitempty" validate:"omitempty,dashview"`
	FilterRequest
}
