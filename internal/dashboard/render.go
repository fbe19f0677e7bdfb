package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"ridepulse/pkg/contracts/domain"
)

// Render failures. Both are caller errors; an empty selection is not.
var (
	ErrUnknownView        = errors.New("unknown view")
	ErrFilterNotSupported = errors.New("filter not supported by view")
)

// fixedDefaultRange is the initial picker range of the REVENUE and CANCELLATION views
var fixedDefaultRange = domain.DateRange{
	Start: domain.MustParseDate("2024-01-01"),
	End:   domain.MustParseDate("2024-12-30"),
}

var viewTitles = map[domain.View]string{
	domain.ViewOverview:     "Overall",
	domain.ViewVehicleType:  "Vehicle Type",
	domain.ViewRevenue:      "Revenue",
	domain.ViewCancellation: "Cancellation",
	domain.ViewRatings:      "Ratings",
}

// RenderState is everything a render depends on besides the data
type RenderState struct {
	View    domain.View    `json:"view"`
	Filters domain.Filters `json:"filters"`
}

// AcceptsCategorical reports whether view honours vehicle, status and payment filters
func AcceptsCategorical(view domain.View) bool {
	return view == domain.ViewOverview
}

// DefaultRange is the picker range a view starts with. Dataset-bounded views
// span the whole table; the fixed calendar-year range is clamped into it.
func DefaultRange(view domain.View, bounds domain.DateRange) domain.DateRange {
	switch view {
	case domain.ViewRevenue, domain.ViewCancellation:
		if bounds.Start.IsZero() || bounds.End.IsZero() {
			return fixedDefaultRange
		}
		return domain.DateRange{
			Start: clampDate(fixedDefaultRange.Start, bounds),
			End:   clampDate(fixedDefaultRange.End, bounds),
		}
	default:
		return bounds
	}
}

func clampDate(d domain.Date, bounds domain.DateRange) domain.Date {
	if d.Before(bounds.Start) {
		return bounds.Start
	}
	if d.After(bounds.End) {
		return bounds.End
	}
	return d
}

// Descriptors lists every view with its default range and filter capabilities
func Descriptors(bounds domain.DateRange) []domain.ViewDescriptor {
	out := make([]domain.ViewDescriptor, 0, len(domain.Views))
	for _, v := range domain.Views {
		out = append(out, domain.ViewDescriptor{
			View:               v,
			Title:              viewTitles[v],
			DefaultRange:       DefaultRange(v, bounds),
			AcceptsCategorical: AcceptsCategorical(v),
		})
	}
	return out
}

// Resolve fills unset dates from the view defaults and checks that only
// accepted filters are present. Explicit dates are used as given.
func Resolve(view domain.View, f domain.Filters, bounds domain.DateRange) (domain.Filters, error) {
	if !view.Valid() {
		return domain.Filters{}, fmt.Errorf("%w: %q", ErrUnknownView, string(view))
	}
	if !AcceptsCategorical(view) && f.HasCategorical() {
		return domain.Filters{}, fmt.Errorf("%w: %s accepts a date range only (got %s)",
			ErrFilterNotSupported, view, strings.Join(categoricalFields(f), ", "))
	}

	def := DefaultRange(view, bounds)
	if f.Start.IsZero() {
		f.Start = def.Start
	}
	if f.End.IsZero() {
		f.End = def.End
	}
	return f, nil
}

func categoricalFields(f domain.Filters) []string {
	var fields []string
	if domain.IsConstrained(f.VehicleType) {
		fields = append(fields, "vehicle_type")
	}
	if domain.IsConstrained(f.Status) {
		fields = append(fields, "status")
	}
	if domain.IsConstrained(f.PaymentMethod) {
		fields = append(fields, "payment_method")
	}
	return fields
}

// Render filters the dataset for state and reduces it into a view model. It
// has no side effects and is called afresh for every interaction.
func Render(state RenderState, ds *Dataset) (*domain.ViewModel, error) {
	table := ds.Table()
	filters, err := Resolve(state.View, state.Filters, table.Bounds())
	if err != nil {
		return nil, err
	}

	subset := ds.Select(Criteria{
		Start:         filters.Start,
		End:           filters.End,
		VehicleType:   filters.VehicleType,
		Status:        filters.Status,
		PaymentMethod: filters.PaymentMethod,
	})

	vm := &domain.ViewModel{
		View:     state.View,
		Range:    domain.DateRange{Start: filters.Start, End: filters.End},
		Filters:  filters,
		Options:  dropdownOptions(table.Options()),
		RowCount: subset.Len(),
	}

	switch state.View {
	case domain.ViewOverview:
		summary := summarizeOverview(subset)
		vm.Summary = summary
		vm.Cards, vm.Charts, vm.Tables = presentOverview(summary)
	case domain.ViewVehicleType:
		summary := summarizeVehicles(subset)
		vm.Summary = summary
		vm.Cards, vm.Charts, vm.Tables = presentVehicles(summary)
	case domain.ViewRevenue:
		summary := summarizeRevenue(subset, filters.Start)
		vm.Summary = summary
		vm.Cards, vm.Charts, vm.Tables = presentRevenue(summary)
	case domain.ViewCancellation:
		summary := summarizeCancellations(subset)
		vm.Summary = summary
		vm.Cards, vm.Charts, vm.Tables = presentCancellations(summary)
	case domain.ViewRatings:
		summary := summarizeRatings(subset)
		vm.Summary = summary
		vm.Cards, vm.Charts, vm.Tables = presentRatings(summary)
	}
	return vm, nil
}

// dropdownOptions prepends the "All" sentinel to every option list
func dropdownOptions(opts domain.FilterOptions) domain.FilterOptions {
	withAll := func(values []string) []string {
		return append([]string{domain.AllOption}, values...)
	}
	return domain.FilterOptions{
		VehicleTypes:   withAll(opts.VehicleTypes),
		Statuses:       withAll(opts.Statuses),
		PaymentMethods: withAll(opts.PaymentMethods),
	}
}
