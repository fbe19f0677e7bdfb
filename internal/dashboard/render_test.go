package dashboard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridepulse/internal/bookings"
	"ridepulse/internal/shared/testutil"
	"ridepulse/pkg/contracts/domain"
)

func TestRender_EmptySelectionIsTotal(t *testing.T) {
	ds := datasetOf(t, testutil.SampleRows()...)
	empty := rangeOf("2030-01-01", "2030-01-31")

	for _, view := range domain.Views {
		t.Run(string(view), func(t *testing.T) {
			vm := render(t, ds, view, empty)
			assert.Equal(t, 0, vm.RowCount)
			for _, c := range vm.Cards {
				assert.False(t, math.IsNaN(c.Value), c.Key)
				assert.Zero(t, c.Value, c.Key)
			}
		})
	}

	overview := render(t, ds, domain.ViewOverview, empty).Summary.(domain.OverviewSummary)
	assert.Len(t, overview.BookingsByHour, 24)
	assert.Len(t, overview.BookingsByWeekday, 7)
	assert.Empty(t, overview.DailyBookings)

	revenue := render(t, ds, domain.ViewRevenue, empty).Summary.(domain.RevenueSummary)
	assert.Len(t, revenue.MonthlyRevenue, 12)
	assert.Empty(t, revenue.ValueHistogram)
	assert.Empty(t, revenue.TopCustomers)

	ratings := render(t, ds, domain.ViewRatings, empty).Summary.(domain.RatingsSummary)
	assert.Empty(t, ratings.VehicleRanking)
	assert.Empty(t, ratings.Distribution.Customer)
}

func TestRender_StartAfterEndIsEmpty(t *testing.T) {
	ds := datasetOf(t, testutil.SampleRows()...)
	vm := render(t, ds, domain.ViewOverview, rangeOf("2024-02-01", "2024-01-01"))
	assert.Equal(t, 0, vm.RowCount)
	assert.Equal(t, 0, vm.Summary.(domain.OverviewSummary).TotalBookings)
}

func TestRender_DateRangeIsInclusive(t *testing.T) {
	ds := datasetOf(t, testutil.SampleRows()...)
	vm := render(t, ds, domain.ViewOverview, rangeOf("2024-01-06", "2024-01-07"))
	assert.Equal(t, 3, vm.RowCount)
}

func TestRender_AllEquivalence(t *testing.T) {
	ds := datasetOf(t, testutil.SampleRows()...)

	unset := render(t, ds, domain.ViewOverview, domain.Filters{})
	all := render(t, ds, domain.ViewOverview, domain.Filters{
		VehicleType:   domain.AllOption,
		Status:        domain.AllOption,
		PaymentMethod: domain.AllOption,
	})

	assert.Equal(t, unset.Summary, all.Summary)
	assert.Equal(t, unset.RowCount, all.RowCount)
}

func TestRender_CategoricalFilters(t *testing.T) {
	ds := datasetOf(t, testutil.SampleRows()...)

	tests := []struct {
		name     string
		filters  domain.Filters
		wantRows int
	}{
		{"vehicle", domain.Filters{VehicleType: "auto"}, 2},
		{"status", domain.Filters{Status: domain.StatusCompleted}, 4},
		{"payment", domain.Filters{PaymentMethod: "Cash"}, 2},
		{"combined", domain.Filters{VehicleType: "auto", Status: domain.StatusCompleted}, 1},
		{"unknown value", domain.Filters{VehicleType: "hovercraft"}, 0},
		{"raw casing does not match", domain.Filters{VehicleType: "Auto"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := render(t, ds, domain.ViewOverview, tt.filters)
			assert.Equal(t, tt.wantRows, vm.RowCount)
		})
	}
}

func TestRender_Errors(t *testing.T) {
	ds := datasetOf(t, testutil.SampleRows()...)

	_, err := Render(RenderState{View: "MAP"}, ds)
	assert.ErrorIs(t, err, ErrUnknownView)

	for _, view := range []domain.View{domain.ViewVehicleType, domain.ViewRevenue, domain.ViewCancellation, domain.ViewRatings} {
		_, err := Render(RenderState{View: view, Filters: domain.Filters{PaymentMethod: "UPI"}}, ds)
		assert.ErrorIs(t, err, ErrFilterNotSupported, string(view))
		assert.Contains(t, err.Error(), "payment_method")
	}

	_, err = Render(RenderState{View: domain.ViewRevenue, Filters: domain.Filters{VehicleType: domain.AllOption}}, ds)
	assert.NoError(t, err, "All is not a constraint")
}

func TestRender_CrossViewRevenueConsistency(t *testing.T) {
	ds := datasetOf(t, testutil.SampleRows()...)
	f := rangeOf("2024-01-01", "2024-01-31")

	overview := render(t, ds, domain.ViewOverview, f).Summary.(domain.OverviewSummary)
	revenue := render(t, ds, domain.ViewRevenue, f).Summary.(domain.RevenueSummary)
	vehicles := render(t, ds, domain.ViewVehicleType, f).Summary.(domain.VehicleTypeSummary)

	assert.Equal(t, overview.TotalRevenue, revenue.TotalRevenue)
	assert.Equal(t, overview.TotalRevenue, vehicles.TotalBookingValue)
	assert.Equal(t, 430.0, revenue.TotalRevenue)
}

func TestDefaultRange(t *testing.T) {
	bounds := domain.DateRange{Start: domain.MustParseDate("2024-01-01"), End: domain.MustParseDate("2024-12-31")}
	narrow := domain.DateRange{Start: domain.MustParseDate("2024-03-10"), End: domain.MustParseDate("2024-06-01")}
	wide := domain.DateRange{Start: domain.MustParseDate("2023-06-01"), End: domain.MustParseDate("2025-02-01")}

	tests := []struct {
		name   string
		view   domain.View
		bounds domain.DateRange
		want   domain.DateRange
	}{
		{"overview spans dataset", domain.ViewOverview, bounds, bounds},
		{"ratings spans dataset", domain.ViewRatings, narrow, narrow},
		{"revenue fixed range", domain.ViewRevenue, bounds,
			domain.DateRange{Start: domain.MustParseDate("2024-01-01"), End: domain.MustParseDate("2024-12-30")}},
		{"cancellation clamped to dataset", domain.ViewCancellation, narrow, narrow},
		{"revenue within wider dataset", domain.ViewRevenue, wide,
			domain.DateRange{Start: domain.MustParseDate("2024-01-01"), End: domain.MustParseDate("2024-12-30")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultRange(tt.view, tt.bounds))
		})
	}
}

func TestResolve_ExplicitDatesAreKept(t *testing.T) {
	bounds := domain.DateRange{Start: domain.MustParseDate("2024-01-01"), End: domain.MustParseDate("2024-02-01")}

	f, err := Resolve(domain.ViewRevenue, domain.Filters{Start: domain.MustParseDate("2023-01-01")}, bounds)
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01", f.Start.String(), "explicit dates are not clamped")
	assert.Equal(t, "2024-02-01", f.End.String(), "unset end falls back to the clamped default")
}

func TestDescriptors(t *testing.T) {
	bounds := domain.DateRange{Start: domain.MustParseDate("2024-01-01"), End: domain.MustParseDate("2024-12-31")}
	descs := Descriptors(bounds)

	require.Len(t, descs, 5)
	assert.Equal(t, domain.ViewOverview, descs[0].View)
	assert.True(t, descs[0].AcceptsCategorical)
	for _, d := range descs[1:] {
		assert.False(t, d.AcceptsCategorical, string(d.View))
		assert.NotEmpty(t, d.Title)
	}
}

func TestRender_Charts(t *testing.T) {
	ds := datasetOf(t, testutil.SampleRows()...)

	tests := []struct {
		view      domain.View
		wantCards int
		wantIDs   []string
	}{
		{domain.ViewOverview, 6, []string{"bookings_by_hour", "bookings_by_weekday", "daily_trend"}},
		{domain.ViewRevenue, 4, []string{"daily_revenue", "monthly_revenue", "revenue_by_vehicle", "revenue_by_payment", "booking_value_histogram"}},
		{domain.ViewCancellation, 5, []string{"customer_cancel_reasons", "driver_cancel_reasons", "cancellations_over_time", "cancellations_by_hour", "revenue_lost_by_vehicle"}},
		{domain.ViewRatings, 3, []string{"rating_distribution", "daily_rating_trend", "vehicle_rating_rank", "rating_vs_value"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			vm := render(t, ds, tt.view, domain.Filters{})
			assert.Len(t, vm.Cards, tt.wantCards)

			var ids []string
			for _, c := range vm.Charts {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestRender_CancellationDonutsOnlyWhenPresent(t *testing.T) {
	ds := datasetOf(t,
		testutil.CompletedRide("B1", "2024-03-01", "08:00:00", "Auto", 100),
		testutil.CancelledRide("B2", "2024-03-01", "09:00:00", "Auto", domain.StatusCancelledByCustomer, "Wrong Address", 20),
	)

	vm := render(t, ds, domain.ViewCancellation, domain.Filters{})
	for _, c := range vm.Charts {
		assert.NotEqual(t, "driver_cancel_reasons", c.ID)
	}
	assert.Equal(t, "customer_cancel_reasons", vm.Charts[0].ID)
}

func TestSubset_Where(t *testing.T) {
	ds := datasetOf(t, testutil.SampleRows()...)
	all := ds.Select(Criteria{Start: ds.Table().Bounds().Start, End: ds.Table().Bounds().End})
	require.Equal(t, 6, all.Len())

	cancelled := all.Where(func(b domain.Booking) bool { return b.IsCancelled() })
	assert.Equal(t, 2, cancelled.Len())

	var ids []string
	cancelled.Each(func(b domain.Booking) { ids = append(ids, b.BookingID) })
	assert.Equal(t, []string{"CNR3", "CNR5"}, ids, "encounter order is preserved")
	assert.Equal(t, 6, all.Len(), "projections do not modify their source")
}

func TestDataset_EmptyTable(t *testing.T) {
	ds := NewDataset(bookings.NewTable(nil, "empty", "", testTime))
	for _, view := range domain.Views {
		vm, err := Render(RenderState{View: view}, ds)
		require.NoError(t, err)
		assert.Equal(t, 0, vm.RowCount)
	}
}
