package dashboard

import (
	"fmt"
	"strconv"

	"ridepulse/pkg/contracts/domain"
)

// Card units
const (
	unitCurrency = "INR"
	unitKm       = "km"
	unitPercent  = "%"
	unitCount    = "bookings"
	unitStars    = "stars"
)

// ============================================================================
// CHART BUILDERS
// ============================================================================

func chart(id string, typ domain.ChartType, title, xAxis, yAxis string, series ...domain.ChartSeries) domain.ChartSpec {
	return domain.ChartSpec{
		ID:     id,
		Type:   typ,
		Title:  title,
		XAxis:  xAxis,
		YAxis:  yAxis,
		Series: series,
	}
}

func labeledSeries(name string, values []domain.LabeledValue) domain.ChartSeries {
	points := make([]domain.ChartPoint, 0, len(values))
	for _, v := range values {
		points = append(points, domain.ChartPoint{Label: v.Label, Value: v.Value})
	}
	return domain.ChartSeries{Name: name, Points: points}
}

func datedSeries(name string, values []domain.DatedValue) domain.ChartSeries {
	points := make([]domain.ChartPoint, 0, len(values))
	for _, v := range values {
		points = append(points, domain.ChartPoint{Label: v.Date.String(), Value: v.Value})
	}
	return domain.ChartSeries{Name: name, Points: points}
}

func hourSeries(name string, values []domain.HourValue) domain.ChartSeries {
	points := make([]domain.ChartPoint, 0, len(values))
	for _, v := range values {
		points = append(points, domain.ChartPoint{Label: strconv.Itoa(v.Hour), X: float64(v.Hour), Value: v.Value})
	}
	return domain.ChartSeries{Name: name, Points: points}
}

func histogramSeries(name string, bins []domain.HistogramBin) domain.ChartSeries {
	points := make([]domain.ChartPoint, 0, len(bins))
	for _, b := range bins {
		points = append(points, domain.ChartPoint{
			Label: fmt.Sprintf("%s-%s", formatNumber(b.Lower), formatNumber(b.Upper)),
			X:     b.Lower,
			Value: float64(b.Count),
		})
	}
	return domain.ChartSeries{Name: name, Points: points}
}

func reasonSeries(name string, reasons []domain.ReasonCount) domain.ChartSeries {
	points := make([]domain.ChartPoint, 0, len(reasons))
	for _, r := range reasons {
		points = append(points, domain.ChartPoint{Label: r.Reason, Value: float64(r.Count)})
	}
	return domain.ChartSeries{Name: name, Points: points}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ============================================================================
// VIEW PRESENTERS
// ============================================================================

func presentOverview(s domain.OverviewSummary) ([]domain.KPICard, []domain.ChartSpec, []domain.TableSpec) {
	cards := []domain.KPICard{
		{Key: "total_bookings", Title: "Total Bookings", Value: float64(s.TotalBookings), Unit: unitCount},
		{Key: "total_revenue", Title: "Total Revenue", Value: s.TotalRevenue, Unit: unitCurrency},
		{Key: "avg_ride_distance", Title: "Avg Distance", Value: s.AvgRideDistance, Unit: unitKm},
		{Key: "avg_booking_value", Title: "Avg Value", Value: s.AvgBookingValue, Unit: unitCurrency},
		{Key: "weekend_share_pct", Title: "Weekend %", Value: s.WeekendSharePct, Unit: unitPercent},
		{Key: "avg_hourly_bookings", Title: "Avg Hourly Bookings", Value: s.AvgHourlyBookings, Unit: unitCount},
	}

	charts := []domain.ChartSpec{
		chart("bookings_by_hour", domain.ChartBar, "Bookings by Hour", "Hour", "Bookings",
			hourSeries("Bookings", s.BookingsByHour)),
		chart("bookings_by_weekday", domain.ChartBar, "Bookings by Weekday", "Weekday", "Bookings",
			labeledSeries("Bookings", s.BookingsByWeekday)),
		chart("daily_trend", domain.ChartArea, "Daily Trend (7-day Moving Average)", "Date", "Bookings",
			datedSeries("7-day average", s.DailyMovingAverage)),
	}
	return cards, charts, nil
}

func presentVehicles(s domain.VehicleTypeSummary) ([]domain.KPICard, []domain.ChartSpec, []domain.TableSpec) {
	cards := []domain.KPICard{
		{Key: "total_booking_value", Title: "Total Booking Value", Value: s.TotalBookingValue, Unit: unitCurrency},
		{Key: "total_distance", Title: "Total Distance Travelled", Value: s.TotalDistance, Unit: unitKm},
		{Key: "avg_booking_value", Title: "Avg Booking Value", Value: s.AvgBookingValue, Unit: unitCurrency},
		{Key: "avg_distance", Title: "Avg Distance", Value: s.AvgDistance, Unit: unitKm},
	}

	value := domain.ChartSeries{Name: "Booking Value", Points: []domain.ChartPoint{}}
	distance := domain.ChartSeries{Name: "Distance", Points: []domain.ChartPoint{}}
	share := domain.ChartSeries{Name: "Revenue Share", Points: []domain.ChartPoint{}}
	bubble := domain.ChartSeries{Name: "Vehicle Type", Points: []domain.ChartPoint{}}
	table := domain.TableSpec{
		ID:      "vehicle_breakdown",
		Title:   "Vehicle Type Breakdown",
		Columns: []string{"Vehicle Type", "Rides", "Total Booking Value", "Total Distance", "Avg Booking Value", "Avg Distance", "Revenue Share %"},
		Rows:    [][]string{},
	}

	for _, v := range s.Vehicles {
		value.Points = append(value.Points, domain.ChartPoint{Label: v.VehicleType, Value: v.TotalBookingValue})
		distance.Points = append(distance.Points, domain.ChartPoint{Label: v.VehicleType, Value: v.TotalDistance})
		share.Points = append(share.Points, domain.ChartPoint{Label: v.VehicleType, Value: v.TotalBookingValue})
		bubble.Points = append(bubble.Points, domain.ChartPoint{
			Label: v.VehicleType,
			X:     v.TotalBookingValue,
			Value: v.TotalDistance,
			Size:  v.AvgDistance,
		})
		table.Rows = append(table.Rows, []string{
			v.VehicleType,
			strconv.Itoa(v.Rides),
			formatNumber(v.TotalBookingValue),
			formatNumber(v.TotalDistance),
			formatNumber(v.AvgBookingValue),
			formatNumber(v.AvgDistance),
			formatNumber(v.RevenueSharePct),
		})
	}

	charts := []domain.ChartSpec{
		chart("value_distance_by_vehicle", domain.ChartGroupedBar, "Booking Value & Distance by Vehicle", "Vehicle Type", "Total", value, distance),
		chart("revenue_share", domain.ChartDonut, "Revenue Share by Vehicle", "", "", share),
		chart("revenue_vs_distance", domain.ChartBubble, "Revenue vs. Distance (Bubble size indicates Avg. Distance)", "Total Booking Value", "Total Distance", bubble),
	}
	return cards, charts, []domain.TableSpec{table}
}

func presentRevenue(s domain.RevenueSummary) ([]domain.KPICard, []domain.ChartSpec, []domain.TableSpec) {
	cards := []domain.KPICard{
		{Key: "total_revenue", Title: "Total Revenue", Value: s.TotalRevenue, Unit: unitCurrency},
		{Key: "avg_booking_value", Title: "Avg Booking Value", Value: s.AvgBookingValue, Unit: unitCurrency},
		{Key: "revenue_per_ride", Title: "Revenue per Ride", Value: s.RevenuePerRide, Unit: unitCurrency},
		{Key: "growth_pct", Title: "Revenue Growth %", Value: s.GrowthPct, Unit: unitPercent},
	}

	charts := []domain.ChartSpec{
		chart("daily_revenue", domain.ChartArea, "Daily Revenue Trend", "Date", "Revenue",
			datedSeries("Revenue", s.DailyRevenue)),
		chart("monthly_revenue", domain.ChartBar, "Monthly Revenue Trend", "Month", "Revenue",
			labeledSeries("Revenue", s.MonthlyRevenue)),
		chart("revenue_by_vehicle", domain.ChartBar, "Revenue by Vehicle Type", "Vehicle Type", "Revenue",
			labeledSeries("Revenue", s.RevenueByVehicle)),
		chart("revenue_by_payment", domain.ChartBar, "Revenue by Payment Method", "Payment Method", "Revenue",
			labeledSeries("Revenue", s.RevenueByPayment)),
		chart("booking_value_histogram", domain.ChartHistogram, "Histogram of Booking Values", "Booking Value", "Bookings",
			histogramSeries("Bookings", s.ValueHistogram)),
	}

	table := domain.TableSpec{
		ID:      "top_customers",
		Title:   "Top 10 Customers",
		Columns: []string{"Customer ID", "Total Revenue"},
		Rows:    make([][]string, 0, len(s.TopCustomers)),
	}
	for _, c := range s.TopCustomers {
		table.Rows = append(table.Rows, []string{c.CustomerID, formatNumber(c.Total)})
	}
	return cards, charts, []domain.TableSpec{table}
}

func presentCancellations(s domain.CancellationSummary) ([]domain.KPICard, []domain.ChartSpec, []domain.TableSpec) {
	cards := []domain.KPICard{
		{Key: "total_bookings", Title: "Total Bookings", Value: float64(s.Total), Unit: unitCount},
		{Key: "completed", Title: "Completed", Value: float64(s.Completed), Unit: unitCount},
		{Key: "cancelled", Title: "Cancelled", Value: float64(s.Cancelled), Unit: unitCount},
		{Key: "cancellation_rate_pct", Title: "Cancel Rate", Value: s.CancellationRatePct, Unit: unitPercent},
		{Key: "revenue_lost", Title: "Revenue Lost", Value: s.RevenueLost, Unit: unitCurrency},
	}

	var charts []domain.ChartSpec
	if len(s.CustomerReasons) > 0 {
		charts = append(charts, chart("customer_cancel_reasons", domain.ChartDonut, "Customer Cancellation Reasons", "", "",
			reasonSeries("Cancellations", s.CustomerReasons)))
	}
	if len(s.DriverReasons) > 0 {
		charts = append(charts, chart("driver_cancel_reasons", domain.ChartDonut, "Driver Cancellation Reasons", "", "",
			reasonSeries("Cancellations", s.DriverReasons)))
	}
	charts = append(charts,
		chart("cancellations_over_time", domain.ChartArea, "Cancellations Over Time", "Date", "Cancellations",
			datedSeries("Cancellations", s.CancellationsByDate)),
		chart("cancellations_by_hour", domain.ChartBar, "Cancellations by Hour", "Hour", "Cancellations",
			hourSeries("Cancellations", s.CancellationsByHour)),
		chart("revenue_lost_by_vehicle", domain.ChartBar, "Revenue Loss by Vehicle Type", "Vehicle Type", "Revenue Lost",
			labeledSeries("Revenue Lost", s.RevenueLostByVehicle)),
	)
	return cards, charts, nil
}

func presentRatings(s domain.RatingsSummary) ([]domain.KPICard, []domain.ChartSpec, []domain.TableSpec) {
	cards := []domain.KPICard{
		{Key: "avg_customer_rating", Title: "Overall Customer Rating", Value: s.AvgCustomerRating, Unit: unitStars},
		{Key: "avg_driver_rating", Title: "Overall Driver Rating", Value: s.AvgDriverRating, Unit: unitStars},
		{Key: "rating_gap", Title: "Rating Difference", Value: s.RatingGap},
	}

	customerTrend := domain.ChartSeries{Name: "Customer Rating", Points: []domain.ChartPoint{}}
	driverTrend := domain.ChartSeries{Name: "Driver Rating", Points: []domain.ChartPoint{}}
	for _, d := range s.DailyRatings {
		customerTrend.Points = append(customerTrend.Points, domain.ChartPoint{Label: d.Date.String(), Value: d.CustomerRating})
		driverTrend.Points = append(driverTrend.Points, domain.ChartPoint{Label: d.Date.String(), Value: d.DriverRating})
	}

	top := domain.ChartSeries{Name: domain.PerformanceTop, Points: []domain.ChartPoint{}}
	bottom := domain.ChartSeries{Name: domain.PerformanceBottom, Points: []domain.ChartPoint{}}
	for _, v := range s.VehicleRanking {
		point := domain.ChartPoint{Label: v.VehicleType, Value: v.Rating}
		if v.Performance == domain.PerformanceTop {
			top.Points = append(top.Points, point)
		} else {
			bottom.Points = append(bottom.Points, point)
		}
	}

	scatter := domain.ChartSeries{Name: "Bookings", Points: make([]domain.ChartPoint, 0, len(s.BookingScatter))}
	for _, p := range s.BookingScatter {
		scatter.Points = append(scatter.Points, domain.ChartPoint{Label: p.BookingID, X: p.AvgBookingValue, Value: p.AvgRating})
	}

	charts := []domain.ChartSpec{
		chart("rating_distribution", domain.ChartOverlayHistogram, "Distribution of Ratings", "Rating", "Bookings",
			histogramSeries("Customer Rating", s.Distribution.Customer),
			histogramSeries("Driver Rating", s.Distribution.Driver)),
		chart("daily_rating_trend", domain.ChartLine, "Average Daily Rating Trend", "Date", "Rating",
			customerTrend, driverTrend),
		chart("vehicle_rating_rank", domain.ChartBar, "Top/Bottom 5 Vehicle Types by Customer Rating", "Vehicle Type", "Customer Rating",
			top, bottom),
		chart("rating_vs_value", domain.ChartScatter, "Customer Rating vs. Booking Value", "Booking Value", "Customer Rating",
			scatter),
	}
	return cards, charts, nil
}
