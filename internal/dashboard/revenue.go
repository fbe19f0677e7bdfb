package dashboard

import (
	"cmp"
	"slices"

	"ridepulse/pkg/contracts/domain"
)

// topCustomerCount caps the top-customer table
const topCustomerCount = 10

// summarizeRevenue reduces a subset into the REVENUE KPIs and breakdowns.
// Every row contributes its booking value regardless of status.
func summarizeRevenue(s *Subset, start domain.Date) domain.RevenueSummary {
	var (
		ids       = distinct{}
		total     meanAcc
		values    = make([]float64, 0, s.Len())
		daily     = newGroups[int64, float64]()
		monthly   = make(map[string]float64, 12)
		byVehicle = newGroups[string, float64]()
		byPayment = newGroups[string, float64]()
		customers = newGroups[string, float64]()
	)

	s.Each(func(b domain.Booking) {
		ids.add(b.BookingID)
		total.add(b.BookingValue)
		values = append(values, b.BookingValue)
		*daily.at(dayKey(b.DateOnly)) += b.BookingValue
		monthly[b.Month] += b.BookingValue
		sumInto(byVehicle, b.VehicleType, b.BookingValue)
		sumInto(byPayment, b.PaymentMethod, b.BookingValue)
		sumInto(customers, b.CustomerID, b.BookingValue)
	})

	// previous period: rows of this frame dated before start
	var previous float64
	s.Where(func(b domain.Booking) bool { return b.DateOnly.Before(start) }).
		Each(func(b domain.Booking) { previous += b.BookingValue })

	growth := 0.0
	if previous > 0 {
		growth = percent(total.sum-previous, previous)
	}

	dailyRevenue := make([]domain.DatedValue, 0, len(daily.order))
	for _, key := range daily.sorted() {
		dailyRevenue = append(dailyRevenue, domain.DatedValue{Date: dateOf(key), Value: *daily.at(key)})
	}

	monthlyRevenue := make([]domain.LabeledValue, len(domain.MonthNames))
	for i, name := range domain.MonthNames {
		monthlyRevenue[i] = domain.LabeledValue{Label: name, Value: monthly[name]}
	}

	return domain.RevenueSummary{
		TotalRevenue:     total.sum,
		AvgBookingValue:  total.mean(),
		TotalBookings:    ids.count(),
		RevenuePerRide:   ratio(total.sum, float64(ids.count())),
		PreviousRevenue:  previous,
		GrowthPct:        growth,
		DailyRevenue:     dailyRevenue,
		MonthlyRevenue:   monthlyRevenue,
		RevenueByVehicle: sumsByKey(byVehicle),
		RevenueByPayment: sumsByKey(byPayment),
		ValueHistogram:   histogramOf(values),
		TopCustomers:     topCustomers(customers, topCustomerCount),
	}
}

// topCustomers returns the n largest totals, ties kept in first-encounter order
func topCustomers(customers *groups[string, float64], n int) []domain.CustomerTotal {
	out := make([]domain.CustomerTotal, 0, len(customers.order))
	for _, id := range customers.order {
		out = append(out, domain.CustomerTotal{CustomerID: id, Total: *customers.at(id)})
	}
	slices.SortStableFunc(out, func(a, b domain.CustomerTotal) int {
		return cmp.Compare(b.Total, a.Total)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
