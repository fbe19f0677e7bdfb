package dashboard

import (
	"ridepulse/pkg/contracts/domain"
)

// movingAverageWindow is the trailing window of the daily bookings trend
const movingAverageWindow = 7

// summarizeOverview reduces a subset into the OVERVIEW KPIs and series
func summarizeOverview(s *Subset) domain.OverviewSummary {
	var (
		ids      = distinct{}
		weekend  = distinct{}
		revenue  float64
		distance meanAcc
		value    meanAcc
		hours    [24]distinct
		weekdays = make(map[string]distinct, 7)
		daily    = newGroups[int64, distinct]()
	)

	s.Each(func(b domain.Booking) {
		ids.add(b.BookingID)
		if b.IsWeekend {
			weekend.add(b.BookingID)
		}
		revenue += b.BookingValue
		distance.add(b.RideDistance)
		value.add(b.BookingValue)

		if b.Hour >= 0 && b.Hour < 24 {
			if hours[b.Hour] == nil {
				hours[b.Hour] = distinct{}
			}
			hours[b.Hour].add(b.BookingID)
		}
		if weekdays[b.Weekday] == nil {
			weekdays[b.Weekday] = distinct{}
		}
		weekdays[b.Weekday].add(b.BookingID)

		day := daily.at(dayKey(b.DateOnly))
		if *day == nil {
			*day = distinct{}
		}
		day.add(b.BookingID)
	})

	observedHours := 0
	byHour := make([]domain.HourValue, 24)
	for h := range hours {
		byHour[h] = domain.HourValue{Hour: h, Value: float64(hours[h].count())}
		if hours[h] != nil {
			observedHours++
		}
	}

	byWeekday := make([]domain.LabeledValue, len(domain.WeekdayNames))
	for i, name := range domain.WeekdayNames {
		byWeekday[i] = domain.LabeledValue{Label: name, Value: float64(weekdays[name].count())}
	}

	days := daily.sorted()
	dailyBookings := make([]domain.DatedValue, len(days))
	for i, key := range days {
		dailyBookings[i] = domain.DatedValue{Date: dateOf(key), Value: float64(daily.at(key).count())}
	}

	return domain.OverviewSummary{
		TotalBookings:      ids.count(),
		TotalRevenue:       revenue,
		AvgRideDistance:    distance.mean(),
		AvgBookingValue:    value.mean(),
		AvgHourlyBookings:  float64(ids.count()) / float64(max(observedHours, 1)),
		WeekendSharePct:    percent(float64(weekend.count()), float64(ids.count())),
		BookingsByHour:     byHour,
		BookingsByWeekday:  byWeekday,
		DailyBookings:      dailyBookings,
		DailyMovingAverage: movingAverage(dailyBookings, movingAverageWindow),
	}
}

// movingAverage is the trailing mean over window points. Points with fewer
// than window predecessors are omitted rather than reported as undefined.
func movingAverage(series []domain.DatedValue, window int) []domain.DatedValue {
	out := []domain.DatedValue{}
	var sum float64
	for i, p := range series {
		sum += p.Value
		if i >= window {
			sum -= series[i-window].Value
		}
		if i >= window-1 {
			out = append(out, domain.DatedValue{Date: p.Date, Value: sum / float64(window)})
		}
	}
	return out
}
